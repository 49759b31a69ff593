package pngenc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

// Signature is the 8-byte magic every PNG stream starts with.
var Signature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

type ChunkType [4]byte

func (t ChunkType) String() string { return string(t[:]) }

var (
	TypeIHDR = ChunkType{'I', 'H', 'D', 'R'}
	TypeIDAT = ChunkType{'I', 'D', 'A', 'T'}
	TypeIEND = ChunkType{'I', 'E', 'N', 'D'}
)

type Chunk struct {
	Type ChunkType
	Data []byte
	CRC  uint32
}

// Checksum is the CRC32 (IEEE) over the chunk type followed by its data.
func Checksum(t ChunkType, data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(t[:])
	crc.Write(data)
	return crc.Sum32()
}

var ErrChecksum = errors.New("chunk checksum mismatch")

// writeChunk frames data as length, type, payload, CRC.
func writeChunk(w io.Writer, t ChunkType, data []byte) error {
	if uint64(len(data)) > maxLength {
		return fmt.Errorf("chunk %s too large: %d bytes", t, len(data))
	}

	var header [8]byte
	binary.BigEndian.PutUint32(header[:4], uint32(len(data)))
	copy(header[4:], t[:])
	if err := writeBytes(w, header[:]); err != nil {
		return fmt.Errorf("could not write %s header: %w", t, err)
	}

	if err := writeBytes(w, data); err != nil {
		return fmt.Errorf("could not write %s data: %w", t, err)
	}

	if err := writeBytes(w, binary.BigEndian.AppendUint32(nil, Checksum(t, data))); err != nil {
		return fmt.Errorf("could not write %s checksum: %w", t, err)
	}
	return nil
}

func writeBytes(w io.Writer, b []byte) error {
	n, err := w.Write(b)
	if err != nil {
		return err
	} else if n != len(b) {
		return fmt.Errorf("wrote only %d/%d bytes", n, len(b))
	}

	return nil
}

// ReadChunks parses a PNG stream up to and including IEND, checking the
// signature and the CRC of every chunk.
func ReadChunks(r io.Reader) ([]Chunk, error) {
	var sig [8]byte
	if _, err := io.ReadFull(r, sig[:]); err != nil {
		return nil, fmt.Errorf("could not read signature: %w", err)
	} else if sig != Signature {
		return nil, fmt.Errorf("not a PNG stream: bad signature % x", sig[:])
	}

	var res []Chunk
	for {
		c, err := readChunk(r)
		if err != nil {
			return res, fmt.Errorf("could not read chunk #%d: %w", len(res), err)
		}

		res = append(res, c)
		if c.Type == TypeIEND {
			return res, nil
		}
	}
}

func readChunk(r io.Reader) (Chunk, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Chunk{}, fmt.Errorf("could not read header: %w", err)
	}

	var c Chunk
	n := binary.BigEndian.Uint32(header[:4])
	copy(c.Type[:], header[4:])
	if uint64(n) > maxLength {
		return c, fmt.Errorf("chunk %s length out of range: %d", c.Type, n)
	}

	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, r, int64(n)); err != nil {
		return c, fmt.Errorf("could not read %s data: %w", c.Type, err)
	}
	c.Data = buf.Bytes()

	var sum [4]byte
	if _, err := io.ReadFull(r, sum[:]); err != nil {
		return c, fmt.Errorf("could not read %s checksum: %w", c.Type, err)
	}
	c.CRC = binary.BigEndian.Uint32(sum[:])

	if want := Checksum(c.Type, c.Data); c.CRC != want {
		return c, fmt.Errorf("%s: %w: stored %08x, computed %08x", c.Type, ErrChecksum, c.CRC, want)
	}
	return c, nil
}
