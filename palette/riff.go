package palette

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"io"

	"golang.org/x/image/riff"
)

/*
typedef struct tagLOGPALETTE {
  WORD         palVersion;
  WORD         palNumEntries;
  PALETTEENTRY palPalEntry[1];
} LOGPALETTE;

typedef struct tagPALETTEENTRY {
  BYTE peRed;
  BYTE peGreen;
  BYTE peBlue;
  BYTE peFlags;
} PALETTEENTRY;
*/

const palVersion = 0x0300

var (
	riffType = riff.FourCC{'R', 'I', 'F', 'F'}
	palType  = riff.FourCC{'P', 'A', 'L', ' '}
	dataType = riff.FourCC{'d', 'a', 't', 'a'}
)

// ReadFrom returns one palette per data chunk. PAL entries carry no alpha,
// so every color comes back opaque.
func ReadFrom(r io.Reader) ([]color.Palette, error) {
	formType, rd, err := riff.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not open RIFF stream: %w", err)
	} else if formType != palType {
		return nil, fmt.Errorf("unsupported RIFF content type: %s", string(formType[:]))
	}

	var res []color.Palette
	for {
		id, _, data, err := rd.Next()
		if err == io.EOF {
			return res, nil
		} else if err != nil {
			return res, fmt.Errorf("could not read chunk #%d: %w", len(res), err)
		}

		if id != dataType {
			return res, fmt.Errorf("unsupported chunk type in #%d: %s", len(res), string(id[:]))
		}

		pal, err := readPalette(data, len(res))
		if err != nil {
			return res, err
		}
		res = append(res, pal)
	}
}

func readPalette(r io.Reader, idx int) (color.Palette, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("could not read header of chunk #%d: %w", idx, err)
	}

	if ver := binary.LittleEndian.Uint16(header[:2]); ver != palVersion {
		return nil, fmt.Errorf("unsupported palette version in chunk #%d: %#x", idx, ver)
	}

	count := int(binary.LittleEndian.Uint16(header[2:]))
	res := make(color.Palette, count)
	var entry [4]byte
	for i := range count {
		if _, err := io.ReadFull(r, entry[:]); err != nil {
			return res[:i], fmt.Errorf("could not read color %d/%d from chunk #%d: %w", i, count, idx, err)
		}

		res[i] = color.RGBA{R: entry[0], G: entry[1], B: entry[2], A: 0xFF}
	}

	return res, nil
}

// WriteTo stores pals as a RIFF PAL document with one data chunk each.
func WriteTo(w io.Writer, pals []color.Palette) (int64, error) {
	size := 4
	for _, pal := range pals {
		if len(pal) > 0xFFFF {
			return 0, fmt.Errorf("palette with %d colors does not fit a PAL chunk", len(pal))
		}
		size += 4 + 4 + 4 + len(pal)*4 // chunk id + chunk size + palVersion + palNumEntries + 4 bytes/color
	}

	header := make([]byte, 0, 12)
	header = append(header, riffType[:]...)
	header = binary.LittleEndian.AppendUint32(header, uint32(size))
	header = append(header, palType[:]...)
	if err := writeBytes(w, header); err != nil {
		return 0, fmt.Errorf("could not write RIFF header: %w", err)
	}

	count := int64(len(header))
	for i, pal := range pals {
		n, err := writePalette(w, pal)
		count += n
		if err != nil {
			return count, fmt.Errorf("could not write chunk %d: %w", i, err)
		}
	}

	return count, nil
}

// colorEntry drops alpha without premultiplying, since PAL entries are
// plain RGB.
func colorEntry(c color.Color) []byte {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return []byte{n.R, n.G, n.B, 0x00}
}

func writePalette(w io.Writer, pal color.Palette) (int64, error) {
	buf := make([]byte, 0, 12+len(pal)*4)
	buf = append(buf, dataType[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(4+len(pal)*4))
	buf = binary.LittleEndian.AppendUint16(buf, palVersion)
	buf = binary.LittleEndian.AppendUint16(buf, uint16(len(pal)))
	for _, col := range pal {
		buf = append(buf, colorEntry(col)...)
	}

	if err := writeBytes(w, buf); err != nil {
		return 0, err
	}
	return int64(len(buf)), nil
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
