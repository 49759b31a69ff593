package sheet

import (
	"fmt"
	"image/color"
	"strconv"
)

// parseHexToColor accepts #RGB, #RGBA, #RRGGBB and #RRGGBBAA. Short forms
// expand each digit by repetition.
func parseHexToColor(s string) (color.NRGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should start with #", s)
	}

	digits := s[1:]
	var width int
	switch len(digits) {
	case 3, 4:
		width = 1
	case 6, 8:
		width = 2
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q, should be #RGB, #RGBA, #RRGGBB or #RRGGBBAA", s)
	}

	channels := [4]uint8{0, 0, 0, 0xFF}
	for i := 0; i*width < len(digits); i++ {
		v, err := strconv.ParseUint(digits[i*width:(i+1)*width], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("could not read color %q: %w", s, err)
		}
		if width == 1 {
			v |= v << 4
		}
		channels[i] = uint8(v)
	}

	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}
