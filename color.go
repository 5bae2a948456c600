package pinboard

import (
	"image/color"
	"strconv"
	"strings"
)

var pinRGBA = map[string]color.RGBA{
	"red":    {0xef, 0x44, 0x44, 0xff},
	"blue":   {0x3b, 0x82, 0xf6, 0xff},
	"yellow": {0xea, 0xb3, 0x08, 0xff},
	"green":  {0x22, 0xc5, 0x5e, 0xff},
	"pink":   {0xec, 0x48, 0x99, 0xff},
	"purple": {0xa8, 0x55, 0xf7, 0xff},
}

// PinColor returns the display color for a pin tag. Unknown tags are red.
func PinColor(tag string) color.RGBA {
	if c, ok := pinRGBA[tag]; ok {
		return c
	}
	return pinRGBA["red"]
}

// ParseHexColor parses "#rgb" or "#rrggbb".
func ParseHexColor(s string) (color.RGBA, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, true
}
