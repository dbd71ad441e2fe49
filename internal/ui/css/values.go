package css

import (
	"strconv"
	"strings"
)

// RGBA is a parsed color.
type RGBA struct {
	R, G, B, A uint8
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA, rgb(r,g,b) and rgba(r,g,b,a) with a in [0,1].
func ParseColor(s string) (RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "#") {
		return parseHex(s[1:])
	}
	if strings.HasPrefix(s, "rgb") {
		return parseFunc(s)
	}
	return RGBA{}, false
}

func parseHex(hex string) (RGBA, bool) {
	for i := 0; i < len(hex); i++ {
		if _, ok := hexNibble(hex[i]); !ok {
			return RGBA{}, false
		}
	}
	n := func(i int) uint8 { v, _ := hexNibble(hex[i]); return v }
	switch len(hex) {
	case 3:
		return RGBA{n(0) * 17, n(1) * 17, n(2) * 17, 255}, true
	case 6:
		return RGBA{n(0)<<4 | n(1), n(2)<<4 | n(3), n(4)<<4 | n(5), 255}, true
	case 8:
		return RGBA{n(0)<<4 | n(1), n(2)<<4 | n(3), n(4)<<4 | n(5), n(6)<<4 | n(7)}, true
	}
	return RGBA{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func parseFunc(s string) (RGBA, bool) {
	open, close := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || close < open {
		return RGBA{}, false
	}
	name := strings.TrimSpace(s[:open])
	parts := strings.Split(s[open+1:close], ",")
	if (name == "rgb" && len(parts) != 3) || (name == "rgba" && len(parts) != 4) || (name != "rgb" && name != "rgba") {
		return RGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return RGBA{}, false
		}
		ch[i] = uint8(v)
	}
	out := RGBA{ch[0], ch[1], ch[2], 255}
	if name == "rgba" {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return RGBA{}, false
		}
		out.A = uint8(a*255 + 0.5)
	}
	return out, true
}

// ParsePx parses a number, with optional "px" suffix. Unitless is treated as pixels.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in [0,100].
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}
