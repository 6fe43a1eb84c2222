package pdf

import (
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

var (
	codespaceSectionRe = regexp.MustCompile(`(?s)begincodespacerange(.*?)endcodespacerange`)
	bfcharSectionRe    = regexp.MustCompile(`(?s)beginbfchar(.*?)endbfchar`)
	bfrangeSectionRe   = regexp.MustCompile(`(?s)beginbfrange(.*?)endbfrange`)

	hexRe     = regexp.MustCompile(`<([0-9A-Fa-f\s]*)>`)
	bfcharRe  = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f\s]*)>`)
	bfrangeRe = regexp.MustCompile(`<([0-9A-Fa-f]+)>\s*<([0-9A-Fa-f]+)>\s*(?:<([0-9A-Fa-f\s]*)>|\[([^\]]*)\])`)
	utf16BE   = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
)

const defaultCodeLen = 2

// ToUnicodeCMap maps the character codes shown with a font to Unicode
// text, as read from the font's ToUnicode stream
type ToUnicodeCMap struct {
	// codeLen is the byte length of one character code
	codeLen int
	chars   map[uint32]string
	ranges  []cmapRange
}

// cmapRange maps lo..hi either to consecutive runes starting at dst,
// or element by element to array
type cmapRange struct {
	lo, hi uint32
	dst    []rune
	array  []string
}

// ParseToUnicodeCMap parses a ToUnicode CMap stream. Code length comes
// from the first codespace range and defaults to two bytes.
func ParseToUnicodeCMap(data []byte) (*ToUnicodeCMap, error) {
	content := string(data)
	cmap := &ToUnicodeCMap{codeLen: defaultCodeLen, chars: map[uint32]string{}}

	if m := codespaceSectionRe.FindStringSubmatch(content); m != nil {
		if lo := hexRe.FindStringSubmatch(m[1]); lo != nil {
			if b, err := decodeHex(lo[1]); err == nil && len(b) > 0 && len(b) <= 4 {
				cmap.codeLen = len(b)
			}
		}
	}

	for _, section := range bfcharSectionRe.FindAllStringSubmatch(content, -1) {
		for _, m := range bfcharRe.FindAllStringSubmatch(section[1], -1) {
			code, err := parseCode(m[1])
			if err != nil {
				return nil, err
			}
			dst, err := decodeUTF16(m[2])
			if err != nil {
				return nil, err
			}
			cmap.chars[code] = dst
		}
	}

	for _, section := range bfrangeSectionRe.FindAllStringSubmatch(content, -1) {
		for _, m := range bfrangeRe.FindAllStringSubmatch(section[1], -1) {
			r, err := parseRange(m)
			if err != nil {
				return nil, err
			}
			cmap.ranges = append(cmap.ranges, r)
		}
	}

	if cmap.Len() == 0 {
		return nil, errors.New("cmap has no mappings")
	}
	return cmap, nil
}

func parseRange(m []string) (cmapRange, error) {
	lo, err := parseCode(m[1])
	if err != nil {
		return cmapRange{}, err
	}
	hi, err := parseCode(m[2])
	if err != nil {
		return cmapRange{}, err
	}
	if hi < lo {
		return cmapRange{}, errors.Errorf("bfrange <%s> <%s> is reversed", m[1], m[2])
	}

	r := cmapRange{lo: lo, hi: hi}
	if strings.HasSuffix(m[0], "]") {
		for _, item := range hexRe.FindAllStringSubmatch(m[4], -1) {
			s, err := decodeUTF16(item[1])
			if err != nil {
				return cmapRange{}, err
			}
			r.array = append(r.array, s)
		}
		return r, nil
	}

	dst, err := decodeUTF16(m[3])
	if err != nil {
		return cmapRange{}, err
	}
	r.dst = []rune(dst)
	return r, nil
}

// CodeLength returns the byte length of one character code
func (c *ToUnicodeCMap) CodeLength() int {
	return c.codeLen
}

// Len returns the number of mapped codes
func (c *ToUnicodeCMap) Len() int {
	n := len(c.chars)
	for _, r := range c.ranges {
		if r.array != nil {
			n += len(r.array)
		} else {
			n += int(r.hi-r.lo) + 1
		}
	}
	return n
}

// Lookup maps a single character code
func (c *ToUnicodeCMap) Lookup(code uint32) (string, bool) {
	if s, ok := c.chars[code]; ok {
		return s, true
	}
	for _, r := range c.ranges {
		if code < r.lo || code > r.hi {
			continue
		}
		offset := code - r.lo
		if r.array != nil {
			if int(offset) < len(r.array) {
				return r.array[offset], true
			}
			return "", false
		}
		if len(r.dst) == 0 {
			return "", false
		}
		// the last rune of the destination is incremented across the range
		out := append([]rune{}, r.dst...)
		out[len(out)-1] += rune(offset)
		return string(out), true
	}
	return "", false
}

// Decode maps shown bytes to text. Unmapped codes become U+FFFD and a
// trailing partial code is mapped byte by byte.
func (c *ToUnicodeCMap) Decode(data []byte) string {
	var sb strings.Builder
	for i := 0; i < len(data); {
		n := c.codeLen
		if i+n > len(data) {
			n = 1
		}
		var code uint32
		for _, b := range data[i : i+n] {
			code = code<<8 | uint32(b)
		}
		if s, ok := c.Lookup(code); ok {
			sb.WriteString(s)
		} else {
			sb.WriteRune('\uFFFD')
		}
		i += n
	}
	return sb.String()
}

func (c *ToUnicodeCMap) String() string {
	return fmt.Sprintf("ToUnicodeCMap{codeLen: %d, chars: %d, ranges: %d}", c.codeLen, len(c.chars), len(c.ranges))
}

// FontCMaps holds the ToUnicode maps of a page's fonts by resource name
type FontCMaps map[string]*ToUnicodeCMap

// Decode maps bytes shown with font. It returns false when the font
// has no ToUnicode map.
func (f FontCMaps) Decode(font string, data []byte) (string, bool) {
	cmap, ok := f[font]
	if !ok || cmap == nil {
		return "", false
	}
	return cmap.Decode(data), true
}

func parseCode(s string) (uint32, error) {
	b, err := decodeHex(s)
	if err != nil {
		return 0, err
	}
	if len(b) == 0 || len(b) > 4 {
		return 0, errors.Errorf("invalid character code <%s>", s)
	}
	var code uint32
	for _, x := range b {
		code = code<<8 | uint32(x)
	}
	return code, nil
}

func decodeUTF16(s string) (string, error) {
	b, err := decodeHex(s)
	if err != nil {
		return "", err
	}
	// hand-written maps sometimes end a destination with a lone byte
	var tail []byte
	if len(b)%2 == 1 {
		b, tail = b[:len(b)-1], b[len(b)-1:]
	}
	out, err := utf16BE.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "invalid destination <%s>", s)
	}
	for _, c := range tail {
		out = append(out, string(rune(c))...)
	}
	return string(out), nil
}

// decodeHex decodes hex digits, ignoring whitespace. An odd final digit
// is padded with zero.
func decodeHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	if len(s)%2 == 1 {
		s += "0"
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex <%s>", s)
	}
	return b, nil
}
