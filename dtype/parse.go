package dtype

import (
	"strconv"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

var kindNames = map[string]Kind{
	"u": Uint, "uint": Uint,
	"i": Int, "int": Int,
	"f": Float, "float": Float,
	"bin": Bin,
	"oct": Oct,
	"hex": Hex,
	"bytes": Bytes,
	"bits":  Bits,
	"bool":  Bool,
	"pad":   Pad,
}

var endianNames = map[string]Endianness{
	"be": Big,
	"le": Little,
	"ne": Native,
}

// ParseDtype parses a dtype token per §4.2/§6.2: a Tuple "(d1, d2, ...)", an
// Array "[elem; items]", or a Single "name[_endianness][size]". This is the
// resolution procedure spec §4.2 describes in prose, implemented as a small
// hand-written recursive-descent parser in the style dsnet-compress's
// internal/testutil/bitgen.go and sneller/rules/parse.go use for their own
// compact token grammars.
func ParseDtype(reg *Registry, s string) (Dtype, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, bferr.NewValue("dtype: empty token")
	}
	if strings.HasPrefix(s, "(") {
		return parseTuple(reg, s)
	}
	if strings.HasPrefix(s, "[") {
		return parseArray(reg, s)
	}
	return parseSingle(reg, s)
}

func parseTuple(reg *Registry, s string) (Dtype, error) {
	inner, err := matchBrackets(s, '(', ')')
	if err != nil {
		return nil, err
	}
	tokens, err := splitTopLevel(inner)
	if err != nil {
		return nil, err
	}
	elems := make([]Dtype, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		d, err := ParseDtype(reg, tok)
		if err != nil {
			return nil, err
		}
		elems = append(elems, d)
	}
	return NewTuple(elems)
}

func parseArray(reg *Registry, s string) (Dtype, error) {
	inner, err := matchBrackets(s, '[', ']')
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(inner, ";", 2)
	if len(parts) != 2 {
		return nil, bferr.NewValue("dtype: array token %q missing ';'", s)
	}
	elemDtype, err := ParseDtype(reg, strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, err
	}
	elem, ok := elemDtype.(*Single)
	if !ok {
		return nil, bferr.NewValue("dtype: array element must be a single dtype, got %q", parts[0])
	}
	itemsStr := strings.TrimSpace(parts[1])
	items := -1
	if itemsStr != "" {
		n, err := strconv.Atoi(itemsStr)
		if err != nil {
			return nil, bferr.NewValue("dtype: array item count %q is not an integer", itemsStr)
		}
		items = n
	}
	return NewArray(elem, items)
}

func parseSingle(reg *Registry, s string) (Dtype, error) {
	name, endian, size, err := splitSingleToken(s)
	if err != nil {
		return nil, err
	}
	kind, ok := kindNames[strings.ToLower(name)]
	if !ok {
		return nil, bferr.NewValue("dtype: unknown kind %q", name)
	}
	return NewSingle(reg, kind, size, endian)
}

// splitSingleToken implements §4.2's resolution steps 2-3: split the name
// into kind and optional _endianness suffix, then parse the trailing
// integer as size.
func splitSingleToken(s string) (name string, endian Endianness, size int, err error) {
	// Peel off a trailing run of digits as the size.
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	namePart := s[:i]
	sizePart := s[i:]

	endian = Unspecified
	if idx := strings.LastIndex(namePart, "_"); idx >= 0 {
		if e, ok := endianNames[strings.ToLower(namePart[idx+1:])]; ok {
			endian = e
			namePart = namePart[:idx]
		}
	}
	if namePart == "" {
		return "", Unspecified, 0, bferr.NewValue("dtype: empty kind name in %q", s)
	}
	if sizePart == "" {
		return namePart, endian, 0, nil
	}
	n, convErr := strconv.Atoi(sizePart)
	if convErr != nil {
		return "", Unspecified, 0, bferr.NewValue("dtype: invalid size in %q", s)
	}
	return namePart, endian, n, nil
}

func matchBrackets(s string, open, close byte) (string, error) {
	if len(s) < 2 || s[0] != open || s[len(s)-1] != close {
		return "", bferr.NewValue("dtype: expected %q...%q in %q", string(open), string(close), s)
	}
	return s[1 : len(s)-1], nil
}

// splitTopLevel splits s on commas that are not nested inside (), [].
func splitTopLevel(s string) ([]string, error) {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, bferr.NewValue("dtype: unbalanced brackets in %q", s)
			}
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, bferr.NewValue("dtype: unbalanced brackets in %q", s)
	}
	out = append(out, s[start:])
	return out, nil
}
