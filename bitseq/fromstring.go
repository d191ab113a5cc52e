package bitseq

import (
	"strconv"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

// FromString implements §6.3's bit-literal syntax: a comma-separated list of
// tokens, each a bare `0x…`/`0b…`/`0o…` literal or a `kind[_endianness][size]
// =value` dtype-assignment token, concatenated in listed order. It is the
// BitSeq-level counterpart of dtype.ParseDtype's token grammar, but kept
// self-contained here (rather than importing the dtype package) since dtype
// itself imports bitseq. Tokenizing follows the same split/peel approach as
// dsnet-compress's internal/testutil/bitgen.go.
func FromString(s string) (BitSeq, error) {
	tokens, err := splitStringTokens(s)
	if err != nil {
		return BitSeq{}, err
	}
	if len(tokens) == 0 {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: empty input")
	}
	parts := make([]BitSeq, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return BitSeq{}, bferr.NewValue("bitseq: from_string: empty token")
		}
		part, err := parseStringToken(tok)
		if err != nil {
			return BitSeq{}, err
		}
		parts = append(parts, part)
	}
	return FromJoined(parts), nil
}

// splitStringTokens splits s on top-level commas; none of §6.3's token forms
// contain a comma themselves, so this is a plain split rather than the
// bracket-aware splitTopLevel the dtype package needs for tuples/arrays.
func splitStringTokens(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, ","), nil
}

func parseStringToken(tok string) (BitSeq, error) {
	lower := strings.ToLower(tok)
	switch {
	case strings.HasPrefix(lower, "0x"):
		return FromHex(tok)
	case strings.HasPrefix(lower, "0b"):
		return FromBin(tok)
	case strings.HasPrefix(lower, "0o"):
		return FromOct(tok)
	}

	eq := strings.IndexByte(tok, '=')
	if eq < 0 {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: token %q is neither a bare literal nor kind=value", tok)
	}
	dtypeTok := strings.TrimSpace(tok[:eq])
	valueTok := strings.TrimSpace(tok[eq+1:])
	return packStringToken(dtypeTok, valueTok)
}

var stringKindNames = map[string]func(value string, size int, e Endianness) (BitSeq, error){
	"u":     packUintToken,
	"uint":  packUintToken,
	"i":     packIntToken,
	"int":   packIntToken,
	"f":     packFloatToken,
	"float": packFloatToken,
	"bool":  packBoolToken,
	"hex":   func(v string, _ int, _ Endianness) (BitSeq, error) { return FromHex(v) },
	"bin":   func(v string, _ int, _ Endianness) (BitSeq, error) { return FromBin(v) },
	"oct":   func(v string, _ int, _ Endianness) (BitSeq, error) { return FromOct(v) },
	"bytes": func(v string, _ int, _ Endianness) (BitSeq, error) { return FromBytes([]byte(v)), nil },
}

var stringEndianNames = map[string]Endianness{
	"be": Big,
	"le": Little,
	"ne": Native,
}

// packStringToken resolves a "kind[_endianness][size]" dtype token against
// value, peeling the trailing digit run as size and then an optional
// "_be"/"_le"/"_ne" suffix of what remains as endianness, mirroring dtype/parse.go's splitSingleToken.
func packStringToken(dtypeTok, value string) (BitSeq, error) {
	i := len(dtypeTok)
	for i > 0 && dtypeTok[i-1] >= '0' && dtypeTok[i-1] <= '9' {
		i--
	}
	namePart := dtypeTok[:i]
	sizePart := dtypeTok[i:]

	endian := Unspecified
	if idx := strings.LastIndex(namePart, "_"); idx >= 0 {
		if e, ok := stringEndianNames[strings.ToLower(namePart[idx+1:])]; ok {
			endian = e
			namePart = namePart[:idx]
		}
	}

	fn, ok := stringKindNames[strings.ToLower(namePart)]
	if !ok {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: unknown kind %q", namePart)
	}
	size := 0
	if sizePart != "" {
		n, err := strconv.Atoi(sizePart)
		if err != nil {
			return BitSeq{}, bferr.NewValue("bitseq: from_string: invalid size in %q", dtypeTok)
		}
		size = n
	}
	return fn(value, size, endian)
}

func packUintToken(value string, size int, e Endianness) (BitSeq, error) {
	if size <= 0 {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: uint token needs an explicit size")
	}
	v, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: invalid uint literal %q", value)
	}
	return PackUint(v, size, e)
}

func packIntToken(value string, size int, e Endianness) (BitSeq, error) {
	if size <= 0 {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: int token needs an explicit size")
	}
	v, err := strconv.ParseInt(value, 0, 64)
	if err != nil {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: invalid int literal %q", value)
	}
	return PackInt(v, size, e)
}

func packFloatToken(value string, size int, e Endianness) (BitSeq, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return BitSeq{}, bferr.NewValue("bitseq: from_string: invalid float literal %q", value)
	}
	switch size {
	case 16:
		return PackFloat16(v, e)
	case 32:
		return PackFloat32(v, e)
	case 64:
		return PackFloat64(v, e)
	default:
		return BitSeq{}, bferr.NewValue("bitseq: from_string: float token needs size 16, 32 or 64, got %d", size)
	}
}

func packBoolToken(value string, _ int, _ Endianness) (BitSeq, error) {
	switch value {
	case "True", "true":
		return PackBool(true), nil
	case "False", "false":
		return PackBool(false), nil
	default:
		return BitSeq{}, bferr.NewValue("bitseq: from_string: invalid bool literal %q", value)
	}
}
