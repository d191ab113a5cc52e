// Package schema implements the hand-written recursive-descent (de)serializer
// for the textual grammar of §6.2: Field, Format, If, Repeat, While, Let and
// Pass, plus the dtype tokens and literal values nested inside them. Parse
// is the inverse of fieldtype.FieldType.String(), matching the
// schema-text-round-trip property (§8.1.9). Grounded in shape on
// dsnet-compress's internal/testutil/bitgen.go (a hand-rolled tokenizer for
// a compact bit-literal grammar) and sneller's rules/parse.go (a small
// recursive-descent parser over a DSL), generalized here to the richer
// FieldType tree grammar.
package schema

import (
	"strconv"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
	"github.com/scgriffiths/bitformat-go/dtype"
	"github.com/scgriffiths/bitformat-go/expr"
	"github.com/scgriffiths/bitformat-go/fieldtype"
)

type parser struct {
	reg *dtype.Registry
	s   string
	pos int
}

// Format renders f in the single-line canonical textual form each FieldType
// variant defines (§4.4), the dual of Parse. Pretty-print layout (indentation,
// colour) is out of scope per §1; this is the only rendering schema offers.
func Format(f fieldtype.FieldType) string { return f.String() }

// FormatDtype renders d in the §4.2/§6.2 dtype token grammar
// (kind[_endianness][size], [elem; items], (d1, d2, ...)).
func FormatDtype(d dtype.Dtype) string { return d.String() }

// ParseDtype parses a single dtype token in isolation against reg, without
// the surrounding field/format grammar Parse handles.
func ParseDtype(reg *dtype.Registry, s string) (dtype.Dtype, error) {
	return dtype.ParseDtype(reg, s)
}

// Parse parses text as a single FieldType against reg's dtype vocabulary.
func Parse(reg *dtype.Registry, text string) (fieldtype.FieldType, error) {
	p := &parser{reg: reg, s: text}
	node, err := p.parseFieldType()
	if err != nil {
		return nil, bferr.NewParse(err, text, p.pos)
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, bferr.NewParse(bferr.NewValue("unexpected trailing text %q", p.s[p.pos:]), text, p.pos)
	}
	return node, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) peekByte() byte {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) tryReadIdent() (string, bool) {
	save := p.pos
	p.skipSpace()
	start := p.pos
	if p.pos >= len(p.s) || !isIdentStart(p.s[p.pos]) {
		p.pos = save
		return "", false
	}
	p.pos++
	for p.pos < len(p.s) && isIdentCont(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos], true
}

func (p *parser) consumeKeyword(kw string) bool {
	save := p.pos
	p.skipSpace()
	end := p.pos + len(kw)
	if end > len(p.s) || p.s[p.pos:end] != kw {
		p.pos = save
		return false
	}
	if end < len(p.s) && isIdentCont(p.s[end]) {
		p.pos = save
		return false
	}
	p.pos = end
	return true
}

func (p *parser) consumeOp(op string) bool {
	save := p.pos
	p.skipSpace()
	end := p.pos + len(op)
	if end > len(p.s) || p.s[p.pos:end] != op {
		p.pos = save
		return false
	}
	p.pos = end
	return true
}

// readBracketedToken reads a balanced (...)/[...] run starting at the
// current position, tracking both bracket kinds in one depth counter since
// a Tuple token may nest an Array token and vice versa.
func (p *parser) readBracketedToken() (string, error) {
	start := p.pos
	if p.pos >= len(p.s) || (p.s[p.pos] != '(' && p.s[p.pos] != '[') {
		return "", bferr.NewValue("schema: expected '(' or '[' at position %d", p.pos)
	}
	depth := 0
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
		p.pos++
		if depth == 0 {
			return p.s[start:p.pos], nil
		}
	}
	return "", bferr.NewValue("schema: unbalanced brackets starting at %d", start)
}

// readBraceExpr reads a balanced "{...}" run, handed verbatim to
// expr.Compile (which strips the braces itself).
func (p *parser) readBraceExpr() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.s) || p.s[p.pos] != '{' {
		return "", bferr.NewValue("schema: expected '{' at position %d", p.pos)
	}
	start := p.pos
	depth := 0
	for p.pos < len(p.s) {
		switch p.s[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
		}
		p.pos++
		if depth == 0 {
			return p.s[start:p.pos], nil
		}
	}
	return "", bferr.NewValue("schema: unterminated '{' starting at %d", start)
}

func isDtypeStop(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ',', ')', ']', '}', ':', '=':
		return true
	}
	return false
}

func (p *parser) readDtypeToken() (string, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return "", bferr.NewValue("schema: expected a dtype")
	}
	if p.s[p.pos] == '[' || p.s[p.pos] == '(' {
		return p.readBracketedToken()
	}
	start := p.pos
	for p.pos < len(p.s) && !isDtypeStop(p.s[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", bferr.NewValue("schema: expected a dtype at position %d", p.pos)
	}
	return p.s[start:p.pos], nil
}

func (p *parser) readToken() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.s) && !isDtypeStop(p.s[p.pos]) {
		p.pos++
	}
	return p.s[start:p.pos]
}

// parseFieldType dispatches on an optional "name =" / "name:" prefix, then
// on the keyword or punctuation that follows.
func (p *parser) parseFieldType() (fieldtype.FieldType, error) {
	save := p.pos
	if name, ok := p.tryReadIdent(); ok {
		if p.consumeOp("=") {
			return p.parseAssignedBody(name)
		}
		if p.consumeOp(":") {
			return p.parseFieldBody(name)
		}
	}
	p.pos = save
	return p.parseUnnamedBody()
}

func (p *parser) parseAssignedBody(name string) (fieldtype.FieldType, error) {
	switch {
	case p.consumeKeyword("repeat"):
		return p.parseRepeat(name)
	case p.consumeKeyword("while"):
		return p.parseWhile(name)
	case p.peekByte() == '(':
		return p.parseFormatBody(name)
	default:
		return nil, bferr.NewValue("schema: unexpected token after %q =", name)
	}
}

func (p *parser) parseUnnamedBody() (fieldtype.FieldType, error) {
	switch {
	case p.consumeKeyword("if"):
		return p.parseIf()
	case p.consumeKeyword("while"):
		return p.parseWhile("")
	case p.consumeKeyword("repeat"):
		return p.parseRepeat("")
	case p.consumeKeyword("let"):
		return p.parseLet()
	case p.consumeKeyword("pass"):
		return fieldtype.Pass(), nil
	case p.peekByte() == '(':
		return p.parseFormatBody("")
	default:
		return p.parseFieldBody("")
	}
}

func (p *parser) parseFieldBody(name string) (fieldtype.FieldType, error) {
	isConst := p.consumeKeyword("const")
	token, err := p.readDtypeToken()
	if err != nil {
		return nil, err
	}
	dt, err := dtype.ParseDtype(p.reg, token)
	if err != nil {
		return nil, err
	}
	var value interface{}
	if p.consumeOp("=") {
		value, err = p.readValueLiteral(dt)
		if err != nil {
			return nil, err
		}
	}
	return fieldtype.NewField(dt, name, isConst, value)
}

func (p *parser) parseFormatBody(name string) (fieldtype.FieldType, error) {
	if !p.consumeOp("(") {
		return nil, bferr.NewValue("schema: format: expected '('")
	}
	if p.consumeOp(")") {
		return fieldtype.NewFormat(name, nil)
	}
	var children []fieldtype.FieldType
	sawTrailingComma := false
	for {
		child, err := p.parseFieldType()
		if err != nil {
			return nil, err
		}
		children = append(children, child)
		if p.consumeOp(",") {
			sawTrailingComma = true
			if p.peekByte() == ')' {
				break
			}
			sawTrailingComma = false
			continue
		}
		sawTrailingComma = false
		break
	}
	if !sawTrailingComma {
		return nil, bferr.NewValue("schema: format: a trailing comma is required before ')'")
	}
	if !p.consumeOp(")") {
		return nil, bferr.NewValue("schema: format: expected ')'")
	}
	return fieldtype.NewFormat(name, children)
}

func (p *parser) parseIf() (fieldtype.FieldType, error) {
	condText, err := p.readBraceExpr()
	if err != nil {
		return nil, err
	}
	cond, err := expr.Compile(condText)
	if err != nil {
		return nil, err
	}
	if !p.consumeOp(":") {
		return nil, bferr.NewValue("schema: if: expected ':'")
	}
	thenNode, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	var elseNode fieldtype.FieldType
	save := p.pos
	if p.consumeKeyword("else") {
		if !p.consumeOp(":") {
			return nil, bferr.NewValue("schema: if/else: expected ':'")
		}
		elseNode, err = p.parseFieldType()
		if err != nil {
			return nil, err
		}
	} else {
		p.pos = save
	}
	return fieldtype.NewIf("", cond, thenNode, elseNode)
}

func (p *parser) parseWhile(name string) (fieldtype.FieldType, error) {
	condText, err := p.readBraceExpr()
	if err != nil {
		return nil, err
	}
	cond, err := expr.Compile(condText)
	if err != nil {
		return nil, err
	}
	if !p.consumeOp(":") {
		return nil, bferr.NewValue("schema: while: expected ':'")
	}
	body, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	return fieldtype.NewWhile(name, cond, body)
}

func (p *parser) parseRepeat(name string) (fieldtype.FieldType, error) {
	count, err := p.parseCountExpr()
	if err != nil {
		return nil, err
	}
	if !p.consumeOp(":") {
		return nil, bferr.NewValue("schema: repeat: expected ':'")
	}
	body, err := p.parseFieldType()
	if err != nil {
		return nil, err
	}
	return fieldtype.NewRepeat(name, count, body)
}

func (p *parser) parseCountExpr() (*expr.Expression, error) {
	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == '{' {
		text, err := p.readBraceExpr()
		if err != nil {
			return nil, err
		}
		return expr.Compile(text)
	}
	start := p.pos
	for p.pos < len(p.s) && p.s[p.pos] >= '0' && p.s[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return nil, bferr.NewValue("schema: expected a repeat count")
	}
	n, err := strconv.Atoi(p.s[start:p.pos])
	if err != nil {
		return nil, bferr.NewValue("schema: invalid repeat count %q", p.s[start:p.pos])
	}
	return expr.FromInt(int64(n)), nil
}

func (p *parser) parseLet() (fieldtype.FieldType, error) {
	bindName, ok := p.tryReadIdent()
	if !ok {
		return nil, bferr.NewValue("schema: let: expected a name")
	}
	if !p.consumeOp("=") {
		return nil, bferr.NewValue("schema: let: expected '='")
	}
	text, err := p.readBraceExpr()
	if err != nil {
		return nil, err
	}
	e, err := expr.Compile(text)
	if err != nil {
		return nil, err
	}
	return fieldtype.NewLet(bindName, e)
}

func (p *parser) readValueLiteral(dt dtype.Dtype) (interface{}, error) {
	single, ok := dt.(*dtype.Single)
	if !ok {
		return nil, bferr.NewValue("schema: inline '=' literals are only supported for single dtypes")
	}
	tok := p.readToken()
	if tok == "" {
		return nil, bferr.NewValue("schema: expected a value literal")
	}
	switch single.Kind() {
	case dtype.Uint:
		n, err := strconv.ParseUint(tok, 0, 64)
		if err != nil {
			return nil, bferr.NewValue("schema: invalid uint literal %q", tok)
		}
		return n, nil
	case dtype.Int:
		n, err := strconv.ParseInt(tok, 0, 64)
		if err != nil {
			return nil, bferr.NewValue("schema: invalid int literal %q", tok)
		}
		return n, nil
	case dtype.Float:
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, bferr.NewValue("schema: invalid float literal %q", tok)
		}
		return f, nil
	case dtype.Bool:
		switch strings.ToLower(tok) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return nil, bferr.NewValue("schema: invalid bool literal %q", tok)
	case dtype.Hex:
		return stripPrefix(tok, "0x"), nil
	case dtype.Bin:
		return stripPrefix(tok, "0b"), nil
	case dtype.Oct:
		return stripPrefix(tok, "0o"), nil
	case dtype.Bytes:
		b, err := hexToBytes(stripPrefix(tok, "0x"))
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, bferr.NewValue("schema: dtype kind %v does not support inline literals", single.Kind())
	}
}

func stripPrefix(tok, prefix string) string {
	if len(tok) >= len(prefix) && strings.EqualFold(tok[:len(prefix)], prefix) {
		return tok[len(prefix):]
	}
	return tok
}

func hexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, bferr.NewValue("schema: odd-length hex literal %q", s)
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		var v byte
		for j := 0; j < 2; j++ {
			c := s[i*2+j]
			var d byte
			switch {
			case c >= '0' && c <= '9':
				d = c - '0'
			case c >= 'a' && c <= 'f':
				d = c - 'a' + 10
			case c >= 'A' && c <= 'F':
				d = c - 'A' + 10
			default:
				return nil, bferr.NewValue("schema: invalid hex digit %q", string(c))
			}
			v = v<<4 | d
		}
		out[i] = v
	}
	return out, nil
}
