// Package expr implements the sandboxed arithmetic/boolean mini-language
// used by dynamic sizes and conditionals (§4.3). Unlike a host-language
// eval, every node kind is hand-rolled and the parser's grammar is the
// allow-list itself: there is no path from source text to a call,
// attribute access, assignment or comprehension because the parser never
// builds one. This follows SPEC_FULL.md §9 Design Notes ("re-implement as
// a small hand-rolled evaluator... do not reuse the host language's eval"),
// grounded in shape on sneller/expr's AST-node-kind approach to a
// restricted expression language.
package expr

import (
	"strconv"
	"strings"

	"github.com/scgriffiths/bitformat-go/bferr"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokFloat
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
)

type token struct {
	kind tokenKind
	text string
}

var multiCharOps = []string{"**", "//", "==", "!=", "<=", ">=", "<<", ">>"}

type lexer struct {
	src []rune
	pos int
}

func newLexer(s string) *lexer { return &lexer{src: []rune(s)} }

func (l *lexer) peekRune() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			out = append(out, token{kind: tokEOF})
			return out, nil
		}
		r := l.src[l.pos]
		switch {
		case r == '(':
			out = append(out, token{kind: tokLParen, text: "("})
			l.pos++
		case r == ')':
			out = append(out, token{kind: tokRParen, text: ")"})
			l.pos++
		case r == '[':
			out = append(out, token{kind: tokLBracket, text: "["})
			l.pos++
		case r == ']':
			out = append(out, token{kind: tokRBracket, text: "]"})
			l.pos++
		case isDigit(r):
			tok, err := l.lexNumber()
			if err != nil {
				return nil, err
			}
			out = append(out, tok)
		case isIdentStart(r):
			out = append(out, l.lexIdent())
		default:
			tok, ok := l.lexOp()
			if !ok {
				return nil, bferr.NewExpression("unexpected character %q", r)
			}
			out = append(out, tok)
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool { return isIdentStart(r) || isDigit(r) }

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	isFloat := false
	if l.src[l.pos] == '0' && l.pos+1 < len(l.src) && strings.ContainsRune("xXoObB", l.src[l.pos+1]) {
		l.pos += 2
		for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
			l.pos++
		}
		text := string(l.src[start:l.pos])
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return token{}, bferr.NewExpression("invalid integer literal %q", text)
		}
		return token{kind: tokInt, text: strconv.FormatInt(v, 10)}, nil
	}
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	if l.pos < len(l.src) && l.src[l.pos] == '.' && l.pos+1 < len(l.src) && isDigit(l.src[l.pos+1]) {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := string(l.src[start:l.pos])
	if isFloat {
		return token{kind: tokFloat, text: text}, nil
	}
	return token{kind: tokInt, text: text}, nil
}

func (l *lexer) lexIdent() token {
	start := l.pos
	for l.pos < len(l.src) && isIdentCont(l.src[l.pos]) {
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.src[start:l.pos])}
}

func (l *lexer) lexOp() (token, bool) {
	rest := string(l.src[l.pos:])
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len([]rune(op))
			return token{kind: tokOp, text: op}, true
		}
	}
	switch l.src[l.pos] {
	case '+', '-', '*', '/', '%', '&', '|', '^', '<', '>', '~':
		text := string(l.src[l.pos])
		l.pos++
		return token{kind: tokOp, text: text}, true
	}
	return token{}, false
}
