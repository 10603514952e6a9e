package ddl

import (
	"strings"

	"github.com/joshuapare/sstreader/pkg/types"
)

// lexer turns a single CQL statement into a token stream. It is a plain
// hand-written scanner, the same style the block reader's frame parsing
// uses for a fixed small grammar: no generated tables, just a switch over
// the next rune.
type lexer struct {
	src  []rune
	pos  int
	stmt string
}

func newLexer(stmt string) *lexer {
	return &lexer{src: []rune(stmt), stmt: stmt}
}

func (l *lexer) tokens() ([]token, error) {
	var out []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		if tok.kind == tokEOF {
			return out, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipTrivia()
	start := l.pos
	if l.pos >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.src[l.pos]
	switch {
	case c == '(':
		l.pos++
		return token{kind: tokLParen, pos: start}, nil
	case c == ')':
		l.pos++
		return token{kind: tokRParen, pos: start}, nil
	case c == '<':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokLe, pos: start}, nil
		}
		return token{kind: tokLAngle, pos: start}, nil
	case c == '>':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokGe, pos: start}, nil
		}
		return token{kind: tokRAngle, pos: start}, nil
	case c == ',':
		l.pos++
		return token{kind: tokComma, pos: start}, nil
	case c == '.':
		l.pos++
		return token{kind: tokDot, pos: start}, nil
	case c == ';':
		l.pos++
		return token{kind: tokSemicolon, pos: start}, nil
	case c == '*':
		l.pos++
		return token{kind: tokStar, pos: start}, nil
	case c == '?':
		l.pos++
		return token{kind: tokPlaceholder, pos: start}, nil
	case c == '=':
		l.pos++
		return token{kind: tokEq, pos: start}, nil
	case c == '!':
		l.pos++
		if l.peek() == '=' {
			l.pos++
			return token{kind: tokNe, pos: start}, nil
		}
		return token{}, parseErrorAt(l.stmt, start, "unexpected '!'")
	case c == '"':
		return l.quotedIdent(start)
	case c == '\'':
		return l.stringLiteral(start)
	case isDigit(c):
		return l.number(start), nil
	case isIdentStart(c):
		return l.ident(start), nil
	default:
		return token{}, parseErrorAt(l.stmt, start, "unexpected character %q", c)
	}
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// skipTrivia skips whitespace and both CQL comment forms ("-- line" and
// "/* block */").
func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.pos++
		case c == '-' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '-':
			for l.pos < len(l.src) && l.src[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '*':
			l.pos += 2
			for l.pos+1 < len(l.src) && !(l.src[l.pos] == '*' && l.src[l.pos+1] == '/') {
				l.pos++
			}
			l.pos += 2
			if l.pos > len(l.src) {
				l.pos = len(l.src)
			}
		default:
			return
		}
	}
}

func (l *lexer) quotedIdent(start int) (token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, parseErrorAt(l.stmt, start, "unterminated quoted identifier")
		}
		c := l.src[l.pos]
		if c == '"' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '"' {
				sb.WriteRune('"')
				l.pos += 2
				continue
			}
			l.pos++
			return token{kind: tokIdent, text: sb.String(), quoted: true, pos: start}, nil
		}
		sb.WriteRune(c)
		l.pos++
	}
}

func (l *lexer) stringLiteral(start int) (token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, parseErrorAt(l.stmt, start, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == '\'' {
			if l.pos+1 < len(l.src) && l.src[l.pos+1] == '\'' {
				sb.WriteRune('\'')
				l.pos += 2
				continue
			}
			l.pos++
			return token{kind: tokString, text: sb.String(), pos: start}, nil
		}
		sb.WriteRune(c)
		l.pos++
	}
}

func (l *lexer) number(start int) token {
	for l.pos < len(l.src) && (isDigit(l.src[l.pos]) || l.src[l.pos] == '.' || l.src[l.pos] == '-') {
		l.pos++
	}
	return token{kind: tokNumber, text: string(l.src[start:l.pos]), pos: start}
}

func (l *lexer) ident(start int) token {
	for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
		l.pos++
	}
	raw := string(l.src[start:l.pos])
	return token{kind: tokIdent, text: strings.ToLower(raw), pos: start}
}

func isDigit(c rune) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c rune) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentPart(c rune) bool  { return isIdentStart(c) || isDigit(c) }

func parseErrorAt(stmt string, pos int, format string, args ...any) *types.Error {
	e := types.NewError(types.ErrKindParse, format, args...)
	return e.WithPath("<statement>", int64(pos))
}
