package ddl

// tokenKind classifies one lexical token of a CQL statement.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokLParen
	tokRParen
	tokLAngle
	tokRAngle
	tokComma
	tokDot
	tokSemicolon
	tokStar
	tokEq
	tokNe
	tokLe
	tokGe
	tokPlaceholder // '?' bind marker
)

// token is one lexed unit. Text holds the identifier's resolved spelling:
// folded to lower case if unquoted, preserved verbatim if Quoted (spec.md
// §4.9 "Identifiers: unquoted (folded to lower case) or double-quoted
// (preserved verbatim; case-sensitive; no folding)").
type token struct {
	kind   tokenKind
	text   string
	quoted bool
	pos    int
}

// is reports whether t is an unquoted identifier equal (case-insensitively,
// since text is already folded) to kw. Quoted identifiers never match a
// keyword, matching the reserved-word quoting rule.
func (t token) is(kw string) bool {
	return t.kind == tokIdent && !t.quoted && t.text == kw
}

var reservedWords = map[string]bool{
	"select": true, "insert": true, "update": true, "delete": true,
	"create": true, "drop": true, "alter": true, "table": true,
	"index": true, "type": true, "use": true, "truncate": true,
	"batch": true, "from": true, "where": true, "and": true,
	"primary": true, "key": true, "with": true, "clustering": true,
	"order": true, "by": true, "asc": true, "desc": true,
	"if": true, "not": true, "exists": true, "allow": true,
	"filtering": true, "limit": true, "into": true, "values": true,
	"set": true, "frozen": true, "list": true, "map": true,
	"tuple": true, "static": true, "null": true, "true": true, "false": true,
}

func isReserved(s string) bool { return reservedWords[s] }
