package ddl

import (
	"strconv"
	"strings"

	"github.com/joshuapare/sstreader/pkg/schema"
	"github.com/joshuapare/sstreader/pkg/types"
)

// parser is a recursive-descent parser over one statement's token stream,
// the same structure spec.md §4.9 names explicitly ("A recursive-descent
// parser consumes a CQL statement stream and emits an AST").
type parser struct {
	stmt string
	toks []token
	pos  int
}

// Parse parses a single CQL statement (no trailing statements; split a
// multi-statement script on ';' before calling this, except inside BATCH
// which consumes its own member statements).
func Parse(stmt string) (Statement, error) {
	lx := newLexer(stmt)
	toks, err := lx.tokens()
	if err != nil {
		return nil, err
	}
	p := &parser{stmt: stmt, toks: toks}
	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	p.skipSemicolons()
	if !p.atEOF() {
		return nil, p.errorf("unexpected trailing input after statement")
	}
	return s, nil
}

func (p *parser) parseStatement() (Statement, error) {
	switch {
	case p.cur().is("select"):
		return p.parseSelect()
	case p.cur().is("insert"):
		return p.parseInsert()
	case p.cur().is("update"):
		return p.parseUpdate()
	case p.cur().is("delete"):
		return p.parseDelete()
	case p.cur().is("use"):
		return p.parseUse()
	case p.cur().is("truncate"):
		return p.parseTruncate()
	case p.cur().is("batch") || (p.cur().is("begin") && p.peekIs(1, "batch")):
		return p.parseBatch()
	case p.cur().is("create"):
		return p.parseCreate()
	case p.cur().is("drop"):
		return p.parseDrop()
	case p.cur().is("alter"):
		return p.parseAlterTable()
	default:
		return nil, p.errorf("unrecognized statement")
	}
}

// --- CREATE TABLE --------------------------------------------------------

func (p *parser) parseCreate() (Statement, error) {
	p.advance() // CREATE
	switch {
	case p.cur().is("table"):
		return p.parseCreateTable()
	case p.cur().is("index"):
		return p.parseCreateIndex()
	case p.cur().is("type"):
		return p.parseCreateType()
	default:
		return nil, p.errorf("expected TABLE, INDEX, or TYPE after CREATE")
	}
}

func (p *parser) parseCreateTable() (Statement, error) {
	p.advance() // TABLE
	ifNotExists, err := p.consumeIfNotExists()
	if err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	stmt := &CreateTableStmt{Keyspace: ks, Table: table, IfNotExists: ifNotExists}
	var inlinePK *PrimaryKeyClause

	for {
		if p.cur().is("primary") {
			pk, err := p.parsePrimaryKeyClause()
			if err != nil {
				return nil, err
			}
			inlinePK = pk
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
			if col.PrimaryKeyAlone {
				inlinePK = &PrimaryKeyClause{PartitionKeys: []string{col.Name}}
			}
		}
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}

	if inlinePK == nil {
		return nil, types.NewError(types.ErrKindParse, "CREATE TABLE %s.%s: missing PRIMARY KEY clause", ks, table)
	}
	stmt.PartitionKeys = inlinePK.PartitionKeys
	for _, name := range inlinePK.ClusteringKeys {
		stmt.ClusteringKeys = append(stmt.ClusteringKeys, schema.ClusteringKey{Name: name, Order: schema.OrderAsc})
	}

	if p.cur().is("with") {
		p.advance()
		if err := p.parseClusteringOrderBy(stmt); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.parseIdentText()
	if err != nil {
		return ColumnDef{}, err
	}
	typ, err := p.parseType()
	if err != nil {
		return ColumnDef{}, err
	}
	col := ColumnDef{Name: name, Type: typ}
	if p.cur().is("static") {
		p.advance()
		col.Static = true
	}
	if p.cur().is("primary") {
		p.advance()
		if err := p.expectKeyword("key"); err != nil {
			return ColumnDef{}, err
		}
		col.PrimaryKeyAlone = true
	}
	return col, nil
}

// parsePrimaryKeyClause parses the three forms spec.md §4.9 names:
// PRIMARY KEY ((a, b), c, d), PRIMARY KEY (a, b, c), and a bare single
// column (handled by the column-level clause in parseColumnDef).
func (p *parser) parsePrimaryKeyClause() (*PrimaryKeyClause, error) {
	p.advance() // PRIMARY
	if err := p.expectKeyword("key"); err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}

	pk := &PrimaryKeyClause{}
	if p.cur().kind == tokLParen {
		p.advance()
		for {
			name, err := p.parseIdentText()
			if err != nil {
				return nil, err
			}
			pk.PartitionKeys = append(pk.PartitionKeys, name)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	} else {
		// PRIMARY KEY (a, b, c) with no nested parens: the first column is
		// the partition key, the rest are clustering keys (spec.md §4.9).
		name, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		pk.PartitionKeys = append(pk.PartitionKeys, name)
	}

	for p.cur().kind == tokComma {
		p.advance()
		name, err := p.parseIdentText()
		if err != nil {
			return nil, err
		}
		pk.ClusteringKeys = append(pk.ClusteringKeys, name)
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return pk, nil
}

func (p *parser) parseClusteringOrderBy(stmt *CreateTableStmt) error {
	if err := p.expectKeyword("clustering"); err != nil {
		return err
	}
	if err := p.expectKeyword("order"); err != nil {
		return err
	}
	if err := p.expectKeyword("by"); err != nil {
		return err
	}
	if err := p.expect(tokLParen); err != nil {
		return err
	}
	order := map[string]schema.ClusteringOrder{}
	for {
		name, err := p.parseIdentText()
		if err != nil {
			return err
		}
		dir := schema.OrderAsc
		switch {
		case p.cur().is("asc"):
			p.advance()
		case p.cur().is("desc"):
			dir = schema.OrderDesc
			p.advance()
		}
		order[name] = dir
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen); err != nil {
		return err
	}
	for i, ck := range stmt.ClusteringKeys {
		if dir, ok := order[ck.Name]; ok {
			stmt.ClusteringKeys[i].Order = dir
		}
	}
	return nil
}

// parseType parses a CQL type expression into a schema.CQLType. An
// unrecognized bare identifier is treated as a reference to a
// user-defined type; Validator resolves it against a UDT registry.
func (p *parser) parseType() (schema.CQLType, error) {
	if p.cur().is("frozen") {
		p.advance()
		if err := p.expect(tokLAngle); err != nil {
			return schema.CQLType{}, err
		}
		inner, err := p.parseType()
		if err != nil {
			return schema.CQLType{}, err
		}
		if err := p.expect(tokRAngle); err != nil {
			return schema.CQLType{}, err
		}
		t, err := schema.NewFrozen(inner)
		if err != nil {
			return schema.CQLType{}, types.NewError(types.ErrKindParse, "%v", err)
		}
		return t, nil
	}
	if p.cur().is("list") {
		p.advance()
		if err := p.expect(tokLAngle); err != nil {
			return schema.CQLType{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return schema.CQLType{}, err
		}
		if err := p.expect(tokRAngle); err != nil {
			return schema.CQLType{}, err
		}
		return schema.NewList(elem), nil
	}
	if p.cur().is("set") {
		p.advance()
		if err := p.expect(tokLAngle); err != nil {
			return schema.CQLType{}, err
		}
		elem, err := p.parseType()
		if err != nil {
			return schema.CQLType{}, err
		}
		if err := p.expect(tokRAngle); err != nil {
			return schema.CQLType{}, err
		}
		return schema.NewSet(elem), nil
	}
	if p.cur().is("map") {
		p.advance()
		if err := p.expect(tokLAngle); err != nil {
			return schema.CQLType{}, err
		}
		key, err := p.parseType()
		if err != nil {
			return schema.CQLType{}, err
		}
		if err := p.expect(tokComma); err != nil {
			return schema.CQLType{}, err
		}
		val, err := p.parseType()
		if err != nil {
			return schema.CQLType{}, err
		}
		if err := p.expect(tokRAngle); err != nil {
			return schema.CQLType{}, err
		}
		return schema.NewMap(key, val), nil
	}
	if p.cur().is("tuple") {
		p.advance()
		if err := p.expect(tokLAngle); err != nil {
			return schema.CQLType{}, err
		}
		var fields []schema.CQLType
		for {
			f, err := p.parseType()
			if err != nil {
				return schema.CQLType{}, err
			}
			fields = append(fields, f)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if err := p.expect(tokRAngle); err != nil {
			return schema.CQLType{}, err
		}
		return schema.NewTuple(fields...), nil
	}

	name, err := p.parseIdentText()
	if err != nil {
		return schema.CQLType{}, err
	}
	if prim, ok := schema.LookupPrimitive(name); ok {
		return schema.NewPrimitive(prim), nil
	}
	return schema.NewUDT(name), nil
}

// --- DROP / CREATE INDEX / ALTER / CREATE TYPE / DROP TYPE --------------

func (p *parser) parseDrop() (Statement, error) {
	p.advance() // DROP
	switch {
	case p.cur().is("table"):
		p.advance()
		ifExists := p.consumeIfExists()
		ks, table, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		return &DropTableStmt{Keyspace: ks, Table: table, IfExists: ifExists}, nil
	case p.cur().is("type"):
		p.advance()
		ifExists := p.consumeIfExists()
		ks, name, err := p.parseQualifiedName()
		if err != nil {
			return nil, err
		}
		return &DropTypeStmt{Keyspace: ks, Name: name, IfExists: ifExists}, nil
	default:
		return nil, p.errorf("expected TABLE or TYPE after DROP")
	}
}

func (p *parser) parseCreateIndex() (Statement, error) {
	p.advance() // INDEX
	ifNotExists, err := p.consumeIfNotExists()
	if err != nil {
		return nil, err
	}
	name := ""
	if p.cur().kind == tokIdent && !p.cur().is("on") {
		name, err = p.parseIdentText()
		if err != nil {
			return nil, err
		}
	}
	if err := p.expectKeyword("on"); err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	col, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return &CreateIndexStmt{Name: name, Keyspace: ks, Table: table, Column: col, IfNotExists: ifNotExists}, nil
}

func (p *parser) parseAlterTable() (Statement, error) {
	p.advance() // ALTER
	if err := p.expectKeyword("table"); err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	action := p.remainingRawText()
	return &AlterTableStmt{Keyspace: ks, Table: table, Action: action}, nil
}

func (p *parser) parseCreateType() (Statement, error) {
	p.advance() // TYPE
	ifNotExists, err := p.consumeIfNotExists()
	if err != nil {
		return nil, err
	}
	ks, name, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	if err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	stmt := &CreateTypeStmt{Keyspace: ks, Name: name, IfNotExists: ifNotExists}
	for {
		col, err := p.parseColumnDef()
		if err != nil {
			return nil, err
		}
		stmt.Fields = append(stmt.Fields, col)
		if p.cur().kind == tokComma {
			p.advance()
			continue
		}
		break
	}
	if err := p.expect(tokRParen); err != nil {
		return nil, err
	}
	return stmt, nil
}

// --- USE / TRUNCATE / BATCH ----------------------------------------------

func (p *parser) parseUse() (Statement, error) {
	p.advance() // USE
	ks, err := p.parseIdentText()
	if err != nil {
		return nil, err
	}
	return &UseStmt{Keyspace: ks}, nil
}

func (p *parser) parseTruncate() (Statement, error) {
	p.advance() // TRUNCATE
	if p.cur().is("table") {
		p.advance()
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	return &TruncateStmt{Keyspace: ks, Table: table}, nil
}

func (p *parser) parseBatch() (Statement, error) {
	if p.cur().is("begin") {
		p.advance() // BEGIN
	}
	p.advance() // BATCH
	batch := &BatchStmt{}
	for !p.cur().is("apply") && !p.atEOF() {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		batch.Statements = append(batch.Statements, s)
		if p.cur().kind == tokSemicolon {
			p.advance()
		}
	}
	if p.cur().is("apply") {
		p.advance()
		if err := p.expectKeyword("batch"); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

// --- DML (parsed for completeness, never executed) ----------------------

func (p *parser) parseInsert() (Statement, error) {
	p.advance() // INSERT
	if err := p.expectKeyword("into"); err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	stmt := &InsertStmt{Keyspace: ks, Table: table}
	if p.cur().kind == tokLParen {
		p.advance()
		for {
			col, err := p.parseIdentText()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
		if err := p.expect(tokRParen); err != nil {
			return nil, err
		}
	}
	// VALUES(...) and any USING clause are not needed by a read-only
	// core; skip to the statement end.
	p.skipToStatementEnd()
	return stmt, nil
}

func (p *parser) parseUpdate() (Statement, error) {
	p.advance() // UPDATE
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	for !p.cur().is("where") && !p.atEOF() {
		p.advance()
	}
	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	return &UpdateStmt{Keyspace: ks, Table: table, Where: where}, nil
}

func (p *parser) parseDelete() (Statement, error) {
	p.advance() // DELETE
	for !p.cur().is("from") && !p.atEOF() {
		p.advance()
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	return &DeleteStmt{Keyspace: ks, Table: table, Where: where}, nil
}

// --- SELECT ---------------------------------------------------------------

func (p *parser) parseSelect() (Statement, error) {
	p.advance() // SELECT
	stmt := &SelectStmt{}
	if p.cur().kind == tokStar {
		p.advance()
	} else {
		for {
			col, err := p.parseIdentText()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
			if p.cur().kind == tokComma {
				p.advance()
				continue
			}
			break
		}
	}
	if err := p.expectKeyword("from"); err != nil {
		return nil, err
	}
	ks, table, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}
	stmt.Keyspace, stmt.Table = ks, table

	where, err := p.parseOptionalWhere()
	if err != nil {
		return nil, err
	}
	stmt.Where = where

	if p.cur().is("allow") {
		p.advance()
		if err := p.expectKeyword("filtering"); err != nil {
			return nil, err
		}
		stmt.AllowFiltering = true
	}
	if p.cur().is("limit") {
		p.advance()
		n, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		stmt.Limit = n
		stmt.HasLimit = true
	}
	if p.cur().is("allow") {
		p.advance()
		if err := p.expectKeyword("filtering"); err != nil {
			return nil, err
		}
		stmt.AllowFiltering = true
	}
	return stmt, nil
}

func (p *parser) parseOptionalWhere() ([]Predicate, error) {
	if !p.cur().is("where") {
		return nil, nil
	}
	p.advance()
	var preds []Predicate
	for {
		pred, err := p.parsePredicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)
		if p.cur().is("and") {
			p.advance()
			continue
		}
		break
	}
	return preds, nil
}

func (p *parser) parsePredicate() (Predicate, error) {
	col, err := p.parseIdentText()
	if err != nil {
		return Predicate{}, err
	}
	op, err := p.parseCompareOp()
	if err != nil {
		return Predicate{}, err
	}
	val, err := p.parseLiteralText()
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Column: col, Op: op, Value: val}, nil
}

func (p *parser) parseCompareOp() (CompareOp, error) {
	switch p.cur().kind {
	case tokEq:
		p.advance()
		return OpEq, nil
	case tokNe:
		p.advance()
		return OpNe, nil
	case tokLe:
		p.advance()
		return OpLe, nil
	case tokGe:
		p.advance()
		return OpGe, nil
	case tokLAngle:
		p.advance()
		return OpLt, nil
	case tokRAngle:
		p.advance()
		return OpGt, nil
	default:
		return 0, p.errorf("expected comparison operator")
	}
}

func (p *parser) parseLiteralText() (string, error) {
	t := p.cur()
	switch t.kind {
	case tokString, tokNumber:
		p.advance()
		return t.text, nil
	case tokPlaceholder:
		p.advance()
		return "?", nil
	case tokIdent:
		p.advance()
		return t.text, nil
	default:
		return "", p.errorf("expected a literal value")
	}
}

// --- shared helpers ---------------------------------------------------

func (p *parser) cur() token {
	if p.pos >= len(p.toks) {
		return token{kind: tokEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) peekIs(ahead int, kw string) bool {
	i := p.pos + ahead
	if i >= len(p.toks) {
		return false
	}
	return p.toks[i].is(kw)
}

func (p *parser) advance() token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.cur().kind == tokEOF }

func (p *parser) skipSemicolons() {
	for p.cur().kind == tokSemicolon {
		p.advance()
	}
}

func (p *parser) skipToStatementEnd() {
	for !p.atEOF() && p.cur().kind != tokSemicolon {
		p.advance()
	}
}

func (p *parser) expect(k tokenKind) error {
	if p.cur().kind != k {
		return p.errorf("unexpected token")
	}
	p.advance()
	return nil
}

func (p *parser) expectKeyword(kw string) error {
	if !p.cur().is(kw) {
		return p.errorf("expected keyword %q", kw)
	}
	p.advance()
	return nil
}

// parseIdentText returns an identifier's resolved text, rejecting a
// reserved word used unquoted (spec.md §4.9: "Reserved words used as
// identifiers must be quoted; unquoted use is a parse error").
func (p *parser) parseIdentText() (string, error) {
	t := p.cur()
	if t.kind != tokIdent {
		return "", p.errorf("expected identifier")
	}
	if !t.quoted && isReserved(t.text) {
		return "", p.errorf("reserved word %q used as identifier must be quoted", t.text)
	}
	p.advance()
	return t.text, nil
}

func (p *parser) parseQualifiedName() (keyspace, name string, err error) {
	first, err := p.parseIdentText()
	if err != nil {
		return "", "", err
	}
	if p.cur().kind == tokDot {
		p.advance()
		second, err := p.parseIdentText()
		if err != nil {
			return "", "", err
		}
		return first, second, nil
	}
	return "", first, nil
}

func (p *parser) parseNumber() (int, error) {
	t := p.cur()
	if t.kind != tokNumber {
		return 0, p.errorf("expected a number")
	}
	p.advance()
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, types.NewError(types.ErrKindParse, "invalid number %q", t.text)
	}
	return n, nil
}

func (p *parser) consumeIfNotExists() (bool, error) {
	if !p.cur().is("if") {
		return false, nil
	}
	p.advance()
	if err := p.expectKeyword("not"); err != nil {
		return false, err
	}
	if err := p.expectKeyword("exists"); err != nil {
		return false, err
	}
	return true, nil
}

func (p *parser) consumeIfExists() bool {
	if !p.cur().is("if") {
		return false
	}
	p.advance()
	_ = p.expectKeyword("exists")
	return true
}

// remainingRawText concatenates every remaining token's source text,
// used for statement forms this reader does not need to fully structure
// (ALTER TABLE's action clause).
func (p *parser) remainingRawText() string {
	start := p.pos
	var end int
	for !p.atEOF() && p.cur().kind != tokSemicolon {
		p.advance()
	}
	end = p.pos
	if start >= end {
		return ""
	}
	src := []rune(p.stmt)
	return strings.TrimSpace(string(src[p.toks[start].pos:p.toks[end].pos]))
}

func (p *parser) errorf(format string, args ...any) error {
	return parseErrorAt(p.stmt, p.cur().pos, format, args...)
}
