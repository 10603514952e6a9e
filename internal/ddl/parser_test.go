package ddl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/schema"
)

func TestParseCreateTableCompositePrimaryKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid, ts timestamp, v text, PRIMARY KEY ((id), ts)) WITH CLUSTERING ORDER BY (ts DESC);`)
	require.NoError(t, err)
	ct, ok := stmt.(*CreateTableStmt)
	require.True(t, ok)
	require.Equal(t, "ks", ct.Keyspace)
	require.Equal(t, "t", ct.Table)
	require.Equal(t, []string{"id"}, ct.PartitionKeys)
	require.Len(t, ct.ClusteringKeys, 1)
	require.Equal(t, "ts", ct.ClusteringKeys[0].Name)
	require.Equal(t, schema.OrderDesc, ct.ClusteringKeys[0].Order)
	require.Len(t, ct.Columns, 3)
}

func TestParseCreateTableFlatPrimaryKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (a int, b int, c int, PRIMARY KEY (a, b, c));`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, []string{"a"}, ct.PartitionKeys)
	require.Len(t, ct.ClusteringKeys, 2)
	require.Equal(t, "b", ct.ClusteringKeys[0].Name)
	require.Equal(t, "c", ct.ClusteringKeys[1].Name)
	require.Equal(t, schema.OrderAsc, ct.ClusteringKeys[0].Order)
}

func TestParseCreateTableColumnLevelPrimaryKey(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid PRIMARY KEY, v text);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, []string{"id"}, ct.PartitionKeys)
	require.Empty(t, ct.ClusteringKeys)
}

func TestParseCreateTableIfNotExists(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE IF NOT EXISTS ks.t (id uuid PRIMARY KEY);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.True(t, ct.IfNotExists)
}

func TestParseCreateTableCollectionAndFrozenTypes(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (
		id uuid PRIMARY KEY,
		tags set<text>,
		attrs map<text, bigint>,
		history frozen<tuple<uuid, timestamp>>
	);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, "set<text>", ct.Columns[1].Type.String())
	require.Equal(t, "map<text, bigint>", ct.Columns[2].Type.String())
	require.Equal(t, "frozen<tuple<uuid, timestamp>>", ct.Columns[3].Type.String())
}

func TestParseCreateTableUDTReference(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid PRIMARY KEY, addr address);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, schema.KindUDT, ct.Columns[1].Type.Kind)
	require.Equal(t, "address", ct.Columns[1].Type.UDTName)
}

func TestParseReservedWordRequiresQuoting(t *testing.T) {
	_, err := Parse(`CREATE TABLE ks.t (select uuid PRIMARY KEY);`)
	require.Error(t, err)

	stmt, err := Parse(`CREATE TABLE ks.t ("select" uuid PRIMARY KEY);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, "select", ct.Columns[0].Name)
}

func TestParseQuotedIdentifierPreservesCase(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t ("MixedCase" uuid PRIMARY KEY);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, "MixedCase", ct.Columns[0].Name)
}

func TestParseUnquotedIdentifierFoldsToLower(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE KS.T (ID uuid PRIMARY KEY);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, "ks", ct.Keyspace)
	require.Equal(t, "t", ct.Table)
	require.Equal(t, "id", ct.Columns[0].Name)
}

func TestParseSelectPointLookup(t *testing.T) {
	stmt, err := Parse(`SELECT v FROM ks.t WHERE id = ? AND ts = 100;`)
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	require.Equal(t, []string{"v"}, sel.Columns)
	require.Len(t, sel.Where, 2)
	require.Equal(t, "id", sel.Where[0].Column)
	require.Equal(t, OpEq, sel.Where[0].Op)
	require.Equal(t, "?", sel.Where[0].Value)
	require.Equal(t, "ts", sel.Where[1].Column)
	require.Equal(t, "100", sel.Where[1].Value)
}

func TestParseSelectStarWithAllowFilteringAndLimit(t *testing.T) {
	stmt, err := Parse(`SELECT * FROM ks.t WHERE v = 'x' ALLOW FILTERING LIMIT 10;`)
	require.NoError(t, err)
	sel := stmt.(*SelectStmt)
	require.Empty(t, sel.Columns)
	require.True(t, sel.AllowFiltering)
	require.True(t, sel.HasLimit)
	require.Equal(t, 10, sel.Limit)
	require.Equal(t, "x", sel.Where[0].Value)
}

func TestParseDropTableIfExists(t *testing.T) {
	stmt, err := Parse(`DROP TABLE IF EXISTS ks.t;`)
	require.NoError(t, err)
	dt := stmt.(*DropTableStmt)
	require.True(t, dt.IfExists)
	require.Equal(t, "t", dt.Table)
}

func TestParseCreateIndex(t *testing.T) {
	stmt, err := Parse(`CREATE INDEX my_idx ON ks.t (v);`)
	require.NoError(t, err)
	ci := stmt.(*CreateIndexStmt)
	require.Equal(t, "my_idx", ci.Name)
	require.Equal(t, "v", ci.Column)
}

func TestParseUseAndTruncate(t *testing.T) {
	stmt, err := Parse(`USE ks;`)
	require.NoError(t, err)
	require.Equal(t, "ks", stmt.(*UseStmt).Keyspace)

	stmt, err = Parse(`TRUNCATE ks.t;`)
	require.NoError(t, err)
	require.Equal(t, "t", stmt.(*TruncateStmt).Table)
}

func TestParseBatchOfDML(t *testing.T) {
	stmt, err := Parse(`BEGIN BATCH INSERT INTO ks.t (a) VALUES (1); DELETE FROM ks.t WHERE a = 1; APPLY BATCH;`)
	require.NoError(t, err)
	b := stmt.(*BatchStmt)
	require.Len(t, b.Statements, 2)
}

func TestParseCreateTypeAndDropType(t *testing.T) {
	stmt, err := Parse(`CREATE TYPE ks.address (street text, city text);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTypeStmt)
	require.Len(t, ct.Fields, 2)

	stmt, err = Parse(`DROP TYPE IF EXISTS ks.address;`)
	require.NoError(t, err)
	require.True(t, stmt.(*DropTypeStmt).IfExists)
}

func TestParseMissingPrimaryKeyIsAnError(t *testing.T) {
	_, err := Parse(`CREATE TABLE ks.t (a int, b int);`)
	require.Error(t, err)
}

func TestParseLineAndBlockComments(t *testing.T) {
	stmt, err := Parse("CREATE TABLE ks.t ( -- a comment\n id uuid PRIMARY KEY /* trailing */ );")
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	require.Equal(t, "id", ct.Columns[0].Name)
}
