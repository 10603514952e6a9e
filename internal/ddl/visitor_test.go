package ddl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/sstreader/pkg/schema"
)

// TestDDLRoundTrip exercises spec.md §8 scenario 6 verbatim: parsing a
// CREATE TABLE, building its schema, re-rendering to CQL, and
// re-parsing yields an equal schema.
func TestDDLRoundTrip(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid, ts timestamp, v text, PRIMARY KEY ((id), ts)) WITH CLUSTERING ORDER BY (ts DESC);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)

	built := SchemaBuilder{}.Build(ct)
	require.NoError(t, built.Validate())
	require.Equal(t, []string{"id"}, built.PartitionKeys)
	require.Equal(t, []schema.ClusteringKey{{Name: "ts", Order: schema.OrderDesc}}, built.ClusteringKeys)

	rendered := EmitCreateTable(built)
	stmt2, err := Parse(rendered)
	require.NoError(t, err)
	built2 := SchemaBuilder{}.Build(stmt2.(*CreateTableStmt))

	require.Equal(t, built.Keyspace, built2.Keyspace)
	require.Equal(t, built.Table, built2.Table)
	require.Equal(t, built.PartitionKeys, built2.PartitionKeys)
	require.Equal(t, built.ClusteringKeys, built2.ClusteringKeys)
	require.Len(t, built2.Columns, len(built.Columns))
	for i := range built.Columns {
		require.Equal(t, built.Columns[i].Name, built2.Columns[i].Name)
		require.True(t, built.Columns[i].Type.Equal(built2.Columns[i].Type))
	}
}

func TestValidatorStrictRejectsUnknownUDT(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid PRIMARY KEY, addr address);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	built := SchemaBuilder{}.Build(ct)

	v := Validator{Mode: Strict, KnownUDTs: map[string]bool{}}
	require.Error(t, v.Validate(ct, built))

	v2 := Validator{Mode: Strict, KnownUDTs: map[string]bool{"address": true}}
	require.NoError(t, v2.Validate(ct, built))
}

func TestValidatorLenientIgnoresUnknownUDT(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid PRIMARY KEY, addr address);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)
	built := SchemaBuilder{}.Build(ct)

	v := Validator{Mode: Lenient}
	require.NoError(t, v.Validate(ct, built))
}

func TestTypeCollectorFindsNestedTypes(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid PRIMARY KEY, attrs map<text, bigint>);`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)

	types := TypeCollector{}.Collect(ct)
	var seenMap, seenText, seenBigint bool
	for _, ty := range types {
		switch ty.String() {
		case "map<text, bigint>":
			seenMap = true
		case "text":
			seenText = true
		case "bigint":
			seenBigint = true
		}
	}
	require.True(t, seenMap)
	require.True(t, seenText)
	require.True(t, seenBigint)
}

func TestIdentifierCollector(t *testing.T) {
	stmt, err := Parse(`CREATE TABLE ks.t (id uuid, ts timestamp, v text, PRIMARY KEY ((id), ts));`)
	require.NoError(t, err)
	ct := stmt.(*CreateTableStmt)

	ids := IdentifierCollector{}.Collect(ct)
	require.Contains(t, ids, "t")
	require.Contains(t, ids, "id")
	require.Contains(t, ids, "ts")
	require.Contains(t, ids, "v")
}
