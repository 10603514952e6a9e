package ddl

import (
	"fmt"
	"strings"

	"github.com/joshuapare/sstreader/pkg/schema"
)

// EmitCreateTable renders a TableSchema back to canonical CQL, the
// inverse of SchemaBuilder.Build. Used to exercise the DDL round-trip
// property (spec.md §8 scenario 6): parsing, building, re-emitting, and
// re-parsing a CREATE TABLE yields an equal schema.
func EmitCreateTable(t schema.TableSchema) string {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if t.Keyspace != "" {
		sb.WriteString(t.Keyspace)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Table)
	sb.WriteString(" (")

	for i, c := range t.Columns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
		sb.WriteString(c.Type.String())
		if c.Static {
			sb.WriteString(" STATIC")
		}
	}

	sb.WriteString(", PRIMARY KEY (")
	sb.WriteString(emitPrimaryKey(t))
	sb.WriteString("))")

	if len(t.ClusteringKeys) > 0 {
		sb.WriteString(" WITH CLUSTERING ORDER BY (")
		for i, ck := range t.ClusteringKeys {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%s %s", ck.Name, ck.Order)
		}
		sb.WriteString(")")
	}
	sb.WriteString(";")
	return sb.String()
}

func emitPrimaryKey(t schema.TableSchema) string {
	if len(t.PartitionKeys) == 1 {
		parts := append([]string{t.PartitionKeys[0]}, clusteringNames(t)...)
		return strings.Join(parts, ", ")
	}
	var sb strings.Builder
	sb.WriteByte('(')
	sb.WriteString(strings.Join(t.PartitionKeys, ", "))
	sb.WriteByte(')')
	for _, name := range clusteringNames(t) {
		sb.WriteString(", ")
		sb.WriteString(name)
	}
	return sb.String()
}

func clusteringNames(t schema.TableSchema) []string {
	out := make([]string, len(t.ClusteringKeys))
	for i, ck := range t.ClusteringKeys {
		out[i] = ck.Name
	}
	return out
}
