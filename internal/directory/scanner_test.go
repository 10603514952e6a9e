package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanSingleGeneration(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "data")
	touch(t, dir, prefix+"-1-big-Statistics.db", "stats")
	touch(t, dir, prefix+"-1-big-Index.db", "index")
	touch(t, dir, prefix+"-1-big-Summary.db", "summary")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, summary.Generations, 1)
	require.EqualValues(t, 1, summary.Generations[0].Number)
	require.Equal(t, "big", summary.Generations[0].Format)
	require.Len(t, summary.Reports, 1)
	require.Empty(t, summary.Reports[0].RequiredMissing)
}

func TestScanMultipleGenerationsSortedNewestFirst(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	for _, gen := range []string{"1", "2", "3"} {
		touch(t, dir, prefix+"-"+gen+"-big-Data.db", "d")
		touch(t, dir, prefix+"-"+gen+"-big-Statistics.db", "s")
		touch(t, dir, prefix+"-"+gen+"-big-Index.db", "i")
		touch(t, dir, prefix+"-"+gen+"-big-Summary.db", "sm")
	}
	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, summary.Generations, 3)
	require.EqualValues(t, 3, summary.Generations[0].Number)
	require.EqualValues(t, 2, summary.Generations[1].Number)
	require.EqualValues(t, 1, summary.Generations[2].Number)
}

func TestScanMissingRequiredComponent(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "data")
	touch(t, dir, prefix+"-1-big-Statistics.db", "stats")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, summary.Reports, 1)
	require.Contains(t, summary.Reports[0].RequiredMissing, ComponentIndex)
	require.Contains(t, summary.Reports[0].RequiredMissing, ComponentSummary)
}

func TestScanDAFormatRequiresPartitionsAndRows(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-da-Data.db", "d")
	touch(t, dir, prefix+"-1-da-Statistics.db", "s")
	touch(t, dir, prefix+"-1-da-Partitions.db", "p")
	touch(t, dir, prefix+"-1-da-Rows.db", "r")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Empty(t, summary.Reports[0].RequiredMissing)
}

func TestScanTOCValidation(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "d")
	touch(t, dir, prefix+"-1-big-Statistics.db", "s")
	touch(t, dir, prefix+"-1-big-Index.db", "i")
	touch(t, dir, prefix+"-1-big-Summary.db", "sm")
	touch(t, dir, prefix+"-1-big-TOC.txt", "# comment\n\n"+prefix+"-1-big-Data.db\n"+prefix+"-1-big-Statistics.db\n"+prefix+"-1-big-Index.db\n"+prefix+"-1-big-Summary.db\n"+prefix+"-1-big-TOC.txt\n")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Empty(t, summary.Reports[0].TOCMismatch)
}

func TestScanTOCMismatchDetected(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "d")
	touch(t, dir, prefix+"-1-big-Statistics.db", "s")
	touch(t, dir, prefix+"-1-big-Index.db", "i")
	touch(t, dir, prefix+"-1-big-Summary.db", "sm")
	touch(t, dir, prefix+"-1-big-TOC.txt", prefix+"-1-big-Data.db\n"+prefix+"-1-big-Filter.db\n")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.NotEmpty(t, summary.Reports[0].TOCMismatch)
}

func TestScanSecondaryIndexSubdirectory(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "d")
	touch(t, dir, prefix+"-1-big-Statistics.db", "s")
	touch(t, dir, prefix+"-1-big-Index.db", "i")
	touch(t, dir, prefix+"-1-big-Summary.db", "sm")

	idxDir := filepath.Join(dir, ".t_myindex_idx")
	require.NoError(t, os.Mkdir(idxDir, 0o755))
	touch(t, idxDir, prefix+"-1-big-Data.db", "d")
	touch(t, idxDir, prefix+"-1-big-Statistics.db", "s")
	touch(t, idxDir, prefix+"-1-big-Index.db", "i")
	touch(t, idxDir, prefix+"-1-big-Summary.db", "sm")

	summary, err := Scan(dir)
	require.NoError(t, err)
	require.Contains(t, summary.SecondaryIndexes, ".t_myindex_idx")
}

func TestScanIdempotent(t *testing.T) {
	dir := t.TempDir()
	prefix := "ks-t-abc"
	touch(t, dir, prefix+"-1-big-Data.db", "d")
	touch(t, dir, prefix+"-1-big-Statistics.db", "s")
	touch(t, dir, prefix+"-1-big-Index.db", "i")
	touch(t, dir, prefix+"-1-big-Summary.db", "sm")

	first, err := Scan(dir)
	require.NoError(t, err)
	second, err := Scan(dir)
	require.NoError(t, err)
	require.Equal(t, len(first.Generations), len(second.Generations))
	require.Equal(t, first.Reports, second.Reports)
}

func TestScanUnreadableDirectoryErrors(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}
