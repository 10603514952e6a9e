// Package directory discovers SSTable generations within a table directory,
// groups their component files, and validates each generation's component
// set against the format-variant requirements (spec.md §4.5).
package directory

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/joshuapare/sstreader/pkg/types"
)

// Component names recognized within a generation's filename suffix.
const (
	ComponentData            = "Data.db"
	ComponentIndex           = "Index.db"
	ComponentStatistics      = "Statistics.db"
	ComponentFilter          = "Filter.db"
	ComponentSummary         = "Summary.db"
	ComponentCompressionInfo = "CompressionInfo.db"
	ComponentDigest          = "Digest.crc32"
	ComponentTOC             = "TOC.txt"
	ComponentPartitions      = "Partitions.db"
	ComponentRows            = "Rows.db"
)

var knownComponents = map[string]bool{
	ComponentData: true, ComponentIndex: true, ComponentStatistics: true,
	ComponentFilter: true, ComponentSummary: true, ComponentCompressionInfo: true,
	ComponentDigest: true, ComponentTOC: true, ComponentPartitions: true, ComponentRows: true,
}

// componentFilename matches "<prefix>-<generation>-<format>-<Component>.<ext>"
// (spec.md §6). The component group captures everything after the format
// token so multi-word components like "CompressionInfo.db" match whole.
var componentFilename = regexp.MustCompile(`^(.+)-(\d+)-(big|da)-(.+)$`)

// secondaryIndexDir matches ".<table>_<index-suffix>_idx".
var secondaryIndexDir = regexp.MustCompile(`^\.(.+)_(.+)_idx$`)

// FileEntry records one component file's on-disk facts.
type FileEntry struct {
	Path       string
	Component  string
	Size       int64
	Accessible bool
}

// Generation groups every component file sharing one generation number and
// format within a single table directory.
type Generation struct {
	Number types.Generation
	Format string // "big" or "da"
	Files  map[string]FileEntry
}

// ValidationReport captures what the scanner found for one generation
// without aborting on the first problem (spec.md §4.5).
type ValidationReport struct {
	Generation      types.Generation
	Format          string
	RequiredPresent []string
	RequiredMissing []string
	OptionalPresent []string
	TOCMismatch     []string // files the TOC lists but are absent, or vice versa
}

// DirectorySummary is the result of scanning one table directory.
type DirectorySummary struct {
	Path             string
	Generations      []Generation
	Reports          []ValidationReport
	SecondaryIndexes map[string]DirectorySummary
}

func requiredComponents(format string) []string {
	switch format {
	case "big":
		return []string{ComponentData, ComponentStatistics, ComponentIndex, ComponentSummary}
	case "da":
		return []string{ComponentData, ComponentStatistics, ComponentPartitions, ComponentRows}
	default:
		return []string{ComponentData, ComponentStatistics}
	}
}

// Scan walks path, grouping regular files into generations, recursing into
// secondary-index subdirectories, and producing a per-generation validation
// report. It always succeeds if the directory itself is readable;
// component-level problems are captured in the report rather than
// returned as errors (spec.md §4.5, §7).
func Scan(path string) (DirectorySummary, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return DirectorySummary{}, types.ErrIO.WithPath(path, 0).WithCause(err)
	}

	gens := map[string]*Generation{}
	summary := DirectorySummary{Path: path, SecondaryIndexes: map[string]DirectorySummary{}}

	for _, e := range entries {
		if e.IsDir() {
			if m := secondaryIndexDir.FindStringSubmatch(e.Name()); m != nil {
				sub, err := Scan(filepath.Join(path, e.Name()))
				if err == nil {
					summary.SecondaryIndexes[e.Name()] = sub
				}
			}
			continue
		}
		m := componentFilename.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		genNum, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			continue
		}
		format := m[3]
		component := m[4]
		if !knownComponents[component] {
			continue
		}
		key := m[2] + "-" + format
		g, ok := gens[key]
		if !ok {
			g = &Generation{Number: types.Generation(genNum), Format: format, Files: map[string]FileEntry{}}
			gens[key] = g
		}

		info, statErr := e.Info()
		fe := FileEntry{
			Path:       filepath.Join(path, e.Name()),
			Component:  component,
			Accessible: statErr == nil,
		}
		if statErr == nil {
			fe.Size = info.Size()
		}
		g.Files[component] = fe
	}

	for _, g := range gens {
		summary.Generations = append(summary.Generations, *g)
	}
	sort.Slice(summary.Generations, func(i, j int) bool {
		return summary.Generations[i].Number > summary.Generations[j].Number
	})

	for _, g := range summary.Generations {
		summary.Reports = append(summary.Reports, validateGeneration(g))
	}

	return summary, nil
}

func validateGeneration(g Generation) ValidationReport {
	report := ValidationReport{Generation: g.Number, Format: g.Format}
	required := requiredComponents(g.Format)
	requiredSet := map[string]bool{}
	for _, r := range required {
		requiredSet[r] = true
		if _, ok := g.Files[r]; ok {
			report.RequiredPresent = append(report.RequiredPresent, r)
		} else {
			report.RequiredMissing = append(report.RequiredMissing, r)
		}
	}
	for name := range g.Files {
		if !requiredSet[name] {
			report.OptionalPresent = append(report.OptionalPresent, name)
		}
	}
	sort.Strings(report.RequiredPresent)
	sort.Strings(report.RequiredMissing)
	sort.Strings(report.OptionalPresent)

	if toc, ok := g.Files[ComponentTOC]; ok && toc.Accessible {
		report.TOCMismatch = validateTOC(toc.Path, g.Files)
	}
	return report
}

// validateTOC parses a plain-text table-of-contents file (one component
// filename per line, blank lines and `#` comments ignored) and reports any
// discrepancy against the files actually present on disk (spec.md §6).
func validateTOC(path string, files map[string]FileEntry) []string {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []string{"TOC unreadable: " + err.Error()}
	}
	listed := map[string]bool{}
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		listed[line] = true
	}

	var mismatches []string
	for name := range listed {
		found := false
		for _, fe := range files {
			if strings.HasSuffix(fe.Path, name) {
				found = true
				break
			}
		}
		if !found {
			mismatches = append(mismatches, "listed but absent: "+name)
		}
	}
	for _, fe := range files {
		if fe.Component == ComponentTOC {
			continue
		}
		present := false
		for name := range listed {
			if strings.HasSuffix(fe.Path, name) {
				present = true
				break
			}
		}
		if !present {
			mismatches = append(mismatches, "present but unlisted: "+fe.Component)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
