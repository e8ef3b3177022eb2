// Package dataset builds the synthetic collections shown by vlist.
package dataset

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/vlist/internal/config"
	"github.com/charmbracelet/vlist/internal/virtual"
	"github.com/sahilm/fuzzy"
)

// Row is one element of the demo collection. N is its position in the
// unfiltered collection and stays the same when the collection is filtered.
type Row struct {
	N     int
	Label string
}

func (r Row) String() string {
	return r.Label
}

var words = []string{
	"amber", "birch", "cobalt", "delta", "ember", "fjord", "garnet", "harbor",
	"indigo", "juniper", "kestrel", "lagoon", "meadow", "nimbus", "onyx", "prairie",
}

// Generate returns n rows.
func Generate(n int) []Row {
	rows := make([]Row, n)
	for i := range rows {
		rows[i] = Row{
			N:     i,
			Label: fmt.Sprintf("%s %s %d", words[i%len(words)], words[(i/len(words))%len(words)], i),
		}
	}
	return rows
}

type rowSource []Row

func (s rowSource) String(i int) string { return s[i].Label }
func (s rowSource) Len() int            { return len(s) }

// Filter returns the rows whose label fuzzy-matches pattern, in their
// original order. An empty pattern returns rows unchanged.
func Filter(rows []Row, pattern string) []Row {
	if strings.TrimSpace(pattern) == "" {
		return rows
	}
	matches := fuzzy.FindFrom(pattern, rowSource(rows))
	slices.SortFunc(matches, func(a, b fuzzy.Match) int {
		return a.Index - b.Index
	})
	filtered := make([]Row, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, rows[m.Index])
	}
	return filtered
}

// Height returns the height model described by opts. A heights pattern is
// applied by row number so filtered rows keep their height.
func Height(opts *config.ListOptions) virtual.Height[Row] {
	if opts == nil {
		return virtual.Constant[Row](config.DefaultItemHeight)
	}
	if len(opts.Heights) > 0 {
		pattern := slices.Clone(opts.Heights)
		return virtual.Computed(func(_ int, r Row) float64 {
			return float64(pattern[r.N%len(pattern)])
		})
	}
	return virtual.Constant[Row](float64(max(1, opts.ItemHeight)))
}

// Render draws a row into exactly height lines.
func Render(r Row, height int) string {
	lines := make([]string, 0, height)
	lines = append(lines, fmt.Sprintf("#%06d  %s", r.N, r.Label))
	for i := 1; i < height; i++ {
		lines = append(lines, fmt.Sprintf("         · detail %d of %s", i, r.Label))
	}
	return strings.Join(lines, "\n")
}
