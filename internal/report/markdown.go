package report

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/tagmetry/tagmetry/internal/model"
)

// WriteMarkdownSummary renders a MetricsReport as a Markdown document: a
// heading followed by an M1-M11 table, built with the same tablewriter
// library the teacher's CLI formatter uses for its own Markdown tables.
func WriteMarkdownSummary(path string, metrics model.MetricsReport) error {
	var buf strings.Builder
	buf.WriteString("# Tag Health Metrics Summary\n\n")

	table := tablewriter.NewTable(&buf)
	table.Header([]string{"Metric", "Value"})

	rows := [][]string{
		{"M1 Entropy", fmt.Sprintf("%.6f", metrics.Entropy)},
		{"M2 Effective tag count", fmt.Sprintf("%.6f", metrics.EffectiveTagCount)},
		{"M3 Gini coefficient", fmt.Sprintf("%.6f", metrics.Gini)},
		{"M4 Herfindahl-Hirschman index", fmt.Sprintf("%.6f", metrics.HHI)},
		{"M5 Top-K mass", formatTopKMass(metrics.TopKMass)},
		{"M6 Jensen-Shannon divergence to target", formatNullableFloat(metrics.JSDToTarget)},
		{"M7 Stop-tag candidates", fmt.Sprintf("%d", len(metrics.StopTagCandidates))},
		{"M8 PMI anomalies", fmt.Sprintf("%d", len(metrics.PMIAnomalies))},
		{"M9 Community hint", fmt.Sprintf("%d communities, modularity %.6f", metrics.CommunityHint.CommunityCount, metrics.CommunityHint.ModularityHint)},
		{"M10 Near-duplicate rate hook", formatNullableFloat(metrics.NearDuplicateRateHook.Rate)},
		{"M11 Token-length overflow rate", fmt.Sprintf("%.6f", metrics.TokenLengthOverflowRate)},
	}
	for _, row := range rows {
		table.Append(row)
	}
	if err := table.Render(); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(buf.String()), 0o644)
}

func formatNullableFloat(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.6f", *v)
}

func formatTopKMass(mass map[int]float64) string {
	if len(mass) == 0 {
		return "n/a"
	}
	ks := make([]int, 0, len(mass))
	for k := range mass {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	parts := make([]string, 0, len(ks))
	for _, k := range ks {
		parts = append(parts, fmt.Sprintf("k=%d: %.6f", k, mass[k]))
	}
	return strings.Join(parts, "; ")
}
