package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tagmetry/tagmetry/internal/model"
)

func TestWriteJSONLOneObjectPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.jsonl")
	one, two := 1, 2
	records := []model.ImageRecord{
		{RelativePath: "a.png", Width: &one, Height: &one},
		{RelativePath: "b.png", Width: &two, Height: &two},
	}
	require.NoError(t, WriteJSONL(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "a.png")
	require.NotContains(t, string(data), "\r\n")
}

func TestWriteJSONIndented(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	require.NoError(t, WriteJSON(path, model.SummaryIndex{TotalImages: 3}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "\"totalImages\": 3")
}

func TestWriteMarkdownSummaryContainsRequiredHeadings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.md")
	metrics := model.MetricsReport{
		Entropy:  1.5,
		TopKMass: map[int]float64{1: 0.3, 2: 0.5},
	}
	require.NoError(t, WriteMarkdownSummary(path, metrics))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	require.Contains(t, content, "# Tag Health Metrics Summary")
	require.Contains(t, content, "M1 Entropy")
	require.Contains(t, content, "M11 Token-length overflow rate")
}

func TestWriteAllProducesExpectedArtifacts(t *testing.T) {
	dir := t.TempDir()
	images := []model.ImageRecord{{RelativePath: "a.png"}}
	summary := model.SummaryIndex{TotalImages: 1}
	metrics := model.MetricsReport{}
	recs := model.RecommendationEvaluation{}
	dupes := model.DuplicateReport{}

	outputs, err := WriteAll(dir, images, summary, &metrics, &recs, &dupes)
	require.NoError(t, err)
	require.Equal(t, "dataset.jsonl", outputs["dataset"])
	require.Equal(t, "summary.json", outputs["summary"])
	require.Equal(t, "metrics.json", outputs["metrics"])
	require.Equal(t, "metrics.md", outputs["metricsMarkdown"])
	require.Equal(t, "recommendations.json", outputs["recommendations"])
	require.Equal(t, "duplicates.json", outputs["duplicates"])

	for _, name := range outputs {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}
