// Package report writes the pipeline's artifacts to disk: JSONL dataset
// records, pretty-printed JSON summaries, and a Markdown tag-health
// summary (S6). Every writer emits UTF-8 without a byte-order mark and
// LF line endings only.
package report

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/tagmetry/tagmetry/internal/model"
)

// WriteJSONL writes one JSON object per line for every record.
func WriteJSONL[T any](path string, records []T) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// WriteJSON writes a single value as indented, camelCase JSON.
func WriteJSON(path string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// WriteAll writes the full set of run artifacts to outputDir and returns
// the relative path of each written file, keyed by artifact name.
func WriteAll(outputDir string, images []model.ImageRecord, summary model.SummaryIndex, metrics *model.MetricsReport, recs *model.RecommendationEvaluation, dupes *model.DuplicateReport) (map[string]string, error) {
	outputs := make(map[string]string)

	if err := WriteJSONL(outputDir+"/dataset.jsonl", images); err != nil {
		return nil, err
	}
	outputs["dataset"] = "dataset.jsonl"

	if err := WriteJSON(outputDir+"/summary.json", summary); err != nil {
		return nil, err
	}
	outputs["summary"] = "summary.json"

	if metrics != nil {
		if err := WriteJSON(outputDir+"/metrics.json", metrics); err != nil {
			return nil, err
		}
		outputs["metrics"] = "metrics.json"

		if err := WriteMarkdownSummary(outputDir+"/metrics.md", *metrics); err != nil {
			return nil, err
		}
		outputs["metricsMarkdown"] = "metrics.md"
	}

	if recs != nil {
		if err := WriteJSON(outputDir+"/recommendations.json", recs); err != nil {
			return nil, err
		}
		outputs["recommendations"] = "recommendations.json"
	}

	if dupes != nil {
		if err := WriteJSON(outputDir+"/duplicates.json", dupes); err != nil {
			return nil, err
		}
		outputs["duplicates"] = "duplicates.json"
	}

	return outputs, nil
}
