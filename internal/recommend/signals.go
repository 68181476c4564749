package recommend

import (
	"fmt"

	"github.com/tagmetry/tagmetry/internal/model"
)

// Signals resolves a MetricsReport into the flat signal table that
// recommendation conditions are evaluated against. Top-K mass signals are
// named "topKMass:<k>", e.g. "topKMass:5".
func Signals(report model.MetricsReport) map[string]float64 {
	signals := map[string]float64{
		"sampleCount":             float64(report.SampleCount),
		"tokenCount":              float64(report.TokenCount),
		"uniqueTagCount":          float64(report.UniqueTagCount),
		"entropy":                 report.Entropy,
		"effectiveTagCount":       report.EffectiveTagCount,
		"gini":                    report.Gini,
		"hhi":                     report.HHI,
		"stopTagCandidatesCount":  float64(len(report.StopTagCandidates)),
		"pmiAnomaliesCount":       float64(len(report.PMIAnomalies)),
		"communityCount":          float64(report.CommunityHint.CommunityCount),
		"modularityHint":          report.CommunityHint.ModularityHint,
		"tokenLengthOverflowRate": report.TokenLengthOverflowRate,
	}

	if report.JSDToTarget != nil {
		signals["jsdToTarget"] = *report.JSDToTarget
	}
	if report.NearDuplicateRateHook.Rate != nil {
		signals["nearDuplicateRate"] = *report.NearDuplicateRateHook.Rate
	}
	for k, mass := range report.TopKMass {
		signals[fmt.Sprintf("topKMass:%d", k)] = mass
	}

	return signals
}
