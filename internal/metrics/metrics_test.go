package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleBags() [][]string {
	return [][]string{
		{"cat", "dog", "sun"},
		{"cat", "dog", "moon"},
		{"cat", "tree", "rock"},
		{"dog", "tree", "moon"},
	}
}

func TestEvaluateCountsAndCardinality(t *testing.T) {
	bags := sampleBags()
	groupA, groupB := "a", "b"
	report := Evaluate(bags, Options{
		TopK:                   []int{1, 2, 3},
		MaxTokenLength:         8,
		NearDuplicateGroupKeys: []*string{&groupA, &groupA, nil, &groupB},
	})

	require.Equal(t, 4, report.SampleCount)
	require.Equal(t, 12, report.TokenCount)
	require.Equal(t, 6, report.UniqueTagCount)
}

func TestEvaluateTopKMassMonotone(t *testing.T) {
	report := Evaluate(sampleBags(), Options{TopK: []int{1, 2, 3, 6}})
	require.LessOrEqual(t, report.TopKMass[1], report.TopKMass[2])
	require.LessOrEqual(t, report.TopKMass[2], report.TopKMass[3])
	require.InDelta(t, 1.0, report.TopKMass[6], 1e-9)
}

func TestEvaluateDistributionBounds(t *testing.T) {
	report := Evaluate(sampleBags(), Options{})
	require.GreaterOrEqual(t, report.Gini, 0.0)
	require.Less(t, report.Gini, 1.0)
	require.Greater(t, report.HHI, 0.0)
	require.LessOrEqual(t, report.HHI, 1.0)
	require.Greater(t, report.Entropy, 0.0)
	require.InDelta(t, math.Exp(report.Entropy), report.EffectiveTagCount, 1e-9)
}

func TestEvaluateNearDuplicateRateHook(t *testing.T) {
	groupA, groupB := "a", "b"
	report := Evaluate(sampleBags(), Options{
		NearDuplicateGroupKeys: []*string{&groupA, &groupA, nil, &groupB},
	})
	require.NotNil(t, report.NearDuplicateRateHook.Rate)
	require.InDelta(t, 0.5, *report.NearDuplicateRateHook.Rate, 1e-9)
}

func TestEvaluateNearDuplicateRateHookMissingKeys(t *testing.T) {
	report := Evaluate(sampleBags(), Options{})
	require.Nil(t, report.NearDuplicateRateHook.Rate)
	require.NotEmpty(t, report.NearDuplicateRateHook.Note)
}

func TestEvaluateTokenLengthOverflowRate(t *testing.T) {
	bags := [][]string{{"short", "a-very-long-tag-name"}}
	report := Evaluate(bags, Options{MaxTokenLength: 8})
	require.InDelta(t, 0.5, report.TokenLengthOverflowRate, 1e-9)
}

func TestEvaluateJSDToTargetNilWithoutTarget(t *testing.T) {
	report := Evaluate(sampleBags(), Options{})
	require.Nil(t, report.JSDToTarget)
}

func TestEvaluateJSDToTargetZeroForExactMatch(t *testing.T) {
	bags := [][]string{{"cat", "dog"}}
	target := map[string]float64{"cat": 0.5, "dog": 0.5}
	report := Evaluate(bags, Options{TargetDistribution: target})
	require.NotNil(t, report.JSDToTarget)
	require.InDelta(t, 0.0, *report.JSDToTarget, 1e-9)
}

func TestEvaluateStopTagCandidates(t *testing.T) {
	bags := [][]string{
		{"common", "rare1"},
		{"common", "rare2"},
		{"common", "rare3"},
	}
	report := Evaluate(bags, Options{MinStopTagDocFrequency: 3, MaxStopTagCandidates: 5})
	require.Len(t, report.StopTagCandidates, 1)
	require.Equal(t, "common", report.StopTagCandidates[0].Tag)
	require.Equal(t, 3, report.StopTagCandidates[0].DocumentFrequency)
}

func TestEvaluatePMIAnomalies(t *testing.T) {
	bags := [][]string{
		{"a", "b"},
		{"a", "b"},
		{"a", "b"},
		{"c"},
	}
	report := Evaluate(bags, Options{MinPMICooccurrence: 2, MaxPMIAnomalies: 5})
	require.Len(t, report.PMIAnomalies, 1)
	require.Equal(t, "a", report.PMIAnomalies[0].TagA)
	require.Equal(t, "b", report.PMIAnomalies[0].TagB)
	require.Equal(t, 3, report.PMIAnomalies[0].Count)
}

func TestEvaluateCommunityHintConnectsCooccurringTags(t *testing.T) {
	bags := [][]string{
		{"a", "b"},
		{"a", "b"},
		{"c", "d"},
		{"c", "d"},
	}
	report := Evaluate(bags, Options{CommunityEdgeWeightThreshold: 0.1, CommunityPreviewSize: 2})
	require.Equal(t, 2, report.CommunityHint.CommunityCount)
	require.Len(t, report.CommunityHint.CommunityPreviews, 2)
}

func TestEvaluateEmptyBags(t *testing.T) {
	report := Evaluate(nil, Options{TopK: []int{1}})
	require.Equal(t, 0, report.SampleCount)
	require.Equal(t, 0, report.TokenCount)
	require.Equal(t, 0, report.UniqueTagCount)
	require.Equal(t, 0.0, report.Entropy)
}
