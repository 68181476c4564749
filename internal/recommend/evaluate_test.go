package recommend

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tagmetry/tagmetry/internal/model"
)

func TestEvaluateMatchesConjunction(t *testing.T) {
	rules := []model.RecommendationRule{
		{
			ID:       "low-diversity",
			Severity: model.SeverityWarning,
			Conditions: []model.Condition{
				{Signal: "gini", Operator: model.OpGreaterThan, Value: 0.5},
				{Signal: "uniqueTagCount", Operator: model.OpLessThan, Value: 10},
			},
			LikelyFailureModes: []string{"overfitting to dominant tags"},
			Actions:            []string{"rebalance the dataset"},
		},
	}
	signals := map[string]float64{"gini": 0.7, "uniqueTagCount": 5}

	eval := Evaluate(rules, signals)
	require.Len(t, eval.Matches, 1)
	require.Equal(t, "low-diversity", eval.Matches[0].RuleID)
	require.Len(t, eval.Matches[0].Conditions, 2)
	require.True(t, eval.Matches[0].Conditions[0].Match)
}

func TestEvaluatePartialConjunctionDoesNotMatch(t *testing.T) {
	rules := []model.RecommendationRule{
		{
			ID: "rule-a",
			Conditions: []model.Condition{
				{Signal: "gini", Operator: model.OpGreaterThan, Value: 0.9},
				{Signal: "uniqueTagCount", Operator: model.OpLessThan, Value: 10},
			},
		},
	}
	signals := map[string]float64{"gini": 0.7, "uniqueTagCount": 5}

	eval := Evaluate(rules, signals)
	require.Empty(t, eval.Matches)
}

func TestEvaluateMissingSignalExplanation(t *testing.T) {
	rules := []model.RecommendationRule{
		{
			ID: "rule-missing",
			Conditions: []model.Condition{
				{Signal: "doesNotExist", Operator: model.OpEqual, Value: 1},
			},
		},
	}

	eval := Evaluate(rules, map[string]float64{})
	require.Empty(t, eval.Matches)

	ec := evaluateCondition(rules[0].Conditions[0], map[string]float64{})
	require.False(t, ec.Match)
	require.Nil(t, ec.Actual)
	require.Equal(t, "Signal not found.", ec.Explanation)
}

func TestEvaluateOrdinalRuleOrder(t *testing.T) {
	rules := []model.RecommendationRule{
		{ID: "zeta", Conditions: []model.Condition{{Signal: "x", Operator: model.OpGreaterThanOrEqual, Value: 0}}},
		{ID: "alpha", Conditions: []model.Condition{{Signal: "x", Operator: model.OpGreaterThanOrEqual, Value: 0}}},
	}
	eval := Evaluate(rules, map[string]float64{"x": 1})
	require.Len(t, eval.Matches, 2)
	require.Equal(t, "alpha", eval.Matches[0].RuleID)
	require.Equal(t, "zeta", eval.Matches[1].RuleID)
}

func TestEvaluateEqualityTolerance(t *testing.T) {
	rules := []model.RecommendationRule{
		{ID: "r", Conditions: []model.Condition{{Signal: "x", Operator: model.OpEqual, Value: 0.3}}},
	}
	eval := Evaluate(rules, map[string]float64{"x": 0.1 + 0.2})
	require.Len(t, eval.Matches, 1)
}

func TestSignalsIncludesTopKMassKeys(t *testing.T) {
	report := model.MetricsReport{
		TopKMass: map[int]float64{1: 0.4, 2: 0.7},
	}
	signals := Signals(report)
	require.InDelta(t, 0.4, signals["topKMass:1"], 1e-9)
	require.InDelta(t, 0.7, signals["topKMass:2"], 1e-9)
}

func TestSignalsOmitsOptionalSignalsWhenNil(t *testing.T) {
	signals := Signals(model.MetricsReport{})
	_, hasJSD := signals["jsdToTarget"]
	_, hasNearDup := signals["nearDuplicateRate"]
	require.False(t, hasJSD)
	require.False(t, hasNearDup)
}
