// Package recommend matches a loaded ruleset's conditions against a
// MetricsReport's signal table and produces the recommendation
// evaluation (S4).
package recommend

import (
	"fmt"
	"math"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

const equalityTolerance = 1e-12

// Evaluate runs every rule's AND-conjunction of conditions against the
// given signal table, returning matches in ordinal rule-id order.
func Evaluate(rules []model.RecommendationRule, signals map[string]float64) model.RecommendationEvaluation {
	sorted := make([]model.RecommendationRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var matches []model.RecommendationMatch
	for _, rule := range sorted {
		evaluated := make([]model.EvaluatedCondition, 0, len(rule.Conditions))
		allMatch := len(rule.Conditions) > 0
		for _, cond := range rule.Conditions {
			ec := evaluateCondition(cond, signals)
			evaluated = append(evaluated, ec)
			if !ec.Match {
				allMatch = false
			}
		}
		if !allMatch {
			continue
		}
		matches = append(matches, model.RecommendationMatch{
			RuleID:       rule.ID,
			Severity:     rule.Severity,
			Conditions:   evaluated,
			FailureModes: rule.LikelyFailureModes,
			Actions:      rule.Actions,
			Description:  rule.Description,
		})
	}

	return model.RecommendationEvaluation{Matches: matches}
}

func evaluateCondition(cond model.Condition, signals map[string]float64) model.EvaluatedCondition {
	ec := model.EvaluatedCondition{
		Signal:   cond.Signal,
		Operator: cond.Operator,
		Expected: cond.Value,
	}

	actual, ok := signals[cond.Signal]
	if !ok {
		ec.Explanation = "Signal not found."
		return ec
	}
	ec.Actual = &actual

	ec.Match = compare(actual, cond.Operator, cond.Value)
	ec.Explanation = explain(cond.Signal, actual, cond.Operator, cond.Value, ec.Match)
	return ec
}

func compare(actual float64, op model.Operator, expected float64) bool {
	switch op {
	case model.OpGreaterThan:
		return actual > expected
	case model.OpGreaterThanOrEqual:
		return actual > expected || nearlyEqual(actual, expected)
	case model.OpLessThan:
		return actual < expected
	case model.OpLessThanOrEqual:
		return actual < expected || nearlyEqual(actual, expected)
	case model.OpEqual:
		return nearlyEqual(actual, expected)
	case model.OpNotEqual:
		return !nearlyEqual(actual, expected)
	default:
		return false
	}
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) <= equalityTolerance
}

func explain(signal string, actual float64, op model.Operator, expected float64, match bool) string {
	verdict := "did not satisfy"
	if match {
		verdict = "satisfied"
	}
	return fmt.Sprintf("%s=%v %s %s %v.", signal, actual, verdict, operatorWord(op), expected)
}

func operatorWord(op model.Operator) string {
	switch op {
	case model.OpGreaterThan:
		return "greater than"
	case model.OpGreaterThanOrEqual:
		return "greater than or equal to"
	case model.OpLessThan:
		return "less than"
	case model.OpLessThanOrEqual:
		return "less than or equal to"
	case model.OpEqual:
		return "equal to"
	case model.OpNotEqual:
		return "not equal to"
	default:
		return string(op)
	}
}
