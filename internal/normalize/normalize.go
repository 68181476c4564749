package normalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tagmetry/tagmetry/internal/model"
)

func caseFold(s string) string {
	return strings.ToLower(s)
}

// sortedDelimiters returns delimiters ordered by descending length, then
// ordinal (ascending byte comparison) for ties, matching §4.2's resolution
// rule for overlapping delimiters.
func sortedDelimiters(delimiters []string) []string {
	sorted := append([]string(nil), delimiters...)
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i]) != len(sorted[j]) {
			return len(sorted[i]) > len(sorted[j])
		}
		return sorted[i] < sorted[j]
	})
	return sorted
}

// replaceDelimitersToFixedPoint applies every configured delimiter
// substitution, in descending-length-then-ordinal order, repeating full
// passes until nothing changes.
func replaceDelimitersToFixedPoint(s, canonical string, sortedDelims []string) string {
	for {
		changed := false
		for _, d := range sortedDelims {
			if d == "" {
				continue
			}
			if strings.Contains(s, d) {
				s = strings.ReplaceAll(s, d, canonical)
				changed = true
			}
		}
		if !changed {
			return s
		}
	}
}

// collapseAndTrim collapses runs of the canonical delimiter to a single
// instance, then trims leading/trailing canonical delimiters.
func collapseAndTrim(s, canonical string) string {
	if canonical == "" {
		return s
	}
	doubled := canonical + canonical
	for strings.Contains(s, doubled) {
		s = strings.ReplaceAll(s, doubled, canonical)
	}
	for strings.HasPrefix(s, canonical) {
		s = s[len(canonical):]
	}
	for strings.HasSuffix(s, canonical) {
		s = s[:len(s)-len(canonical)]
	}
	return s
}

// normalizeDelimiters applies the DelimiterNormalization step (fixed-point
// substitution followed by collapse-and-trim) without producing an audit
// trail, for use by rule loaders that need to pre-normalize alias and
// stop-tag keys at load time.
func normalizeDelimiters(s, canonical string, delimiters []string) string {
	sorted := sortedDelimiters(delimiters)
	s = replaceDelimitersToFixedPoint(s, canonical, sorted)
	return collapseAndTrim(s, canonical)
}

func normalizeMessage(before, after string) string {
	if before == after {
		return "No change."
	}
	return fmt.Sprintf("Transformed '%s' to '%s'.", before, after)
}

// NormalizeToken applies the four-step algorithm to a single token and
// returns its full result, including the four-event audit trail.
func NormalizeToken(token string, rules model.TagNormalizationRules) model.NormalizationTokenResult {
	sortedDelims := sortedDelimiters(rules.Delimiters)

	result := model.NormalizationTokenResult{Original: token}

	// Step 1: CaseFold.
	before := token
	after := caseFold(before)
	result.Audit = append(result.Audit, model.AuditEvent{
		Step: model.AuditCaseFold, Before: before, After: after,
		Message: normalizeMessage(before, after),
	})

	// Step 2: DelimiterNormalization.
	before = after
	after = replaceDelimitersToFixedPoint(before, rules.CanonicalDelimiter, sortedDelims)
	after = collapseAndTrim(after, rules.CanonicalDelimiter)
	result.Audit = append(result.Audit, model.AuditEvent{
		Step: model.AuditDelimiterNormalization, Before: before, After: after,
		Message: normalizeMessage(before, after),
	})

	// Step 3: AliasMapping.
	before = after
	if mapped, ok := rules.Aliases[before]; ok {
		after = mapped
	} else {
		after = before
	}
	result.Audit = append(result.Audit, model.AuditEvent{
		Step: model.AuditAliasMapping, Before: before, After: after,
		Message: normalizeMessage(before, after),
	})

	// Step 4: StopTagFiltering.
	before = after
	if _, stopped := rules.StopTags[before]; stopped {
		result.IsFiltered = true
		result.Audit = append(result.Audit, model.AuditEvent{
			Step: model.AuditStopTagFiltering, Before: before, After: before,
			Message: "Filtered by stop-tag rule.",
		})
		return result
	}

	result.Audit = append(result.Audit, model.AuditEvent{
		Step: model.AuditStopTagFiltering, Before: before, After: before,
		Message: "No change.",
	})
	normalized := before
	result.Normalized = &normalized
	return result
}

// ErrNullInput is returned when the caller passes a nil token sequence,
// per §4.2's contract. Individual nil/empty tokens within a non-nil
// sequence are tolerated and treated as empty strings.
var ErrNullInput = fmt.Errorf("normalize: token sequence is nil")

// Normalize applies NormalizeToken to every token in order, building the
// full NormalizationResult. A nil tokens slice is an error; individual nil
// entries are tolerated and treated as empty strings.
func Normalize(tokens []*string, rules model.TagNormalizationRules) (model.NormalizationResult, error) {
	if tokens == nil {
		return model.NormalizationResult{}, ErrNullInput
	}

	result := model.NormalizationResult{
		Tokens:           make([]model.NormalizationTokenResult, 0, len(tokens)),
		NormalizedTokens: make([]string, 0, len(tokens)),
	}

	for _, t := range tokens {
		raw := ""
		if t != nil {
			raw = *t
		}
		tokenResult := NormalizeToken(raw, rules)
		result.Tokens = append(result.Tokens, tokenResult)
		if !tokenResult.IsFiltered && tokenResult.Normalized != nil {
			result.NormalizedTokens = append(result.NormalizedTokens, *tokenResult.Normalized)
		}
	}

	return result, nil
}

// NormalizeStrings is a convenience wrapper for callers that already have
// plain (non-nullable) tokens, such as the metrics evaluator's tag bags.
func NormalizeStrings(tokens []string, rules model.TagNormalizationRules) model.NormalizationResult {
	ptrs := make([]*string, len(tokens))
	for i := range tokens {
		t := tokens[i]
		ptrs[i] = &t
	}
	result, _ := Normalize(ptrs, rules)
	return result
}
