package normalize

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// rulesEnvelope mirrors the on-disk JSON shape for TagNormalizationRules;
// every field is optional, with defaults applied by LoadRules.
type rulesEnvelope struct {
	CanonicalDelimiter *string           `json:"canonicalDelimiter"`
	Delimiters         []string          `json:"delimiters"`
	Aliases            map[string]string `json:"aliases"`
	StopTags           []string          `json:"stopTags"`
}

// LoadRules parses a normalization ruleset from JSON, applying defaults for
// missing fields and normalizing alias keys/values and stop tags through
// the same CaseFold+DelimiterNormalization steps applied to input tokens.
func LoadRules(data []byte) (model.TagNormalizationRules, error) {
	var env rulesEnvelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			return model.TagNormalizationRules{}, fmt.Errorf("invalid normalization rules: %w", err)
		}
	}

	canonical := " "
	if env.CanonicalDelimiter != nil {
		canonical = *env.CanonicalDelimiter
	}

	rules := model.TagNormalizationRules{
		CanonicalDelimiter: canonical,
		Delimiters:         append([]string(nil), env.Delimiters...),
		Aliases:            make(map[string]string, len(env.Aliases)),
		StopTags:           make(map[string]struct{}, len(env.StopTags)),
	}

	// Aliases and stop tags are normalized through CaseFold + delimiter
	// normalization at load time, per §4.2.
	for k, v := range env.Aliases {
		nk := caseFold(k)
		nk = normalizeDelimiters(nk, rules.CanonicalDelimiter, rules.Delimiters)
		nv := caseFold(v)
		nv = normalizeDelimiters(nv, rules.CanonicalDelimiter, rules.Delimiters)
		rules.Aliases[nk] = nv
	}
	stopList := make([]string, 0, len(env.StopTags))
	for _, s := range env.StopTags {
		n := caseFold(s)
		n = normalizeDelimiters(n, rules.CanonicalDelimiter, rules.Delimiters)
		if _, exists := rules.StopTags[n]; !exists {
			stopList = append(stopList, n)
		}
		rules.StopTags[n] = struct{}{}
	}
	sort.Strings(stopList)
	rules.StopTagList = stopList

	return rules, nil
}

// DefaultRules returns the identity ruleset: space delimiter, no aliases,
// no stop tags, no extra delimiters.
func DefaultRules() model.TagNormalizationRules {
	rules, _ := LoadRules(nil)
	return rules
}
