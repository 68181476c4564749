// Package ruleset loads a recommendation ruleset from JSON or YAML,
// validates it against the embedded JSON Schema, and normalizes it into
// the model's RecommendationRule list (S7).
package ruleset

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tagmetry/tagmetry/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaSource []byte

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaSource))
	if err != nil {
		panic(err)
	}
	if err := c.AddResource("tagmetry-ruleset.json", doc); err != nil {
		panic(err)
	}
	return c.MustCompile("tagmetry-ruleset.json")
}

type ruleEnvelope struct {
	Rules []ruleEntry `json:"rules" yaml:"rules"`
}

type ruleEntry struct {
	ID                 string           `json:"id" yaml:"id"`
	Description        string           `json:"description" yaml:"description"`
	Severity           string           `json:"severity" yaml:"severity"`
	Conditions         []conditionEntry `json:"conditions" yaml:"conditions"`
	LikelyFailureModes []string         `json:"likelyFailureModes" yaml:"likelyFailureModes"`
	Actions            []string         `json:"actions" yaml:"actions"`
}

type conditionEntry struct {
	Signal   string  `json:"signal" yaml:"signal"`
	Operator string  `json:"operator" yaml:"operator"`
	Value    float64 `json:"value" yaml:"value"`
}

// Load parses a ruleset document (JSON or YAML, detected by content),
// validates it against the schema, and drops any rule missing a
// non-blank id. Missing list fields default to empty slices.
func Load(data []byte) ([]model.RecommendationRule, error) {
	asJSON, err := toJSON(data)
	if err != nil {
		return nil, &model.Error{Kind: model.ErrInvalidRuleset, Message: "parsing ruleset", Cause: err}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(asJSON))
	if err != nil {
		return nil, &model.Error{Kind: model.ErrInvalidRuleset, Message: "decoding ruleset", Cause: err}
	}
	if err := compiledSchema.Validate(doc); err != nil {
		return nil, &model.Error{Kind: model.ErrInvalidRuleset, Message: "ruleset failed schema validation", Cause: err}
	}

	var envelope ruleEnvelope
	if err := json.Unmarshal(asJSON, &envelope); err != nil {
		return nil, &model.Error{Kind: model.ErrInvalidRuleset, Message: "decoding ruleset rules", Cause: err}
	}

	rules := make([]model.RecommendationRule, 0, len(envelope.Rules))
	for _, entry := range envelope.Rules {
		if strings.TrimSpace(entry.ID) == "" {
			continue
		}

		conditions := make([]model.Condition, 0, len(entry.Conditions))
		for _, c := range entry.Conditions {
			conditions = append(conditions, model.Condition{
				Signal:   c.Signal,
				Operator: model.Operator(c.Operator),
				Value:    c.Value,
			})
		}

		failureModes := entry.LikelyFailureModes
		if failureModes == nil {
			failureModes = []string{}
		}
		actions := entry.Actions
		if actions == nil {
			actions = []string{}
		}

		rules = append(rules, model.RecommendationRule{
			ID:                 entry.ID,
			Description:        entry.Description,
			Severity:           model.Severity(entry.Severity),
			Conditions:         conditions,
			LikelyFailureModes: failureModes,
			Actions:            actions,
		})
	}

	return rules, nil
}

// toJSON returns data unchanged if it already looks like JSON, otherwise
// treats it as YAML and re-encodes it to JSON.
func toJSON(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return data, nil
	}

	var generic any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return nil, err
	}
	return json.Marshal(normalizeYAML(generic))
}

// normalizeYAML recursively converts map[string]interface{} produced by
// yaml.v3 into plain JSON-marshalable values; yaml.v3 already uses string
// keys, but nested maps still need walking for nested sequences.
func normalizeYAML(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, vv := range val {
			out[k] = normalizeYAML(vv)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, vv := range val {
			out[i] = normalizeYAML(vv)
		}
		return out
	default:
		return val
	}
}
