// Package config loads tagmetry's CLI-wrapper configuration from a JSON,
// YAML, or TOML file, the way the teacher's own config package does.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds the tagmetry CLI's persisted defaults.
type Config struct {
	Metrics     MetricsConfig     `koanf:"metrics" toml:"metrics"`
	Recommend   RecommendConfig   `koanf:"recommend" toml:"recommend"`
	Duplicates  DuplicatesConfig  `koanf:"duplicates" toml:"duplicates"`
	Output      OutputConfig      `koanf:"output" toml:"output"`
}

// MetricsConfig controls the S3 metrics evaluator's defaults.
type MetricsConfig struct {
	TopK                         []int              `koanf:"top_k" toml:"top_k"`
	TargetDistribution           map[string]float64 `koanf:"target_distribution" toml:"target_distribution"`
	MinStopTagDocFrequency       int                `koanf:"min_stop_tag_doc_frequency" toml:"min_stop_tag_doc_frequency"`
	MaxStopTagCandidates         int                `koanf:"max_stop_tag_candidates" toml:"max_stop_tag_candidates"`
	MinPMICooccurrence           int                `koanf:"min_pmi_cooccurrence" toml:"min_pmi_cooccurrence"`
	MaxPMIAnomalies              int                `koanf:"max_pmi_anomalies" toml:"max_pmi_anomalies"`
	CommunityEdgeWeightThreshold float64            `koanf:"community_edge_weight_threshold" toml:"community_edge_weight_threshold"`
	CommunityPreviewSize         int                `koanf:"community_preview_size" toml:"community_preview_size"`
	MaxTokenLength               int                `koanf:"max_token_length" toml:"max_token_length"`
}

// RecommendConfig controls the S4 recommendation engine's defaults.
type RecommendConfig struct {
	Enabled   bool   `koanf:"enabled" toml:"enabled"`
	RulesPath string `koanf:"rules_path" toml:"rules_path"`
}

// DuplicatesConfig controls the S5 duplicate-detection defaults.
type DuplicatesConfig struct {
	Enabled                bool `koanf:"enabled" toml:"enabled"`
	LikelyHammingThreshold int  `koanf:"likely_hamming_threshold" toml:"likely_hamming_threshold"`
	MaybeHammingThreshold  int  `koanf:"maybe_hamming_threshold" toml:"maybe_hamming_threshold"`
}

// OutputConfig controls where the run's artifacts are written.
type OutputConfig struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// Default returns tagmetry's built-in configuration defaults.
func Default() *Config {
	return &Config{
		Metrics: MetricsConfig{
			TopK:                   []int{1, 5, 10},
			MinStopTagDocFrequency: 0,
			MaxStopTagCandidates:   20,
			MinPMICooccurrence:     2,
			MaxPMIAnomalies:        20,
			CommunityPreviewSize:   5,
			MaxTokenLength:         64,
		},
		Recommend: RecommendConfig{Enabled: false},
		Duplicates: DuplicatesConfig{
			Enabled:                false,
			LikelyHammingThreshold: 4,
			MaybeHammingThreshold:  10,
		},
		Output: OutputConfig{Dir: "./tagmetry-output"},
	}
}

// Load reads configuration from path, choosing a koanf parser by file
// extension, and overlays it onto the built-in defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	k := koanf.New(".")
	parser := parserForExt(filepath.Ext(path))
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parserForExt(ext string) koanf.Parser {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".toml":
		return toml.Parser()
	default:
		return json.Parser()
	}
}

// FindConfigFile searches the current directory for a tagmetry config
// file, returning its path or "" if none exists.
func FindConfigFile() string {
	for _, name := range []string{"tagmetry.json", "tagmetry.yaml", "tagmetry.yml", "tagmetry.toml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}
