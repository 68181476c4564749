// Command tagmetry analyzes an image/caption dataset for tag health,
// recommendations, and duplicate content.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/tagmetry/tagmetry/internal/core"
	"github.com/tagmetry/tagmetry/internal/model"
	"github.com/tagmetry/tagmetry/internal/normalize"
	"github.com/tagmetry/tagmetry/internal/progress"
	"github.com/tagmetry/tagmetry/pkg/config"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "tagmetry",
		Usage:   "Analyze image/caption dataset tag health, recommendations, and duplicates",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file (JSON, YAML, or TOML)", EnvVars: []string{"TAGMETRY_CONFIG"}},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Directory to write artifacts to"},
			&cli.StringFlag{Name: "rules", Usage: "Path to a recommendation ruleset (JSON or YAML)"},
			&cli.StringFlag{Name: "top-k", Value: "1,5,10", Usage: "Comma-separated K values for top-K tag mass"},
			&cli.BoolFlag{Name: "no-metrics", Usage: "Disable the tag-health metrics stage"},
			&cli.BoolFlag{Name: "recommend", Usage: "Enable the recommendation engine"},
			&cli.BoolFlag{Name: "dedupe", Usage: "Enable duplicate detection"},
			&cli.IntFlag{Name: "likely-hamming-threshold", Value: 4, Usage: "Hamming distance at or below which a near-duplicate pair is Likely"},
			&cli.IntFlag{Name: "maybe-hamming-threshold", Value: 10, Usage: "Hamming distance at or below which a near-duplicate pair is Maybe"},
			&cli.IntFlag{Name: "max-token-length", Value: 64, Usage: "Tag length, in runes, above which a token counts toward the overflow rate"},
		},
		ArgsUsage: "<dataset-dir>",
		Action:    runAnalyze,
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(exitCodeFor(err))
	}
}

func runAnalyze(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("exactly one dataset directory argument is required", 2)
	}
	inputDir := c.Args().First()

	cfg := config.Default()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("loading config: %v", err), 2)
		}
		cfg = loaded
	}

	outputDir := c.String("output")
	if outputDir == "" {
		outputDir = cfg.Output.Dir
	}

	topK := cfg.Metrics.TopK
	if c.IsSet("top-k") {
		parsed, err := parseIntList(c.String("top-k"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --top-k: %v", err), 2)
		}
		topK = parsed
	}

	rulesPath := cfg.Recommend.RulesPath
	if c.String("rules") != "" {
		rulesPath = c.String("rules")
	}

	intSetting := func(flag string, fallback int) int {
		if c.IsSet(flag) {
			return c.Int(flag)
		}
		return fallback
	}

	req := model.Request{
		InputDir:                     inputDir,
		OutputDir:                    outputDir,
		RulesPath:                    rulesPath,
		EnableTagMetrics:             !c.Bool("no-metrics"),
		EnableRecommendations:        c.Bool("recommend") || cfg.Recommend.Enabled,
		EnableDuplicateDetection:     c.Bool("dedupe") || cfg.Duplicates.Enabled,
		TopK:                         topK,
		TargetDistribution:           cfg.Metrics.TargetDistribution,
		MinStopTagDocFrequency:       cfg.Metrics.MinStopTagDocFrequency,
		MaxStopTagCandidates:         cfg.Metrics.MaxStopTagCandidates,
		MinPMICooccurrence:           cfg.Metrics.MinPMICooccurrence,
		MaxPMIAnomalies:              cfg.Metrics.MaxPMIAnomalies,
		CommunityEdgeWeightThreshold: cfg.Metrics.CommunityEdgeWeightThreshold,
		CommunityPreviewSize:         cfg.Metrics.CommunityPreviewSize,
		MaxTokenLength:               intSetting("max-token-length", cfg.Metrics.MaxTokenLength),
		LikelyHammingThreshold:       intSetting("likely-hamming-threshold", cfg.Duplicates.LikelyHammingThreshold),
		MaybeHammingThreshold:        intSetting("maybe-hamming-threshold", cfg.Duplicates.MaybeHammingThreshold),
		NormalizationRules:           normalize.DefaultRules(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tracker := progress.NewTracker()
	result := core.RunAnalysis(ctx, req, tracker)
	tracker.Finish()

	switch result.State {
	case model.JobCompleted:
		color.Green("Analysis complete. Artifacts written to %s", outputDir)
		return nil
	case model.JobCancelled:
		return cli.Exit(fmt.Sprintf("run cancelled: %s", result.Error), 130)
	default:
		return cli.Exit(fmt.Sprintf("run failed: %s", result.Error), 1)
	}
}

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func exitCodeFor(err error) int {
	if exitErr, ok := err.(cli.ExitCoder); ok {
		return exitErr.ExitCode()
	}
	return 1
}
