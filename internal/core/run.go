// Package core orchestrates the full analysis pipeline (S1-S7) behind a
// single RunAnalysis entry point.
package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tagmetry/tagmetry/internal/dedup"
	"github.com/tagmetry/tagmetry/internal/metrics"
	"github.com/tagmetry/tagmetry/internal/model"
	"github.com/tagmetry/tagmetry/internal/normalize"
	"github.com/tagmetry/tagmetry/internal/progress"
	"github.com/tagmetry/tagmetry/internal/recommend"
	"github.com/tagmetry/tagmetry/internal/report"
	"github.com/tagmetry/tagmetry/internal/ruleset"
	"github.com/tagmetry/tagmetry/internal/scanner"
	"github.com/tagmetry/tagmetry/internal/workerpool"
)

// stageWeights assigns each stage a share of the overall progress bar;
// percentages are cumulative and monotonically non-decreasing.
var stageWeights = map[model.Stage]float64{
	model.StageValidate:  2,
	model.StageScan:      28,
	model.StageNormalize: 15,
	model.StageMetrics:   15,
	model.StageRecommend: 5,
	model.StageDedupe:    30,
	model.StageFinalize:  5,
}

type stageTracker struct {
	sink     progress.Sink
	progress float64
}

func (t *stageTracker) report(stage model.Stage, message string) {
	t.sink.Report(model.ProgressUpdate{Percent: t.progress, Stage: stage, Message: message, AtUTC: time.Now().UTC()})
}

func (t *stageTracker) complete(stage model.Stage, message string) {
	t.progress += stageWeights[stage]
	if t.progress > 100 {
		t.progress = 100
	}
	t.sink.Report(model.ProgressUpdate{Percent: t.progress, Stage: stage, Message: message, AtUTC: time.Now().UTC()})
}

// RunAnalysis executes one full analysis run against req, reporting
// progress to sink and honoring ctx cancellation at each stage boundary.
func RunAnalysis(ctx context.Context, req model.Request, sink progress.Sink) model.Result {
	if sink == nil {
		sink = progress.Noop
	}
	tracker := &stageTracker{sink: sink}

	result, err := runStages(ctx, req, tracker)
	if err != nil {
		cleanupPartialOutputs(req.OutputDir)
		if IsCancelled(err) {
			tracker.report(model.StageFailed, "run cancelled")
			return model.Result{State: model.JobCancelled, Error: err.Error(), FinishedAt: time.Now().UTC()}
		}
		tracker.report(model.StageFailed, err.Error())
		return model.Result{State: model.JobFailed, Error: err.Error(), FinishedAt: time.Now().UTC()}
	}

	return result
}

func runStages(ctx context.Context, req model.Request, tracker *stageTracker) (model.Result, error) {
	tracker.report(model.StageValidate, "validating input and output paths")
	if err := validate(req); err != nil {
		return model.Result{}, err
	}
	tracker.complete(model.StageValidate, "validated")

	if err := checkCancelled(ctx); err != nil {
		return model.Result{}, err
	}

	tracker.report(model.StageScan, "scanning dataset")
	paths, err := scanner.Discover(req.InputDir)
	if err != nil {
		return model.Result{}, err
	}
	images, summary, err := scanner.Scan(ctx, req.InputDir, paths, tracker.sink)
	if err != nil {
		return model.Result{}, err
	}
	tracker.complete(model.StageScan, "scan complete")

	if err := checkCancelled(ctx); err != nil {
		return model.Result{}, err
	}

	var metricsReport *model.MetricsReport
	var recEval *model.RecommendationEvaluation

	if req.EnableTagMetrics {
		tracker.report(model.StageNormalize, "normalizing tags")
		bags := buildTagBags(images, req.NormalizationRules)
		tracker.complete(model.StageNormalize, "normalization complete")

		if err := checkCancelled(ctx); err != nil {
			return model.Result{}, err
		}

		tracker.report(model.StageMetrics, "computing tag-health metrics")
		m := metrics.Evaluate(bags, metrics.Options{
			TopK:                         req.TopK,
			TargetDistribution:           req.TargetDistribution,
			MinStopTagDocFrequency:       req.MinStopTagDocFrequency,
			MaxStopTagCandidates:         req.MaxStopTagCandidates,
			MinPMICooccurrence:           req.MinPMICooccurrence,
			MaxPMIAnomalies:              req.MaxPMIAnomalies,
			CommunityEdgeWeightThreshold: req.CommunityEdgeWeightThreshold,
			CommunityPreviewSize:         req.CommunityPreviewSize,
			MaxTokenLength:               req.MaxTokenLength,
		})
		metricsReport = &m
		tracker.complete(model.StageMetrics, "metrics computed")

		if err := checkCancelled(ctx); err != nil {
			return model.Result{}, err
		}

		if req.EnableRecommendations {
			tracker.report(model.StageRecommend, "evaluating recommendation rules")
			rules, err := loadRuleset(req.RulesPath)
			if err != nil {
				return model.Result{}, err
			}
			eval := recommend.Evaluate(rules, recommend.Signals(m))
			recEval = &eval
			tracker.complete(model.StageRecommend, "recommendations evaluated")
		}
	}

	if err := checkCancelled(ctx); err != nil {
		return model.Result{}, err
	}

	var dupeReport *model.DuplicateReport
	if req.EnableDuplicateDetection {
		tracker.report(model.StageDedupe, "detecting duplicates")
		d, err := computeDuplicates(ctx, req.InputDir, images, req.LikelyHammingThreshold, req.MaybeHammingThreshold)
		if err != nil {
			return model.Result{}, err
		}
		dupeReport = &d
		tracker.complete(model.StageDedupe, "duplicate detection complete")
	}

	tracker.report(model.StageFinalize, "writing artifacts")
	outputs, err := report.WriteAll(req.OutputDir, images, summary, metricsReport, recEval, dupeReport)
	if err != nil {
		return model.Result{}, &Error{Kind: ErrIOFailure, Message: "writing artifacts", Cause: err}
	}
	tracker.complete(model.StageFinalize, "done")

	return model.Result{State: model.JobCompleted, Outputs: outputs, FinishedAt: time.Now().UTC()}, nil
}

func validate(req model.Request) error {
	if strings.TrimSpace(req.InputDir) == "" {
		return &Error{Kind: ErrInvalidConfig, Message: "inputDir is required"}
	}
	if strings.TrimSpace(req.OutputDir) == "" {
		return &Error{Kind: ErrInvalidConfig, Message: "outputDir is required"}
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return &Error{Kind: ErrIOFailure, Message: "creating output directory", Cause: err}
	}
	return nil
}

func loadRuleset(path string) ([]model.RecommendationRule, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidRuleset, Message: path, Cause: err}
	}
	return ruleset.Load(data)
}

// buildTagBags splits each image's booru and style caption sources into
// raw tokens on commas and whitespace, then runs them through the
// normalization pipeline. Free-text short captions are excluded from the
// tag bag: they are prose, not a tag vocabulary.
func buildTagBags(images []model.ImageRecord, rules model.TagNormalizationRules) [][]string {
	bags := make([][]string, len(images))
	for i, img := range images {
		var raw []string
		raw = append(raw, splitTags(img.CaptionSources.BooruTags)...)
		raw = append(raw, splitTags(img.CaptionSources.StyleTags)...)

		normResult := normalize.NormalizeStrings(raw, rules)
		bags[i] = normResult.NormalizedTokens
	}
	return bags
}

func splitTags(source *string) []string {
	if source == nil {
		return nil
	}
	fields := strings.FieldsFunc(*source, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func computeDuplicates(ctx context.Context, inputDir string, images []model.ImageRecord, likelyThreshold, maybeThreshold int) (model.DuplicateReport, error) {
	paths := make([]string, len(images))
	shaByPath := make(map[string]string, len(images))
	for i, img := range images {
		abs := filepath.Join(inputDir, filepath.FromSlash(img.RelativePath))
		paths[i] = abs
		shaByPath[abs] = img.SHA256
	}

	digests := make(map[string]dedup.HashDigests, len(paths))
	for path, sha := range shaByPath {
		digests[path] = dedup.HashDigests{SHA256: sha}
	}

	hashes, err := workerpoolPerceptualHashes(ctx, paths)
	if err != nil {
		return model.DuplicateReport{}, err
	}

	return dedup.Report(paths, digests, hashes, likelyThreshold, maybeThreshold), nil
}

func workerpoolPerceptualHashes(ctx context.Context, paths []string) ([]dedup.Fingerprint, error) {
	hashes, err := workerpool.Map(ctx, paths, func(ctx context.Context, path string, index int) (dedup.Fingerprint, error) {
		hash, err := dedup.PerceptualHash(path)
		if err != nil {
			return dedup.Fingerprint{}, err
		}
		return dedup.Fingerprint{Path: path, Hash: hash}, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, &Error{Kind: ErrCancelled, Cause: ctx.Err()}
		}
		var inner *Error
		if errors.As(err, &inner) {
			return nil, inner
		}
		return nil, &Error{Kind: ErrUnsupportedImageFormat, Message: "computing perceptual hashes", Cause: err}
	}
	return hashes, nil
}

func cleanupPartialOutputs(outputDir string) {
	if strings.TrimSpace(outputDir) == "" {
		return
	}
	for _, name := range []string{"dataset.jsonl", "summary.json", "metrics.json", "metrics.md", "recommendations.json", "duplicates.json"} {
		_ = os.Remove(filepath.Join(outputDir, name))
	}
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return &Error{Kind: ErrCancelled, Cause: ctx.Err()}
	default:
		return nil
	}
}
