package core

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tagmetry/tagmetry/internal/model"
	"github.com/tagmetry/tagmetry/internal/normalize"
)

func writeFixturePNG(t *testing.T, path string, fill color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, fill)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestRunAnalysisCompletesFullPipeline(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := t.TempDir()

	writeFixturePNG(t, filepath.Join(inputDir, "one.png"), color.RGBA{10, 10, 10, 255})
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "one.booru.txt"), []byte("cat, dog"), 0o644))
	writeFixturePNG(t, filepath.Join(inputDir, "two.png"), color.RGBA{200, 200, 200, 255})
	require.NoError(t, os.WriteFile(filepath.Join(inputDir, "two.booru.txt"), []byte("dog cat"), 0o644))

	req := model.Request{
		InputDir:                 inputDir,
		OutputDir:                outputDir,
		EnableTagMetrics:         true,
		EnableRecommendations:    false,
		EnableDuplicateDetection: true,
		TopK:                     []int{1, 2},
		MaxTokenLength:           32,
		LikelyHammingThreshold:   4,
		MaybeHammingThreshold:    10,
		NormalizationRules:       normalize.DefaultRules(),
	}

	result := RunAnalysis(context.Background(), req, nil)
	require.Equal(t, model.JobCompleted, result.State)
	require.Equal(t, "dataset.jsonl", result.Outputs["dataset"])
	require.Equal(t, "metrics.json", result.Outputs["metrics"])
	require.Equal(t, "duplicates.json", result.Outputs["duplicates"])

	for _, name := range result.Outputs {
		_, err := os.Stat(filepath.Join(outputDir, name))
		require.NoError(t, err)
	}
}

func TestRunAnalysisMissingInputDirFails(t *testing.T) {
	req := model.Request{
		InputDir:  filepath.Join(t.TempDir(), "missing"),
		OutputDir: t.TempDir(),
	}
	result := RunAnalysis(context.Background(), req, nil)
	require.Equal(t, model.JobFailed, result.State)
	require.NotEmpty(t, result.Error)
}

func TestRunAnalysisCancellation(t *testing.T) {
	inputDir := t.TempDir()
	writeFixturePNG(t, filepath.Join(inputDir, "one.png"), color.RGBA{1, 2, 3, 255})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := model.Request{InputDir: inputDir, OutputDir: t.TempDir()}
	result := RunAnalysis(ctx, req, nil)
	require.Equal(t, model.JobCancelled, result.State)
}
