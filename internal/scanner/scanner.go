// Package scanner walks an input directory, builds one ImageRecord per
// recognized image file, and resolves each image's caption sidecars (S1).
package scanner

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/tagmetry/tagmetry/internal/dedup"
	"github.com/tagmetry/tagmetry/internal/model"
	"github.com/tagmetry/tagmetry/internal/progress"
	"github.com/tagmetry/tagmetry/internal/workerpool"
)

// allowedExtensions is the canonical, lowercase set of image extensions
// the scanner recognizes.
var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true,
	".bmp": true, ".gif": true, ".tif": true, ".tiff": true,
}

// Discover walks inputDir and returns every recognized image's absolute
// path, sorted ordinally. This ordering is the canonical sample order
// used by every downstream stage.
func Discover(inputDir string) ([]string, error) {
	info, err := os.Stat(inputDir)
	if err != nil || !info.IsDir() {
		return nil, &model.Error{Kind: model.ErrInputNotFound, Message: inputDir, Cause: err}
	}

	var paths []string
	walkErr := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if allowedExtensions[strings.ToLower(filepath.Ext(path))] {
			abs, err := filepath.Abs(path)
			if err != nil {
				return err
			}
			paths = append(paths, abs)
		}
		return nil
	})
	if walkErr != nil {
		return nil, &model.Error{Kind: model.ErrIOFailure, Message: "walking input directory", Cause: walkErr}
	}

	sort.Strings(paths)
	return paths, nil
}

// scanResult pairs a built record with an optional warning message for a
// per-image transient failure (currently: unreadable image dimensions).
// Warnings are collected during the parallel fan-out and reported to the
// sink sequentially, in canonical order, after the fan-out completes.
type scanResult struct {
	Record  model.ImageRecord
	Warning string
}

// Scan builds one ImageRecord per discovered image, streaming content
// hashes and sidecar captions in parallel, and assembles the run's
// SummaryIndex. Per-image dimension failures are tolerated: the record
// carries absent width/height and a warning is reported through sink
// rather than aborting the run. sink may be nil.
func Scan(ctx context.Context, inputDir string, paths []string, sink progress.Sink) ([]model.ImageRecord, model.SummaryIndex, error) {
	results, err := workerpool.Map(ctx, paths, func(ctx context.Context, path string, index int) (scanResult, error) {
		return buildRecord(inputDir, path)
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, model.SummaryIndex{}, &model.Error{Kind: model.ErrCancelled, Cause: ctx.Err()}
		}
		var inner *model.Error
		if errors.As(err, &inner) {
			return nil, model.SummaryIndex{}, inner
		}
		return nil, model.SummaryIndex{}, &model.Error{Kind: model.ErrIOFailure, Message: "scanning images", Cause: err}
	}

	records := make([]model.ImageRecord, len(results))
	summary := model.SummaryIndex{
		DatasetPath:     inputDir,
		OutputPaths:     map[string]string{},
		ExtensionCounts: map[string]int{},
	}
	for i, res := range results {
		rec := res.Record
		records[i] = rec

		if res.Warning != "" && sink != nil {
			sink.Report(model.ProgressUpdate{Stage: model.StageScan, Message: res.Warning, AtUTC: time.Now().UTC()})
		}

		summary.TotalImages++
		if rec.Width != nil && rec.Height != nil {
			summary.TotalPixels += int64(*rec.Width) * int64(*rec.Height)
		}
		if rec.CaptionPresence.HasBooruTags {
			summary.WithBooruTags++
		}
		if rec.CaptionPresence.HasShortCaption {
			summary.WithShortCaption++
		}
		if rec.CaptionPresence.HasStyleTags {
			summary.WithStyleTags++
		}
		ext := strings.ToLower(filepath.Ext(rec.RelativePath))
		summary.ExtensionCounts[ext]++
	}

	return records, summary, nil
}

// buildRecord computes the mandatory hash digests (a failure here aborts
// the job, per §7's propagation policy) and then attempts to read the
// image's dimensions. A dimension failure is tolerated: it produces a
// warning and an absent width/height rather than an error.
func buildRecord(inputDir, path string) (scanResult, error) {
	digests, err := dedup.ComputeDigests(path)
	if err != nil {
		return scanResult{}, &model.Error{Kind: model.ErrIOFailure, Message: path, Cause: err}
	}

	var widthPtr, heightPtr *int
	var warning string
	width, height, dimErr := decodeDimensions(path)
	if dimErr != nil {
		warning = fmt.Sprintf("%s: could not read image dimensions: %v", path, dimErr)
	} else {
		widthPtr, heightPtr = &width, &height
	}

	rel, err := filepath.Rel(inputDir, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)

	sources, presence := resolveSidecars(path)

	return scanResult{
		Record: model.ImageRecord{
			RelativePath:    rel,
			Width:           widthPtr,
			Height:          heightPtr,
			MD5:             digests.MD5,
			SHA256:          digests.SHA256,
			CaptionSources:  sources,
			CaptionPresence: presence,
		},
		Warning: warning,
	}, nil
}

func decodeDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, err
	}
	return cfg.Width, cfg.Height, nil
}

// sidecarVariants lists, in precedence order, the candidate sidecar
// filenames checked for each caption source.
var sidecarVariants = map[string][]string{
	"booru": {".booru.txt", ".tags.txt"},
	"short": {".caption.txt", ".txt"},
	"style": {".style.txt"},
}

func resolveSidecars(imagePath string) (model.CaptionSources, model.CaptionPresence) {
	ext := filepath.Ext(imagePath)
	base := strings.TrimSuffix(imagePath, ext)

	booru := readSidecarVariants(base, sidecarVariants["booru"])
	short := readSidecarVariants(base, sidecarVariants["short"])
	style := readSidecarVariants(base, sidecarVariants["style"])

	return model.CaptionSources{
			BooruTags:    booru,
			ShortCaption: short,
			StyleTags:    style,
		}, model.CaptionPresence{
			HasBooruTags:    booru != nil,
			HasShortCaption: short != nil,
			HasStyleTags:    style != nil,
		}
}

func readSidecarVariants(base string, suffixes []string) *string {
	for _, suffix := range suffixes {
		data, err := os.ReadFile(base + suffix)
		if err != nil {
			continue
		}
		collapsed := strings.Join(strings.Fields(string(data)), " ")
		if collapsed == "" {
			continue
		}
		return &collapsed
	}
	return nil
}
