package scanner

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
)

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0, 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestDiscoverFindsImagesSortedOrdinally(t *testing.T) {
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "b.png"), 4, 4)
	writeTestPNG(t, filepath.Join(dir, "a.png"), 4, 4)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644))

	paths, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	require.Contains(t, paths[0], "a.png")
	require.Contains(t, paths[1], "b.png")
}

func TestDiscoverMissingDirectory(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestScanBuildsRecordsAndSummary(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "sample.png")
	writeTestPNG(t, imgPath, 10, 20)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.booru.txt"), []byte("cat   dog\nsun"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.txt"), []byte("a short caption"), 0o644))

	paths, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	records, summary, err := Scan(context.Background(), dir, paths, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Equal(t, "sample.png", rec.RelativePath)
	require.NotNil(t, rec.Width)
	require.NotNil(t, rec.Height)
	require.Equal(t, 10, *rec.Width)
	require.Equal(t, 20, *rec.Height)
	require.NotEmpty(t, rec.MD5)
	require.NotEmpty(t, rec.SHA256)
	require.True(t, rec.CaptionPresence.HasBooruTags)
	require.Equal(t, "cat dog sun", *rec.CaptionSources.BooruTags)
	require.True(t, rec.CaptionPresence.HasShortCaption)
	require.False(t, rec.CaptionPresence.HasStyleTags)

	require.Equal(t, 1, summary.TotalImages)
	require.Equal(t, int64(200), summary.TotalPixels)
	require.Equal(t, 1, summary.WithBooruTags)
	require.Equal(t, 1, summary.ExtensionCounts[".png"])
}

func TestScanTreatsUnreadableDimensionsAsNonFatal(t *testing.T) {
	dir := t.TempDir()
	// An image extension whose header the standard decoders can't parse:
	// dimension reading fails, but the record must still be produced.
	corruptPath := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corruptPath, []byte("not a real png"), 0o644))

	paths, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	var warnings []model.ProgressUpdate
	sink := recordingSink(func(u model.ProgressUpdate) { warnings = append(warnings, u) })

	records, summary, err := Scan(context.Background(), dir, paths, sink)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	require.Nil(t, rec.Width)
	require.Nil(t, rec.Height)
	require.NotEmpty(t, rec.MD5)
	require.NotEmpty(t, rec.SHA256)

	require.Equal(t, 1, summary.TotalImages)
	require.Equal(t, int64(0), summary.TotalPixels)

	require.Len(t, warnings, 1)
	require.Equal(t, model.StageScan, warnings[0].Stage)
	require.Contains(t, warnings[0].Message, "corrupt.png")
}

type recordingSink func(model.ProgressUpdate)

func (f recordingSink) Report(u model.ProgressUpdate) { f(u) }

func TestScanNoSidecars(t *testing.T) {
	dir := t.TempDir()
	imgPath := filepath.Join(dir, "lonely.png")
	writeTestPNG(t, imgPath, 2, 2)

	paths, err := Discover(dir)
	require.NoError(t, err)
	records, _, err := Scan(context.Background(), dir, paths, nil)
	require.NoError(t, err)
	require.False(t, records[0].CaptionPresence.HasBooruTags)
	require.False(t, records[0].CaptionPresence.HasShortCaption)
	require.False(t, records[0].CaptionPresence.HasStyleTags)
}
