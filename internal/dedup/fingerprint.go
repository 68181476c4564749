// Package dedup computes per-image content fingerprints and groups images
// into exact and near-duplicate clusters (S5).
package dedup

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/tagmetry/tagmetry/internal/model"
)

// The blank imports above register every image codec the scanner accepts
// (S1's extension allowlist) with the standard library's image.Decode
// dispatcher.

const hashSize = 32 // side length of the resized grayscale image fed to the DCT
const blockSize = 8 // side length of the low-frequency block retained for hashing

// HashDigests holds the two streaming content hashes computed for a file.
type HashDigests struct {
	MD5    string
	SHA256 string
}

// ComputeDigests streams a file through MD5 and SHA-256 in a single pass.
func ComputeDigests(path string) (HashDigests, error) {
	f, err := os.Open(path)
	if err != nil {
		return HashDigests{}, err
	}
	defer f.Close()

	md5h := md5.New()
	sha256h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(md5h, sha256h), f); err != nil {
		return HashDigests{}, err
	}

	return HashDigests{
		MD5:    hex.EncodeToString(md5h.Sum(nil)),
		SHA256: hex.EncodeToString(sha256h.Sum(nil)),
	}, nil
}

// PerceptualHash computes a 64-bit perceptual hash for the image at path:
// bicubic-resize to 32x32 grayscale, apply a 2D type-II DCT, keep the
// top-left 8x8 low-frequency block, and threshold each coefficient
// (excluding the DC term, which is always forced to 0) against the
// block's median.
func PerceptualHash(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, &model.Error{Kind: model.ErrImageFileMissing, Message: path, Cause: err}
		}
		return 0, &model.Error{Kind: model.ErrIOFailure, Message: path, Cause: err}
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return 0, &model.Error{Kind: model.ErrUnsupportedImageFormat, Message: path, Cause: err}
	}

	gray := resizeGrayscale(src, hashSize, hashSize)
	coeffs := dct2D(gray, hashSize)
	return hashFromBlock(coeffs, hashSize, blockSize), nil
}

// resizeGrayscale bicubic-resizes src to w x h and returns its pixel
// intensities as float64 in row-major order, using the red channel as the
// grayscale signal.
func resizeGrayscale(src image.Image, w, h int) []float64 {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	out := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, _, _, _ := dst.At(x, y).RGBA()
			out[y*w+x] = float64(r >> 8)
		}
	}
	return out
}

// dct2D applies a 2D type-II discrete cosine transform to an n x n grid of
// samples given in row-major order.
func dct2D(samples []float64, n int) []float64 {
	// Separable transform: rows first, then columns.
	rowTransformed := make([]float64, n*n)
	for y := 0; y < n; y++ {
		row := samples[y*n : y*n+n]
		out := dct1D(row)
		copy(rowTransformed[y*n:y*n+n], out)
	}

	result := make([]float64, n*n)
	col := make([]float64, n)
	for x := 0; x < n; x++ {
		for y := 0; y < n; y++ {
			col[y] = rowTransformed[y*n+x]
		}
		out := dct1D(col)
		for y := 0; y < n; y++ {
			result[y*n+x] = out[y]
		}
	}
	return result
}

// dct1D computes the 1D type-II DCT of the given samples.
func dct1D(samples []float64) []float64 {
	n := len(samples)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += samples[i] * math.Cos(math.Pi/float64(n)*(float64(i)+0.5)*float64(k))
		}
		alpha := math.Sqrt(2.0 / float64(n))
		if k == 0 {
			alpha = math.Sqrt(1.0 / float64(n))
		}
		out[k] = alpha * sum
	}
	return out
}

// hashFromBlock extracts the top-left blockSize x blockSize low-frequency
// coefficients from an n x n DCT grid, thresholds each against the
// block's median (excluding the DC term), and packs the result into a
// 64-bit hash with the DC bit always forced to 0.
func hashFromBlock(coeffs []float64, n, block int) uint64 {
	values := make([]float64, 0, block*block)
	for y := 0; y < block; y++ {
		for x := 0; x < block; x++ {
			values = append(values, coeffs[y*n+x])
		}
	}

	// Median excludes the DC term (index 0) per the spec's thresholding rule.
	withoutDC := append([]float64(nil), values[1:]...)
	median := medianOf(withoutDC)

	var hash uint64
	for i, v := range values {
		if i == 0 {
			continue // DC bit is always forced to 0
		}
		if v > median {
			hash |= 1 << uint(63-i)
		}
	}
	return hash
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// HammingDistance returns the number of differing bits between two hashes.
func HammingDistance(a, b uint64) int {
	x := a ^ b
	count := 0
	for x != 0 {
		x &= x - 1
		count++
	}
	return count
}
