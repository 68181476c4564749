package metrics

import (
	"math"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// stopTagCandidates flags tags whose document frequency across samples is
// high enough that they carry little discriminative signal, using a
// smoothed inverse-document-frequency score. Lower IDF means a tag appears
// in nearly every sample and is a stronger stop-tag candidate.
func stopTagCandidates(freq tagFrequency, sampleCount int, minDocFrequency int, maxCandidates int) []model.StopTagCandidate {
	if sampleCount == 0 {
		return nil
	}

	var candidates []model.StopTagCandidate
	for _, tag := range freq.order {
		df := freq.docs.frequency(tag)
		if df < minDocFrequency {
			continue
		}
		idf := math.Log(float64(sampleCount+1)/float64(df+1)) + 1
		candidates = append(candidates, model.StopTagCandidate{
			Tag:               tag,
			DocumentFrequency: df,
			IDF:               idf,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].IDF != candidates[j].IDF {
			return candidates[i].IDF < candidates[j].IDF
		}
		return candidates[i].Tag < candidates[j].Tag
	})

	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}
	return candidates
}
