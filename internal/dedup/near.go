package dedup

import (
	"fmt"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// Fingerprint pairs a path with its perceptual hash, in canonical
// (ordinal-path) order.
type Fingerprint struct {
	Path string
	Hash uint64
}

// NearDuplicates classifies every pairwise Hamming distance into the
// Likely/Maybe bands and groups Likely-band pairs into connected
// components via union-find. Pairs whose distance exceeds maybeThreshold
// carry no duplication signal and are omitted entirely.
func NearDuplicates(fingerprints []Fingerprint, likelyThreshold, maybeThreshold int) ([]model.NearDuplicateFinding, []model.NearDuplicateGroup) {
	n := len(fingerprints)
	var findings []model.NearDuplicateFinding
	uf := newUnionFind(n)
	likelyPairs := make(map[[2]int]bool)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist := HammingDistance(fingerprints[i].Hash, fingerprints[j].Hash)
			if dist > maybeThreshold {
				continue
			}

			band := model.BandMaybe
			if dist <= likelyThreshold {
				band = model.BandLikely
				uf.union(i, j)
				likelyPairs[[2]int{i, j}] = true
			}

			findings = append(findings, model.NearDuplicateFinding{
				LeftPath:   fingerprints[i].Path,
				RightPath:  fingerprints[j].Path,
				Distance:   dist,
				Band:       band,
				Similarity: 1 - float64(dist)/64,
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		bi, bj := bandRank(findings[i].Band), bandRank(findings[j].Band)
		if bi != bj {
			return bi < bj
		}
		if findings[i].Distance != findings[j].Distance {
			return findings[i].Distance < findings[j].Distance
		}
		if findings[i].LeftPath != findings[j].LeftPath {
			return findings[i].LeftPath < findings[j].LeftPath
		}
		return findings[i].RightPath < findings[j].RightPath
	})

	groups := buildGroups(fingerprints, uf, findings)
	return findings, groups
}

// bandRank orders Likely before Maybe for the near-finding sort, per
// §4.5's "band (Likely before Maybe)" ordering rule.
func bandRank(b model.Band) int {
	if b == model.BandLikely {
		return 0
	}
	return 1
}

func buildGroups(fingerprints []Fingerprint, uf *unionFind, findings []model.NearDuplicateFinding) []model.NearDuplicateGroup {
	members := make(map[int][]int)
	for i := range fingerprints {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	indexByPath := make(map[string]int, len(fingerprints))
	for i, fp := range fingerprints {
		indexByPath[fp.Path] = i
	}

	var groups []model.NearDuplicateGroup
	for _, idxs := range members {
		if len(idxs) < 2 {
			continue
		}
		sort.Slice(idxs, func(i, j int) bool { return fingerprints[idxs[i]].Path < fingerprints[idxs[j]].Path })

		memberSet := make(map[int]bool, len(idxs))
		var paths []string
		for _, idx := range idxs {
			memberSet[idx] = true
			paths = append(paths, fingerprints[idx].Path)
		}

		var sumSimilarity float64
		var likelyCount, maybeCount, pairCount int
		for _, f := range findings {
			li, ri := indexByPath[f.LeftPath], indexByPath[f.RightPath]
			if !memberSet[li] || !memberSet[ri] {
				continue
			}
			sumSimilarity += f.Similarity
			pairCount++
			if f.Band == model.BandLikely {
				likelyCount++
			} else {
				maybeCount++
			}
		}

		aggregate := 0.0
		if pairCount > 0 {
			aggregate = sumSimilarity / float64(pairCount)
		}

		groups = append(groups, model.NearDuplicateGroup{
			Paths:           paths,
			AggregateScore:  aggregate,
			LikelyPairCount: likelyCount,
			MaybePairCount:  maybeCount,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Paths) != len(groups[j].Paths) {
			return len(groups[i].Paths) > len(groups[j].Paths)
		}
		return groups[i].Paths[0] < groups[j].Paths[0]
	})
	for i := range groups {
		groups[i].GroupID = fmt.Sprintf("near-%04d", i+1)
	}
	return groups
}
