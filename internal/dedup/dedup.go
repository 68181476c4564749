package dedup

import (
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// Report assembles the full S5 DuplicateReport from per-path content
// digests and perceptual hashes, both already computed in canonical
// (ordinal-path) order.
func Report(paths []string, digests map[string]HashDigests, fingerprints []Fingerprint, likelyThreshold, maybeThreshold int) model.DuplicateReport {
	shaByPath := make(map[string]string, len(digests))
	for path, d := range digests {
		shaByPath[path] = d.SHA256
	}

	exact := ExactGroups(shaByPath)
	near, nearGroups := NearDuplicates(fingerprints, likelyThreshold, maybeThreshold)

	sortedPaths := append([]string(nil), paths...)
	sort.Strings(sortedPaths)

	return model.DuplicateReport{
		TotalFiles:   len(sortedPaths),
		ExactGroups:  exact,
		NearFindings: near,
		NearGroups:   nearGroups,
	}
}
