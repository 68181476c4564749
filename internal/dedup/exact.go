package dedup

import (
	"fmt"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// ExactGroups groups paths that share an identical SHA-256 digest. Groups
// with fewer than two members carry no duplication signal and are
// dropped. Groups are ordered by descending size, then ordinally by
// their SHA-256 digest.
func ExactGroups(pathDigests map[string]string) []model.ExactDuplicateGroup {
	bySHA := make(map[string][]string)
	for path, sha := range pathDigests {
		bySHA[sha] = append(bySHA[sha], path)
	}

	var groups []model.ExactDuplicateGroup
	for sha, paths := range bySHA {
		if len(paths) < 2 {
			continue
		}
		sorted := append([]string(nil), paths...)
		sort.Strings(sorted)
		groups = append(groups, model.ExactDuplicateGroup{SHA256: sha, Paths: sorted})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Paths) != len(groups[j].Paths) {
			return len(groups[i].Paths) > len(groups[j].Paths)
		}
		return groups[i].SHA256 < groups[j].SHA256
	})

	for i := range groups {
		groups[i].GroupID = fmt.Sprintf("exact-%04d", i+1)
	}
	return groups
}
