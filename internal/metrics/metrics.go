// Package metrics computes the eleven tag-health metrics (M1–M11) over a
// set of samples' normalized tag bags.
package metrics

import (
	"math"
	"sort"
	"time"

	"github.com/tagmetry/tagmetry/internal/model"
)

// Options configures the metrics evaluator (S3).
type Options struct {
	TopK                         []int
	TargetDistribution           map[string]float64
	MinStopTagDocFrequency       int
	MaxStopTagCandidates         int
	MinPMICooccurrence           int
	MaxPMIAnomalies              int
	CommunityEdgeWeightThreshold float64
	CommunityPreviewSize         int
	NearDuplicateGroupKeys       []*string
	MaxTokenLength               int
}

// tagFrequency is the working set built once per Evaluate call: the global
// token-frequency table plus one document-membership bitmap per tag, used
// by M7 and M8.
type tagFrequency struct {
	order  []string // tags in ordinal order, deduplicated
	counts map[string]int
	docs   *docIndex
}

// Evaluate computes the full MetricsReport for a set of tag bags.
func Evaluate(bags [][]string, opts Options) model.MetricsReport {
	freq := buildFrequency(bags)

	tokenCount := 0
	for _, c := range freq.counts {
		tokenCount += c
	}

	probs := buildProbabilities(freq)

	entropy := shannonEntropy(probs)
	gini := giniCoefficient(probs)
	hhi := hhiIndex(probs)

	report := model.MetricsReport{
		SampleCount:             len(bags),
		TokenCount:              tokenCount,
		UniqueTagCount:          len(freq.order),
		Entropy:                 entropy,
		EffectiveTagCount:       math.Exp(entropy),
		Gini:                    gini,
		HHI:                     hhi,
		TopKMass:                topKMass(probs, opts.TopK),
		JSDToTarget:             jsdToTarget(probs, opts.TargetDistribution),
		StopTagCandidates:       stopTagCandidates(freq, len(bags), opts.MinStopTagDocFrequency, opts.MaxStopTagCandidates),
		PMIAnomalies:            pmiAnomalies(freq, len(bags), opts.MinPMICooccurrence, opts.MaxPMIAnomalies),
		CommunityHint:           communityHint(freq, len(bags), opts.CommunityEdgeWeightThreshold, opts.CommunityPreviewSize),
		NearDuplicateRateHook:   nearDuplicateRateHook(opts.NearDuplicateGroupKeys, len(bags)),
		TokenLengthOverflowRate: tokenLengthOverflowRate(bags, opts.MaxTokenLength),
		GeneratedAt:             time.Now().UTC(),
	}

	return report
}

func buildFrequency(bags [][]string) tagFrequency {
	counts := make(map[string]int)
	seen := make(map[string]bool)
	var order []string
	docs := newDocIndex()

	for sampleIdx, bag := range bags {
		uniqueInSample := make(map[string]bool, len(bag))
		for _, tag := range bag {
			counts[tag]++
			if !seen[tag] {
				seen[tag] = true
				order = append(order, tag)
			}
			uniqueInSample[tag] = true
		}
		for tag := range uniqueInSample {
			docs.add(tag, sampleIdx)
		}
	}

	sort.Strings(order)
	return tagFrequency{order: order, counts: counts, docs: docs}
}

// probability is one tag's frequency share of the global token pool, kept
// alongside its name for the many metrics that need ordinal tie-breaking.
type probability struct {
	tag string
	p   float64
}

func buildProbabilities(freq tagFrequency) []probability {
	total := 0
	for _, c := range freq.counts {
		total += c
	}
	probs := make([]probability, 0, len(freq.order))
	if total == 0 {
		return probs
	}
	for _, tag := range freq.order {
		probs = append(probs, probability{tag: tag, p: float64(freq.counts[tag]) / float64(total)})
	}
	return probs
}

func shannonEntropy(probs []probability) float64 {
	p := make([]float64, len(probs))
	for i, pr := range probs {
		p[i] = pr.p
	}
	return entropyNats(p)
}

func hhiIndex(probs []probability) float64 {
	var hhi float64
	for _, pr := range probs {
		hhi += pr.p * pr.p
	}
	return hhi
}

func giniCoefficient(probs []probability) float64 {
	n := len(probs)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	for i, pr := range probs {
		sorted[i] = pr.p
	}
	sort.Float64s(sorted) // ascending

	var cumulative, sumCumulative float64
	for _, p := range sorted {
		cumulative += p
		sumCumulative += cumulative
	}
	return (float64(n+1) - 2*sumCumulative) / float64(n)
}

func topKMass(probs []probability, ks []int) map[int]float64 {
	result := make(map[int]float64, len(ks))
	if len(probs) == 0 {
		for _, k := range ks {
			result[k] = 0
		}
		return result
	}

	sorted := make([]probability, len(probs))
	copy(sorted, probs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].p != sorted[j].p {
			return sorted[i].p > sorted[j].p
		}
		return sorted[i].tag < sorted[j].tag
	})

	prefix := make([]float64, len(sorted)+1)
	for i, pr := range sorted {
		prefix[i+1] = prefix[i] + pr.p
	}

	for _, k := range ks {
		idx := k
		if idx > len(sorted) {
			idx = len(sorted)
		}
		if idx < 0 {
			idx = 0
		}
		result[k] = prefix[idx]
	}
	return result
}

func tokenLengthOverflowRate(bags [][]string, maxTokenLength int) float64 {
	if maxTokenLength <= 0 {
		return 0
	}
	total, overflow := 0, 0
	for _, bag := range bags {
		for _, tag := range bag {
			total++
			if len([]rune(tag)) > maxTokenLength {
				overflow++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(overflow) / float64(total)
}

func nearDuplicateRateHook(keys []*string, sampleCount int) model.NearDuplicateRateHook {
	if len(keys) != sampleCount || sampleCount == 0 {
		return model.NearDuplicateRateHook{Note: "near-duplicate grouping keys not provided or mismatched in length"}
	}

	groupCounts := make(map[string]int)
	for _, k := range keys {
		if k == nil || *k == "" {
			continue
		}
		groupCounts[*k]++
	}

	hits := 0
	for _, k := range keys {
		if k == nil || *k == "" {
			continue
		}
		if groupCounts[*k] >= 2 {
			hits++
		}
	}

	rate := float64(hits) / float64(sampleCount)
	return model.NearDuplicateRateHook{Rate: &rate}
}
