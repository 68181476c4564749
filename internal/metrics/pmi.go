package metrics

import (
	"math"
	"sort"

	"github.com/tagmetry/tagmetry/internal/model"
)

// pmiAnomalies finds tag pairs whose co-occurrence rate across samples
// deviates from what independence would predict, using pointwise mutual
// information (base 2, consistent with M6's bits convention). Only pairs
// meeting the minimum co-occurrence count are considered; results are
// ordered by descending PMI, then descending count, then ordinally by the
// pair's tag names, and capped at maxAnomalies.
func pmiAnomalies(freq tagFrequency, sampleCount int, minCooccurrence int, maxAnomalies int) []model.PMIAnomaly {
	if sampleCount == 0 || minCooccurrence < 1 {
		return nil
	}

	n := float64(sampleCount)
	var anomalies []model.PMIAnomaly

	for i := 0; i < len(freq.order); i++ {
		a := freq.order[i]
		dfA := freq.docs.frequency(a)
		if dfA == 0 {
			continue
		}
		for j := i + 1; j < len(freq.order); j++ {
			b := freq.order[j]
			count := freq.docs.cooccurrence(a, b)
			if count < minCooccurrence {
				continue
			}
			dfB := freq.docs.frequency(b)
			if dfB == 0 {
				continue
			}

			pAB := float64(count) / n
			pA := float64(dfA) / n
			pB := float64(dfB) / n
			pmi := math.Log2(pAB / (pA * pB))

			anomalies = append(anomalies, model.PMIAnomaly{
				TagA:  a,
				TagB:  b,
				Count: count,
				PMI:   pmi,
			})
		}
	}

	sort.Slice(anomalies, func(i, j int) bool {
		if anomalies[i].PMI != anomalies[j].PMI {
			return anomalies[i].PMI > anomalies[j].PMI
		}
		if anomalies[i].Count != anomalies[j].Count {
			return anomalies[i].Count > anomalies[j].Count
		}
		if anomalies[i].TagA != anomalies[j].TagA {
			return anomalies[i].TagA < anomalies[j].TagA
		}
		return anomalies[i].TagB < anomalies[j].TagB
	})

	if maxAnomalies > 0 && len(anomalies) > maxAnomalies {
		anomalies = anomalies[:maxAnomalies]
	}
	return anomalies
}
