package metrics

import "math"

// jsdToTarget computes the Jensen-Shannon divergence, in bits, between the
// observed tag distribution and a caller-supplied target distribution. It
// returns nil when no target distribution was configured, or when the
// target is present but sums to <= 0.
func jsdToTarget(probs []probability, target map[string]float64) *float64 {
	if len(target) == 0 {
		return nil
	}

	targetTotal := 0.0
	for _, v := range target {
		targetTotal += v
	}
	if targetTotal <= 0 {
		return nil
	}

	keys := make(map[string]struct{}, len(probs)+len(target))
	observed := make(map[string]float64, len(probs))
	for _, pr := range probs {
		observed[pr.tag] = pr.p
		keys[pr.tag] = struct{}{}
	}

	normalizedTarget := make(map[string]float64, len(target))
	for k, v := range target {
		keys[k] = struct{}{}
		normalizedTarget[k] = v / targetTotal
	}

	var p, q, m []float64
	for k := range keys {
		pv := observed[k]
		qv := normalizedTarget[k]
		p = append(p, pv)
		q = append(q, qv)
		m = append(m, (pv+qv)/2)
	}

	hP := entropyNats(p)
	hQ := entropyNats(q)
	hM := entropyNats(m)

	jsdNats := hM - (hP+hQ)/2
	if jsdNats < 0 {
		jsdNats = 0
	}
	jsdBits := jsdNats / math.Ln2
	return &jsdBits
}
