package metrics

import "gonum.org/v1/gonum/stat"

// entropyNats computes Shannon entropy in nats using gonum's stat package,
// the same library the teacher's scoring code leans on for its summary
// statistics.
func entropyNats(p []float64) float64 {
	if len(p) == 0 {
		return 0
	}
	return stat.Entropy(p)
}
