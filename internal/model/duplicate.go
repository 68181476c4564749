package model

// Band classifies a near-duplicate finding by Hamming distance.
type Band string

const (
	BandLikely Band = "Likely"
	BandMaybe  Band = "Maybe"
)

// ExactDuplicateGroup groups images sharing an identical SHA-256.
type ExactDuplicateGroup struct {
	GroupID string   `json:"groupId"`
	SHA256  string   `json:"sha256"`
	Paths   []string `json:"paths"`
}

// NearDuplicateFinding is one pairwise perceptual-hash comparison result.
type NearDuplicateFinding struct {
	LeftPath   string  `json:"leftPath"`
	RightPath  string  `json:"rightPath"`
	Distance   int     `json:"hammingDistance"`
	Band       Band    `json:"band"`
	Similarity float64 `json:"similarity"`
}

// NearDuplicateGroup is a connected component under Likely-band edges.
type NearDuplicateGroup struct {
	GroupID          string   `json:"groupId"`
	Paths            []string `json:"paths"`
	AggregateScore   float64  `json:"aggregateScore"`
	LikelyPairCount  int      `json:"likelyPairCount"`
	MaybePairCount   int      `json:"maybePairCount"`
}

// DuplicateReport is the S5 output.
type DuplicateReport struct {
	TotalFiles  int                   `json:"totalFiles"`
	ExactGroups []ExactDuplicateGroup `json:"exactGroups"`
	NearFindings []NearDuplicateFinding `json:"nearFindings"`
	NearGroups  []NearDuplicateGroup  `json:"nearGroups"`
}
