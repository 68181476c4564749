package model

import "time"

// Stage names one step of the canonical pipeline order, used both for
// progress reporting and for the writer's artifact bookkeeping.
type Stage string

const (
	StageValidate  Stage = "validate"
	StageScan      Stage = "scan"
	StageNormalize Stage = "normalize"
	StageMetrics   Stage = "metrics"
	StageRecommend Stage = "recommend"
	StageDedupe    Stage = "dedupe"
	StageFinalize  Stage = "finalize"
	StageFailed    Stage = "failed"
)

// ProgressUpdate is what run_analysis reports to its progress sink.
type ProgressUpdate struct {
	Percent float64   `json:"percent"`
	Stage   Stage     `json:"stage"`
	Message string    `json:"message"`
	AtUTC   time.Time `json:"atUtc"`
}

// JobState is the terminal state of a run_analysis invocation.
type JobState string

const (
	JobCompleted JobState = "Completed"
	JobFailed    JobState = "Failed"
	JobCancelled JobState = "Cancelled"
)

// Request configures one run_analysis invocation.
type Request struct {
	InputDir                  string
	OutputDir                 string
	RulesPath                 string
	EnableDuplicateDetection  bool
	EnableTagMetrics          bool
	EnableRecommendations     bool

	TopK                      []int
	TargetDistribution        map[string]float64
	MinStopTagDocFrequency    int
	MaxStopTagCandidates      int
	MinPMICooccurrence        int
	MaxPMIAnomalies           int
	CommunityEdgeWeightThreshold float64
	CommunityPreviewSize      int
	MaxTokenLength            int

	LikelyHammingThreshold    int
	MaybeHammingThreshold     int

	NormalizationRules        TagNormalizationRules
}

// Result is the outcome of a run_analysis invocation.
type Result struct {
	State      JobState          `json:"state"`
	Outputs    map[string]string `json:"outputs"`
	Error      string            `json:"error,omitempty"`
	FinishedAt time.Time         `json:"finishedAt"`
}
