package model

// SummaryIndex is the per-run dataset summary written alongside dataset.jsonl.
type SummaryIndex struct {
	DatasetPath       string         `json:"datasetPath"`
	OutputPaths       map[string]string `json:"outputPaths"`
	TotalImages       int            `json:"totalImages"`
	WithBooruTags     int            `json:"withBooruTags"`
	WithShortCaption  int            `json:"withShortCaption"`
	WithStyleTags     int            `json:"withStyleTags"`
	TotalPixels       int64          `json:"totalPixels"`
	ExtensionCounts   map[string]int `json:"extensionCounts"`
}
