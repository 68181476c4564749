// Package model holds the value types shared across tagmetry's pipeline
// stages: image records, tag-health metrics, recommendations, and duplicate
// reports. Types are plain data; identity is by value and ordering is by
// field, not by pointer.
package model

// CaptionSources holds the raw sidecar text found for one image, before any
// tag normalization. A nil pointer means the sidecar was absent or empty
// after whitespace normalization.
type CaptionSources struct {
	BooruTags     *string `json:"booruTags,omitempty"`
	ShortCaption  *string `json:"shortCaption,omitempty"`
	StyleTags     *string `json:"styleTags,omitempty"`
}

// CaptionPresence flags which caption sources were available for an image.
type CaptionPresence struct {
	HasBooruTags    bool `json:"hasBooruTags"`
	HasShortCaption bool `json:"hasShortCaption"`
	HasStyleTags    bool `json:"hasStyleTags"`
}

// ImageRecord is the immutable per-image output of the dataset scanner (S1).
// RelativePath is always slash-normalized and stable across platforms.
// Width and Height are nil when the image's header could not be parsed; per
// §7's propagation policy that is a per-image transient error, not a job
// abort, so the record still carries everything else that was read.
type ImageRecord struct {
	RelativePath    string          `json:"relativePath"`
	Width           *int            `json:"width,omitempty"`
	Height          *int            `json:"height,omitempty"`
	MD5             string          `json:"md5"`
	SHA256          string          `json:"sha256"`
	CaptionSources  CaptionSources  `json:"captionSources"`
	CaptionPresence CaptionPresence `json:"captionPresence"`
}
