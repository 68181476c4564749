package model

// TagNormalizationRules configures the tag normalizer (S2). Aliases and
// StopTags are expected to already be normalized through the CaseFold and
// DelimiterNormalization steps by the time they reach the normalizer; the
// loader is responsible for that.
type TagNormalizationRules struct {
	CanonicalDelimiter string            `json:"canonicalDelimiter"`
	Delimiters         []string          `json:"delimiters"`
	Aliases            map[string]string `json:"aliases"`
	StopTags           map[string]struct{} `json:"-"`
	StopTagList        []string          `json:"stopTags"`
}

// AuditEventKind names one of the four fixed normalization steps.
type AuditEventKind string

const (
	AuditCaseFold               AuditEventKind = "CaseFold"
	AuditDelimiterNormalization AuditEventKind = "DelimiterNormalization"
	AuditAliasMapping           AuditEventKind = "AliasMapping"
	AuditStopTagFiltering       AuditEventKind = "StopTagFiltering"
)

// AuditEvent records one normalization step applied to a token.
type AuditEvent struct {
	Step    AuditEventKind `json:"step"`
	Before  string         `json:"before"`
	After   string         `json:"after"`
	Message string         `json:"message"`
}

// NormalizationTokenResult is the per-token output of the normalizer,
// including its full four-event audit trail.
type NormalizationTokenResult struct {
	Original   string       `json:"original"`
	Normalized *string      `json:"normalized"`
	IsFiltered bool         `json:"isFiltered"`
	Audit      []AuditEvent `json:"audit"`
}

// NormalizationResult is the full output of normalizing one bag of tokens.
type NormalizationResult struct {
	Tokens           []NormalizationTokenResult `json:"tokens"`
	NormalizedTokens []string                   `json:"normalizedTokens"`
}
