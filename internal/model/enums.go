package model

// Difficulty levels for an arrangement
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

var ValidDifficulties = []Difficulty{
	DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced,
}

// Tag generation session status
type SessionStatus string

const (
	SessionIdle      SessionStatus = "idle"
	SessionStreaming SessionStatus = "streaming"
	SessionComplete  SessionStatus = "complete"
	SessionCancelled SessionStatus = "cancelled"
	SessionFailed    SessionStatus = "failed"
)

// Preview states for a remote lookup
type PreviewState string

const (
	PreviewEmpty   PreviewState = "empty"
	PreviewLoading PreviewState = "loading"
	PreviewLoaded  PreviewState = "loaded"
	PreviewFailed  PreviewState = "failed"
)

// Failure reasons surfaced with PreviewFailed. Rate limiting must stay
// distinguishable from a generic fetch failure.
const (
	ReasonInvalidURL  = "invalid URL"
	ReasonRateLimited = "rate limited"
	ReasonFetchFailed = "fetch failed"
)
