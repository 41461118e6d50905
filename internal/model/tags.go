package model

import "time"

// Tag is a single SEO tag phrase.
type Tag struct {
	Tag string `json:"tag"`
}

// TagList is the schema the generation backend streams:
// {"tags":[{"tag":"..."}]}
type TagList struct {
	Tags []Tag `json:"tags"`
}

// GenerateTagsRequest starts a tag generation session. Either a ready prompt
// or the form values to build one from must be present.
type GenerateTagsRequest struct {
	Prompt string        `json:"prompt" validate:"omitempty,min=1"`
	Form   *MetadataForm `json:"form" validate:"omitempty"`
}

// GenerateTagsResponse acknowledges a queued generation session.
type GenerateTagsResponse struct {
	SessionID string        `json:"sessionId"`
	Status    SessionStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// TagsStatusResponse is a snapshot of a session. While streaming, Tags holds
// the partial list; once complete it is the authoritative list.
type TagsStatusResponse struct {
	SessionID   string        `json:"sessionId"`
	Status      SessionStatus `json:"status"`
	Tags        []Tag         `json:"tags"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// TagsResultResponse is the final tag list of a completed session.
type TagsResultResponse struct {
	SessionID string `json:"sessionId"`
	Tags      []Tag  `json:"tags"`
}

// TagsCancelResponse reports the outcome of a cancel or clear call.
type TagsCancelResponse struct {
	Success   bool          `json:"success"`
	SessionID string        `json:"sessionId"`
	Status    SessionStatus `json:"status,omitempty"`
}
