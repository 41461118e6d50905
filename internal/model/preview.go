package model

import "encoding/json"

// PreviewPayload is what a successful preview lookup produced. Sheet lookups
// carry JSON metadata, screenshot lookups carry image bytes.
type PreviewPayload struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Image []byte          `json:"image,omitempty"`
}

// PreviewResult is the tagged state of one preview stream. A result always
// names the identifier that triggered it so superseded lookups can be told
// apart from the current one.
type PreviewResult struct {
	State      PreviewState    `json:"state"`
	Identifier string          `json:"identifier,omitempty"`
	Payload    *PreviewPayload `json:"payload,omitempty"`
	Reason     string          `json:"reason,omitempty"`
}

// SheetMetadata is the subset of the sheet lookup response the preview needs.
type SheetMetadata struct {
	ThumbnailURL string `json:"thumbnailUrl"`
	Title        string `json:"title"`
}
