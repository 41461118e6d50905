package model

// WebSocket message types
type WSMessageType string

const (
	WSMessageTypeTags    WSMessageType = "tags"
	WSMessageTypePreview WSMessageType = "preview"
	WSMessageTypeError   WSMessageType = "error"
	WSMessageTypePing    WSMessageType = "ping"
	WSMessageTypePong    WSMessageType = "pong"
)

// WSMessage is the minimal envelope used for ping/pong.
type WSMessage struct {
	Type WSMessageType `json:"type"`
}

// WSTagsMessage carries a tag session snapshot to its subscribers.
type WSTagsMessage struct {
	Type      WSMessageType      `json:"type"`
	SessionID string             `json:"sessionId"`
	Snapshot  TagsStatusResponse `json:"snapshot"`
}

// WSError describes a failure pushed over a socket.
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSErrorMessage carries an error to session subscribers.
type WSErrorMessage struct {
	Type      WSMessageType `json:"type"`
	SessionID string        `json:"sessionId"`
	Error     WSError       `json:"error"`
}

// Preview stream names for the preview socket.
const (
	PreviewStreamSheet      = "sheet"
	PreviewStreamScreenshot = "screenshot"
)

// WSObserveMessage is sent by the client when an observed field changes.
// An empty value resets the stream.
type WSObserveMessage struct {
	Type   WSMessageType `json:"type"`
	Stream string        `json:"stream"`
	Value  string        `json:"value"`
}

// WSPreviewMessage pushes a preview state change for one stream.
type WSPreviewMessage struct {
	Type   WSMessageType `json:"type"`
	Stream string        `json:"stream"`
	Result PreviewResult `json:"result"`
}
