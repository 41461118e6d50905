package model

// DescriptionRequest carries the form values to compose a description from.
type DescriptionRequest struct {
	MetadataForm
}

// DescriptionResponse is the composed description plus the hashtag sequences
// it embeds, returned separately so the client can render them as chips.
type DescriptionResponse struct {
	Description    string   `json:"description"`
	TitleHashtags  []string `json:"titleHashtags"`
	ArtistHashtags []string `json:"artistHashtags"`
	Prompt         string   `json:"prompt"`
}
