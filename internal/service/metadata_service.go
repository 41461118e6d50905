package service

import (
	"github.com/sheetsby/metadata-api/internal/metadata"
	"github.com/sheetsby/metadata-api/internal/model"
)

// MetadataService composes descriptions and prompts from form values. Purely
// computational; it exists so handlers stay thin like the other services.
type MetadataService struct{}

func NewMetadataService() *MetadataService {
	return &MetadataService{}
}

// Describe renders the description, its hashtag sequences and the matching
// generation prompt for a form.
func (s *MetadataService) Describe(form model.MetadataForm) *model.DescriptionResponse {
	form = form.Trimmed()
	description := metadata.Compose(form)
	return &model.DescriptionResponse{
		Description:    description,
		TitleHashtags:  metadata.Normalize(form.Title),
		ArtistHashtags: metadata.Normalize(form.Artists),
		Prompt:         metadata.BuildPrompt(form, description),
	}
}

// Prompt renders just the generation prompt for a form.
func (s *MetadataService) Prompt(form model.MetadataForm) string {
	form = form.Trimmed()
	return metadata.BuildPrompt(form, metadata.Compose(form))
}
