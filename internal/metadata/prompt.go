package metadata

import (
	"fmt"

	"github.com/sheetsby/metadata-api/internal/model"
)

const promptTemplate = `Generate SEO-optimized YouTube tags for a video with the following details:

Title: %s – Piano Cover | %s (Sheet Music)
Description: %s

Ensure tags include a mix of broad category terms and specific long-tail keywords in small caps only except with titles and artist names. Also, always add "john rod dondoyano". No duplications please. No more than 500 characters but not less than 400 characters overall.`

// BuildPrompt renders the tag generation prompt for a form and its composed
// description.
func BuildPrompt(form model.MetadataForm, description string) string {
	form = form.Trimmed()
	return fmt.Sprintf(promptTemplate, form.Title, form.Artists, description)
}
