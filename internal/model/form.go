package model

import "strings"

// MetadataForm is the structured input a video's metadata is synthesized from.
// All fields are trimmed before use; WalkthroughCode is appended to a URL and
// must therefore stay a clean path fragment.
type MetadataForm struct {
	Title           string     `json:"title"`
	Artists         string     `json:"artists"`
	SheetCode       string     `json:"sheetCode"`
	MidiCode        string     `json:"midiCode"`
	WalkthroughCode string     `json:"walkthroughCode" validate:"omitempty,excludesall=0x20?#&"`
	Difficulty      Difficulty `json:"difficulty" validate:"omitempty,oneof=Beginner Intermediate Advanced"`
}

// DefaultForm returns the empty form with the default difficulty selected.
func DefaultForm() MetadataForm {
	return MetadataForm{Difficulty: DifficultyIntermediate}
}

// Trimmed returns a copy with all string fields stripped of surrounding
// whitespace and the difficulty defaulted when unset.
func (f MetadataForm) Trimmed() MetadataForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Artists = strings.TrimSpace(f.Artists)
	f.SheetCode = strings.TrimSpace(f.SheetCode)
	f.MidiCode = strings.TrimSpace(f.MidiCode)
	f.WalkthroughCode = strings.TrimSpace(f.WalkthroughCode)
	if f.Difficulty == "" {
		f.Difficulty = DifficultyIntermediate
	}
	return f
}
