package metadata

import (
	"strings"
	"testing"

	"github.com/sheetsby/metadata-api/internal/model"
)

func sampleForm() model.MetadataForm {
	return model.MetadataForm{
		Title:           "A Thousand Years",
		Artists:         "Christina Perri",
		SheetCode:       "123456",
		MidiCode:        "123456",
		WalkthroughCode: "dQw4w9WgXcQ",
		Difficulty:      model.DifficultyIntermediate,
	}
}

func TestComposeIdempotent(t *testing.T) {
	form := sampleForm()
	first := Compose(form)
	second := Compose(form)
	if first != second {
		t.Error("Compose is not deterministic for identical input")
	}
}

func TestComposeFilledForm(t *testing.T) {
	desc := Compose(sampleForm())

	wantParts := []string{
		"🎹 A Thousand Years – Piano Cover | Christina Perri",
		"A Thousand Years by Christina Perri",
		"Piano Sheet Music: https://sheets.jrdy.link/123456",
		"MIDI / MXL Files: https://midis.jrdy.link/123456",
		"👉 https://youtu.be/dQw4w9WgXcQ",
		"Difficulty: Intermediate",
	}
	for _, part := range wantParts {
		if !strings.Contains(desc, part) {
			t.Errorf("description missing %q", part)
		}
	}
}

func TestComposeEmptyFormUsesPlaceholders(t *testing.T) {
	desc := Compose(model.DefaultForm())

	if !strings.Contains(desc, TitlePlaceholder) {
		t.Errorf("empty title should render %s", TitlePlaceholder)
	}
	if !strings.Contains(desc, ArtistPlaceholder) {
		t.Errorf("empty artists should render %s", ArtistPlaceholder)
	}
	// Empty codes keep the bare catalog links.
	if !strings.Contains(desc, "Piano Sheet Music: "+SheetBaseURL+"\n") {
		t.Error("empty sheet code should keep the bare sheet link")
	}
	if !strings.Contains(desc, "MIDI / MXL Files: "+MidiBaseURL+"\n") {
		t.Error("empty MIDI code should keep the bare MIDI link")
	}
}

func TestComposeWalkthroughFallback(t *testing.T) {
	form := sampleForm()
	form.WalkthroughCode = ""
	desc := Compose(form)

	if !strings.Contains(desc, "👉 "+DefaultChannelURL) {
		t.Error("missing walkthrough code should fall back to the channel URL")
	}
	if strings.Contains(desc, WalkthroughBaseURL) {
		t.Error("bare video base URL should not appear without a code")
	}
}

func TestComposeTrimsWhitespace(t *testing.T) {
	form := sampleForm()
	form.Title = "  A Thousand Years  "
	form.SheetCode = " 123456 "
	desc := Compose(form)

	if !strings.Contains(desc, "🎹 A Thousand Years – Piano Cover") {
		t.Error("title should be trimmed before rendering")
	}
	if !strings.Contains(desc, SheetBaseURL+"123456") {
		t.Error("sheet code should be trimmed before rendering")
	}
}

func TestHashtagBlockOrder(t *testing.T) {
	form := sampleForm()
	form.Artists = "Christina Perri, David Hodges"
	tags := HashtagBlock(form)

	want := []string{
		"#AThousandYears",
		"#ChristinaPerri",
		"#DavidHodges",
		"#PianoCover",
		"#PianoArrangement",
		"#SheetMusic",
	}
	if len(tags) != len(want) {
		t.Fatalf("got %d tags, want %d: %v", len(tags), len(want), tags)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tag[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestComposeEndsWithHashtagBlock(t *testing.T) {
	form := sampleForm()
	desc := Compose(form)
	block := strings.Join(HashtagBlock(form), "\n")
	if !strings.HasSuffix(desc, block) {
		t.Error("description should end with the hashtag block")
	}
}

func TestBuildPrompt(t *testing.T) {
	form := sampleForm()
	desc := Compose(form)
	prompt := BuildPrompt(form, desc)

	if !strings.Contains(prompt, "Title: A Thousand Years – Piano Cover | Christina Perri (Sheet Music)") {
		t.Error("prompt missing formatted title line")
	}
	if !strings.Contains(prompt, "Description: "+desc) {
		t.Error("prompt should embed the full description")
	}
	if !strings.Contains(prompt, `always add "john rod dondoyano"`) {
		t.Error("prompt missing channel keyword instruction")
	}
}
