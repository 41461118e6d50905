package metadata

import (
	"fmt"
	"strings"

	"github.com/sheetsby/metadata-api/internal/model"
)

// Fixed destinations embedded in every description.
const (
	SheetBaseURL       = "https://sheets.jrdy.link/"
	MidiBaseURL        = "https://midis.jrdy.link/"
	WalkthroughBaseURL = "https://youtu.be/"
	DefaultChannelURL  = "https://www.youtube.com/@sheetsby_jr"
)

// Placeholder tokens rendered when a field is still empty.
const (
	TitlePlaceholder  = "[TITLE]"
	ArtistPlaceholder = "[ARTIST(S)]"
)

// FixedHashtags close the trailing hashtag block of every description.
var FixedHashtags = []string{"#PianoCover", "#PianoArrangement", "#SheetMusic"}

const descriptionTemplate = `🎹 %s – Piano Cover | %s

This is a solo piano cover and arrangement of %s by %s, created for pianists who want to learn, practice, and perform the song.

Ideal for:
Piano practice
Performances & recitals
Covers & content creation
Learning through sheet music

🎼 SHEET MUSIC & FILES
🎹 Piano Sheet Music: %s
🎹 MIDI / MXL Files: %s

📩 INQUIRIES? CONTACT ME!
📧 johnroddondoyano8@gmail.com

👨🏫 WANT TO LEARN THIS ARRANGEMENT?
Watch the piano tutorial / walkthrough here:
👉 %s

🎵 ABOUT THIS PIANO ARRANGEMENT
Instrument: Solo Piano
Style: Piano Cover / Arrangement
Difficulty: %s
Arranged for expressive, playable performance

🎓 LEARN PIANO (RECOMMENDED)
📖 Learn piano with Skoove:
👉 https://www.skoove.com/#a_aid=johnrod
🎁 Get 1 month FREE of Skoove Premium
Use code: JOHNROD1M
Sign up via the link above, apply the code, and start playing.

🔎 WANT AN AUTOMATIC PIANO RECORDER?
👉 https://www.jamcorder.com
Use code: JOHNROD

🌐 OFFICIAL WEBSITE
Visit my official website for more music and projects:
👉 https://www.johnroddondoyano.com

🎧 LISTEN & FOLLOW
Spotify: https://spotify.jrdy.link
Apple Music: https://apple-music.jrdy.link

☕ SUPPORT
If you'd like to support my work:
👉 Buy Me A Coffee: https://www.buymeacoffee.com/johnrod

📌 SUBSCRIBE
New piano covers, arrangements, and sheet music regularly.

%s`

// Compose renders the full video description from the form. It is a pure
// function of its input: the same form always yields the byte-identical
// string, and no network or clock is consulted.
//
// An empty sheet or MIDI code still renders the link with the bare base URL.
// The bare domains land on the full catalog page, so the link stays useful
// while the code is being filled in.
func Compose(form model.MetadataForm) string {
	form = form.Trimmed()

	title := form.Title
	if title == "" {
		title = TitlePlaceholder
	}
	artists := form.Artists
	if artists == "" {
		artists = ArtistPlaceholder
	}

	walkthrough := DefaultChannelURL
	if form.WalkthroughCode != "" {
		walkthrough = WalkthroughBaseURL + form.WalkthroughCode
	}

	return fmt.Sprintf(descriptionTemplate,
		title, artists,
		title, artists,
		SheetBaseURL+form.SheetCode,
		MidiBaseURL+form.MidiCode,
		walkthrough,
		form.Difficulty,
		strings.Join(HashtagBlock(form), "\n"),
	)
}

// HashtagBlock is the trailing hashtag sequence of the description:
// title-derived tags, then artist-derived tags, then the fixed tags.
func HashtagBlock(form model.MetadataForm) []string {
	tags := Normalize(form.Title)
	tags = append(tags, Normalize(form.Artists)...)
	return append(tags, FixedHashtags...)
}
