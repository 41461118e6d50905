package metadata

import "strings"

var separators = strings.NewReplacer("&", "#", ",", "#")

// Normalize turns free text into an ordered list of hashtags. The list
// separators '&' and ',' split items, all whitespace is removed outright
// (so "A Thousand Years" becomes "#AThousandYears", not three tags), runs of
// separators collapse, and empty segments are dropped. A blank source yields
// an empty list.
func Normalize(source string) []string {
	s := separators.Replace(source)
	s = strings.Join(strings.Fields(s), "")

	parts := strings.Split(s, "#")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		tags = append(tags, "#"+p)
	}
	return tags
}
