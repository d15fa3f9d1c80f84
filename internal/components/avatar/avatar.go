// Package avatar renders thumbnails with an initials fallback, standalone or
// wrapped in a table cell.
package avatar

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Avatar sizes in pixels.
const (
	AvatarSizeSmall   = 32
	AvatarSizeDefault = 47
	AvatarSizeLarge   = 64
)

// Props are the inputs of the avatar renderer.
type Props struct {
	Thumbnail string
	Initials  string
	Alt       string
	Size      int
	Class     string
}

// Avatar is the resolved view model of a single avatar.
type Avatar struct {
	Thumbnail string
	Initials  string
	Alt       string
	Size      int
	Class     string
}

// NewAvatar applies defaults to p. It never fails; missing inputs produce
// an empty placeholder.
func NewAvatar(p Props) Avatar {
	size := p.Size
	if size <= 0 {
		size = AvatarSizeDefault
	}
	initials := strings.TrimSpace(p.Initials)
	if initials == "" && p.Thumbnail == "" {
		initials = Initials(p.Alt)
	}
	return Avatar{
		Thumbnail: p.Thumbnail,
		Initials:  initials,
		Alt:       p.Alt,
		Size:      size,
		Class:     ClassNames("avatar", p.Class),
	}
}

// HasThumbnail reports whether an image should be shown instead of initials.
func (a Avatar) HasThumbnail() bool {
	return a.Thumbnail != ""
}

// Initials returns up to two upper-case letters taken from the first words of name.
func Initials(name string) string {
	letters := make([]rune, 0, 2)
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		letters = append(letters, unicode.ToUpper(r))
		if len(letters) == 2 {
			break
		}
	}
	return string(letters)
}

// ClassNames joins class lists, dropping blanks and repeated names while
// keeping first-seen order.
func ClassNames(classes ...string) string {
	seen := make(map[string]struct{})
	var out []string
	for _, group := range classes {
		for _, c := range strings.Fields(group) {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return strings.Join(out, " ")
}
