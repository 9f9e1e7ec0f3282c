package selection

import (
	"net/url"
	"strings"

	"bimbuddy/internal/domain"
)

// MediaKind tells which asset of an entry is displayed.
type MediaKind int

// Media kinds, in increasing order of preference.
const (
	MediaNone MediaKind = iota
	MediaImage
	MediaVideo
)

func (k MediaKind) String() string {
	switch k {
	case MediaImage:
		return "image"
	case MediaVideo:
		return "video"
	default:
		return "none"
	}
}

// Sign is a lookup result resolved for display. URL is empty when the entry
// has no usable media.
type Sign struct {
	Word        string
	Translation string
	Kind        MediaKind
	URL         string
}

// Resolved reports whether the sign carries an absolute media URL.
func (s Sign) Resolved() bool { return s.URL != "" }

// ResolveMediaURL turns a server-relative media path into an absolute URL
// under base. Leading slashes are stripped before joining. Paths that are
// already absolute http(s) URLs are returned unchanged.
func ResolveMediaURL(base, path string) (string, bool) {
	clean := strings.TrimLeft(strings.TrimSpace(path), "/")
	if clean == "" {
		return "", false
	}
	if u, err := url.Parse(clean); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return clean, true
	}
	return strings.TrimRight(base, "/") + "/" + clean, true
}

// resolve picks the video over the image and upper-cases the word.
func resolve(base string, r domain.LookupResult) Sign {
	s := Sign{Word: strings.ToUpper(r.Word)}
	if r.Media == nil {
		return s
	}
	s.Translation = r.Media.Translation
	if u, ok := ResolveMediaURL(base, r.Media.Video); ok {
		s.Kind, s.URL = MediaVideo, u
		return s
	}
	if u, ok := ResolveMediaURL(base, r.Media.Image); ok {
		s.Kind, s.URL = MediaImage, u
	}
	return s
}
