package checklist

import (
	"net/url"
	"regexp"
	"strings"
)

var submissionIDPattern = regexp.MustCompile(`S\d+`)

// ExtractID pulls the submission ID (S followed by digits) out of the path of
// an eBird checklist URL, e.g.
//
//	https://ebird.org/checklist/S123456789
//	https://ebird.org/region/checklist/S123456789
//
// A URL that net/url rejects (a stray percent sign, say) is still searched
// using its raw path text.
func ExtractID(rawURL string) (string, error) {
	path := rawPath(rawURL)
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	}
	id := submissionIDPattern.FindString(path)
	if id == "" {
		return "", &InvalidInputError{URL: rawURL}
	}
	return id, nil
}

// rawPath strips the scheme, host, query and fragment from s without
// decoding anything.
func rawPath(s string) string {
	if _, rest, ok := strings.Cut(s, "://"); ok {
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			return ""
		}
		s = rest[i:]
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	return s
}
