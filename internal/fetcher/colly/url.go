package collyfetcher

import (
	"fmt"
	"net/url"

	"github.com/JakeFAU/birdseye/internal/checklist"
)

// requestURL merges the request's query values into its URL.
func requestURL(request checklist.FetchRequest) (string, error) {
	u, err := url.Parse(request.URL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q must be absolute", request.URL)
	}
	if len(request.Query) > 0 {
		q := u.Query()
		for key, values := range request.Query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}
