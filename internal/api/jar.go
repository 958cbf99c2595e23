package api

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

// NewJar returns a cookie jar preloaded with cookies for the API at origin.
// The dashboard server uses it to replay the browser's session cookie, so page
// handlers never attach credentials themselves.
func NewJar(origin string, cookies []*http.Cookie) (http.CookieJar, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return nil, fmt.Errorf("parsing origin: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	seeded := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		seeded = append(seeded, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}

	jar.SetCookies(u, seeded)

	return jar, nil
}
