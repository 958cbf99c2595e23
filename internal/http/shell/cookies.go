package shell

import (
	"net/http"

	"github.com/MrJamesThe3rd/backoffice/internal/api"
	"github.com/MrJamesThe3rd/backoffice/internal/flash"
)

// BrowserCookies returns the cookies the browser sent that belong to the remote API
// session. The dashboard's own cookies stay behind.
func BrowserCookies(r *http.Request) []*http.Cookie {
	var out []*http.Cookie

	for _, c := range r.Cookies() {
		if c.Name == flash.CookieName {
			continue
		}

		out = append(out, &http.Cookie{Name: c.Name, Value: c.Value})
	}

	return out
}

// MirrorCookies copies the remote session cookies onto the browser.
func MirrorCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// ExpireCookies removes the remote session cookies from the browser.
func ExpireCookies(w http.ResponseWriter, cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(w, &http.Cookie{Name: c.Name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	}
}

// NewClientFactory returns a ClientFactory that seeds each request's jar from the
// browser's cookies.
func NewClientFactory(baseURL string, opts ...api.Option) ClientFactory {
	return func(r *http.Request) (*api.Client, error) {
		jar, err := api.NewJar(baseURL, BrowserCookies(r))
		if err != nil {
			return nil, err
		}

		return api.New(baseURL, append([]api.Option{api.WithJar(jar)}, opts...)...)
	}
}
