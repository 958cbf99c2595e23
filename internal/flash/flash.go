// Package flash carries a one-time notice across a redirect in a signed cookie.
package flash

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "bo_flash"

// ttl bounds how long an unread notice survives.
const ttl = 5 * time.Minute

type claims struct {
	Message string `json:"msg"`
	jwt.RegisteredClaims
}

type Store struct {
	secret []byte
	now    func() time.Time
}

func NewStore(secret string) *Store {
	return &Store{secret: []byte(secret), now: time.Now}
}

// Set stores message for the next request.
func (s *Store) Set(w http.ResponseWriter, message string) error {
	now := s.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Message: message,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("signing flash: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Pop returns the pending message and clears it. A missing, tampered or expired
// cookie yields "".
func (s *Store) Pop(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}

	http.SetCookie(w, &http.Cookie{Name: CookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	var cl claims

	_, err = jwt.ParseWithClaims(c.Value, &cl, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			slog.Warn("discarding invalid flash cookie", "error", err)
		}

		return ""
	}

	return cl.Message
}
