package config

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/sessions"
	"golang.org/x/crypto/hkdf"
)

// Keys are the secrets derived from SESSION_SECRET.
type Keys struct {
	SessionHash  []byte
	SessionBlock []byte
	JWT          []byte
}

// DeriveKeys expands one secret into independent keys. An empty secret yields random keys.
func DeriveKeys(secret string) (Keys, error) {
	master := []byte(secret)
	if len(master) == 0 {
		master = make([]byte, 32)
		if _, err := rand.Read(master); err != nil {
			return Keys{}, fmt.Errorf("generate secret: %w", err)
		}
	}

	var k Keys
	for _, part := range []struct {
		info string
		dst  *[]byte
	}{
		{"session-hash", &k.SessionHash},
		{"session-block", &k.SessionBlock},
		{"jwt", &k.JWT},
	} {
		*part.dst = make([]byte, 32)
		r := hkdf.New(sha256.New, master, nil, []byte(part.info))
		if _, err := io.ReadFull(r, *part.dst); err != nil {
			return Keys{}, fmt.Errorf("derive %s key: %w", part.info, err)
		}
	}
	return k, nil
}

// NewSessionStore returns the cookie store that carries each browser's profile id.
func NewSessionStore(cfg Config, keys Keys) *sessions.CookieStore {
	store := sessions.NewCookieStore(keys.SessionHash, keys.SessionBlock)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 365,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}
