package authentication

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName = "materias-session"
	profileKey  = "profile"
)

// Claims carry the profile a sync token grants access to.
type Claims struct {
	Profile string `json:"profile"`
	jwt.StandardClaims
}

// Profiles resolves which stored progress a request works on: a bearer token first,
// otherwise the browser's session cookie, created on first visit.
type Profiles struct {
	Store    sessions.Store
	JwtKey   []byte
	TokenTTL time.Duration
}

func NewProfiles(store sessions.Store, jwtKey []byte, ttl time.Duration) *Profiles {
	return &Profiles{Store: store, JwtKey: jwtKey, TokenTTL: ttl}
}

type ctxKey struct{}

// ProfileFrom returns the profile id stored by Middleware.
func ProfileFrom(ctx context.Context) (string, bool) {
	p, ok := ctx.Value(ctxKey{}).(string)
	return p, ok && p != ""
}

// WithProfile attaches a profile id to ctx.
func WithProfile(ctx context.Context, profile string) context.Context {
	return context.WithValue(ctx, ctxKey{}, profile)
}

// Middleware resolves the profile and stores it in the request context.
func (p *Profiles) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := p.Resolve(w, r)
		if err != nil {
			http.Error(w, "Unauthorized: "+err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithProfile(r.Context(), profile)))
	})
}

// Resolve returns the request's profile id, issuing a new session if needed.
// Authorization headers with another scheme are ignored.
func (p *Profiles) Resolve(w http.ResponseWriter, r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		claims, err := p.ValidateToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			return "", err
		}
		return claims.Profile, nil
	}

	// A tampered or stale cookie still yields a usable, fresh session.
	session, err := p.Store.Get(r, sessionName)
	if err != nil {
		log.Printf("Сессия не прочитана, создается новая: %v", err)
	}
	if profile, ok := session.Values[profileKey].(string); ok && profile != "" {
		return profile, nil
	}

	profile := uuid.NewString()
	session.Values[profileKey] = profile
	if err := session.Save(r, w); err != nil {
		return "", err
	}
	return profile, nil
}

// IssueToken signs a sync token for profile.
func (p *Profiles) IssueToken(profile string) (string, time.Time, error) {
	expirationTime := time.Now().Add(p.TokenTTL)
	claims := &Claims{
		Profile: profile,
		StandardClaims: jwt.StandardClaims{
			Subject:   profile,
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: expirationTime.Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(p.JwtKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expirationTime, nil
}

// ValidateToken parses and checks a sync token.
func (p *Profiles) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.JwtKey, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	if claims.Profile == "" {
		return nil, errors.New("token has no profile")
	}
	return claims, nil
}

// HandleToken returns a sync token for the caller's current profile.
func (p *Profiles) HandleToken(w http.ResponseWriter, r *http.Request) {
	profile, ok := ProfileFrom(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	tokenString, expires, err := p.IssueToken(profile)
	if err != nil {
		log.Printf("Ошибка генерации токена: %v", err)
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token":      tokenString,
		"expires_at": expires.UTC(),
	})
}
