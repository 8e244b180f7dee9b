package httpserver

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Showcase scopes. Each one is unlocked by its own password.
const (
	ScopeGames = "games"
	ScopeMedia = "media"
)

var errUnknownScope = errors.New("unknown showcase scope")

// gate holds the bcrypt hashes of the showcase passwords. Plain passwords are
// hashed once at startup and never kept.
type gate struct {
	hashes map[string][]byte
}

func newGate(passwords map[string]string) (*gate, error) {
	g := &gate{hashes: make(map[string][]byte, len(passwords))}
	for scope, pw := range passwords {
		if scope != ScopeGames && scope != ScopeMedia {
			return nil, fmt.Errorf("%w: %q", errUnknownScope, scope)
		}
		if pw == "" {
			continue // scope stays locked
		}
		h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash %s password: %w", scope, err)
		}
		g.hashes[scope] = h
	}
	return g, nil
}

// check is a bcrypt verifier for one scope.
func (g *gate) check(scope, pw string) bool {
	h, ok := g.hashes[scope]
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(pw)) == nil
}

// ------------------------------ JWT & cookies ------------------------------

func jwtSecret() []byte { return []byte(getEnv("JWT_SECRET", "dev_secret_change_me")) }

func cookieName() string { return getEnv("COOKIE_NAME", "portfolio_showcase") }

// signJWT creates an HS256 JWT listing the unlocked scopes, expiring after
// JWT_EXPIRES_DAYS (default 1).
func signJWT(scopes []string, now time.Time) (string, time.Time, error) {
	days := 1
	if v := getEnv("JWT_EXPIRES_DAYS", ""); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	exp := now.Add(time.Duration(days) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"scopes": scopes,
		"exp":    exp.Unix(),
		"iat":    now.Unix(),
	})
	ss, err := t.SignedString(jwtSecret())
	return ss, exp, err
}

// scopesOf returns the scopes of a valid token on r, or nil.
func scopesOf(r *http.Request) []string {
	tok := bearerOrCookie(r)
	if tok == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtSecret(), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil
	}
	raw, _ := claims["scopes"].([]interface{})
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func sameSite() http.SameSite {
	if production() {
		return http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return http.SameSiteLaxMode
}

// setAuthCookie writes the showcase token cookie.
func setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   production(),
		SameSite: sameSite(),
		Expires:  exp,
	})
}

// clearAuthCookie deletes the showcase token cookie.
func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName(),
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   production(),
		SameSite: sameSite(),
		MaxAge:   -1,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName()); err == nil {
		return c.Value
	}
	return ""
}

// requireScope 401s unless the request carries a token unlocking scope.
func requireScope(scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !slices.Contains(scopesOf(r), scope) {
				writeError(w, http.StatusUnauthorized, map[string]string{"error": "locked", "scope": scope})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ------------------------------ anonymous ids ------------------------------

const anonCookieName = "portfolio_player"

// ensureAnonID returns an existing player cookie or sets a new one.
// Hero results are attributed to it.
func ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	http.SetCookie(w, &http.Cookie{
		Name:     anonCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   production(),
		SameSite: sameSite(),
		Expires:  time.Now().Add(180 * 24 * time.Hour),
	})
	return id
}

// genID creates a 22‑char URL‑safe, crypto‑random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
