package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"

	"github.com/xenking/glowmart/internal/domain/auth"
	"github.com/xenking/glowmart/internal/domain/user"
)

type identityKey struct{}

// IdentityFromContext returns the authenticated identity stored by
// Security.Authenticate. The second result is false on unauthenticated
// requests.
func IdentityFromContext(ctx context.Context) (user.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(user.Identity)
	return ident, ok
}

// Security authenticates API requests via HMAC-SHA256 hashed API keys and
// resolves the key's bound user into an explicit identity.
type Security struct {
	apikeys auth.Repository
	users   user.Repository
	pepper  []byte
}

// NewSecurity creates a Security with the given repositories and HMAC pepper.
func NewSecurity(apikeys auth.Repository, users user.Repository, pepper []byte) *Security {
	return &Security{
		apikeys: apikeys,
		users:   users,
		pepper:  pepper,
	}
}

// Authenticate computes the HMAC-SHA256 of the api_key header, looks the hash
// up with a constant-time recheck, and loads the bound user as the request
// identity.
func (s *Security) Authenticate(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("api_key")
		if key == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		mac := hmac.New(sha256.New, s.pepper)
		mac.Write([]byte(key))
		hash := mac.Sum(nil)

		info, err := s.apikeys.FindByHash(r.Context(), hex.EncodeToString(hash))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		stored, err := hex.DecodeString(info.KeyHash)
		if err != nil || subtle.ConstantTimeCompare(hash, stored) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ident, err := s.users.GetByID(r.Context(), info.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey{}, *ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff rejects identities without a staff role. Must run after
// Authenticate.
func (s *Security) RequireStaff(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident, ok := IdentityFromContext(r.Context())
		if !ok || !ident.Staff() {
			writeError(w, http.StatusForbidden, "staff role required")
			return
		}
		next.ServeHTTP(w, r)
	}
}
