package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that are malformed, expired,
// or signed with the wrong key.
var ErrInvalidToken = errors.New("invalid token")

// CookieName is the HTTP-only cookie carrying the session token.
const CookieName = "token"

// Identity is the authenticated player context embedded in a token.
type Identity struct {
	PlayerID int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsAdmin  bool   `json:"is_admin"`
}

// Claims are the JWT claims carried by a session token. The token is
// the full session state; there is no server-side session store.
type Claims struct {
	Identity
	jwt.RegisteredClaims
}

// Tokens issues and verifies signed session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
}

func New(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl}
}

// TTL reports the validity window tokens are issued with.
func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs a token embedding the player's identity and admin flag.
func (t *Tokens) Issue(identity Identity) (string, error) {
	claims := Claims{
		Identity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token, returning the embedded identity.
// Any parse or signature failure is reported as ErrInvalidToken.
func (t *Tokens) Verify(tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	return claims.Identity, nil
}
