package identity

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/golang-jwt/jwt/v4"
	"github.com/nikolayk812/grocery-cart/internal/domain"
)

var ErrInvalidToken = errors.New("invalid access token")

// TokenParser resolves identities from HS256 access tokens issued by the
// storefront backend.
type TokenParser struct {
	secret []byte
}

func NewTokenParser(secret string) (*TokenParser, error) {
	if secret == "" {
		return nil, fmt.Errorf("secret is empty")
	}

	return &TokenParser{secret: []byte(secret)}, nil
}

// Resolve maps an empty token to the guest.
func (p *TokenParser) Resolve(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Guest, nil
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil {
		return domain.Guest, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return domain.Guest, ErrInvalidToken
	}

	userID := userIDFromClaims(claims)
	if userID == "" {
		return domain.Guest, fmt.Errorf("%w: no user id claim", ErrInvalidToken)
	}
	if !validUserID(userID) {
		return domain.Guest, fmt.Errorf("%w: user id %q is not allowed", ErrInvalidToken, userID)
	}

	return domain.NewIdentity(userID), nil
}

// Sign issues a token for userID. Used by tests and local tooling.
func (p *TokenParser) Sign(userID string, claims jwt.MapClaims) (string, error) {
	if claims == nil {
		claims = jwt.MapClaims{}
	}
	claims["sub"] = userID

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", fmt.Errorf("token.SignedString: %w", err)
	}
	return signed, nil
}

func userIDFromClaims(claims jwt.MapClaims) string {
	for _, key := range []string{"sub", "user_id", "userId", "id"} {
		switch v := claims[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}

// validUserID rejects ids whose namespace would alias the guest cart or
// another device's partition key.
func validUserID(id string) bool {
	if strings.EqualFold(id, domain.Guest.String()) {
		return false
	}
	return !strings.ContainsFunc(id, func(r rune) bool {
		return r == '/' || unicode.IsSpace(r) || unicode.IsControl(r)
	})
}
