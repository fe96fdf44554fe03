package identity_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang-jwt/jwt/v4"
	"github.com/nikolayk812/grocery-cart/internal/domain"
	"github.com/nikolayk812/grocery-cart/internal/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenParser_Resolve(t *testing.T) {
	parser, err := identity.NewTokenParser("test-secret")
	require.NoError(t, err)

	other, err := identity.NewTokenParser("other-secret")
	require.NoError(t, err)

	userID := gofakeit.UUID()

	valid, err := parser.Sign(userID, nil)
	require.NoError(t, err)

	expired, err := parser.Sign(userID, jwt.MapClaims{"exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, err)

	foreign, err := other.Sign(userID, nil)
	require.NoError(t, err)

	numericID, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": float64(42)}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tests := []struct {
		name      string
		token     string
		want      domain.Identity
		wantError bool
	}{
		{
			name:  "empty token is guest",
			token: "",
			want:  domain.Guest,
		},
		{
			name:  "valid token",
			token: valid,
			want:  domain.NewIdentity(userID),
		},
		{
			name:  "numeric user id claim",
			token: numericID,
			want:  domain.NewIdentity("42"),
		},
		{
			name:      "expired token",
			token:     expired,
			wantError: true,
		},
		{
			name:      "wrong secret",
			token:     foreign,
			wantError: true,
		},
		{
			name:      "no subject",
			token:     noSubject,
			wantError: true,
		},
		{
			name:      "garbage",
			token:     "not-a-jwt",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Resolve(tt.token)
			if tt.wantError {
				require.ErrorIs(t, err, identity.ErrInvalidToken)
				assert.True(t, got.IsGuest())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenParser_RejectsAliasingUserIDs(t *testing.T) {
	parser, err := identity.NewTokenParser("test-secret")
	require.NoError(t, err)

	for _, userID := range []string{"guest", "GUEST", "d1/cart_u1", "../u1", "u 1", "u1\n"} {
		t.Run(userID, func(t *testing.T) {
			token, err := parser.Sign(userID, nil)
			require.NoError(t, err)

			got, err := parser.Resolve(token)
			require.ErrorIs(t, err, identity.ErrInvalidToken)
			assert.True(t, got.IsGuest())
		})
	}
}

func TestNewTokenParser_EmptySecret(t *testing.T) {
	_, err := identity.NewTokenParser("")
	require.EqualError(t, err, "secret is empty")
}
