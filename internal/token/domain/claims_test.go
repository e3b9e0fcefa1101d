package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/proxyadmin/internal/errors"
)

func TestClaims_HasScope(t *testing.T) {
	tests := []struct {
		name     string
		scope    []string
		query    string
		expected bool
	}{
		{
			name:     "scope present",
			scope:    []string{"user"},
			query:    "user",
			expected: true,
		},
		{
			name:     "scope absent",
			scope:    []string{"user"},
			query:    "admin",
			expected: false,
		},
		{
			name:     "nil scope",
			scope:    nil,
			query:    "user",
			expected: false,
		},
		{
			name:     "multiple scopes",
			scope:    []string{"user", "admin"},
			query:    "admin",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := &Claims{Scope: tt.scope}
			assert.Equal(t, tt.expected, claims.HasScope(tt.query))
		})
	}
}

func TestClaims_UserID(t *testing.T) {
	t.Run("returns attribute id", func(t *testing.T) {
		claims := &Claims{Attributes: Attributes{ID: 7}}
		assert.Equal(t, int64(7), claims.UserID(0))
	})

	t.Run("falls back to default when absent", func(t *testing.T) {
		claims := &Claims{}
		assert.Equal(t, int64(0), claims.UserID(0))
		assert.Equal(t, int64(1), claims.UserID(1))
	})
}

func TestClaims_NormalizeScope(t *testing.T) {
	t.Run("rewrites legacy all scope", func(t *testing.T) {
		claims := &Claims{Scope: []string{"all"}}
		claims.NormalizeScope()
		assert.Equal(t, []string{"user"}, claims.Scope)
	})

	t.Run("rewrites even when mixed with other scopes", func(t *testing.T) {
		claims := &Claims{Scope: []string{"admin", "all"}}
		claims.NormalizeScope()
		assert.Equal(t, []string{"user"}, claims.Scope)
	})

	t.Run("leaves regular scopes untouched", func(t *testing.T) {
		claims := &Claims{Scope: []string{"user"}}
		claims.NormalizeScope()
		assert.Equal(t, []string{"user"}, claims.Scope)
	})

	t.Run("leaves empty scope untouched", func(t *testing.T) {
		claims := &Claims{}
		claims.NormalizeScope()
		assert.Empty(t, claims.Scope)
	})
}

func TestParseExpiry(t *testing.T) {
	tests := []struct {
		name     string
		expr     string
		expected time.Duration
		wantErr  bool
	}{
		{name: "seconds", expr: "30s", expected: 30 * time.Second},
		{name: "minutes", expr: "45m", expected: 45 * time.Minute},
		{name: "hours", expr: "12h", expected: 12 * time.Hour},
		{name: "days", expr: "1d", expected: 24 * time.Hour},
		{name: "weeks", expr: "2w", expected: 2 * 7 * 24 * time.Hour},
		{name: "months", expr: "1mo", expected: 30 * 24 * time.Hour},
		{name: "years", expr: "1y", expected: 365 * 24 * time.Hour},
		{name: "empty", expr: "", wantErr: true},
		{name: "zero value", expr: "0d", wantErr: true},
		{name: "unknown unit", expr: "3x", wantErr: true},
		{name: "no unit", expr: "30", wantErr: true},
		{name: "negative", expr: "-1d", wantErr: true},
		{name: "garbage", expr: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			duration, err := ParseExpiry(tt.expr)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, duration)
		})
	}
}
