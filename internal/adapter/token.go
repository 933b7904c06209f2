// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 BTCPay Server contributors

package adapter

import (
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StaticTokenSource is a [TokenSource] holding a single replaceable bearer
// token. The UI process swaps the token on login/logout.
type StaticTokenSource struct {
	mu    sync.RWMutex
	token string
}

// NewStaticTokenSource returns a source pre-loaded with token, which may be
// empty.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: strings.TrimSpace(token)}
}

// AccessToken implements [TokenSource].
func (s *StaticTokenSource) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the stored token; an empty string de-authenticates.
func (s *StaticTokenSource) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
}

// TokenUsable reports whether token looks like a credential worth sending:
// non-empty and, when it parses as a JWT with an expiry claim, not expired.
// Opaque (non-JWT) tokens are assumed usable; the server is the authority.
func TokenUsable(token string, now time.Time) bool {
	token = strings.TrimSpace(token)
	if token == "" {
		return false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return true
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}

	return now.Before(exp.Time)
}
