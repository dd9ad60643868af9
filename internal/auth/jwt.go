package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"time"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenTypePasswordReset = "password_reset"

type Claims struct {
	UserID      int64  `json:"uid"`
	TokenType   string `json:"typ"`
	Fingerprint string `json:"fgp"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret   []byte
	resetTTL time.Duration
	now      func() time.Time
}

func NewManager(secret string, resetTTL time.Duration) *Manager {
	return &Manager{
		secret:   []byte(secret),
		resetTTL: resetTTL,
		now:      time.Now,
	}
}

// WithClock swaps the time source; tests use it to age tokens.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	cp := *m
	cp.now = now
	return &cp
}

func (m *Manager) ResetTTL() time.Duration {
	return m.resetTTL
}

// GeneratePasswordResetToken signs a token bound to the user's current password hash,
// so it stops verifying as soon as the password changes.
func (m *Manager) GeneratePasswordResetToken(userID int64, passwordHash string) (string, time.Time, error) {
	now := m.now().UTC()
	expiresAt := now.Add(m.resetTTL)

	claims := Claims{
		UserID:      userID,
		TokenType:   tokenTypePasswordReset,
		Fingerprint: m.fingerprint(passwordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Subject:   strconv.FormatInt(userID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return raw, expiresAt, nil
}

// VerifyPasswordResetToken checks signature, expiry and type. Every failure is
// reported as apperr.ErrExpiredOrInvalidToken.
func (m *Manager) VerifyPasswordResetToken(tokenStr string) (*Claims, error) {
	claims, err := m.parseAndValidate(tokenStr)
	if err != nil {
		return nil, errors.Join(apperr.ErrExpiredOrInvalidToken, err)
	}

	if claims.TokenType != tokenTypePasswordReset || claims.UserID == 0 {
		return nil, apperr.ErrExpiredOrInvalidToken
	}

	return claims, nil
}

// MatchesPassword reports whether the token was issued for the given password hash.
func (m *Manager) MatchesPassword(claims *Claims, passwordHash string) bool {
	return hmac.Equal([]byte(claims.Fingerprint), []byte(m.fingerprint(passwordHash)))
}

func (m *Manager) parseAndValidate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Enforce HS256
		_, ok := t.Method.(*jwt.SigningMethodHMAC)

		if !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)

	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Deterministic HMAC of the stored password hash (server-side pepper = secret bytes).
func (m *Manager) fingerprint(passwordHash string) string {
	h := hmac.New(sha256.New, m.secret)
	h.Write([]byte(passwordHash))
	return hex.EncodeToString(h.Sum(nil))[:32]
}
