package helper

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken covers every verification failure: bad signature,
// malformed token, expired token. Callers never learn which.
var ErrInvalidToken = errors.New("invalid token")

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenClaims is the decoded payload of a signed access token.
type TokenClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type Auth struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func SetupAuth(secret, accessExpiry, refreshExpiry string) Auth {
	return Auth{
		Secret:     secret,
		AccessTTL:  ParseExpiry(accessExpiry, defaultAccessTTL),
		RefreshTTL: ParseExpiry(refreshExpiry, defaultRefreshTTL),
	}
}

var expiryPattern = regexp.MustCompile(`^(\d+)([smhd])$`)

// ParseExpiry parses a "<int><unit>" lifetime where unit is one of s, m, h, d.
// Anything else falls back to the given default.
func ParseExpiry(s string, fallback time.Duration) time.Duration {
	m := expiryPattern.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}

	n, err := strconv.Atoi(m[1])
	if err != nil {
		return fallback
	}

	switch m[2] {
	case "s":
		return time.Duration(n) * time.Second
	case "m":
		return time.Duration(n) * time.Minute
	case "h":
		return time.Duration(n) * time.Hour
	case "d":
		return time.Duration(n) * 24 * time.Hour
	}
	return fallback
}

func (a Auth) GenerateToken(userID uint, email, role string) (string, error) {
	if userID == 0 || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"email":   email,
		"role":    role,
		"iat":     now.Unix(),
		"exp":     now.Add(a.AccessTTL).Unix(),
	})

	signed, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return signed, nil
}

func (a Auth) VerifyToken(tokenString string) (TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil || !token.Valid {
		return TokenClaims{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}

	userID, ok := claims["user_id"].(float64)
	if !ok || userID <= 0 {
		return TokenClaims{}, ErrInvalidToken
	}
	email, ok := claims["email"].(string)
	if !ok {
		return TokenClaims{}, ErrInvalidToken
	}
	role, _ := claims["role"].(string)

	return TokenClaims{
		UserID: uint(userID),
		Email:  email,
		Role:   role,
	}, nil
}

// RandomToken returns n cryptographically random bytes, hex encoded.
// Used for refresh, reset and verification tokens; these are opaque and
// only valid through a store lookup, never by signature.
func RandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// RefreshTokenExpiry is the absolute expiration for a refresh token
// issued right now.
func (a Auth) RefreshTokenExpiry() time.Time {
	return time.Now().Add(a.RefreshTTL)
}

func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

// CheckPassword reports whether plain matches the stored digest.
// A malformed digest compares false, it never errors out.
func CheckPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
