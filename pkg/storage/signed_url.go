package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const downloadAudience = "file-download"

var (
	// ErrLinkExpired is returned for a well-signed link past its expiry.
	ErrLinkExpired = errors.New("download link expired")
	// ErrLinkInvalid is returned for malformed or forged links.
	ErrLinkInvalid = errors.New("download link invalid")
)

// DownloadClaims binds a reference (the installment id) to a stored file.
type DownloadClaims struct {
	Ref  string `json:"ref"`
	Path string `json:"path"`
	jwt.RegisteredClaims
}

// SignedURLSigner issues short-lived HS256 tokens for file downloads.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer. ttl defaults to one day.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate signs ref and relPath and reports when the token stops working.
func (s *SignedURLSigner) Generate(ref, relPath string) (string, time.Time, error) {
	if ref == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("ref and relPath required")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}

	issued := s.now()
	expiresAt := issued.Add(s.ttl).Truncate(time.Second)
	claims := DownloadClaims{
		Ref:  ref,
		Path: relPath,
		RegisteredClaims: jwt.RegisteredClaims{
			Audience:  jwt.ClaimStrings{downloadAudience},
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse verifies token and returns the embedded reference and path.
func (s *SignedURLSigner) Parse(token string) (ref, relPath string, err error) {
	var claims DownloadClaims
	_, err = jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(downloadAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return "", "", ErrLinkExpired
	case err != nil:
		return "", "", fmt.Errorf("%w: %v", ErrLinkInvalid, err)
	case claims.Ref == "" || claims.Path == "":
		return "", "", ErrLinkInvalid
	}
	return claims.Ref, claims.Path, nil
}
