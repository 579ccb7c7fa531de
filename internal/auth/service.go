package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// Anonymous owns every drawing when authentication is disabled.
const Anonymous = "anonymous"

const tokenTTL = 24 * time.Hour

// Service exchanges the shared API key for signed bearer tokens. With no key
// hash configured, authentication is disabled.
type Service struct {
	keyHash   []byte
	jwtSecret []byte
	now       func() time.Time
}

func NewService(apiKeyHash, jwtSecret string) *Service {
	return &Service{
		keyHash:   []byte(apiKeyHash),
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

func (s *Service) Enabled() bool { return len(s.keyHash) > 0 }

type TokenResult struct {
	Token     string `json:"token"`
	Client    string `json:"client"`
	ExpiresAt int64  `json:"expiresAt"`
}

// IssueToken checks apiKey against the configured hash and returns a token
// whose subject is client. Drawings are owned by that subject.
func (s *Service) IssueToken(client, apiKey string) (*TokenResult, error) {
	if !s.Enabled() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.keyHash, []byte(apiKey)); err != nil {
		return nil, ErrInvalidCredentials
	}

	exp := s.now().Add(tokenTTL)
	claims := jwt.MapClaims{
		"sub": client,
		"iat": s.now().Unix(),
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &TokenResult{Token: signed, Client: client, ExpiresAt: exp.Unix()}, nil
}

// ValidateToken returns the token's subject.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	client, ok := claims["sub"].(string)
	if !ok || client == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return client, nil
}

// HashKey hashes an API key for the API_KEY_HASH setting.
func HashKey(apiKey string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(apiKey), 12)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}
