package ragclient

import (
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mohammad-safakhou/ragbridge/config"
)

// TokenIssuer mints short-lived service JWTs for outbound RAG calls. Tokens
// are never cached: every call gets a fresh one because the TTL is tight.
type TokenIssuer struct {
	secret    string
	algorithm string
	subject   string
	ttl       time.Duration
	logger    *log.Logger
}

// NewTokenIssuer builds an issuer from the RAG config. floor is the minimum
// TTL a caller is willing to work with; shorter configured TTLs are raised
// to it so tokens survive the request they authenticate.
func NewTokenIssuer(cfg config.RAGConfig, floor time.Duration, logger *log.Logger) *TokenIssuer {
	ttl := cfg.JWTTTL
	if ttl < floor {
		ttl = floor
	}
	return &TokenIssuer{
		secret:    cfg.JWTSecret,
		algorithm: cfg.JWTAlgorithm,
		subject:   cfg.ServiceSubject,
		ttl:       ttl,
		logger:    logger,
	}
}

// Issue returns a signed token and true, or ("", false) when no secret is
// configured or signing fails. Absence means "call the service
// unauthenticated", never an error to propagate.
func (i *TokenIssuer) Issue() (string, bool) {
	if i.secret == "" {
		return "", false
	}
	method := jwt.GetSigningMethod(i.algorithm)
	if method == nil {
		i.logger.Printf("rag jwt generation failed: unknown algorithm %q", i.algorithm)
		return "", false
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": i.subject,
		"iat": now.Unix(),
		"exp": now.Add(i.ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(i.secret))
	if err != nil {
		i.logger.Printf("rag jwt generation failed: %v", err)
		return "", false
	}
	return signed, true
}
