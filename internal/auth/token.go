package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/xyzesther/CommunityAssist/internal/config"
)

// Identity is the verified caller as asserted by the identity provider. The
// service trusts these values; it performs no protocol work beyond signature
// and expiry validation.
type Identity struct {
	Subject string
	Name    string
	Email   string
}

// TokenVerifier validates bearer tokens issued by the identity provider and
// extracts the subject plus profile claims. Providers that namespace custom
// claims (e.g. "<audience>/email") are supported via ClaimsNamespace.
type TokenVerifier struct {
	secret    []byte
	namespace string
}

// NewTokenVerifier builds a verifier from auth configuration.
func NewTokenVerifier(cfg config.AuthConfig) *TokenVerifier {
	return &TokenVerifier{secret: []byte(cfg.JWTSecret), namespace: cfg.ClaimsNamespace}
}

// Verify validates the token and returns the caller identity.
func (v *TokenVerifier) Verify(tokenStr string) (*Identity, error) {
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return nil, errors.New("token missing subject")
	}

	return &Identity{
		Subject: subject,
		Name:    v.profileClaim(claims, "name"),
		Email:   v.profileClaim(claims, "email"),
	}, nil
}

// Issue signs a token carrying the subject and profile claims. Used for local
// development and tests; production tokens come from the identity provider.
func (v *TokenVerifier) Issue(subject, name, email string, ttl time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"sub": subject,
		"exp": jwt.NewNumericDate(expiresAt),
		"iat": jwt.NewNumericDate(time.Now()),
	}
	claims[v.claimName("name")] = name
	claims[v.claimName("email")] = email

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(v.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

func (v *TokenVerifier) profileClaim(claims jwt.MapClaims, name string) string {
	if v.namespace != "" {
		if s, ok := claims[v.namespace+"/"+name].(string); ok && s != "" {
			return s
		}
	}
	s, _ := claims[name].(string)
	return s
}

func (v *TokenVerifier) claimName(name string) string {
	if v.namespace != "" {
		return v.namespace + "/" + name
	}
	return name
}
