package identity

import (
	"errors"
	"strings"

	"zubaschool-backoffice/pkg/config"
	"zubaschool-backoffice/pkg/errutil"

	"github.com/golang-jwt/jwt/v4"
)

// RoleSysAdmin is the only role allowed to provision tenants and plans.
// This is a coarse single-role gate, not a permission system.
const RoleSysAdmin = "sysadmin"

const bearerPrefix = "Bearer "

// Sentinel causes wrapped into the errors returned by Authorize. Callers
// match them with errors.Is.
var (
	ErrMalformedCredential = errors.New("malformed credential")
	ErrInvalidSignature    = errors.New("invalid token signature")
	ErrExpired             = errors.New("token expired")
	ErrMissingClaims       = errors.New("token missing required claims")
	ErrForbidden           = errors.New("insufficient role")
)

// Identity is the verified caller extracted from a bearer token. It lives
// for the duration of one request and is never persisted.
type Identity struct {
	SubjectID string
	Email     string
	Role      string
}

type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Gate verifies bearer credentials against a shared HS256 secret.
type Gate struct {
	secret []byte
}

func NewGate(cfg *config.Config) *Gate {
	return &Gate{secret: []byte(cfg.Auth.JWTSecret)}
}

// Authorize validates the raw Authorization header value and returns the
// caller identity. Pure validation: no store access, no token refresh.
func (g *Gate) Authorize(raw string) (*Identity, error) {
	if !strings.HasPrefix(raw, bearerPrefix) {
		return nil, errutil.Unauthorized("invalid token format",
			errutil.WithErr(ErrMalformedCredential))
	}
	tokenString := strings.TrimPrefix(raw, bearerPrefix)

	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return g.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, errutil.Unauthorized("token expired",
				errutil.WithErr(ErrExpired))
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, errutil.Unauthorized("invalid token signature",
				errutil.WithErr(ErrInvalidSignature))
		default:
			return nil, errutil.Unauthorized("invalid token",
				errutil.WithErr(ErrMalformedCredential))
		}
	}

	if claims.Subject == "" || claims.Role == "" {
		return nil, errutil.Unauthorized("invalid token payload",
			errutil.WithErr(ErrMissingClaims))
	}

	if claims.Role != RoleSysAdmin {
		return nil, errutil.Forbidden("system admin access required",
			errutil.WithErr(ErrForbidden))
	}

	return &Identity{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}
