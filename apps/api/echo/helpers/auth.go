package helpers

import (
	"context"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/maktab-app/maktab/core"
	"github.com/maktab-app/maktab/core/author"
)

var (
	ErrUnauthorized         = echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	ErrAuthenticationFailed = echo.NewHTTPError(http.StatusBadRequest, "authentication failed")
	ForbiddenHttpErr        = echo.NewHTTPError(http.StatusForbidden, "permission denied")

	appName            string
	jwtExpirationDelta time.Duration
	jwtConfig          middleware.JWTConfig
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role  author.Role `json:"role,omitempty"`
	Name  string      `json:"name,omitempty"`
	Email string      `json:"email,omitempty"`
}

// ConfigureAuth sets up JWT auth and returns the auth middleware.
func ConfigureAuth(conf *core.Config) echo.MiddlewareFunc {
	appName = conf.AppName
	jwtExpirationDelta = conf.JWTExpirationDelta
	jwtConfig = middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "personToken",
		Claims:        new(Claims),
	}
	return middleware.JWTWithConfig(jwtConfig)
}

// GetPersonClaims builds the claims for a person authenticated under role.
func GetPersonClaims(p author.Person, role author.Role) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   p.ID,
			ExpiresAt: now.Add(jwtExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:  role,
		Name:  p.Name,
		Email: p.Email,
	}
}

// Authenticate checks the credentials against the person table selected by role.
func Authenticate(ctx context.Context, dir author.Directory, role author.Role, email, pwd string) (*Claims, error) {
	if !role.Known() {
		return nil, ErrAuthenticationFailed
	}
	p, err := dir.GetByEmail(ctx, role, email)
	if err != nil {
		if err == author.ErrNotFound {
			return nil, ErrAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding person by email")
	}
	if err = p.CheckPassword(pwd); err != nil {
		return nil, ErrAuthenticationFailed
	}
	return GetPersonClaims(p, role), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(jwtConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(jwtConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func GetContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, ErrUnauthorized
}
