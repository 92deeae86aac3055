package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

// Auth resolves the caller of a request from its bearer token.
type Auth struct {
	keyfunc jwt.Keyfunc
	jwks    *keyfunc.JWKS
}

// NewAuth validates tokens against the JWKS published at url.
func NewAuth(url string) (*Auth, error) {
	options := keyfunc.Options{
		RefreshErrorHandler: func(err error) {
			log.WithError(err).Error("failed to refresh jwks")
		},
		RefreshInterval:   time.Hour,
		RefreshRateLimit:  time.Minute * 5,
		RefreshTimeout:    time.Second * 10,
		RefreshUnknownKID: true,
	}

	jwks, err := keyfunc.Get(url, options)
	if err != nil {
		return nil, err
	}

	return &Auth{keyfunc: jwks.Keyfunc, jwks: jwks}, nil
}

// NewAuthWithKeyfunc validates tokens with fn instead of a remote JWKS.
func NewAuthWithKeyfunc(fn jwt.Keyfunc) *Auth {
	return &Auth{keyfunc: fn}
}

func (auth *Auth) UserID(r *http.Request) (string, error) {
	data := strings.Split(r.Header.Get("Authorization"), " ")
	if len(data) != 2 || data[0] != "Bearer" {
		return "", errors.New("invalid authorization http header")
	}

	token, err := jwt.Parse(data[1], auth.keyfunc)
	if err != nil {
		return "", errors.New("failed to parse the JWT")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("the token is not valid")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("the token has no subject")
	}

	return sub, nil
}

func (auth *Auth) Close() {
	if auth.jwks != nil {
		auth.jwks.EndBackground()
	}
}
