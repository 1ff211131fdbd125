package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/poll-profile/internal/core/domain"
)

type contextKey string

const ViewerKey contextKey = "viewer"

// ViewerMiddleware resolves the viewer from the access_token cookie (or a
// bearer header) issued by the auth service. Missing or invalid tokens
// leave the request anonymous.
func ViewerMiddleware(secret []byte, log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var viewer domain.Viewer
			if token := accessToken(r); token != "" && len(secret) > 0 {
				v, err := parseViewer(token, secret)
				if err != nil {
					log.WithError(err).Debug("ignoring invalid access token")
				} else {
					viewer = v
				}
			}

			ctx := context.WithValue(r.Context(), ViewerKey, viewer)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ViewerFrom(ctx context.Context) domain.Viewer {
	viewer, _ := ctx.Value(ViewerKey).(domain.Viewer)
	return viewer
}

func accessToken(r *http.Request) string {
	if cookie, err := r.Cookie("access_token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func parseViewer(token string, secret []byte) (domain.Viewer, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Viewer{}, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return domain.Viewer{}, err
	}
	if sub == "" {
		return domain.Viewer{}, errors.New("token has no subject")
	}

	username, _ := claims["username"].(string)
	return domain.Viewer{ID: domain.ID(sub), Username: username, Token: token}, nil
}
