package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"

	"github.com/copa-samurai/tournament-api/models"
	"github.com/copa-samurai/tournament-api/services"
)

type contextKey string

const actorContextKey contextKey = "actor"

// ActorFromContext returns the authenticated actor placed by Authenticate.
// The zero Actor means the request was not authenticated.
func ActorFromContext(ctx context.Context) services.Actor {
	actor, _ := ctx.Value(actorContextKey).(services.Actor)
	return actor
}

// Authenticate verifies the Bearer token and stores the caller's identity
// in the request context. Requests without a valid token are rejected.
func Authenticate(jwtSecret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w)
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return jwtSecret, nil
			})
			if err != nil || !token.Valid {
				unauthorized(w)
				return
			}

			actor, err := actorFromClaims(claims)
			if err != nil {
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), actorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	http.Error(w, "Unauthorized", http.StatusUnauthorized)
}

// RequireAdmin allows only administrators past. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !ActorFromContext(r.Context()).IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorFromClaims(claims jwt.MapClaims) (services.Actor, error) {
	senseiID, ok := claims["sensei_id"].(float64)
	if !ok {
		return services.Actor{}, fmt.Errorf("missing sensei_id claim")
	}
	dojoID, ok := claims["dojo_id"].(float64)
	if !ok {
		return services.Actor{}, fmt.Errorf("missing dojo_id claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return services.Actor{}, fmt.Errorf("missing role claim")
	}
	return services.Actor{
		SenseiID: int(senseiID),
		DojoID:   int(dojoID),
		Role:     models.SenseiRole(role),
	}, nil
}
