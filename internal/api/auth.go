package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Bearer-token authentication boundary. Identity issuance lives in a separate
// service; this middleware only verifies the token and resolves it to a
// stable user id before the chat core runs.

type contextKey string

const userIDKey contextKey = "userID"

// AuthMiddleware validates the Authorization bearer JWT and injects the
// token's subject as the user id into the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Missing bearer token."})
				return
			}

			tokenStr := strings.TrimPrefix(header, "Bearer ")
			claims := &jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid token."})
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// userIDFrom returns the authenticated user id, or "" when the request did
// not pass through AuthMiddleware.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
