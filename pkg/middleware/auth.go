package middleware

import (
	"context"
	"net/http"

	"stayindia/pkg/authz"
)

const (
	HeaderUserID    = "X-User-ID"
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
	HeaderUserRole  = "X-User-Role"
)

const ActorKey contextKey = "actor"

// Identity copies the authenticated identity headers set by the session
// gateway into the request context. Session handling itself lives outside
// this service; by the time a request gets here the headers are trusted.
func Identity() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := authz.Actor{
				ID:    r.Header.Get(HeaderUserID),
				Email: r.Header.Get(HeaderUserEmail),
				Name:  r.Header.Get(HeaderUserName),
				Role:  r.Header.Get(HeaderUserRole),
			}

			ctx := context.WithValue(r.Context(), ActorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ActorFromContext returns the request actor. The zero Actor means the
// request was unauthenticated.
func ActorFromContext(ctx context.Context) authz.Actor {
	if actor, ok := ctx.Value(ActorKey).(authz.Actor); ok {
		return actor
	}
	return authz.Actor{}
}
