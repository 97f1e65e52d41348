package auth

import (
	"context"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/relink-dev/relink/internal/store"
)

type contextKey string

const userContextKey contextKey = "user"

// Middleware guards the admin pages behind a valid session.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

func NewMiddleware(sm *scs.SessionManager, us *store.UserStore) *Middleware {
	return &Middleware{sessions: sm, users: us}
}

// RequireUser redirects to /auth/login when no valid session exists. On
// success the *store.User is set on the request context.
func (m *Middleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := m.sessions.GetString(r.Context(), sessionUserKey)
		if userID == "" {
			http.Redirect(w, r, "/auth/login?redirect="+r.URL.RequestURI(), http.StatusFound)
			return
		}

		user, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			// Session references a deleted user: destroy it and start over.
			_ = m.sessions.Destroy(r.Context())
			http.Redirect(w, r, "/auth/login", http.StatusFound)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext retrieves the authenticated user set by RequireUser.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(userContextKey).(*store.User)
	return u
}
