package middleware

import (
	"context"
	"docflow/internal/models"
	utils "docflow/internal/utils/http_errors"
	"log/slog"
	"net/http"
)

func Auth(log *slog.Logger, storer SessionStorer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "Auth"

			log = log.With(slog.String("op", op))

			token := r.URL.Query().Get("token")

			requester, err := storer.UserByToken(r.Context(), token)
			if err != nil {
				log.Error("failed get user by token", slog.String("error", err.Error()))
				utils.WriteJSONError(w, http.StatusForbidden, "token is invalid")
				return
			}

			ctx := context.WithValue(r.Context(), models.UserContextKey, requester)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin assumes Auth already put the requester into the context.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			op := pkg + "RequireAdmin"

			log = log.With(slog.String("op", op))

			requester, ok := r.Context().Value(models.UserContextKey).(*models.User)
			if !ok || !requester.IsAdmin() {
				log.Warn("requester is not an admin")
				utils.WriteJSONError(w, http.StatusForbidden, models.ErrForbidden.Error())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
