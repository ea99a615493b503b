package middleware

import (
	"net/http"
	"strconv"

	"github.com/sparkwash/CW-BookingService/internal/api/handlers"
)

// Auth проверяет наличие корректного X-User-ID заголовка.
// Аутентификация выполняется на API gateway; сервис доверяет заголовку.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(handlers.HeaderUserID)
		if raw == "" {
			handlers.RespondError(w, http.StatusUnauthorized, "требуется аутентификация")
			return
		}

		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondError(w, http.StatusUnauthorized, "некорректный идентификатор пользователя")
			return
		}

		next.ServeHTTP(w, r)
	})
}
