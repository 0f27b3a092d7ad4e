package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/DRSN-tech/calories-backend/internal/access"
	"github.com/DRSN-tech/calories-backend/internal/usecase"
	"github.com/DRSN-tech/calories-backend/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

type subjectCtxKey struct{}

// SubjectFromContext возвращает субъект запроса. nil — анонимный запрос.
func SubjectFromContext(ctx context.Context) *access.Subject {
	s, _ := ctx.Value(subjectCtxKey{}).(*access.Subject)
	return s
}

func withSubject(ctx context.Context, s *access.Subject) context.Context {
	return context.WithValue(ctx, subjectCtxKey{}, s)
}

// Authenticator принимает "Authorization: Bearer <token>" или "JWT <token>".
// Без заголовка запрос анонимный, с недействительным токеном получает 401.
func Authenticator(auth usecase.AuthUC, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				log.Debugf("authentication failed: %v", err)
				WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSubject(r.Context(), subject)))
		})
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}

	switch strings.ToLower(scheme) {
	case "bearer", "jwt":
		token = strings.TrimSpace(token)
		return token, token != ""
	default:
		return "", false
	}
}

// RequestLogger пишет метод, путь, статус и длительность каждого запроса.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %s request_id=%s",
				r.Method, r.URL.Path, ww.Status(), time.Since(start), middleware.GetReqID(r.Context()))
		})
	}
}
