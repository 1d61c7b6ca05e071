package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/careops-lab/panacea/pkg/usecase"
	"github.com/careops-lab/panacea/pkg/utils/logging"
)

type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
	authUC AuthUseCase
}

type Options func(*Server)

func WithAuth(authUC AuthUseCase) Options {
	return func(s *Server) {
		s.authUC = authUC
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.authUC == nil {
		s.authUC = uc.Auth
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK")) //nolint:errcheck // health probe
	})

	// Auth endpoints
	if s.authUC != nil {
		r.Route("/api/auth", func(r chi.Router) {
			r.Get("/login", authLoginHandler(s.authUC))
			r.Get("/callback", authCallbackHandler(s.authUC))
			r.Post("/logout", authLogoutHandler(s.authUC))
			r.Get("/me", authMeHandler(s.authUC))
		})
	}

	// Occurrence API, session required
	r.Route("/api/occurrences", func(r chi.Router) {
		r.Use(authMiddleware(s.authUC))

		r.Post("/", createOccurrenceHandler(uc.Occurrence))
		r.Get("/", listOccurrencesHandler(uc.Occurrence))
		r.Get("/{id}", getOccurrenceHandler(uc.Occurrence))
		r.Put("/{id}", updateOccurrenceHandler(uc.Occurrence))

		r.Post("/{id}/triage", triageHandler(uc.Occurrence))
		r.Post("/{id}/status", changeStatusHandler(uc.Occurrence))
		r.Post("/{id}/forward", forwardHandler(uc.Occurrence))
		r.Post("/{id}/finalize", finalizeHandler(uc.Occurrence))
		r.Post("/{id}/finalize-nursing", finalizeNursingHandler(uc.Occurrence))

		r.Post("/{id}/signatures", signaturesHandler(uc.Occurrence))
		r.Post("/{id}/attachments", attachmentsHandler(uc.Occurrence))
	})

	// Public confirmation flow, token is the only authority
	r.Route("/public/confirmations", func(r chi.Router) {
		r.Get("/{key}", resolveConfirmationHandler(uc.Occurrence))
		r.Post("/{key}", confirmHandler(uc.Occurrence))
		r.Post("/{key}/opinion", submitOpinionHandler(uc.Occurrence))
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
