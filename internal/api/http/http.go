package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/lestrrat-go/jwx/jwt"

	"github.com/waitline/waitline-manager/internal/apisrv/auth"
	"github.com/waitline/waitline-manager/internal/apisrv/owner"
	"github.com/waitline/waitline-manager/internal/apisrv/public"
	"github.com/waitline/waitline-manager/internal/entity"
)

// Config is the configuration for the http server
type Config struct {
	Port           string   `mapstructure:"port"`
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Server is the http server
type Server struct {
	hs   *http.Server
	c    *Config
	done chan struct{}
}

// New creates a new server
func New(config *Config) *Server {
	return &Server{
		c:    config,
		done: make(chan struct{}),
	}
}

// Done returns a channel that is closed when the http server exits
func (s *Server) Done() <-chan struct{} {
	return s.done
}

// Start mounts the API and begins serving.
func (s *Server) Start(ctx context.Context, authS *auth.Server, ownerS *owner.Server, publicS *public.Server) error {
	s.hs = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", s.c.Address, s.c.Port),
		Handler:           s.routes(authS, ownerS, publicS),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Default().InfoContext(ctx, "http server listening",
			slog.String("addr", s.hs.Addr),
		)
		if err := s.hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Default().ErrorContext(ctx, "http server exited",
				slog.String("err", err.Error()),
			)
		}
		close(s.done)
	}()

	return nil
}

func (s *Server) routes(authS *auth.Server, ownerS *owner.Server, publicS *public.Server) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.c.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handlers{
		auth:   authS,
		owner:  ownerS,
		public: publicS,
	}

	r.Get("/", h.landing)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/signin", h.signin)
		r.Post("/signin/google", h.signinGoogle)
		r.Get("/callback", h.callback)
	})

	// public join form, no session required
	r.Post("/waitlist/{slug}/join", h.join)
	r.Get("/waitlist/form/{formKey}", h.formConfig)

	// owner routes behind the session gate
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(authS.JwtAuth))
		r.Use(authenticator(authS.JwtAuth))

		r.Post("/auth/signout", h.signout)
		r.Get("/dashboard", h.dashboard)
		r.Post("/waitlist/create", h.createWaitlist)
		r.Get("/analytics/{id}", h.analytics)

		r.Route("/waitlist/{id}", func(r chi.Router) {
			r.Get("/settings", h.getSettings)
			r.Post("/settings/basic", h.updateBasicSettings)
			r.Post("/settings/thank-you", h.updateThankYouPage)
			r.Post("/settings/submissions", h.updateSubmissionSettings)
			r.Post("/publish", h.setPublished)
			r.Get("/submissions", h.submissions)
			r.Get("/leaderboard", h.leaderboard)
		})
	})

	return r
}

// Stop shuts the http server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	if s.hs == nil {
		return nil
	}
	sdCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.hs.Shutdown(sdCtx)
}

type callerCtxKey struct{}

// authenticator verifies the session token found by jwtauth.Verifier and
// threads the caller identity into the request context.
func authenticator(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				render.Render(w, r, ErrUnauthorizedError(err))
				return
			}

			if token == nil || jwt.Validate(token) != nil {
				render.Render(w, r, ErrUnauthorizedError(fmt.Errorf("invalid session token")))
				return
			}

			if token.Subject() == "" {
				render.Render(w, r, ErrUnauthorizedError(fmt.Errorf("session token has no subject")))
				return
			}

			u := &entity.User{ID: token.Subject()}
			if e, ok := token.Get("email"); ok {
				if es, ok := e.(string); ok {
					u.Email = es
				}
			}

			ctx := context.WithValue(r.Context(), callerCtxKey{}, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func callerFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(callerCtxKey{}).(*entity.User)
	return u, ok
}
