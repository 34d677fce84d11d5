package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

// NewRouter wires the HTTP surface. Contest routes sit behind JWT auth,
// admin routes behind the static admin key.
func NewRouter(app *handlers.App, countryLookup middleware.CountryLookup) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.AllowedOrigins),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/scoreboard", app.Scoreboard)

	r.Route("/v1/auth", func(r chi.Router) {
		r.With(middleware.ClientCountry(countryLookup)).Post("/login", app.Login)
		r.Post("/register", app.Register)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Post("/v1/images/generate", app.ImagesGenerate)

		r.Route("/v1/submissions", func(r chi.Router) {
			r.Post("/", app.SubmissionsCreate)
			r.Post("/discard", app.SubmissionsDiscard)
			r.Get("/", app.SubmissionsList)
		})

		r.Route("/v1/me", func(r chi.Router) {
			r.Get("/", app.Me)
			r.Post("/tabswitch", app.TabSwitch)
		})
	})

	r.Route("/v1/admin", func(r chi.Router) {
		r.Use(middleware.RequireAdmin(app.Config.AdminAPIKey))

		r.Get("/submissions", app.AdminSubmissions)
		r.Get("/submissions/archive", app.AdminSubmissionsArchive)
		r.Get("/credentials", app.AdminCredentials)
		r.Post("/reset", app.AdminReset)
		r.Post("/indexes", app.AdminEnsureIndexes)
	})

	if app.Store != nil {
		fs := stdhttp.StripPrefix("/static/", stdhttp.FileServer(stdhttp.Dir(app.Store.Root())))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
