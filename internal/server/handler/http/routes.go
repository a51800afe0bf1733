package http

import (
	"net/http"

	"github.com/atinyakov/datavault/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the HTTP handler serving the vault API.
//
// Routes (all under /api):
//
//	GET  /health                → health check, no auth
//	POST /auth/register        → authHandler.Register
//	POST /auth/login           → authHandler.Login
//	GET  /auth/me              → authHandler.Me (bearer token)
//	GET/POST /data, GET/PUT/DELETE /data/{id}               (bearer token)
//	GET/POST /credentials, GET/PUT/DELETE /credentials/{id} (bearer token)
//
// Middleware chain: JSON content-type enforcement, request logging, panic
// recovery; the protected group additionally requires a valid bearer token.
func NewRouter(
	authHandler *AuthHandler,
	dataHandler *DataHandler,
	credentialHandler *CredentialHandler,
	tokens middleware.TokenParser,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Convert panics into 500 JSON responses
	r.Use(middleware.Recover(logger))

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", Health)

		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticate(tokens))

			r.Get("/auth/me", authHandler.Me)

			r.Route("/data", func(r chi.Router) {
				r.Get("/", dataHandler.List)
				r.Post("/", dataHandler.Create)
				r.Route("/{id:[0-9]+}", func(r chi.Router) {
					r.Get("/", dataHandler.Get)
					r.Put("/", dataHandler.Update)
					r.Delete("/", dataHandler.Delete)
				})
			})

			r.Route("/credentials", func(r chi.Router) {
				r.Get("/", credentialHandler.List)
				r.Post("/", credentialHandler.Create)
				r.Route("/{id:[0-9]+}", func(r chi.Router) {
					r.Get("/", credentialHandler.Get)
					r.Put("/", credentialHandler.Update)
					r.Delete("/", credentialHandler.Delete)
				})
			})
		})
	})

	return r
}

// Health reports service liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"message": "API is running",
	})
}
