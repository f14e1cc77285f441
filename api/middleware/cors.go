package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

const envHeader = "X-Alcotrade-Env"

// CORS lets the admin panel call the API with its auth cookie. Local
// development falls back to the Next.js dev origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After", envHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}).Handler
}
