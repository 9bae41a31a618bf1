package httpapi

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter wraps the routes in CORS for allowedOrigins. Cookies are only
// accepted cross-origin from an explicit list; a wildcard or an empty list
// allows any origin without credentials.
func NewRouter(handler *Handler, allowedOrigins ...string) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.New(corsOptions(allowedOrigins)).Handler(r)
}

func corsOptions(allowedOrigins []string) cors.Options {
	options := cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return options
		}
	}
	if len(allowedOrigins) > 0 {
		options.AllowedOrigins = allowedOrigins
		options.AllowCredentials = true
	}
	return options
}

func StartServer(addr string, handler http.Handler) {
	log.Printf("Diner Service starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}
