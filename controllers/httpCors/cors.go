package httpCors

import (
	"github.com/rs/cors"
)

// CorsSettings allows the tracker API to be called from the listed origins (e.g. a static front end).
// No origins means same-origin only. "*" allows any origin but never with cookies.
func CorsSettings(origins []string) *cors.Cors {
	opts := cors.Options{
		AllowedMethods:   []string{"GET", "POST", "DELETE"},
		AllowedOrigins:   origins,
		AllowCredentials: true,
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition"},
	}
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(string) bool { return false }
	}
	for _, o := range origins {
		if o == "*" {
			opts.AllowCredentials = false
		}
	}
	return cors.New(opts)
}
