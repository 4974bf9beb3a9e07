package httpCors

import (
	"github.com/rs/cors"
)

// CorsSettings allows the front end origins to call the API with a bearer
// token. An empty list or "*" opens the API to any origin without
// credentials.
func CorsSettings(allowedOrigins []string, debug bool) *cors.Cors {
	credentials := true
	for _, o := range allowedOrigins {
		if o == "*" {
			credentials = false
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
		credentials = false
	}
	return cors.New(cors.Options{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: credentials,
		AllowedHeaders:   []string{"Content-Type", "Authorization", "Stripe-Signature", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		Debug:            debug,
	})
}
