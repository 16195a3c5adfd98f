package router

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS returns middleware that lets the frontend origins call the inventory API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Cache-Control", "Pragma"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
