package httpd

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the API routes around a download queue.
func NewRouter(queue DownloadQueue, version string) http.Handler {
	srv := &Server{
		Queue:   queue,
		Version: version,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  log.Default(),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)

	// The client is a browser extension, so requests arrive cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", srv.handleHealth())
	r.Post("/add-download", srv.handleAddDownload())
	r.Get("/queue", srv.handleQueue())
	r.Get("/history", srv.handleHistory())
	r.Delete("/cancel/{taskID}", srv.handleCancel())

	return r
}
