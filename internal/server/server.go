// Package server is a reference implementation of the budget tracker REST
// service, backed by SQLite. It serves local development and the end-to-end
// tests of the remote client.
package server

import (
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/budgetsync/internal/server/storage"
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	store    *storage.Store
	validate *validator.Validate
	log      zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New returns a Server over store.
func New(store *storage.Store, opts ...Option) *Server {
	s := &Server{
		store:    store,
		validate: newValidator(),
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}
