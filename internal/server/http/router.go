package httpserver

import (
	"net/http"

	"github.com/badukstudy/aicore/internal/facade"
)

// Server is a thin wrapper around Handler, kept as its own type so
// callers that want to mux it alongside static file serving (see
// static_routes.go) have a plain http.Handler to hang onto.
type Server struct {
	h http.Handler
}

func NewServer(f *facade.Facade) *Server {
	return &Server{h: NewHandler(f)}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.h.ServeHTTP(w, r)
}
