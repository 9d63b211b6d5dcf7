package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aleksaelezovic/shaclview/pkg/shacl"
	"github.com/aleksaelezovic/shaclview/pkg/store"
	"github.com/rs/zerolog"
)

// Server represents the HTTP property value server
type Server struct {
	store    *store.TripleStore
	shapes   *store.GraphView
	data     *store.GraphView
	resolver *shacl.Resolver
	addr     string
	log      zerolog.Logger
}

// Statistics reports the size of the served graphs
type Statistics struct {
	ShapesQuads int64 `json:"shapesQuads"`
	DataQuads   int64 `json:"dataQuads"`
}

// NewServer creates a server resolving over the shapes and data graphs of ts
func NewServer(ts *store.TripleStore, addr string, log zerolog.Logger, options ...shacl.Option) (*Server, error) {
	shapes := store.ShapesGraph(ts)
	data := store.DataGraph(ts)

	resolver, err := shacl.NewResolver(shapes, data, append([]shacl.Option{shacl.WithLogger(log)}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	return &Server{
		store:    ts,
		shapes:   shapes,
		data:     data,
		resolver: resolver,
		addr:     addr,
		log:      log,
	}, nil
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/property-values", s.handlePropertyValues)
	mux.HandleFunc("/targets", s.handleTargets)
	mux.HandleFunc("/data", s.handleDataUpload)
	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/", s.handleRoot)
	return mux
}

// Start starts the HTTP server
func (s *Server) Start() error {
	server := &http.Server{
		Addr:         s.addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.log.Info().Msgf("Serving property values at http://%s/property-values", s.addr)
	return server.ListenAndServe()
}

// Close releases the resolver
func (s *Server) Close() {
	s.resolver.Close()
}

// Stats returns the current graph sizes
func (s *Server) Stats() (Statistics, error) {
	shapes, err := s.shapes.Count()
	if err != nil {
		return Statistics{}, err
	}
	data, err := s.data.Count()
	if err != nil {
		return Statistics{}, err
	}
	return Statistics{ShapesQuads: shapes, DataQuads: data}, nil
}
