package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/store"
)

type errorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// writeError writes an error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.log.Warn().Int("status", statusCode).Msg(message)

	var body errorBody
	body.Error.Code = statusCode
	body.Error.Message = message

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body) // #nosec G104 - error writing response is logged elsewhere if needed
}

// write sends a successful response
func (s *Server) write(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data) // #nosec G104 - error writing response is logged elsewhere if needed
}

// negotiateFormat determines the response format based on Accept header
func (s *Server) negotiateFormat(acceptHeader string) string {
	accept := strings.ToLower(acceptHeader)

	if strings.Contains(accept, "text/csv") {
		return "csv"
	}

	// Default to JSON
	return "json"
}

// setCORS enables cross-origin requests for the given methods
func setCORS(w http.ResponseWriter, methods string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", methods)
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept")
}

// ParseTerm reads a node from a query parameter: "_:id" is a blank node,
// "<iri>" or a bare string an IRI, and "" no node at all
func ParseTerm(value string) rdf.Term {
	value = strings.TrimSpace(value)
	switch {
	case value == "":
		return nil
	case strings.HasPrefix(value, "_:"):
		return rdf.NewBlankNode(strings.TrimPrefix(value, "_:"))
	case strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">"):
		return rdf.NewNamedNode(value[1 : len(value)-1])
	default:
		return rdf.NewNamedNode(value)
	}
}

// graphView maps the graph parameter to a served graph
func (s *Server) graphView(name string) (*store.GraphView, error) {
	switch name {
	case "shapes", store.ShapesGraphIRI:
		return s.shapes, nil
	case "data", store.DataGraphIRI:
		return s.data, nil
	default:
		return nil, fmt.Errorf("unknown graph %q, use shapes or data", name)
	}
}
