package server

import (
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"time"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/aleksaelezovic/shaclview/pkg/server/results"
)

// handleRoot provides information about the server
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	stats, err := s.Stats()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Statistics error: %v", err))
		return
	}

	// Get current endpoint URL from request
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	endpointURL := html.EscapeString(fmt.Sprintf("%s://%s/property-values", scheme, r.Host))

	page := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>shaclview</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; }
        .header { background: #2c3e50; color: white; padding: 15px 20px; }
        .header h1 { margin: 0; font-size: 24px; font-weight: 500; }
        main { padding: 20px; }
        code { background: #eee; padding: 2px 6px; border-radius: 3px; }
    </style>
</head>
<body>
    <div class="header"><h1>shaclview</h1></div>
    <main>
        <p>Shapes graph: <strong>` + strconv.FormatInt(stats.ShapesQuads, 10) + `</strong> quads,
           data graph: <strong>` + strconv.FormatInt(stats.DataQuads, 10) + `</strong> quads.</p>
        <p>Resolve a node: <code>` + endpointURL + `?focus=IRI</code></p>
        <p>Upload RDF: <code>POST /data?graph=shapes|data</code></p>
    </main>
</body>
</html>`

	s.write(w, "text/html; charset=utf-8", []byte(page))
}

// handlePropertyValues resolves the ranked property values of ?focus=
func (s *Server) handlePropertyValues(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
		return
	}

	focus := ParseTerm(r.URL.Query().Get("focus"))
	values, err := s.resolver.Resolve(focus)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Resolution error: %v", err))
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch s.negotiateFormat(r.Header.Get("Accept")) {
	case "csv":
		contentType = "text/csv; charset=utf-8"
		data, err = results.FormatPropertyValuesCSV(values, s.resolver.Label)
	default:
		contentType = "application/json; charset=utf-8"
		data, err = results.FormatPropertyValuesJSON(values, s.resolver.Label)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
		return
	}

	s.write(w, contentType, data)
}

// handleTargets lists the target matches of ?focus=
func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "GET, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
		return
	}

	matches, err := s.resolver.Targets(ParseTerm(r.URL.Query().Get("focus")))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Target error: %v", err))
		return
	}

	data, err := results.FormatTargetsJSON(matches)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
		return
	}
	s.write(w, "application/json; charset=utf-8", data)
}

// handleGraph exports ?name=shapes|data as N-Triples
func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use GET")
		return
	}

	view, err := s.graphView(r.URL.Query().Get("name"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	quads, err := view.Match(nil, nil, nil, nil)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Query error: %v", err))
		return
	}

	data, err := results.FormatNTriples(quads)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Formatting error: %v", err))
		return
	}
	s.write(w, "application/n-triples; charset=utf-8", data)
}

// handleDataUpload loads an RDF document into ?graph=shapes|data.
// With ?replace=true the graph is emptied first.
func (s *Server) handleDataUpload(w http.ResponseWriter, r *http.Request) {
	setCORS(w, "POST, OPTIONS")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "Method not allowed. Use POST")
		return
	}

	view, err := s.graphView(r.URL.Query().Get("graph"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Get Content-Type header
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		s.writeError(w, http.StatusBadRequest, "Missing Content-Type header")
		return
	}

	// Create appropriate parser based on content type
	parser, err := rdf.NewParser(contentType)
	if err != nil {
		supportedTypes := rdf.GetSupportedContentTypes()
		s.writeError(w, http.StatusUnsupportedMediaType,
			fmt.Sprintf("Unsupported content type: %s. Supported types: %v", contentType, supportedTypes))
		return
	}

	// Parse RDF data from request body
	startTime := time.Now()
	quads, err := parser.Parse(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Parse error: %v", err))
		return
	}

	// Blank nodes of separate uploads never merge
	quads = rdf.ScopeBlankNodes(quads, UploadScope(startTime))

	if r.URL.Query().Get("replace") == "true" {
		err = view.Replace(quads)
	} else {
		err = view.Add(quads)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Insert error: %v", err))
		return
	}

	duration := time.Since(startTime)
	s.log.Info().Stringer("graph", view.Graph()).Int("quads", len(quads)).Dur("duration", duration).Msg("Loaded data")

	// Return success response with statistics
	response := map[string]any{
		"success": true,
		"statistics": map[string]any{
			"graph":          view.Graph().String(),
			"quadsInserted":  len(quads),
			"durationMs":     duration.Milliseconds(),
			"quadsPerSecond": float64(len(quads)) / duration.Seconds(),
		},
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response) // #nosec G104 - error writing response is logged elsewhere if needed
}

// UploadScope names the blank node scope of a document loaded at t
func UploadScope(t time.Time) string {
	return "u" + strconv.FormatInt(t.UnixNano(), 36)
}
