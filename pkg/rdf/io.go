package rdf

import (
	"errors"
	"fmt"
	"io"
	"strings"

	krdf "github.com/knakk/rdf"
)

// ErrUnsupportedContentType is returned by NewParser for unknown media types.
var ErrUnsupportedContentType = errors.New("unsupported content type")

// RDFParser is the interface for parsing RDF data in various formats
type RDFParser interface {
	// Parse parses RDF data from a reader and returns quads
	Parse(reader io.Reader) ([]*Quad, error)

	// ContentType returns the MIME type this parser handles
	ContentType() string
}

// NewParser creates an RDF parser based on the content type
func NewParser(contentType string) (RDFParser, error) {
	// Normalize content type (remove parameters like charset)
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}

	switch ct {
	case "application/n-triples", "text/plain":
		return &tripleParser{contentType: "application/n-triples", format: krdf.NTriples}, nil
	case "text/turtle", "application/x-turtle":
		return turtleParser{}, nil
	case "application/rdf+xml":
		return &tripleParser{contentType: "application/rdf+xml", format: krdf.RDFXML}, nil
	case "application/n-quads":
		return &NQuadsIOParser{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedContentType, contentType)
	}
}

// ContentTypeForFile guesses a content type from a file extension.
func ContentTypeForFile(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".nt"):
		return "application/n-triples"
	case strings.HasSuffix(lower, ".nq"):
		return "application/n-quads"
	case strings.HasSuffix(lower, ".rdf"), strings.HasSuffix(lower, ".xml"), strings.HasSuffix(lower, ".owl"):
		return "application/rdf+xml"
	default:
		return "text/turtle"
	}
}

// tripleParser decodes triple-only formats into the default graph
type tripleParser struct {
	contentType string
	format      krdf.Format
}

func (p *tripleParser) ContentType() string {
	return p.contentType
}

func (p *tripleParser) Parse(reader io.Reader) ([]*Quad, error) {
	dec := krdf.NewTripleDecoder(reader, p.format)

	var quads []*Quad
	for {
		triple, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", p.contentType, err)
		}

		quad, err := fromTriple(triple, NewDefaultGraph())
		if err != nil {
			return nil, err
		}
		quads = append(quads, quad)
	}

	return quads, nil
}

// NQuadsIOParser parses N-Quads format (quads with optional graph)
type NQuadsIOParser struct{}

func (p *NQuadsIOParser) ContentType() string {
	return "application/n-quads"
}

func (p *NQuadsIOParser) Parse(reader io.Reader) ([]*Quad, error) {
	dec := krdf.NewQuadDecoder(reader, krdf.NQuads)

	var quads []*Quad
	for {
		q, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error parsing N-Quads: %w", err)
		}

		var graph Term = NewDefaultGraph()
		if q.Ctx != nil && q.Ctx.String() != "" {
			if g, err := fromTerm(q.Ctx); err == nil {
				graph = g
			}
		}

		quad, err := fromTriple(q.Triple, graph)
		if err != nil {
			return nil, err
		}
		quads = append(quads, quad)
	}

	return quads, nil
}

func fromTriple(t krdf.Triple, graph Term) (*Quad, error) {
	subject, err := fromTerm(t.Subj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert subject: %w", err)
	}
	predicate, err := fromTerm(t.Pred)
	if err != nil {
		return nil, fmt.Errorf("failed to convert predicate: %w", err)
	}
	object, err := fromTerm(t.Obj)
	if err != nil {
		return nil, fmt.Errorf("failed to convert object: %w", err)
	}
	return NewQuad(subject, predicate, object, graph), nil
}

func fromTerm(term krdf.Term) (Term, error) {
	switch t := term.(type) {
	case krdf.IRI:
		return NewNamedNode(t.String()), nil
	case krdf.Blank:
		return NewBlankNode(strings.TrimPrefix(t.String(), "_:")), nil
	case krdf.Literal:
		if lang := t.Lang(); lang != "" {
			return NewLiteralWithLanguage(t.String(), lang), nil
		}
		dt := t.DataType.String()
		if dt == "" || dt == XSDString.IRI {
			return NewLiteral(t.String()), nil
		}
		return NewLiteralWithDatatype(t.String(), NewNamedNode(dt)), nil
	default:
		return nil, fmt.Errorf("unknown term type: %T", term)
	}
}

// ScopeBlankNodes rewrites every blank node label in quads to "<scope>-<label>",
// so several documents can be loaded into one store without sharing blank nodes.
func ScopeBlankNodes(quads []*Quad, scope string) []*Quad {
	if scope == "" {
		return quads
	}
	scoped := func(term Term) Term {
		if b, ok := term.(*BlankNode); ok {
			return NewBlankNode(scope + "-" + b.ID)
		}
		return term
	}

	result := make([]*Quad, len(quads))
	for i, q := range quads {
		result[i] = NewQuad(scoped(q.Subject), q.Predicate, scoped(q.Object), q.Graph)
	}
	return result
}

// InGraph returns copies of quads moved into graph.
func InGraph(quads []*Quad, graph Term) []*Quad {
	result := make([]*Quad, len(quads))
	for i, q := range quads {
		result[i] = NewQuad(q.Subject, q.Predicate, q.Object, graph)
	}
	return result
}

// GetSupportedContentTypes returns a list of all supported content types
func GetSupportedContentTypes() []string {
	return []string{
		"application/n-triples",
		"application/n-quads",
		"text/turtle",
		"application/x-turtle",
		"application/rdf+xml",
		"text/plain", // Alias for N-Triples
	}
}
