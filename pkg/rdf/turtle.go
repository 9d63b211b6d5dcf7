package rdf

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrTurtleSyntax is wrapped by every error the Turtle parser reports.
var ErrTurtleSyntax = errors.New("turtle syntax error")

const (
	rdfNS    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	rdfType  = rdfNS + "type"
	rdfFirst = rdfNS + "first"
	rdfRest  = rdfNS + "rest"
	rdfNil   = rdfNS + "nil"
)

// turtleParser decodes Turtle 1.1 documents into the default graph.
// Collections and blank node property lists are expanded into plain quads.
type turtleParser struct{}

func (turtleParser) ContentType() string {
	return "text/turtle"
}

func (turtleParser) Parse(reader io.Reader) ([]*Quad, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("error reading turtle: %w", err)
	}
	d := &turtleDecoder{
		input:    string(data),
		prefixes: make(map[string]string),
		graph:    NewDefaultGraph(),
		genid:    "genid",
	}
	// Minted labels must not clash with labels written in the document
	for strings.Contains(d.input, "_:"+d.genid) {
		d.genid += "x"
	}
	if err := d.document(); err != nil {
		return nil, err
	}
	return d.quads, nil
}

type turtleDecoder struct {
	input    string
	pos      int
	prefixes map[string]string
	base     *url.URL
	blanks   int
	genid    string
	graph    Term
	quads    []*Quad
}

func (d *turtleDecoder) errorf(format string, args ...any) error {
	line := strings.Count(d.input[:min(d.pos, len(d.input))], "\n") + 1
	return fmt.Errorf("%w: line %d: %s", ErrTurtleSyntax, line, fmt.Sprintf(format, args...))
}

func (d *turtleDecoder) emit(subject, predicate, object Term) {
	d.quads = append(d.quads, NewQuad(subject, predicate, object, d.graph))
}

func (d *turtleDecoder) eof() bool {
	return d.pos >= len(d.input)
}

// peek returns the next byte after whitespace and comments, or 0 at the end
func (d *turtleDecoder) peek() byte {
	d.skipSpace()
	if d.eof() {
		return 0
	}
	return d.input[d.pos]
}

func (d *turtleDecoder) expect(ch byte) error {
	if d.peek() != ch {
		if d.eof() {
			return d.errorf("expected '%c', got end of input", ch)
		}
		return d.errorf("expected '%c', got '%c'", ch, d.input[d.pos])
	}
	d.pos++
	return nil
}

func (d *turtleDecoder) skipSpace() {
	for !d.eof() {
		switch d.input[d.pos] {
		case ' ', '\t', '\n', '\r':
			d.pos++
		case '#':
			for !d.eof() && d.input[d.pos] != '\n' {
				d.pos++
			}
		default:
			return
		}
	}
}

// keyword consumes word when it is not followed by a name character.
// Turtle-style directives (@prefix) match case-sensitively, SPARQL-style
// ones (PREFIX) do not.
func (d *turtleDecoder) keyword(word string, foldCase bool) bool {
	end := d.pos + len(word)
	if end > len(d.input) {
		return false
	}
	got := d.input[d.pos:end]
	if got != word && !(foldCase && strings.EqualFold(got, word)) {
		return false
	}
	if end < len(d.input) {
		r, _ := utf8.DecodeRuneInString(d.input[end:])
		if isNameChar(r) || r == ':' {
			return false
		}
	}
	d.pos = end
	return true
}

func (d *turtleDecoder) document() error {
	for d.peek() != 0 {
		switch {
		case d.keyword("@prefix", false):
			if err := d.prefixDirective(true); err != nil {
				return err
			}
		case d.keyword("PREFIX", true):
			if err := d.prefixDirective(false); err != nil {
				return err
			}
		case d.keyword("@base", false):
			if err := d.baseDirective(true); err != nil {
				return err
			}
		case d.keyword("BASE", true):
			if err := d.baseDirective(false); err != nil {
				return err
			}
		default:
			if err := d.statement(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *turtleDecoder) prefixDirective(dotted bool) error {
	d.skipSpace()
	start := d.pos
	for !d.eof() && d.input[d.pos] != ':' {
		r, size := utf8.DecodeRuneInString(d.input[d.pos:])
		if !isNameChar(r) && r != '.' {
			return d.errorf("invalid prefix name %q", d.input[start:d.pos+size])
		}
		d.pos += size
	}
	if d.eof() {
		return d.errorf("expected ':' after prefix name")
	}
	name := d.input[start:d.pos]
	d.pos++

	d.skipSpace()
	iri, err := d.iriRef()
	if err != nil {
		return err
	}
	d.prefixes[name] = iri

	if dotted {
		return d.expect('.')
	}
	return nil
}

func (d *turtleDecoder) baseDirective(dotted bool) error {
	d.skipSpace()
	iri, err := d.iriRef()
	if err != nil {
		return err
	}
	base, err := url.Parse(iri)
	if err != nil {
		return d.errorf("invalid base IRI %q: %v", iri, err)
	}
	d.base = base

	if dotted {
		return d.expect('.')
	}
	return nil
}

func (d *turtleDecoder) statement() error {
	subject, propertyList, err := d.subject()
	if err != nil {
		return err
	}
	// A blank node property list may stand on its own: [ ex:p ex:o ] .
	if propertyList && d.peek() == '.' {
		d.pos++
		return nil
	}
	if err := d.predicateObjectList(subject, '.'); err != nil {
		return err
	}
	return d.expect('.')
}

// predicateObjectList reads "verb objects (; verb objects)*" up to end,
// which is left unconsumed. Trailing semicolons are allowed.
func (d *turtleDecoder) predicateObjectList(subject Term, end byte) error {
	for {
		predicate, err := d.verb()
		if err != nil {
			return err
		}
		if err := d.objectList(subject, predicate); err != nil {
			return err
		}

		if d.peek() != ';' {
			return nil
		}
		for d.peek() == ';' {
			d.pos++
		}
		if next := d.peek(); next == end || next == 0 {
			return nil
		}
	}
}

func (d *turtleDecoder) objectList(subject, predicate Term) error {
	for {
		object, err := d.object()
		if err != nil {
			return err
		}
		d.emit(subject, predicate, object)

		if d.peek() != ',' {
			return nil
		}
		d.pos++
	}
}

func (d *turtleDecoder) subject() (Term, bool, error) {
	switch d.peek() {
	case '[':
		return d.blankPropertyList()
	case '(':
		term, err := d.collection()
		return term, false, err
	case '"', '\'':
		return nil, false, d.errorf("literals cannot be used as subjects")
	}
	term, err := d.resource()
	return term, false, err
}

func (d *turtleDecoder) verb() (Term, error) {
	d.skipSpace()
	if !d.eof() && d.input[d.pos] == 'a' {
		next, _ := utf8.DecodeRuneInString(d.input[d.pos+1:])
		if d.pos+1 == len(d.input) || (!isNameChar(next) && next != ':') {
			d.pos++
			return NewNamedNode(rdfType), nil
		}
	}
	if d.peek() == '_' || d.peek() == '[' {
		return nil, d.errorf("blank nodes cannot be used as predicates")
	}
	return d.resource()
}

func (d *turtleDecoder) object() (Term, error) {
	ch := d.peek()
	switch {
	case ch == '[':
		term, _, err := d.blankPropertyList()
		return term, err
	case ch == '(':
		return d.collection()
	case ch == '"' || ch == '\'':
		return d.literal()
	case ch == '+' || ch == '-' || ch == '.' || (ch >= '0' && ch <= '9'):
		return d.number()
	case d.keyword("true", false):
		return NewBooleanLiteral(true), nil
	case d.keyword("false", false):
		return NewBooleanLiteral(false), nil
	}
	return d.resource()
}

// resource reads an IRI reference, a prefixed name or a blank node label
func (d *turtleDecoder) resource() (Term, error) {
	switch ch := d.peek(); {
	case ch == 0:
		return nil, d.errorf("unexpected end of input")
	case ch == '<':
		iri, err := d.iriRef()
		if err != nil {
			return nil, err
		}
		return NewNamedNode(iri), nil
	case ch == '_' && strings.HasPrefix(d.input[d.pos:], "_:"):
		return d.blankLabel()
	default:
		return d.prefixedName()
	}
}

func (d *turtleDecoder) newBlankNode() *BlankNode {
	d.blanks++
	return NewBlankNode(d.genid + strconv.Itoa(d.blanks))
}

func (d *turtleDecoder) blankPropertyList() (Term, bool, error) {
	d.pos++ // '['
	node := d.newBlankNode()
	if d.peek() == ']' {
		d.pos++
		return node, false, nil
	}
	if err := d.predicateObjectList(node, ']'); err != nil {
		return nil, false, err
	}
	if err := d.expect(']'); err != nil {
		return nil, false, err
	}
	return node, true, nil
}

func (d *turtleDecoder) collection() (Term, error) {
	d.pos++ // '('
	var head, prev Term = NewNamedNode(rdfNil), nil
	for d.peek() != ')' {
		if d.eof() {
			return nil, d.errorf("unclosed collection")
		}
		item, err := d.object()
		if err != nil {
			return nil, err
		}
		cell := d.newBlankNode()
		if prev == nil {
			head = cell
		} else {
			d.emit(prev, NewNamedNode(rdfRest), cell)
		}
		d.emit(cell, NewNamedNode(rdfFirst), item)
		prev = cell
	}
	d.pos++ // ')'
	if prev != nil {
		d.emit(prev, NewNamedNode(rdfRest), NewNamedNode(rdfNil))
	}
	return head, nil
}

func (d *turtleDecoder) iriRef() (string, error) {
	if d.eof() || d.input[d.pos] != '<' {
		return "", d.errorf("expected IRI")
	}
	d.pos++

	var sb strings.Builder
	for {
		if d.eof() {
			return "", d.errorf("unclosed IRI")
		}
		ch := d.input[d.pos]
		switch {
		case ch == '>':
			d.pos++
			return d.resolve(sb.String()), nil
		case ch == '\\':
			r, err := d.unicodeEscape()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		case ch <= ' ' || ch == '<' || ch == '"' || ch == '{' || ch == '}' || ch == '|' || ch == '^' || ch == '`':
			return "", d.errorf("invalid character %q in IRI", ch)
		default:
			sb.WriteByte(ch)
			d.pos++
		}
	}
}

// resolve makes iri absolute against the current base, if any
func (d *turtleDecoder) resolve(iri string) string {
	if d.base == nil {
		return iri
	}
	ref, err := url.Parse(iri)
	if err != nil || ref.IsAbs() {
		return iri
	}
	return d.base.ResolveReference(ref).String()
}

func (d *turtleDecoder) unicodeEscape() (rune, error) {
	if d.pos+1 >= len(d.input) {
		return 0, d.errorf("incomplete escape sequence")
	}
	digits := 0
	switch d.input[d.pos+1] {
	case 'u':
		digits = 4
	case 'U':
		digits = 8
	default:
		return 0, d.errorf("invalid escape sequence \\%c", d.input[d.pos+1])
	}
	start := d.pos + 2
	if start+digits > len(d.input) {
		return 0, d.errorf("incomplete unicode escape")
	}
	code, err := strconv.ParseUint(d.input[start:start+digits], 16, 32)
	if err != nil || code > utf8.MaxRune || (code >= 0xD800 && code <= 0xDFFF) {
		return 0, d.errorf("invalid unicode escape %q", d.input[d.pos:start+digits])
	}
	d.pos = start + digits
	return rune(code), nil
}

func (d *turtleDecoder) blankLabel() (Term, error) {
	d.pos += 2 // "_:"
	start := d.pos
	r, size := utf8.DecodeRuneInString(d.input[d.pos:])
	if !isNameStartChar(r) && !(r >= '0' && r <= '9') {
		return nil, d.errorf("invalid blank node label")
	}
	d.pos += size
	d.nameTail()
	return NewBlankNode(d.input[start:d.pos]), nil
}

// nameTail consumes (PN_CHARS | '.')* but never a trailing '.'
func (d *turtleDecoder) nameTail() {
	for !d.eof() {
		r, size := utf8.DecodeRuneInString(d.input[d.pos:])
		if !isNameChar(r) && r != '.' {
			break
		}
		d.pos += size
	}
	for d.input[d.pos-1] == '.' {
		d.pos--
	}
}

func (d *turtleDecoder) prefixedName() (Term, error) {
	start := d.pos
	if r, size := utf8.DecodeRuneInString(d.input[d.pos:]); r != ':' {
		if !isNameStartChar(r) || r == '_' {
			return nil, d.errorf("unexpected character %q", r)
		}
		d.pos += size
		d.nameTail()
	}
	if d.eof() || d.input[d.pos] != ':' {
		return nil, d.errorf("expected ':' in prefixed name %q", d.input[start:d.pos])
	}
	prefix := d.input[start:d.pos]
	d.pos++

	namespace, ok := d.prefixes[prefix]
	if !ok {
		return nil, d.errorf("undefined prefix %q", prefix)
	}

	var local strings.Builder
	for !d.eof() {
		r, size := utf8.DecodeRuneInString(d.input[d.pos:])
		switch {
		case r == '%':
			if d.pos+2 >= len(d.input) || !isHexDigit(d.input[d.pos+1]) || !isHexDigit(d.input[d.pos+2]) {
				return nil, d.errorf("invalid percent encoding in local name")
			}
			local.WriteString(d.input[d.pos : d.pos+3])
			d.pos += 3
		case r == '\\':
			if d.pos+1 >= len(d.input) || !strings.ContainsRune(localEscapes, rune(d.input[d.pos+1])) {
				return nil, d.errorf("invalid escape in local name")
			}
			local.WriteByte(d.input[d.pos+1])
			d.pos += 2
		case isNameChar(r) || r == ':' || (r == '.' && local.Len() > 0):
			local.WriteRune(r)
			d.pos += size
		default:
			return d.localName(namespace, local.String())
		}
	}
	return d.localName(namespace, local.String())
}

const localEscapes = "_~.-!$&'()*+,;=/?#@%"

// localName trims trailing dots back into the input, they end the statement
func (d *turtleDecoder) localName(namespace, local string) (Term, error) {
	trimmed := strings.TrimRight(local, ".")
	d.pos -= len(local) - len(trimmed)
	return NewNamedNode(namespace + trimmed), nil
}

func (d *turtleDecoder) literal() (Term, error) {
	quote := d.input[d.pos : d.pos+1]
	if strings.HasPrefix(d.input[d.pos:], quote+quote+quote) {
		quote = quote + quote + quote
	}
	d.pos += len(quote)

	var sb strings.Builder
	for {
		if d.eof() {
			return nil, d.errorf("unclosed string literal")
		}
		if strings.HasPrefix(d.input[d.pos:], quote) {
			d.pos += len(quote)
			break
		}
		ch := d.input[d.pos]
		switch {
		case ch == '\\':
			if err := d.stringEscape(&sb); err != nil {
				return nil, err
			}
		case len(quote) == 1 && (ch == '\n' || ch == '\r'):
			return nil, d.errorf("line break in short string literal")
		default:
			sb.WriteByte(ch)
			d.pos++
		}
	}
	value := sb.String()

	switch {
	case !d.eof() && d.input[d.pos] == '@':
		d.pos++
		start := d.pos
		for !d.eof() && (isLetter(d.input[d.pos]) || d.input[d.pos] == '-' || (d.pos > start && isDigit(d.input[d.pos]))) {
			d.pos++
		}
		if d.pos == start {
			return nil, d.errorf("empty language tag")
		}
		return NewLiteralWithLanguage(value, d.input[start:d.pos]), nil
	case strings.HasPrefix(d.input[d.pos:], "^^"):
		d.pos += 2
		datatype, err := d.resource()
		if err != nil {
			return nil, err
		}
		iri, ok := datatype.(*NamedNode)
		if !ok {
			return nil, d.errorf("datatype must be an IRI")
		}
		if iri.IRI == XSDString.IRI {
			return NewLiteral(value), nil
		}
		return NewLiteralWithDatatype(value, iri), nil
	default:
		return NewLiteral(value), nil
	}
}

func (d *turtleDecoder) stringEscape(sb *strings.Builder) error {
	if d.pos+1 >= len(d.input) {
		return d.errorf("incomplete escape sequence")
	}
	var ch byte
	switch d.input[d.pos+1] {
	case 'u', 'U':
		r, err := d.unicodeEscape()
		if err != nil {
			return err
		}
		sb.WriteRune(r)
		return nil
	case 'n':
		ch = '\n'
	case 't':
		ch = '\t'
	case 'r':
		ch = '\r'
	case 'b':
		ch = '\b'
	case 'f':
		ch = '\f'
	case '"', '\'', '\\':
		ch = d.input[d.pos+1]
	default:
		return d.errorf("invalid escape sequence \\%c", d.input[d.pos+1])
	}
	sb.WriteByte(ch)
	d.pos += 2
	return nil
}

// number reads an integer, decimal or double, keeping its lexical form.
// A '.' not followed by a digit or exponent ends the statement.
func (d *turtleDecoder) number() (Term, error) {
	start := d.pos
	if c := d.input[d.pos]; c == '+' || c == '-' {
		d.pos++
	}
	intDigits := d.digits()

	datatype := XSDInteger
	if !d.eof() && d.input[d.pos] == '.' && d.pos+1 < len(d.input) {
		next := d.input[d.pos+1]
		if isDigit(next) || (intDigits > 0 && (next == 'e' || next == 'E')) {
			d.pos++
			d.digits()
			datatype = XSDDecimal
		}
	}
	if d.pos == start || (intDigits == 0 && datatype == XSDInteger) {
		return nil, d.errorf("invalid number")
	}

	if !d.eof() && (d.input[d.pos] == 'e' || d.input[d.pos] == 'E') {
		d.pos++
		if !d.eof() && (d.input[d.pos] == '+' || d.input[d.pos] == '-') {
			d.pos++
		}
		if d.digits() == 0 {
			return nil, d.errorf("expected digits in exponent")
		}
		datatype = XSDDouble
	}

	return NewLiteralWithDatatype(d.input[start:d.pos], datatype), nil
}

func (d *turtleDecoder) digits() int {
	n := 0
	for !d.eof() && isDigit(d.input[d.pos]) {
		d.pos++
		n++
	}
	return n
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// isNameStartChar is PN_CHARS_U of the Turtle grammar
func isNameStartChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') ||
		(r >= 'a' && r <= 'z') ||
		r == '_' ||
		(r >= 0x00C0 && r <= 0x00D6) ||
		(r >= 0x00D8 && r <= 0x00F6) ||
		(r >= 0x00F8 && r <= 0x02FF) ||
		(r >= 0x0370 && r <= 0x037D) ||
		(r >= 0x037F && r <= 0x1FFF) ||
		(r >= 0x200C && r <= 0x200D) ||
		(r >= 0x2070 && r <= 0x218F) ||
		(r >= 0x2C00 && r <= 0x2FEF) ||
		(r >= 0x3001 && r <= 0xD7FF) ||
		(r >= 0xF900 && r <= 0xFDCF) ||
		(r >= 0xFDF0 && r <= 0xFFFD) ||
		(r >= 0x10000 && r <= 0xEFFFF)
}

// isNameChar is PN_CHARS of the Turtle grammar
func isNameChar(r rune) bool {
	return isNameStartChar(r) ||
		r == '-' ||
		(r >= '0' && r <= '9') ||
		r == 0x00B7 ||
		(r >= 0x0300 && r <= 0x036F) ||
		(r >= 0x203F && r <= 0x2040)
}
