package shacl

import (
	"fmt"
	"slices"

	"github.com/aleksaelezovic/shaclview/pkg/rdf"
	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/text/language"
)

// Resolver resolves and ranks property values over a fixed pair of graphs
type Resolver struct {
	shapes Graph
	data   Graph
	cfg    config
	tag    language.Tag
	cache  *ristretto.Cache[string, []PropertyValue]
}

// NewResolver creates a resolver. Either graph may be nil.
func NewResolver(shapes, data Graph, options ...Option) (*Resolver, error) {
	r := &Resolver{
		shapes: shapes,
		data:   data,
		cfg:    newConfig(options),
	}
	r.tag = language.Make(r.cfg.languages[0])

	if r.cfg.cacheSize > 0 {
		cache, err := ristretto.NewCache(&ristretto.Config[string, []PropertyValue]{
			NumCounters: r.cfg.cacheSize * 10,
			MaxCost:     r.cfg.cacheSize,
			BufferItems: 64,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create resolution cache: %w", err)
		}
		r.cache = cache
	}

	return r, nil
}

// Close releases the cache
func (r *Resolver) Close() {
	if r.cache != nil {
		r.cache.Close()
	}
}

// Resolve returns the ranked property values of focus, or of every
// targeted node when focus is nil
func (r *Resolver) Resolve(focus rdf.Term) ([]PropertyValue, error) {
	key, cacheable := r.cacheKey(focus)
	if cacheable {
		if values, ok := r.cache.Get(key); ok {
			r.cfg.log.Trace().Str("key", key).Msg("resolution cache hit")
			return slices.Clone(values), nil
		}
	}

	values, err := aggregate(focus, r.shapes, r.data, r.cfg)
	if err != nil {
		return nil, err
	}
	values = Rank(values, r.tag)

	if cacheable {
		r.cache.Set(key, values, 1)
		r.cache.Wait()
		values = slices.Clone(values)
	}
	return values, nil
}

// Targets returns the target matches of focus
func (r *Resolver) Targets(focus rdf.Term) ([]TargetShapeMatch, error) {
	return ResolveTargets(focus, r.shapes, r.data)
}

// Label returns the display label of pv in the resolver's languages
func (r *Resolver) Label(pv PropertyValue) string {
	return pv.Label(r.cfg.languages...)
}

// Languages returns the label language preference
func (r *Resolver) Languages() []string {
	return slices.Clone(r.cfg.languages)
}

// cacheKey identifies a resolution by focus and the generations of both
// graphs. Graphs that do not report generations are never cached.
func (r *Resolver) cacheKey(focus rdf.Term) (string, bool) {
	if r.cache == nil {
		return "", false
	}
	shapesGen, ok := generation(r.shapes)
	if !ok {
		return "", false
	}
	dataGen, ok := generation(r.data)
	if !ok {
		return "", false
	}

	if focus == nil {
		return fmt.Sprintf("%d/%d/*", shapesGen, dataGen), true
	}
	// Components are length-prefixed so no term text can forge a separator
	k := rdf.KeyOf(focus)
	return fmt.Sprintf("%d/%d/%d/%d:%s%d:%s%d:%s", shapesGen, dataGen, k.Kind,
		len(k.Value), k.Value, len(k.Language), k.Language, len(k.Datatype), k.Datatype), true
}

func generation(g Graph) (uint64, bool) {
	if g == nil {
		return 0, true
	}
	gen, ok := g.(Generational)
	if !ok {
		return 0, false
	}
	return gen.Generation(), true
}
