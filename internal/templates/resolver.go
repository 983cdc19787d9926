package templates

import "context"

// Resolver maps template ids and aliases to stored templates.
type Resolver struct {
	store Store
}

// NewResolver creates a resolver over store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// ByID looks a template up by id. Inactive templates resolve like any other.
func (r *Resolver) ByID(ctx context.Context, id int) (Template, error) {
	if id <= 0 {
		return Template{}, ErrInvalidTemplateID
	}
	return r.store.GetByID(ctx, id)
}

// ByAlias returns the first template, in insertion order, whose alias equals
// alias exactly. The alias is compared whole, path separators included.
func (r *Resolver) ByAlias(ctx context.Context, alias string) (Template, error) {
	if alias == "" {
		return Template{}, ErrMissingAlias
	}
	for _, t := range r.store.List(ctx) {
		if t.Alias == alias {
			return t, nil
		}
	}
	return Template{}, ErrTemplateNotFound
}
