package federation

import (
	"context"
	"fmt"
	"slices"

	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/samber/lo"
)

/* Representation is the bare key of an entity as forwarded by the gateway. */
type Representation struct {
	Typename string `json:"__typename" validate:"required"`
	ID       int    `json:"id" validate:"gt=0"`
}

type EntitiesRequest struct {
	Representations []Representation `json:"representations" validate:"required,dive"`
}

type EntitiesResponse struct {
	Entities []any `json:"entities"`
}

/* ResolverFunc returns a nil entity, and no error, when the key does not match anything. */
type ResolverFunc func(ctx context.Context, id int) (any, error)

/*
Resolver adapts a typed reference resolver. A nil *T becomes an untyped nil so it encodes as
JSON null and compares equal to nil.
*/
func Resolver[T any](fn func(ctx context.Context, id int) (*T, error)) ResolverFunc {
	return func(ctx context.Context, id int) (any, error) {
		entity, err := fn(ctx, id)
		if err != nil || entity == nil {
			return nil, err
		}
		return entity, nil
	}
}

type Registry struct {
	resolvers map[string]ResolverFunc
}

func NewRegistry() *Registry {
	return &Registry{resolvers: map[string]ResolverFunc{}}
}

func (r *Registry) Register(typename string, fn ResolverFunc) *Registry {
	r.resolvers[typename] = fn
	return r
}

func (r *Registry) Types() []string {
	types := lo.Keys(r.resolvers)
	slices.Sort(types)
	return types
}

/*
Resolves every representation in order. The result has one entry per representation, nil for
the ones that do not exist. An unknown __typename fails the whole batch before anything is read.
*/
func (r *Registry) ResolveEntities(ctx context.Context, reps []Representation) ([]any, error) {
	unknown := lo.Uniq(lo.FilterMap(reps, func(rep Representation, _ int) (string, bool) {
		_, ok := r.resolvers[rep.Typename]
		return rep.Typename, !ok
	}))
	if len(unknown) > 0 {
		return nil, pkgerrors.WithDetail(pkgerrors.ErrResponseUnknownEntityType, fmt.Sprint(unknown))
	}

	entities := make([]any, len(reps))
	for i, rep := range reps {
		entity, err := r.resolvers[rep.Typename](ctx, rep.ID)
		if err != nil {
			return nil, fmt.Errorf("resolving %s %d: %w", rep.Typename, rep.ID, err)
		}
		entities[i] = entity
	}
	return entities, nil
}
