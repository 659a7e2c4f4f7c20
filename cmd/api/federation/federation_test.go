package federation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/catalog-federation/cmd/api/federation"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/matryer/is"
)

type widget struct {
	ID int
}

func widgets(known ...int) federation.ResolverFunc {
	return federation.Resolver(func(ctx context.Context, id int) (*widget, error) {
		for _, k := range known {
			if k == id {
				return &widget{ID: id}, nil
			}
		}
		return nil, nil
	})
}

func TestResolveEntities(t *testing.T) {
	ctx := context.Background()
	registry := federation.NewRegistry().
		Register("Widget", widgets(1, 2)).
		Register("Gadget", widgets(9))

	t.Run("keeps the order of the representations", func(t *testing.T) {
		is := is.New(t)

		entities, err := registry.ResolveEntities(ctx, []federation.Representation{
			{Typename: "Gadget", ID: 9},
			{Typename: "Widget", ID: 2},
			{Typename: "Widget", ID: 1},
		})
		is.NoErr(err)
		is.Equal(entities, []any{&widget{ID: 9}, &widget{ID: 2}, &widget{ID: 1}})
	})

	t.Run("answers nil for an absent entity", func(t *testing.T) {
		is := is.New(t)

		entities, err := registry.ResolveEntities(ctx, []federation.Representation{{Typename: "Widget", ID: 3}})
		is.NoErr(err)
		is.Equal(len(entities), 1)
		is.True(entities[0] == nil)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		is := is.New(t)

		_, err := registry.ResolveEntities(ctx, []federation.Representation{
			{Typename: "Widget", ID: 1},
			{Typename: "Sprocket", ID: 1},
		})
		is.True(errors.Is(err, pkgerrors.ErrResponseUnknownEntityType))
	})

	t.Run("propagates resolver failures", func(t *testing.T) {
		is := is.New(t)

		boom := errors.New("boom")
		failing := federation.NewRegistry().Register("Widget", func(ctx context.Context, id int) (any, error) {
			return nil, boom
		})
		_, err := failing.ResolveEntities(ctx, []federation.Representation{{Typename: "Widget", ID: 1}})
		is.True(errors.Is(err, boom))
	})

	t.Run("lists registered types", func(t *testing.T) {
		is := is.New(t)
		is.Equal(registry.Types(), []string{"Gadget", "Widget"})
	})
}
