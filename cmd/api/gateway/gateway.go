package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"slices"
	"sync"

	"github.com/catalog-federation/cmd/api/federation"
	apihttp "github.com/catalog-federation/cmd/api/http"
	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/catalog-federation/cmd/api/validation"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	BooksSubgraph = "books"
	SalesSubgraph = "sales"
)

/* Entity is one resolved entity as a bag of JSON fields. A nil Entity encodes as null. */
type Entity map[string]json.RawMessage

type Gateway struct {
	subgraphs map[string]*url.URL
	owners    map[string]string
	extenders map[string][]string
	client    *http.Client
	validate  *validation.Validator
	log       *zap.SugaredLogger
}

/*
Composes the book and sale subgraphs. Book and Author belong to the book subgraph, Sale to the
sale subgraph, which also extends Book with its sales.
*/
func New(booksURL, salesURL string, client *http.Client, log *zap.SugaredLogger) (*Gateway, error) {
	books, err := url.Parse(booksURL)
	if err != nil {
		return nil, fmt.Errorf("parsing books url: %w", err)
	}
	sales, err := url.Parse(salesURL)
	if err != nil {
		return nil, fmt.Errorf("parsing sales url: %w", err)
	}

	return &Gateway{
		subgraphs: map[string]*url.URL{BooksSubgraph: books, SalesSubgraph: sales},
		owners:    map[string]string{"Book": BooksSubgraph, "Author": BooksSubgraph, "Sale": SalesSubgraph},
		extenders: map[string][]string{"Book": {SalesSubgraph}},
		client:    client,
		validate:  validation.New(),
		log:       log.With("component", "gateway"),
	}, nil
}

func NewServer(config apihttp.ServerConfig, g *Gateway, log *zap.SugaredLogger) *http.Server {
	r := apihttp.NewRouter(config, log)
	g.Routes(r)
	return &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: r,
	}
}

func (g *Gateway) Routes(r chi.Router) {
	books := g.proxy(BooksSubgraph)
	sales := g.proxy(SalesSubgraph)
	for _, prefix := range []string{"/books", "/authors"} {
		r.Handle(prefix, books)
		r.Handle(prefix+"/*", books)
	}
	r.Handle("/sales", sales)
	r.Handle("/sales/*", sales)
	r.Post("/_entities", g.entities)
}

/* Forwards the request untouched. A subgraph that cannot be reached answers 502. */
func (g *Gateway) proxy(name string) http.Handler {
	target := g.subgraphs[name]
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = g.client.Transport
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			apihttp.HandleError(err, w, r)
			return
		}
		apihttp.HandleError(unavailable(name, err), w, r)
	}
	return proxy
}

func (g *Gateway) entities(w http.ResponseWriter, r *http.Request) {
	var req federation.EntitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apihttp.HandleError(pkgerrors.WithDetail(pkgerrors.ErrResponseEntryInvalidJSON, err.Error()), w, r)
		return
	}
	if err := g.validate.Validate(req); err != nil {
		apihttp.HandleError(err, w, r)
		return
	}

	entities, err := g.ResolveEntities(r.Context(), r.Header.Get(apihttp.RequestIDHeader), req.Representations)
	if err != nil {
		apihttp.HandleError(err, w, r)
		return
	}
	apihttp.ResponseJSON(w, http.StatusOK, struct {
		Entities []Entity `json:"entities"`
	}{entities})
}

/*
Resolves every representation on the subgraph owning its type, then merges in the fields of the
subgraphs extending it. An entity the owner does not know stays null and is not extended.
*/
func (g *Gateway) ResolveEntities(ctx context.Context, requestID string, reps []federation.Representation) ([]Entity, error) {
	unknown := lo.Uniq(lo.FilterMap(reps, func(rep federation.Representation, _ int) (string, bool) {
		_, ok := g.owners[rep.Typename]
		return rep.Typename, !ok
	}))
	if len(unknown) > 0 {
		return nil, pkgerrors.WithDetail(pkgerrors.ErrResponseUnknownEntityType, fmt.Sprint(unknown))
	}

	entities := make([]Entity, len(reps))
	owned := lo.GroupBy(lo.Range(len(reps)), func(i int) string {
		return g.owners[reps[i].Typename]
	})
	err := g.fanOut(ctx, requestID, reps, owned, func(i int, found Entity) {
		entities[i] = found
	})
	if err != nil {
		return nil, err
	}

	extended := map[string][]int{}
	for i, rep := range reps {
		if entities[i] == nil {
			continue
		}
		for _, name := range g.extenders[rep.Typename] {
			extended[name] = append(extended[name], i)
		}
	}
	var mu sync.Mutex
	err = g.fanOut(ctx, requestID, reps, extended, func(i int, found Entity) {
		mu.Lock()
		defer mu.Unlock()
		for field, value := range found {
			if field == "__typename" || field == "id" {
				continue
			}
			entities[i][field] = value
		}
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

/* Asks each subgraph for its share of the representations concurrently. apply sees only non-null entities. */
func (g *Gateway) fanOut(ctx context.Context, requestID string, reps []federation.Representation, bySubgraph map[string][]int, apply func(i int, found Entity)) error {
	names := lo.Keys(bySubgraph)
	slices.Sort(names)

	group, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		indexes := bySubgraph[name]
		group.Go(func() error {
			subset := lo.Map(indexes, func(i int, _ int) federation.Representation { return reps[i] })
			found, err := g.fetchEntities(gctx, name, requestID, subset)
			if err != nil {
				return err
			}
			for k, i := range indexes {
				if found[k] != nil {
					apply(i, found[k])
				}
			}
			return nil
		})
	}
	return group.Wait()
}

func (g *Gateway) fetchEntities(ctx context.Context, name, requestID string, reps []federation.Representation) ([]Entity, error) {
	body, err := json.Marshal(federation.EntitiesRequest{Representations: reps})
	if err != nil {
		return nil, fmt.Errorf("encoding representations: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.subgraphs[name].JoinPath("_entities").String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", name, err)
	}
	req.Header.Set("content-type", "application/json")
	if requestID != "" {
		req.Header.Set(apihttp.RequestIDHeader, requestID)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("calling %s: %w", name, ctx.Err())
		}
		return nil, unavailable(name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp pkgerrors.ErrResponse
		if resp.StatusCode < http.StatusInternalServerError && json.NewDecoder(resp.Body).Decode(&errResp) == nil && errResp.Code != 0 {
			return nil, errResp
		}
		return nil, unavailable(name, fmt.Errorf("status %d", resp.StatusCode))
	}

	var out struct {
		Entities []Entity `json:"entities"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, unavailable(name, fmt.Errorf("decoding entities: %w", err))
	}
	if len(out.Entities) != len(reps) {
		return nil, unavailable(name, fmt.Errorf("asked for %d entities, got %d", len(reps), len(out.Entities)))
	}
	g.log.Debugw("entities resolved", "subgraph", name, "count", len(reps), "request_id", requestID)
	return out.Entities, nil
}

func unavailable(name string, err error) error {
	return pkgerrors.WithDetail(pkgerrors.ErrResponseSubgraphUnavailable, fmt.Sprintf("%s: %s", name, err))
}
