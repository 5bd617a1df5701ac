// Package resolve turns lazily-linked upstream records into fully
// materialized views: deep comment trees, shallow feed listings, and user
// profiles with resolved submissions.
package resolve

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"hnserve/internal/model"
	"hnserve/internal/text"
)

// ErrNotFound is returned when a directly requested root entity does not
// exist upstream. Missing nested children are never reported this way; they
// become placeholder nodes instead.
var ErrNotFound = errors.New("not found")

// Fetcher is the slice of the upstream client the resolver needs.
type Fetcher interface {
	Item(ctx context.Context, id int, withKids bool) (model.Item, error)
	User(ctx context.Context, handle string) (model.User, error)
	IDs(ctx context.Context, feed string) ([]int, error)
}

type Config struct {
	// MaxDepth bounds recursion on corrupt or adversarial id graphs. The
	// production graph is acyclic, but a self-referential id list must still
	// terminate. Past the ceiling a node simply stops expanding.
	MaxDepth int
	// MaxFanout caps the child ids expanded per node; excess ids are dropped.
	MaxFanout int
	// MaxConcurrent caps in-flight upstream fetches per sibling batch.
	MaxConcurrent int
}

type Resolver struct {
	fetcher Fetcher
	logger  *slog.Logger
	cfg     Config
}

func New(fetcher Fetcher, cfg Config, logger *slog.Logger) *Resolver {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 50
	}
	if cfg.MaxFanout <= 0 {
		cfg.MaxFanout = 512
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 64
	}
	return &Resolver{fetcher: fetcher, cfg: cfg, logger: logger.With("component", "resolve")}
}

// Item returns the shallow single-item view: text normalized, URL escaped,
// child ids left in place as raw references.
func (r *Resolver) Item(ctx context.Context, id int) (model.Item, error) {
	item, err := r.fetcher.Item(ctx, id, true)
	if err != nil {
		return model.Item{}, err
	}
	if !item.Exists() {
		return model.Item{}, ErrNotFound
	}
	finish(&item)
	return item, nil
}

// ItemTree returns the deep view: the item with every discoverable
// descendant fetched, normalized and reassembled in reference order. The raw
// kid list is cleared on every node; resolved subtrees take its place.
func (r *Resolver) ItemTree(ctx context.Context, id int) (model.Item, error) {
	root, err := r.fetcher.Item(ctx, id, true)
	if err != nil {
		return model.Item{}, err
	}
	if !root.Exists() {
		return model.Item{}, ErrNotFound
	}
	finish(&root)
	if err := r.resolveKids(ctx, &root, 0); err != nil {
		return model.Item{}, err
	}
	return root, nil
}

// resolveKids replaces parent.Kids with parent.Comments, resolving all
// siblings concurrently. Results land in a slice indexed by reference
// position, so completion order never shows in the output. Any hard
// upstream error cancels the remaining fetches and fails the whole batch:
// a partial tree is worse than an explicit failure.
func (r *Resolver) resolveKids(ctx context.Context, parent *model.Item, depth int) error {
	kids := parent.Kids
	parent.Kids = nil
	parent.Comments = []model.Item{}

	if len(kids) == 0 {
		return nil
	}
	if depth >= r.cfg.MaxDepth {
		r.logger.Warn("depth ceiling hit, dropping further expansion", "item", parent.ID, "depth", depth)
		return nil
	}
	if len(kids) > r.cfg.MaxFanout {
		r.logger.Warn("fanout ceiling hit, truncating child list", "item", parent.ID, "kids", len(kids))
		kids = kids[:r.cfg.MaxFanout]
	}

	resolved := make([]model.Item, len(kids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxConcurrent)
	for i, id := range kids {
		i, id := i, id
		g.Go(func() error {
			child, err := r.fetcher.Item(ctx, id, true)
			if err != nil {
				return err
			}
			if !child.Exists() {
				// Deleted comments keep their slot as an empty tombstone.
				resolved[i] = model.Item{}
				return nil
			}
			finish(&child)
			if err := r.resolveKids(ctx, &child, depth+1); err != nil {
				return err
			}
			resolved[i] = child
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	parent.Comments = resolved
	return nil
}

// Feed resolves a feed's id list into shallow items, upstream order
// preserved. Entries without a title (deleted or incomplete) are filtered
// out; only a hard upstream failure fails the call.
func (r *Resolver) Feed(ctx context.Context, feed string) ([]model.Item, error) {
	ids, err := r.fetcher.IDs(ctx, feed)
	if err != nil {
		return nil, err
	}
	items, err := r.shallowItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	kept := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Title != "" {
			kept = append(kept, it)
		}
	}
	return kept, nil
}

// User returns the shallow user view with the about text normalized.
func (r *Resolver) User(ctx context.Context, handle string) (model.User, error) {
	user, err := r.fetcher.User(ctx, handle)
	if err != nil {
		return model.User{}, err
	}
	if !user.Exists() {
		return model.User{}, ErrNotFound
	}
	user.About = text.Normalize(user.About)
	return user, nil
}

// UserDetail additionally resolves every submitted id into a shallow item,
// original order preserved, absent items filtered.
func (r *Resolver) UserDetail(ctx context.Context, handle string) (model.UserDetail, error) {
	user, err := r.User(ctx, handle)
	if err != nil {
		return model.UserDetail{}, err
	}
	ids := user.Submitted
	user.Submitted = nil

	items, err := r.shallowItems(ctx, ids)
	if err != nil {
		return model.UserDetail{}, err
	}
	kept := make([]model.Item, 0, len(items))
	for _, it := range items {
		if it.Exists() {
			kept = append(kept, it)
		}
	}
	return model.UserDetail{User: user, Submitted: kept}, nil
}

// shallowItems fetches ids concurrently with child refs excluded and
// reassembles the results in reference order. Missing items stay in the
// slice as zero records for the caller to filter.
func (r *Resolver) shallowItems(ctx context.Context, ids []int) ([]model.Item, error) {
	if len(ids) > r.cfg.MaxFanout {
		ids = ids[:r.cfg.MaxFanout]
	}
	items := make([]model.Item, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxConcurrent)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			item, err := r.fetcher.Item(ctx, id, false)
			if err != nil {
				return err
			}
			if item.Exists() {
				finish(&item)
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func finish(item *model.Item) {
	item.Text = text.Normalize(item.Text)
	item.URL = model.EscapeURL(item.URL)
}
