// Package content reads site content from the CMS through the query cache,
// falling back to stored snapshots and then to content built into the binary.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"church-site/internal/logger"
	"church-site/internal/model"
	"church-site/internal/querycache"
	"church-site/internal/schema"
	"church-site/internal/store"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("content: not found")

// Source tells where a result came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceSnapshot Source = "snapshot"
	SourceFallback Source = "fallback"
	SourceNone     Source = "none"
)

const (
	snapshotPrefix = "snapshots/"

	// defaultWaitTimeout bounds how long a page waits on the CMS before
	// serving stored or built-in content. The fetch itself keeps running
	// and fills the cache for later requests.
	defaultWaitTimeout = 5 * time.Second

	snapshotReadTimeout = 2 * time.Second
)

// Repository is the typed read API used by the web handlers.
type Repository struct {
	cache     *querycache.Cache
	snapshots store.Store
	log       logger.Logger
	now       func() time.Time
	wait      time.Duration

	// saved records snapshot keys written by this process.
	saved sync.Map
}

// Option configures a Repository.
type Option func(*Repository)

// WithSnapshots stores successful live results in s and reads them back
// when the CMS is unavailable.
func WithSnapshots(s store.Store) Option {
	return func(r *Repository) { r.snapshots = s }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) { r.log = l }
}

// WithWaitTimeout sets how long a read waits on the CMS before falling back.
func WithWaitTimeout(d time.Duration) Option {
	return func(r *Repository) { r.wait = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New creates a Repository reading through c.
func New(c *querycache.Cache, opts ...Option) *Repository {
	r := &Repository{
		cache: c,
		log:   logger.NewNop(),
		now:   time.Now,
		wait:  defaultWaitTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SiteSettings returns the global site settings.
func (r *Repository) SiteSettings(ctx context.Context) (model.SiteSettings, error) {
	s, _, err := load[model.SiteSettings](ctx, r, Query{Name: NameSettings, GROQ: settingsQuery})
	if err != nil {
		return s, err
	}
	if s.MapEmbedURL == "" {
		s.MapEmbedURL = EmbedSrc(s.MapEmbed)
	}
	return s, nil
}

// HomePage returns the landing page copy.
func (r *Repository) HomePage(ctx context.Context) (model.HomePage, error) {
	h, _, err := load[model.HomePage](ctx, r, Query{Name: NameHome, GROQ: homeQuery})
	return h, err
}

// PastorWelcome returns the pastor's greeting.
func (r *Repository) PastorWelcome(ctx context.Context) (model.PastorWelcome, error) {
	p, _, err := load[model.PastorWelcome](ctx, r, Query{Name: NamePastor, GROQ: pastorQuery})
	return p, err
}

// Ministries returns all ministries in display order.
func (r *Repository) Ministries(ctx context.Context) ([]model.Ministry, error) {
	list, _, err := load[[]model.Ministry](ctx, r, Query{Name: NameMinistries, GROQ: ministriesQuery})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// Ministry returns the ministry with the given slug.
func (r *Repository) Ministry(ctx context.Context, slug string) (model.Ministry, error) {
	if !schema.ValidSlug(slug) {
		return model.Ministry{}, ErrNotFound
	}

	q := ministryQueryFor(slug)
	m, src, err := load[model.Ministry](ctx, r, q)
	if err != nil {
		return m, err
	}
	if src != SourceNone {
		return m, nil
	}

	// Nothing live or stored for this slug; look in the list instead.
	list, err := r.Ministries(ctx)
	if err != nil {
		return model.Ministry{}, err
	}
	for _, m := range list {
		if m.Slug.Current == slug {
			return m, nil
		}
	}
	return model.Ministry{}, ErrNotFound
}

// UpcomingEvents returns events that have not finished, soonest first.
func (r *Repository) UpcomingEvents(ctx context.Context) ([]model.Event, error) {
	events, src, err := load[[]model.Event](ctx, r, r.eventsQuery())
	if err != nil {
		return nil, err
	}
	now := r.now()
	if src == SourceFallback {
		events = recurYearly(events, now)
	}
	return filterAndSort(events, now), nil
}

// FeaturedEvents returns up to limit upcoming events flagged as featured,
// topped up with the next upcoming events when too few are flagged.
func (r *Repository) FeaturedEvents(ctx context.Context, limit int) ([]model.Event, error) {
	events, err := r.UpcomingEvents(ctx)
	if err != nil {
		return nil, err
	}
	var featured, rest []model.Event
	for _, e := range events {
		if e.Featured {
			featured = append(featured, e)
		} else {
			rest = append(rest, e)
		}
	}
	out := append(featured, rest...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Sermons returns recent sermons, newest first.
func (r *Repository) Sermons(ctx context.Context) ([]model.Sermon, error) {
	list, _, err := load[[]model.Sermon](ctx, r, Query{Name: NameSermons, GROQ: sermonsQuery})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date > list[j].Date })
	return list, nil
}

// SermonSeries returns all sermon series.
func (r *Repository) SermonSeries(ctx context.Context) ([]model.SermonSeries, error) {
	list, _, err := load[[]model.SermonSeries](ctx, r, Query{Name: NameSeries, GROQ: seriesQuery})
	return list, err
}

// Gallery returns gallery images, optionally limited to one category.
func (r *Repository) Gallery(ctx context.Context, category string) ([]model.GalleryImage, error) {
	list, _, err := load[[]model.GalleryImage](ctx, r, Query{Name: NameGallery, GROQ: galleryQuery})
	if err != nil || category == "" {
		return list, err
	}
	var out []model.GalleryImage
	for _, img := range list {
		if strings.EqualFold(img.Category, category) {
			out = append(out, img)
		}
	}
	return out, nil
}

// GalleryCategories returns the distinct categories of images, sorted.
func GalleryCategories(images []model.GalleryImage) []string {
	seen := map[string]bool{}
	var cats []string
	for _, img := range images {
		c := strings.ToLower(strings.TrimSpace(img.Category))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// WarmResult reports the outcome of refreshing one query.
type WarmResult struct {
	Query string
	Bytes int
	Err   error
}

// Warm re-fetches every page query, bypassing the cache, and writes each
// successful result to the snapshot store tagged with batchID.
func (r *Repository) Warm(ctx context.Context, batchID string) []WarmResult {
	var results []WarmResult
	for _, q := range r.Queries() {
		res := WarmResult{Query: q.Name}
		data, err := r.cache.Get(ctx, q.GROQ, q.Params, querycache.WithRefresh())
		switch {
		case err != nil:
			res.Err = err
		case (querycache.State{Data: data}).Empty():
			res.Err = fmt.Errorf("query %s returned no data", q.Name)
		default:
			res.Bytes = len(data)
			res.Err = r.writeSnapshot(ctx, q, data, batchID)
		}
		results = append(results, res)
	}
	return results
}

// load resolves q from the cache, then the snapshot store, then the
// built-in fallback content. A CMS that does not answer within the wait
// timeout, or before ctx's deadline, is treated like a failed fetch. Only a
// cancelled ctx is returned as an error.
func load[T any](ctx context.Context, r *Repository, q Query) (T, Source, error) {
	var zero T

	waitCtx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()
	st, err := r.cache.Use(waitCtx, q.GROQ, q.Params).Wait(waitCtx)
	if errors.Is(ctx.Err(), context.Canceled) {
		return zero, SourceNone, ctx.Err()
	}

	log := r.log.With(logger.String("query", q.Name))
	switch {
	case err != nil:
		log.Warn("Query did not settle in time, using fallback content", logger.Err(err))
	case st.Err != nil:
		log.Warn("Query failed, using fallback content", logger.Err(st.Err))
	default:
		v, ok, err := querycache.Decode[T](st)
		switch {
		case err != nil:
			log.Warn("Query result did not decode, using fallback content", logger.Err(err))
		case ok:
			r.saveSnapshotOnce(ctx, q, st.Data)
			return v, SourceLive, nil
		}
	}

	if v, ok := loadSnapshot[T](ctx, r, q); ok {
		return v, SourceSnapshot, nil
	}
	if v, ok := loadFallback[T](q.Name); ok {
		return v, SourceFallback, nil
	}
	return zero, SourceNone, nil
}

type snapshot struct {
	Query   string          `json:"query"`
	BatchID string          `json:"batch_id,omitempty"`
	SavedAt time.Time       `json:"saved_at"`
	Data    json.RawMessage `json:"data"`
}

func snapshotKey(q Query) string {
	if slug, ok := q.Params["slug"].(string); ok {
		return snapshotPrefix + q.Name + "-" + slug
	}
	return snapshotPrefix + q.Name
}

func (r *Repository) saveSnapshotOnce(ctx context.Context, q Query, data json.RawMessage) {
	if r.snapshots == nil {
		return
	}
	key := snapshotKey(q)
	if _, loaded := r.saved.LoadOrStore(key, true); loaded {
		return
	}
	if err := r.writeSnapshot(ctx, q, data, ""); err != nil {
		r.saved.Delete(key)
		r.log.Warn("Failed to write snapshot", logger.String("key", key), logger.Err(err))
	}
}

func (r *Repository) writeSnapshot(ctx context.Context, q Query, data json.RawMessage, batchID string) error {
	if r.snapshots == nil {
		return nil
	}
	snap := snapshot{Query: q.Name, BatchID: batchID, SavedAt: r.now().UTC(), Data: data}
	if err := store.SetJSON(ctx, r.snapshots, snapshotKey(q), snap); err != nil {
		return fmt.Errorf("writing snapshot %s: %w", q.Name, err)
	}
	return nil
}

func loadSnapshot[T any](ctx context.Context, r *Repository, q Query) (T, bool) {
	var zero T
	if r.snapshots == nil {
		return zero, false
	}
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), snapshotReadTimeout)
		defer cancel()
	}
	var snap snapshot
	if err := store.GetJSON(ctx, r.snapshots, snapshotKey(q), &snap); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			r.log.Warn("Failed to read snapshot", logger.String("query", q.Name), logger.Err(err))
		}
		return zero, false
	}
	v, ok, err := querycache.Decode[T](querycache.State{Data: snap.Data})
	if err != nil {
		r.log.Warn("Snapshot did not decode", logger.String("query", q.Name), logger.Err(err))
		return zero, false
	}
	return v, ok
}

// recurYearly moves each finished event forward by whole years until it
// is upcoming again. Built-in events are annual, so the calendar never
// runs dry.
func recurYearly(events []model.Event, now time.Time) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		for !e.Upcoming(now) {
			e = shiftYears(e, 1)
		}
		out = append(out, e)
	}
	return out
}

func shiftYears(e model.Event, years int) model.Event {
	e.Start = e.Start.AddDate(years, 0, 0)
	if e.End != nil {
		end := e.End.AddDate(years, 0, 0)
		e.End = &end
	}
	return e
}

// filterAndSort drops finished events and orders the rest by start time.
func filterAndSort(events []model.Event, now time.Time) []model.Event {
	var upcoming []model.Event
	for _, e := range events {
		if e.Upcoming(now) {
			upcoming = append(upcoming, e)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	return upcoming
}
