package view

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/contenttype"
	"github.com/dshills/indentguide/internal/document"
	"github.com/dshills/indentguide/internal/logging"
)

var (
	// ErrExcludedType is returned when opening a document whose content
	// type the settings exclude.
	ErrExcludedType = errors.New("content type excluded")

	// ErrViewNotFound is returned for an unknown view ID.
	ErrViewNotFound = errors.New("view not found")
)

// detectLimit bounds how much of a document content detection reads.
const detectLimit = 4096

// DefaultCacheSize is the per-view analysis cache limit in lines.
const DefaultCacheSize = 10000

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithCacheSize bounds each view's analysis cache (0 = unlimited).
func WithCacheSize(n int) Option {
	return func(r *Registry) {
		r.cacheSize = n
	}
}

// Registry holds the open views. Its lock guards the view map and the
// current settings only; redraws run without it.
type Registry struct {
	mu        sync.RWMutex
	views     map[uuid.UUID]*View
	settings  *config.Settings
	filter    *contenttype.Filter
	cacheSize int
	logger    *logging.Logger
}

// NewRegistry creates an empty registry using s for new views.
func NewRegistry(s *config.Settings, opts ...Option) *Registry {
	r := &Registry{
		views:     make(map[uuid.UUID]*View),
		settings:  s.Clone(),
		filter:    contenttype.NewFilter(s.Guide.ExcludedTypes),
		cacheSize: DefaultCacheSize,
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.WithComponent("view")
	return r
}

// Open registers a view of doc. Documents whose content type is excluded
// are refused with ErrExcludedType.
func (r *Registry) Open(name string, doc *document.Document) (*View, error) {
	text := doc.Text()
	if len(text) > detectLimit {
		text = text[:detectLimit]
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	typ, ok := r.filter.Allows(name, text)
	if !ok {
		r.logger.Debug("not opening %s: type %s excluded", name, typ)
		return nil, fmt.Errorf("%w: %s is %s", ErrExcludedType, name, typ)
	}

	v := newView(name, typ, doc, r.settings.Clone(), r.cacheSize, r.logger)
	r.views[v.id] = v
	r.logger.Info("opened %s (%s) as %s", name, typ, v.id)
	return v, nil
}

// Close removes a view.
func (r *Registry) Close(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.views[id]; !ok {
		return fmt.Errorf("%w: %s", ErrViewNotFound, id)
	}
	delete(r.views, id)
	r.logger.Debug("closed %s", id)
	return nil
}

// Get returns a view by ID.
func (r *Registry) Get(id uuid.UUID) (*View, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.views[id]
	return v, ok
}

// Views returns the open views ordered by name, then ID.
func (r *Registry) Views() []*View {
	r.mu.RLock()
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.RUnlock()

	sort.Slice(views, func(i, j int) bool {
		if views[i].name != views[j].name {
			return views[i].name < views[j].name
		}
		return views[i].id.String() < views[j].id.String()
	})
	return views
}

// Len returns the number of open views.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.views)
}

// Settings returns a copy of the current settings.
func (r *Registry) Settings() *config.Settings {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.settings.Clone()
}

// ApplySettings makes s current for new views and re-applies it to every
// open view, dropping their caches. Open views whose type s excludes stay
// open but draw no guides.
func (r *Registry) ApplySettings(s *config.Settings) {
	filter := contenttype.NewFilter(s.Guide.ExcludedTypes)

	r.mu.Lock()
	r.settings = s.Clone()
	r.filter = filter
	views := make([]*View, 0, len(r.views))
	for _, v := range r.views {
		views = append(views, v)
	}
	r.mu.Unlock()

	for _, v := range views {
		v.apply(s.Clone(), filter.Excluded(v.contentType))
	}
	r.logger.Info("applied settings to %d views", len(views))
}
