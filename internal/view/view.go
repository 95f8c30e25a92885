// Package view tracks the documents guides are drawn for.
//
// Each View owns its document and its own analysis cache, and runs a
// fresh pass per redraw, so views never share mutable state. The Registry
// hands current settings to every open view when they change.
package view

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/document"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/logging"
)

// View is one document being displayed with guides.
type View struct {
	id          uuid.UUID
	name        string
	contentType string
	doc         *document.Document
	cache       *guide.LineCache
	logger      *logging.Logger

	mu       sync.RWMutex
	settings *config.Settings
	excluded bool
}

func newView(name, contentType string, doc *document.Document, s *config.Settings, cacheSize int, logger *logging.Logger) *View {
	id := uuid.New()
	return &View{
		id:          id,
		name:        name,
		contentType: contentType,
		doc:         doc,
		cache:       guide.NewLineCache(cacheSize),
		logger:      logger.WithFields(map[string]any{"view": id.String()[:8], "name": name}),
		settings:    s,
	}
}

// ID returns the view's unique identifier.
func (v *View) ID() uuid.UUID { return v.id }

// Name returns the name the view was opened with.
func (v *View) Name() string { return v.name }

// ContentType returns the detected content type.
func (v *View) ContentType() string { return v.contentType }

// Document returns the underlying document.
func (v *View) Document() *document.Document { return v.doc }

// Settings returns a copy of the settings the view draws with.
func (v *View) Settings() *config.Settings {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.settings.Clone()
}

// Excluded reports whether the current settings exclude the view's
// content type. Excluded views redraw without guides.
func (v *View) Excluded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.excluded
}

// CacheStats returns the analysis cache statistics.
func (v *View) CacheStats() guide.CacheStats {
	return v.cache.Stats()
}

// Redraw computes guides for lines begin through end inclusive against a
// snapshot of the document. When guides are disabled or the content type
// is excluded the lines come back without stops.
func (v *View) Redraw(begin, end int) ([]guide.LineGuides, error) {
	v.mu.RLock()
	s, excluded := v.settings, v.excluded
	v.mu.RUnlock()

	opts := []guide.PassOption{guide.WithCache(v.cache)}
	if v.logger.Enabled(logging.LevelDebug) {
		opts = append(opts, guide.WithBlankObserver(v.logBlank))
	}

	pass, err := guide.NewPass(v.doc.Snapshot(), s.Guide.TabWidth, s.GuideConfig(), opts...)
	if err != nil {
		return nil, err
	}
	lines, err := pass.Run(begin, end)
	if err != nil {
		return nil, err
	}

	if !s.Guide.Enabled || excluded {
		for i := range lines {
			lines[i].Stops = nil
		}
	}
	return lines, nil
}

func (v *View) logBlank(prev, current, next *guide.Line) {
	v.logger.Debug("blank line %d: delta %d (prev %d has %d stops, next %d has %d), drawing %d",
		current.Number, current.IndentDelta,
		prev.Number, prev.StopCount(), next.Number, next.StopCount(), current.StopCount())
}

// Edit replaces the document text and drops every cached analysis.
func (v *View) Edit(text string) {
	v.doc.SetText(text)
	v.cache.InvalidateAll()
}

// ReplaceLines replaces lines [start, end) with lines and drops every
// cached analysis, since line numbers after the edit may have shifted.
func (v *View) ReplaceLines(start, end int, lines []string) error {
	if err := v.doc.ReplaceLines(start, end, lines); err != nil {
		return err
	}
	v.cache.InvalidateAll()
	return nil
}

func (v *View) apply(s *config.Settings, excluded bool) {
	v.mu.Lock()
	v.settings = s
	v.excluded = excluded
	v.mu.Unlock()
	v.cache.InvalidateAll()
}
