package view

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/document"
	"github.com/dshills/indentguide/internal/guide"
	"github.com/dshills/indentguide/internal/logging"
)

const goSource = "func f() {\n\tif x {\n\t\ty()\n\n\t\tz()\n\t}\n}\n"

func columns(lines []guide.LineGuides) [][]int {
	out := make([][]int, len(lines))
	for i, lg := range lines {
		out[i] = []int{}
		for _, s := range lg.Stops {
			out[i] = append(out[i], s.Column)
		}
	}
	return out
}

func openGo(t *testing.T, r *Registry) *View {
	t.Helper()
	v, err := r.Open("main.go", document.New("main.go", goSource))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return v
}

func TestView_RedrawMatchesCompute(t *testing.T) {
	s := config.Default()
	r := NewRegistry(s)
	v := openGo(t, r)

	got, err := v.Redraw(0, 100)
	if err != nil {
		t.Fatalf("Redraw failed: %v", err)
	}
	doc := document.New("x", goSource)
	expected, err := guide.Compute(doc, s.Guide.TabWidth, s.GuideConfig(), 0, doc.LineCount()-1)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(columns(got), columns(expected)) {
		t.Errorf("expected %v, got %v", columns(expected), columns(got))
	}
	if v.ContentType() != "go" {
		t.Errorf("ContentType: expected go, got %s", v.ContentType())
	}
}

func TestView_CacheReuse(t *testing.T) {
	v := openGo(t, NewRegistry(config.Default()))

	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}
	before := v.CacheStats()
	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}
	after := v.CacheStats()

	if after.Hits <= before.Hits {
		t.Errorf("expected cache hits on the second redraw: before %+v, after %+v", before, after)
	}
	if after.Misses != before.Misses {
		t.Errorf("expected no new misses, got %d -> %d", before.Misses, after.Misses)
	}
}

func TestRegistry_CacheSize(t *testing.T) {
	v := openGo(t, NewRegistry(config.Default(), WithCacheSize(2)))

	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}
	stats := v.CacheStats()
	if stats.Limit != 2 {
		t.Errorf("Limit: expected 2, got %d", stats.Limit)
	}
	if stats.Len > 2 || stats.Evictions == 0 {
		t.Errorf("expected a bounded cache with evictions, got %+v", stats)
	}

	if got := openGo(t, NewRegistry(config.Default())).CacheStats().Limit; got != DefaultCacheSize {
		t.Errorf("default Limit: expected %d, got %d", DefaultCacheSize, got)
	}
}

func TestView_EditInvalidates(t *testing.T) {
	v := openGo(t, NewRegistry(config.Default()))
	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}

	v.Edit("a\n        b\n")
	if v.CacheStats().Len != 0 {
		t.Errorf("expected empty cache after edit, got %d entries", v.CacheStats().Len)
	}

	got, err := v.Redraw(0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(columns(got), [][]int{{}, {4}, {4}}) {
		t.Errorf("unexpected guides after edit: %v", columns(got))
	}
}

func TestView_ReplaceLines(t *testing.T) {
	v := openGo(t, NewRegistry(config.Default()))
	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}

	if err := v.ReplaceLines(2, 3, []string{"\t\t\tdeep()"}); err != nil {
		t.Fatalf("ReplaceLines failed: %v", err)
	}
	if v.CacheStats().Len != 0 {
		t.Error("expected cache invalidated")
	}
	got, err := v.Redraw(2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(columns(got), [][]int{{4, 8}}) {
		t.Errorf("unexpected guides: %v", columns(got))
	}

	if err := v.ReplaceLines(5, 1, nil); !errors.Is(err, document.ErrRangeInvalid) {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
}

func TestView_LogsBlankLinesAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.LevelDebug, Output: &buf})
	v := openGo(t, NewRegistry(config.Default(), WithLogger(logger)))

	if _, err := v.Redraw(0, 6); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "blank line 3: delta 0") {
		t.Errorf("expected blank line diagnostics, got:\n%s", buf.String())
	}
}

func TestRegistry_OpenExcluded(t *testing.T) {
	s := config.Default()
	s.Guide.ExcludedTypes = []string{"markdown"}
	r := NewRegistry(s)

	_, err := r.Open("README.md", document.New("README.md", "# title\n"))
	if !errors.Is(err, ErrExcludedType) {
		t.Fatalf("expected ErrExcludedType, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected no views, got %d", r.Len())
	}
}

func TestRegistry_GetClose(t *testing.T) {
	r := NewRegistry(config.Default())
	v := openGo(t, r)

	if got, ok := r.Get(v.ID()); !ok || got != v {
		t.Fatal("Get did not return the opened view")
	}
	if err := r.Close(v.ID()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := r.Get(v.ID()); ok {
		t.Error("view still registered after Close")
	}
	if err := r.Close(v.ID()); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("second Close: expected ErrViewNotFound, got %v", err)
	}
	if err := r.Close(uuid.New()); !errors.Is(err, ErrViewNotFound) {
		t.Errorf("unknown id: expected ErrViewNotFound, got %v", err)
	}
}

func TestRegistry_Views(t *testing.T) {
	r := NewRegistry(config.Default())
	for _, name := range []string{"b.go", "a.go", "c.go"} {
		if _, err := r.Open(name, document.New(name, "x\n")); err != nil {
			t.Fatal(err)
		}
	}

	var names []string
	for _, v := range r.Views() {
		names = append(names, v.Name())
	}
	if !reflect.DeepEqual(names, []string{"a.go", "b.go", "c.go"}) {
		t.Errorf("Views order: got %v", names)
	}

	ids := map[uuid.UUID]bool{}
	for _, v := range r.Views() {
		ids[v.ID()] = true
	}
	if len(ids) != 3 {
		t.Errorf("expected distinct IDs, got %d", len(ids))
	}
}

func TestRegistry_ApplySettings(t *testing.T) {
	r := NewRegistry(config.Default())
	v, err := r.Open("spaces.go", document.New("spaces.go", "a\n    b\n"))
	if err != nil {
		t.Fatal(err)
	}

	got, _ := v.Redraw(0, 1)
	if !reflect.DeepEqual(columns(got), [][]int{{}, {}}) {
		t.Fatalf("tab width 4: unexpected guides %v", columns(got))
	}

	s := config.Default()
	s.Guide.TabWidth = 2
	r.ApplySettings(s)

	if v.Settings().Guide.TabWidth != 2 {
		t.Errorf("view did not receive new settings")
	}
	if r.Settings().Guide.TabWidth != 2 {
		t.Errorf("registry did not keep new settings")
	}
	got, _ = v.Redraw(0, 1)
	if !reflect.DeepEqual(columns(got), [][]int{{}, {2}}) {
		t.Errorf("tab width 2: unexpected guides %v", columns(got))
	}

	// Settings are copied in, so later mutation has no effect
	s.Guide.TabWidth = 8
	if v.Settings().Guide.TabWidth != 2 {
		t.Error("view shares settings with the caller")
	}
}

func TestRegistry_ApplySettingsDisableAndExclude(t *testing.T) {
	r := NewRegistry(config.Default())
	v := openGo(t, r)

	s := config.Default()
	s.Guide.Enabled = false
	r.ApplySettings(s)
	got, err := v.Redraw(0, 6)
	if err != nil {
		t.Fatal(err)
	}
	for i, lg := range got {
		if len(lg.Stops) != 0 {
			t.Errorf("line %d: expected no guides while disabled", i)
		}
		if lg.Line == nil {
			t.Errorf("line %d: expected the line itself", i)
		}
	}

	s = config.Default()
	s.Guide.ExcludedTypes = []string{"golang"}
	r.ApplySettings(s)
	if !v.Excluded() {
		t.Error("expected view to become excluded")
	}
	got, _ = v.Redraw(0, 6)
	for i, lg := range got {
		if len(lg.Stops) != 0 {
			t.Errorf("line %d: expected no guides while excluded", i)
		}
	}
	if _, err := r.Open("other.go", document.New("other.go", "x")); !errors.Is(err, ErrExcludedType) {
		t.Errorf("new go views should be refused, got %v", err)
	}

	r.ApplySettings(config.Default())
	if v.Excluded() {
		t.Error("expected view to be included again")
	}
}

func TestRegistry_ConcurrentRedraws(t *testing.T) {
	r := NewRegistry(config.Default())
	views := []*View{openGo(t, r), openGo(t, r)}

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(v *View) {
			defer wg.Done()
			if _, err := v.Redraw(0, 6); err != nil {
				errs <- err
			}
		}(views[i%2])
		go func() {
			defer wg.Done()
			r.ApplySettings(config.Default())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Redraw failed: %v", err)
	}
}
