package guide

// LineGuides is the outcome of a pass for one line.
type LineGuides struct {
	// Line is the analyzed line. For blank lines it carries the inherited
	// stops and IndentDelta.
	Line *Line
	// Stops are the guides to draw, in column order.
	Stops []VisibleStop
}

// BlankObserver is told about every blank line a pass prepares.
type BlankObserver func(prev, current, next *Line)

// PassOption configures a Pass.
type PassOption func(*Pass)

// WithCache analyzes lines through c instead of from scratch.
func WithCache(c *LineCache) PassOption {
	return func(p *Pass) {
		p.cache = c
	}
}

// WithBlankObserver registers fn to be called for each prepared blank line.
func WithBlankObserver(fn BlankObserver) PassOption {
	return func(p *Pass) {
		p.observe = fn
	}
}

// Pass computes guides for a contiguous range of lines, top to bottom.
//
// A Pass is single use and single goroutine: it owns the Resolver that
// carries neighbor lines from one line to the next.
type Pass struct {
	src      LineSource
	tabWidth int
	cfg      Config
	cache    *LineCache
	observe  BlankObserver
	resolver *Resolver
}

// NewPass prepares a pass over src.
func NewPass(src LineSource, tabWidth int, cfg Config, opts ...PassOption) (*Pass, error) {
	p := &Pass{
		src:      src,
		tabWidth: tabWidth,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(p)
	}

	r, err := NewResolver(src, tabWidth, p.cache)
	if err != nil {
		return nil, err
	}
	p.resolver = r
	return p, nil
}

// Run computes guides for lines begin through end inclusive. The range is
// clamped to the source; an empty range yields no results.
func (p *Pass) Run(begin, end int) ([]LineGuides, error) {
	count := p.src.LineCount()
	begin = max(begin, 0)
	end = min(end, count-1)
	if begin > end {
		return nil, nil
	}

	out := make([]LineGuides, 0, end-begin+1)
	for n := begin; n <= end; n++ {
		lg, err := p.line(n)
		if err != nil {
			return nil, err
		}
		out = append(out, lg)
		p.resolver.Observe(lg.Line)
	}
	return out, nil
}

func (p *Pass) line(n int) (LineGuides, error) {
	prev, err := p.resolver.Previous(n)
	if err != nil {
		return LineGuides{}, err
	}
	cur, err := p.resolver.Line(n)
	if err != nil {
		return LineGuides{}, err
	}

	if !cur.Blank {
		return LineGuides{Line: cur, Stops: VisibleStops(cur, prev, nil, p.cfg)}, nil
	}
	if !p.cfg.DrawBlankLines {
		return LineGuides{Line: cur}, nil
	}

	next, err := p.resolver.Next(n)
	if err != nil {
		return LineGuides{}, err
	}
	cur = cur.Clone()
	PrepareBlank(cur, prev, next)
	if p.observe != nil {
		p.observe(prev, cur, next)
	}
	return LineGuides{Line: cur, Stops: VisibleStops(cur, prev, next, p.cfg)}, nil
}

// Compute is a convenience that runs a fresh uncached pass over a range.
func Compute(src LineSource, tabWidth int, cfg Config, begin, end int) ([]LineGuides, error) {
	p, err := NewPass(src, tabWidth, cfg)
	if err != nil {
		return nil, err
	}
	return p.Run(begin, end)
}
