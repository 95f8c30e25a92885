package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/config/watcher"
	"github.com/dshills/indentguide/internal/logging"
	"github.com/dshills/indentguide/internal/render"
	"github.com/dshills/indentguide/internal/render/backend"
	"github.com/dshills/indentguide/internal/view"
)

func newViewCmd(opts *globalOptions) *cobra.Command {
	var watch, dark bool

	cmd := &cobra.Command{
		Use:   "view FILE",
		Short: "Browse a file with indent guides in the terminal",
		Long: `Open FILE in a read-only terminal viewer with indent guides.

Keys: up/k and down/j scroll a line, PgUp/PgDn or space a page, Home/g and
End/G jump to either end, q or Esc quits. With --watch, edits to the
settings file are applied while the viewer is open. Logs go to --log-file
only, since the terminal is in use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.logFile == "" {
				opts.logger = logging.New(logging.Config{Output: io.Discard})
			}

			s, err := opts.loadSettings(cmd)
			if err != nil {
				return err
			}
			doc, err := openDocument(cmd, args[0])
			if err != nil {
				return err
			}

			reg := opts.newRegistry(s)
			v, err := reg.Open(doc.Name(), doc)
			if err != nil {
				return err
			}

			term, err := backend.NewTerminal()
			if err != nil {
				return fmt.Errorf("creating terminal: %w", err)
			}
			vw := newViewer(term, reg, v, dark, opts.logger)

			if watch {
				path := opts.settingsPath()
				if path == "" {
					return errors.New("--watch needs a settings file (--config or $" + configEnv + ")")
				}
				w, err := watcher.New(path, func(s *config.Settings, err error) {
					if err != nil {
						return // already logged by the watcher; keep the last good settings
					}
					// Flags given on the command line still win over the file
					if err := opts.applyFlags(cmd, s); err != nil {
						opts.logger.Warn("ignoring reloaded settings: %v", err)
						return
					}
					vw.offer(s)
				}, watcher.WithLogger(opts.logger))
				if err != nil {
					return fmt.Errorf("watching settings: %w", err)
				}
				defer w.Close()
				if err := w.Start(); err != nil {
					return err
				}
			}

			return vw.run(cmd.Context())
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload settings when the settings file changes")
	cmd.Flags().BoolVar(&dark, "dark", false, "Use the dark background guide color")
	return cmd
}

// viewer is the interactive loop behind the view command.
type viewer struct {
	b       backend.Backend
	reg     *view.Registry
	v       *view.View
	painter *render.Painter
	dark    bool
	logger  *logging.Logger

	top     int
	pending atomic.Pointer[config.Settings]
	quit    atomic.Bool
}

func newViewer(b backend.Backend, reg *view.Registry, v *view.View, dark bool, logger *logging.Logger) *viewer {
	return &viewer{
		b:       b,
		reg:     reg,
		v:       v,
		painter: render.NewPainter(b, v.Settings(), dark),
		dark:    dark,
		logger:  logger.WithComponent("viewer"),
	}
}

// offer hands reloaded settings to the loop. Safe from any goroutine.
func (vw *viewer) offer(s *config.Settings) {
	vw.pending.Store(s)
	vw.wake()
}

func (vw *viewer) wake() {
	vw.b.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyNone})
}

func (vw *viewer) run(ctx context.Context) error {
	if err := vw.b.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer vw.b.Shutdown()

	if ctx != nil {
		stop := context.AfterFunc(ctx, func() {
			vw.quit.Store(true)
			vw.wake()
		})
		defer stop()
	}

	for !vw.quit.Load() {
		if err := vw.draw(); err != nil {
			return err
		}
		vw.handle(vw.b.PollEvent())
	}
	return nil
}

// rows is the number of text rows, leaving the last row for the status.
func (vw *viewer) rows() int {
	_, h := vw.b.Size()
	return max(h-1, 1)
}

func (vw *viewer) draw() error {
	if s := vw.pending.Swap(nil); s != nil {
		vw.reg.ApplySettings(s)
		vw.painter.Apply(s, vw.dark)
		vw.logger.Info("applied reloaded settings")
	}

	rows := vw.rows()
	lines, err := vw.v.Redraw(vw.top, vw.top+rows-1)
	if err != nil {
		return err
	}

	vw.b.Clear()
	vw.painter.Paint(lines, 0)
	if _, h := vw.b.Size(); h > 1 {
		vw.painter.PaintStatus(h-1, vw.status(len(lines)))
	}
	vw.b.Show()
	return nil
}

func (vw *viewer) status(shown int) string {
	count := vw.v.Document().LineCount()
	var note string
	switch {
	case vw.v.Excluded():
		note = "  (excluded)"
	case !vw.v.Settings().Guide.Enabled:
		note = "  (guides off)"
	}
	return fmt.Sprintf(" %s  %d-%d/%d  %s%s", vw.v.Name(), vw.top+1, vw.top+shown, count, vw.v.ContentType(), note)
}

func (vw *viewer) handle(ev backend.Event) {
	if ev.Type != backend.EventKey {
		return
	}
	page := vw.rows()

	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		vw.quit.Store(true)
	case backend.KeyUp:
		vw.scroll(-1)
	case backend.KeyDown, backend.KeyEnter:
		vw.scroll(1)
	case backend.KeyPageUp:
		vw.scroll(-page)
	case backend.KeyPageDown:
		vw.scroll(page)
	case backend.KeyHome:
		vw.top = 0
	case backend.KeyEnd:
		vw.scroll(vw.v.Document().LineCount())
	case backend.KeyRune:
		switch ev.Rune {
		case 'q':
			vw.quit.Store(true)
		case 'k':
			vw.scroll(-1)
		case 'j':
			vw.scroll(1)
		case ' ':
			vw.scroll(page)
		case 'g':
			vw.top = 0
		case 'G':
			vw.scroll(vw.v.Document().LineCount())
		}
	}
}

// scroll moves the top line by delta, keeping the last page full.
func (vw *viewer) scroll(delta int) {
	maxTop := max(vw.v.Document().LineCount()-vw.rows(), 0)
	vw.top = min(max(vw.top+delta, 0), maxTop)
}
