package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dshills/indentguide/internal/render"
	"github.com/dshills/indentguide/internal/view"
)

func newRenderCmd(opts *globalOptions) *cobra.Command {
	var colored, dark bool

	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Print a file with its indent guides",
		Long: `Print FILE with tabs expanded and indent guides drawn in the blank
indentation cells. Use "-" to read standard input. Files whose content type
is excluded by the settings are printed unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			if errors.Is(err, view.ErrExcludedType) {
				opts.logger.Info("%v; printing without guides", err)
				return writeAll(cmd.OutOrStdout(), doc.Text())
			}
			if err != nil {
				return err
			}

			// The empty line after a final terminator is not printed as a line
			last := doc.LineCount() - 1
			if last > 0 && doc.LineText(last) == "" {
				last--
			}
			lines, err := v.Redraw(0, last)
			if err != nil {
				return err
			}
			return render.NewTextRenderer(s, colored, dark).Render(cmd.OutOrStdout(), lines)
		},
	}

	cmd.Flags().BoolVar(&colored, "color", false, "Color the guides with ANSI sequences")
	cmd.Flags().BoolVar(&dark, "dark", false, "Use the dark background guide color")
	return cmd
}
