package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dshills/indentguide/internal/config"
	"github.com/dshills/indentguide/internal/contenttype"
	"github.com/dshills/indentguide/internal/guide"
)

// stopReport is one tab stop in analyze output.
type stopReport struct {
	CharPos  int  `json:"charPos" yaml:"charPos"`
	Column   int  `json:"column" yaml:"column"`
	Ascender bool `json:"ascender,omitempty" yaml:"ascender,omitempty"`
}

// lineReport is the analysis of one line.
type lineReport struct {
	Number             int          `json:"number" yaml:"number"`
	Text               string       `json:"text" yaml:"text"`
	Blank              bool         `json:"blank" yaml:"blank"`
	Comment            bool         `json:"comment" yaml:"comment"`
	Length             int          `json:"length" yaml:"length"`
	FirstVisibleColumn int          `json:"firstVisibleColumn" yaml:"firstVisibleColumn"`
	IndentDelta        int          `json:"indentDelta" yaml:"indentDelta"`
	Stops              []stopReport `json:"stops" yaml:"stops"`
	Guides             []stopReport `json:"guides" yaml:"guides"`
}

// analysisReport is the whole analyze output.
type analysisReport struct {
	File        string       `json:"file" yaml:"file"`
	ContentType string       `json:"contentType" yaml:"contentType"`
	TabWidth    int          `json:"tabWidth" yaml:"tabWidth"`
	Lines       []lineReport `json:"lines" yaml:"lines"`
}

func newLineReport(lg guide.LineGuides) lineReport {
	l := lg.Line
	r := lineReport{
		Number:             l.Number,
		Text:               l.Text,
		Blank:              l.Blank,
		Comment:            l.Comment,
		Length:             l.Length,
		FirstVisibleColumn: l.FirstVisibleColumn,
		IndentDelta:        l.IndentDelta,
		Stops:              make([]stopReport, 0, len(l.Stops)),
		Guides:             make([]stopReport, 0, len(lg.Stops)),
	}
	for _, s := range l.Stops {
		r.Stops = append(r.Stops, stopReport{CharPos: s.CharPos, Column: s.Column})
	}
	for _, s := range lg.Stops {
		r.Guides = append(r.Guides, stopReport{CharPos: s.CharPos, Column: s.Column, Ascender: s.Ascender})
	}
	return r
}

func newAnalyzeCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		line   int
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Report tab stops and visible guides per line",
		Long: `Analyze FILE and report, for every line, its tab stops, whether it is
blank or a comment continuation, and which stops get a guide. --line limits
the report to one line (0-based) while still resolving its neighbors.`,
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

			begin, end := 0, doc.LineCount()-1
			if cmd.Flags().Changed("line") {
				if line < 0 || line > end {
					return fmt.Errorf("line %d out of range (file has %d lines)", line, end+1)
				}
				begin, end = line, line
			}

			lines, err := guide.Compute(doc, s.Guide.TabWidth, s.GuideConfig(), begin, end)
			if err != nil {
				return err
			}

			report := analysisReport{
				File:        doc.Name(),
				ContentType: contenttype.Detect(doc.Name(), doc.Text()),
				TabWidth:    s.Guide.TabWidth,
				Lines:       make([]lineReport, 0, len(lines)),
			}
			for _, lg := range lines {
				report.Lines = append(report.Lines, newLineReport(lg))
			}
			return writeReport(cmd.OutOrStdout(), format, report, lines, s)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml)")
	cmd.Flags().IntVar(&line, "line", 0, "Only report this line (0-based)")
	return cmd
}

func writeReport(w io.Writer, format string, report analysisReport, lines []guide.LineGuides, s *config.Settings) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)

	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()

	case "text":
		var b strings.Builder
		fmt.Fprintf(&b, "%s (%s, tab width %d)\n", report.File, report.ContentType, s.Guide.TabWidth)
		for _, lg := range lines {
			b.WriteString(lg.Line.String())
			b.WriteString("\n\tguides:")
			if len(lg.Stops) == 0 {
				b.WriteString(" none")
			}
			for _, vs := range lg.Stops {
				b.WriteString(" " + vs.TabStop.String())
				if vs.Ascender {
					b.WriteString("^")
				}
			}
			b.WriteString("\n")
		}
		return writeAll(w, b.String())

	default:
		return fmt.Errorf("unknown format %q (must be text, json, or yaml)", format)
	}
}
