package guide

// Config holds the drawing flags that shape guide visibility.
// Every combination is valid.
type Config struct {
	// DrawLeadingEdge draws a guide at the first stop of a block.
	DrawLeadingEdge bool
	// DrawBlankLines carries guides through blank lines.
	DrawBlankLines bool
	// DrawCommentBlocks draws a guide at the last stop of comment continuation lines.
	DrawCommentBlocks bool
}

// VisibleStop is a tab stop at which a guide segment is drawn.
type VisibleStop struct {
	TabStop
	// Ascender extends the segment up into the gap above the line.
	Ascender bool
}

// PrepareBlank gives a blank line the stops it should draw with.
//
// IndentDelta becomes next.StopCount() - prev.StopCount(). The stops are a
// copy of prev's; when indentation shrinks going forward and prev has more
// than one stop, the innermost stop is dropped. Non-blank lines are left
// untouched.
func PrepareBlank(current, prev, next *Line) {
	if !current.Blank {
		return
	}
	current.IndentDelta = next.StopCount() - prev.StopCount()
	current.Stops = append(current.Stops[:0:0], prev.Stops...)
	if current.IndentDelta < 0 && len(current.Stops) > 1 {
		current.Stops = current.Stops[:len(current.Stops)-1]
	}
}

// VisibleStops returns, in order, the stops of current at which a guide is
// drawn. Blank lines must have been through PrepareBlank first. next is only
// read by PrepareBlank and may be nil for non-blank lines.
func VisibleStops(current, prev, next *Line, cfg Config) []VisibleStop {
	count := len(current.Stops)
	if count == 0 {
		return nil
	}

	only := count == 1
	multi := count > 1
	zero := current.IndentDelta == 0
	prevEnd := prev.LastStopColumn()

	visible := make([]VisibleStop, 0, count)
	for i, stop := range current.Stops {
		first := i == 0
		last := i == count-1

		switch {
		case current.Comment:
			if stop.Column == current.FirstVisibleColumn {
				continue
			}
			if only && !(cfg.DrawCommentBlocks || cfg.DrawLeadingEdge) {
				continue
			}
			if first && !only && !cfg.DrawLeadingEdge {
				continue
			}
			if last && !only && !cfg.DrawCommentBlocks {
				continue
			}

		case current.Blank:
			if first && only && zero {
				continue
			}
			if last && !only && zero {
				continue
			}
			if first && !zero && !(cfg.DrawBlankLines && cfg.DrawLeadingEdge) {
				continue
			}
			if first && zero && multi && !(cfg.DrawBlankLines && cfg.DrawLeadingEdge) {
				continue
			}

		default:
			if stop.Column == current.FirstVisibleColumn {
				continue
			}
			if first && !cfg.DrawLeadingEdge {
				continue
			}
		}

		visible = append(visible, VisibleStop{TabStop: stop, Ascender: stop.Column >= prevEnd})
	}
	return visible
}
