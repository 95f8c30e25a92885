// Package guide computes where indent guides belong on a line of text.
//
// The package is split along the three steps of a redraw:
//
//   - Analyze turns raw line text into a Line: its leading tab stops, whether
//     it is blank, and whether it continues a /* ... */ block comment.
//   - Resolver finds the nearest non-blank lines around a blank run and
//     remembers them for the rest of the pass.
//   - VisibleStops decides, stop by stop, which guides to draw and whether
//     each one reaches up into the line above (the ascender).
//
// Pass ties the three together over a contiguous line range. Nothing in this
// package draws, logs or blocks; rendering lives in package render.
//
// # Blank lines
//
// A blank line has no indentation of its own. It inherits the stops of the
// previous non-blank line; when indentation shrinks going forward
// (IndentDelta < 0) the innermost inherited stop is dropped so the guide
// closes at the blank line rather than hanging over the dedented text.
//
// # Concurrency
//
// Line values and VisibleStops are safe to share once built. Resolver, Pass
// and LineCache carry per-view state and must not be shared between views
// that redraw concurrently.
package guide
