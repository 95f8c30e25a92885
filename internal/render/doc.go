// Package render draws indent guides computed by package guide.
//
// Both adapters here work on a cell grid: each tab-expanded column is one
// cell, so a stop's Column is also its x offset within the line. A guide
// glyph only replaces a blank cell; text is never overdrawn. The
// configured pixel shift has no cell equivalent and is left to pixel
// based adapters.
//
// TextRenderer writes the overlay as plain or lipgloss-coloured text.
// Painter paints it into a backend.Backend such as a tcell terminal.
package render
