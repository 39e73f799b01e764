package ui

import "newsdeck/internal/layout"

// CellMetrics converts a terminal cell grid into the device-independent
// units the breakpoint table is written in. The defaults approximate a
// common 8x16 px monospace glyph, so a 75-column terminal measures exactly
// 600 units wide.
type CellMetrics struct {
	CellWidth  float64
	CellHeight float64
}

func DefaultCellMetrics() CellMetrics {
	return CellMetrics{CellWidth: 8, CellHeight: 16}
}

func (m CellMetrics) normalized() CellMetrics {
	if m.CellWidth <= 0 {
		m.CellWidth = 8
	}
	if m.CellHeight <= 0 {
		m.CellHeight = 16
	}
	return m
}

// Dimension samples the current cell grid as a layout Dimension. Negative
// cell counts surface as ErrInvalidDimension rather than being clamped.
func (m CellMetrics) Dimension(cols, rows int) (layout.Dimension, error) {
	m = m.normalized()
	return layout.NewDimension(float64(cols)*m.CellWidth, float64(rows)*m.CellHeight)
}
