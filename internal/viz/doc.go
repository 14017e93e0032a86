// Package viz renders circuits and solved fields in the terminal.
//
//   - [CircuitCanvas]: Braille drawing of the component paths
//   - [Heatmap]: lipgloss coloured block map of a scalar field
//   - [Profile]: asciigraph line plot of one field row
//   - [Browse]: Bubble Tea program to flip between fields with a probe cursor
//
// # Key Bindings
//
//	tab/n     - Next field
//	p         - Previous field
//	h/j/k/l   - Move the probe
//	t         - Cycle colour themes
//	q         - Quit
//
// Signed fields default to a diverging theme centred on zero.
package viz
