// Package export writes solved fields as PNG plots and circuits as SVG.
package export
