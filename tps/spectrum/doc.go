// Package spectrum turns a detector image and a pixel-space ion trace into
// an energy spectrum.
//
// # Extraction
//
// Extract walks the trace column by column from where it enters the image
// towards the zero-deflection side. For each column the signal in a window
// of rows around the trace centre is summed and divided by the energy
// spanned by that column, giving dN/dE in PSL/MeV:
//
//	tr, _ := trajectory.Compute(cfg)
//	px, _ := transform.Apply(tr, transform.ParamsFromConfig(cfg, 127, 153, 0))
//	s, err := spectrum.Extract(img, px, spectrum.WithHalfWidth(5))
//
// The irregular per-column series is then resampled onto a uniform energy
// grid. Each output value is the integral of dN/dE over its bin, so Flux
// holds counts per bin and Energy the bin centres.
//
// # Output
//
// Write and WriteFile emit the two-column text table consumed by the
// downstream analysis scripts; Read parses it back. Smooth applies a
// Gaussian kernel of fixed width in MeV.
package spectrum
