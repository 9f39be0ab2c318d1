// Package core provides numeric helpers shared by the tps packages
// (tolerant comparison, clamping, linear and geometric grids, monotonicity
// checks) and the replaceable diagnostic logger used by the command-line
// tools.
package core
