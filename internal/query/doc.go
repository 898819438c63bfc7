// Package query builds MongoDB find parameters from raw URL query strings.
// It implements the filter / sort / field-limit / paginate pipeline shared
// by every list endpoint: reserved control keys are extracted first, the
// remainder becomes the filter document with comparison operators rewritten
// into the driver's $-prefixed syntax, and the whole pipeline is applied to
// an unexecuted query before the store runs it.
package query
