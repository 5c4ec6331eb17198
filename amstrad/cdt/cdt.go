// Package cdt implements reading Amstrad CDT (TZX) formatted files,
// as specified in the TZX specification.
// https://www.worldofspectrum.org/TZXformat.html
//
// The `.CDT` tape image file format is identical to the `.TZX` file
// format designed by Tomaz Kac. Therefore this package is a simple
// wrapper around the `spectrum/tape` engine.
package cdt

import "tzxtape/spectrum/tape"

// New constructs a tape Engine for an Amstrad .CDT asset. CPC tape
// images never carry the 48K-mode StopIf48k semantics, so Is48K is
// always false.
func New(source tape.ByteSource) (*tape.Engine, error) {
	return tape.FromAsset(source, tape.Config{Is48K: false})
}
