// Package scenario loads named rover instruction scripts from a directory.
//
// A scenario is a YAML (.yaml, .yml) or JSON (.json) file holding a name, an
// optional description and the instruction text in the arena protocol:
//
//	name: Canonical
//	description: Two rovers on a 5x5 plateau
//	instructions: |
//	  5 5
//	  1 2 N
//	  LMLMLMLMM
//	  3 3 E
//	  MMRMMRMRRM
//
// The scenario ID is the file name without its extension. Every scenario is
// validated on load by parsing its instructions and deploying them into a
// scratch arena, so a scenario that loads will never fail on an empty arena.
//
// Scan walks the whole directory and reports every broken file at once, with
// the individual errors combined by go.uber.org/multierr.
package scenario
