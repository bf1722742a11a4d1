// Package wizard provides the interactive tenant configuration flow.
//
// It uses charmbracelet/huh forms to collect whatever the resolved
// configuration is still missing: in full-interactive mode every group is
// asked; in hybrid mode (a vars file with secret fields left blank) only
// the empty fields are prompted for. Secret fields are always collected
// through masked inputs and are never echoed.
//
// The entry point is Complete, which mutates the passed Config in place.
package wizard
