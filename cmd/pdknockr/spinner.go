// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

// Yet another (braille) spinner.

package main

// spinnerPhases are the braille characters making up a full spin.
const spinnerPhases = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"

// spinner is a blindingly simple spinner that advances one phase each time it
// gets rendered; it isn't safe for concurrent use.
type spinner struct {
	phases []string
	phase  int
}

// newSpinner returns a new spinner, starting in its first phase.
func newSpinner() *spinner {
	phases := []string{}
	for _, r := range spinnerPhases {
		phases = append(phases, string(r)+" ")
	}
	return &spinner{phases: phases}
}

// Next returns the spinner string for the current phase and then advances to
// the next phase.
func (s *spinner) Next() string {
	p := s.phases[s.phase]
	s.phase = (s.phase + 1) % len(s.phases)
	return p
}

// Done returns the spinner string to show after spinning has stopped.
func (s *spinner) Done() string {
	return "✓ "
}
