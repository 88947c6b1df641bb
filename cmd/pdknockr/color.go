// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import "github.com/muesli/termenv"

var (
	sentStyle     = termenv.Style{}.Foreground(termenv.ANSIGreen)
	failedStyle   = termenv.Style{}.Foreground(termenv.ANSIRed)
	resolverStyle = termenv.Style{}.Foreground(termenv.ANSICyan)
	typeStyle     = termenv.Style{}.Foreground(termenv.ANSIYellow)
)

var targetStyle = termenv.Style{}.Bold()

// styled renders s in the specified style, unless colors are disabled.
func styled(style termenv.Style, s string) string {
	if *noColor {
		return s
	}
	return style.Styled(s)
}
