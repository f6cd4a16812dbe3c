//go:build js || wasip1

package interrupt

import "io"

const Notice = "Interrupt ignored: type q at the prompt to quit."

// Install is a no-op on platforms without terminal interrupts.
func Install(w io.Writer) (stop func()) {
	return func() {}
}
