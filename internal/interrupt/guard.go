//go:build !js && !wasip1

// Package interrupt keeps Ctrl-C from killing an interactive walk. The
// operator quits with q at the prompt, which still prints the output
// produced so far.
package interrupt

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
)

const Notice = "Interrupt ignored: type q at the prompt to quit."

// Install swallows os.Interrupt for the life of the process and writes Notice
// to w for every signal received. The returned stop function restores the
// default behaviour.
func Install(w io.Writer) (stop func()) {
	return install(w, make(chan os.Signal, 1), true)
}

func install(w io.Writer, ch chan os.Signal, subscribe bool) func() {
	if subscribe {
		signal.Notify(ch, os.Interrupt)
	}
	quit := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ch:
				fmt.Fprintln(w, Notice)
			case <-quit:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			if subscribe {
				signal.Stop(ch)
			}
			close(quit)
			wg.Wait()
		})
	}
}
