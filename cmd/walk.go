/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/anchor"
	"github.com/valpere/locwalk/internal/config"
	"github.com/valpere/locwalk/internal/display"
	"github.com/valpere/locwalk/internal/interrupt"
	"github.com/valpere/locwalk/internal/prompt"
	"github.com/valpere/locwalk/internal/rewrite"
	"github.com/valpere/locwalk/internal/store"
	"github.com/valpere/locwalk/internal/validator"
	"github.com/valpere/locwalk/internal/xmlio"
)

func runWalk(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	stop := interrupt.Install(os.Stderr)
	defer stop()

	return walk(cmd.Context(), cfg, console{
		in:      os.Stdin,
		out:     bufio.NewWriter(os.Stdout),
		diag:    os.Stderr,
		painter: display.NewPainter(os.Stdout),
	})
}

type flushWriter interface {
	io.Writer
	Flush() error
}

// console is the operator's side of a walk. Prompts and the document share
// out, which is buffered, so painter is decided from the underlying stream.
type console struct {
	in      io.Reader
	out     flushWriter
	diag    io.Writer
	painter display.Painter
}

func walk(ctx context.Context, cfg *config.Config, con console) error {
	out, diag := con.out, con.diag

	src, closer, err := xmlio.OpenSource(cfg.Path)
	if err != nil {
		return err
	}
	defer closer.Close()

	var db *store.Store
	if cfg.Memory != "" {
		db, err = store.New(cfg.Memory)
		if err != nil {
			return &internal.IOError{Op: "open memory " + cfg.Memory, Cause: err}
		}
		defer db.Close()
	}

	client, cleanup, err := buildClient(ctx, cfg, db)
	if err != nil {
		return err
	}
	defer cleanup()

	term := prompt.NewTerminal(con.in, out).WithPainter(con.painter)
	if cfg.CheckLanguage {
		term.WithLanguageCheck(validator.NewFor(cfg.TargetLang), cfg.TargetLang)
	}

	var session *internal.Session
	if db != nil {
		session = &internal.Session{SourcePath: cfg.Path, TargetLang: cfg.TargetLang, JumpTo: cfg.JumpTo}
		if err := db.SaveSession(ctx, session); err != nil {
			display.PrintWarn(diag, fmt.Sprintf("failed to record session: %v", err))
			session = nil
		}
	}

	driverCfg := rewrite.Config{Target: cfg.TargetLang}
	if session != nil {
		driverCfg.SessionID = session.ID
	}
	driver := rewrite.New(driverCfg, src, xmlio.NewSink(), client, term, anchor.New(cfg.JumpTo, cfg.JumpSet)).
		WithDiagnostics(diag)
	if db != nil {
		driver.WithRecorder(db)
	}

	res, err := driver.Run(ctx)
	if err != nil {
		return err
	}

	if session != nil {
		if err := db.FinishSession(ctx, session.ID, res.Quit); err != nil {
			display.PrintWarn(diag, fmt.Sprintf("failed to finish session: %v", err))
		}
	}

	if _, err := fmt.Fprintln(out, res.Output); err != nil {
		return &internal.IOError{Op: "write stdout", Cause: err}
	}
	if err := out.Flush(); err != nil {
		return &internal.IOError{Op: "write stdout", Cause: err}
	}

	sessionID := ""
	if session != nil {
		sessionID = session.ID
	}
	printSummary(diag, res, sessionID)
	return nil
}

func printSummary(w io.Writer, res rewrite.Result, sessionID string) {
	p := display.NewPainter(w)
	s := res.Stats
	msg := fmt.Sprintf("%d prompted: %d accepted, %d manual, %d skipped; %d passed over before the anchor",
		s.Prompted, s.Accepted, s.Manual, s.Skipped, s.Jumped)
	if res.Quit {
		msg = "Quit: the output above is partial. " + msg
	}
	fmt.Fprintln(w, p.Render(display.DimStyle, msg))
	if sessionID != "" {
		fmt.Fprintln(w, p.Render(display.DimStyle, "Decisions recorded as session "+sessionID+" (locwalk memory decisions "+sessionID+")"))
	}
}
