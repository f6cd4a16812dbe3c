// Package rewrite walks a localization template once, event by event, and
// replaces the text of every translatable element according to the
// operator's decision on a machine translated candidate.
package rewrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/anchor"
	"github.com/valpere/locwalk/internal/display"
	"github.com/valpere/locwalk/internal/orchestrator"
	"github.com/valpere/locwalk/internal/prompt"
	"github.com/valpere/locwalk/internal/xmlio"
)

const DefaultTag = "String"

// EventSource yields structural events; io.EOF ends the stream.
type EventSource interface {
	Next() (xmlio.Event, error)
}

// EventSink accepts the rewritten stream.
type EventSink interface {
	Write(ev xmlio.Event) error
	String() (string, error)
}

// Recorder persists the outcome of each prompted element.
type Recorder interface {
	SaveDecision(ctx context.Context, rec internal.DecisionRecord) error
}

type Config struct {
	// Tag is the name of the translatable element.
	Tag string
	// KeyAttr names the attribute that identifies a translatable element.
	KeyAttr string
	// Target is passed to the translation client unchanged.
	Target string
	// SessionID is copied into recorded decisions.
	SessionID string
}

type Stats struct {
	Events   int
	Prompted int
	Accepted int
	Manual   int
	Skipped  int
	Jumped   int
}

type Result struct {
	// Output is the serialized document. After a quit it ends where the walk
	// stopped.
	Output string
	Quit   bool
	Stats  Stats
}

type state int

const (
	walking state = iota
	terminating
	done
)

func (s state) String() string {
	switch s {
	case walking:
		return "walking"
	case terminating:
		return "terminating"
	case done:
		return "done"
	default:
		return "unknown"
	}
}

type Driver struct {
	config   Config
	source   EventSource
	sink     EventSink
	client   orchestrator.Client
	prompter prompt.Prompter
	tracker  *anchor.Tracker
	diag     io.Writer
	recorder Recorder

	state       state
	inScope     bool
	skipCurrent bool
	currentKey  string
	stats       Stats
}

// New creates a driver. A nil tracker never skips.
func New(config Config, source EventSource, sink EventSink, client orchestrator.Client, prompter prompt.Prompter, tracker *anchor.Tracker) *Driver {
	if config.Tag == "" {
		config.Tag = DefaultTag
	}
	if config.KeyAttr == "" {
		config.KeyAttr = anchor.DefaultKeyAttr
	}
	if tracker == nil {
		tracker = anchor.New("", false)
	}
	tracker.WithKeyAttr(config.KeyAttr)
	return &Driver{
		config:   config,
		source:   source,
		sink:     sink,
		client:   client,
		prompter: prompter,
		tracker:  tracker,
		diag:     io.Discard,
	}
}

// WithDiagnostics sets where jump notices and warnings are written.
func (d *Driver) WithDiagnostics(w io.Writer) *Driver {
	if w != nil {
		d.diag = w
	}
	return d
}

func (d *Driver) WithRecorder(r Recorder) *Driver {
	d.recorder = r
	return d
}

// Run walks the whole source. Quitting at a prompt is not an error: the
// result carries Quit and the output written so far. Any other failure
// aborts the walk and the partial output is discarded.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	for d.state == walking {
		ev, err := d.source.Next()
		if errors.Is(err, io.EOF) {
			d.state = done
			break
		}
		if err != nil {
			return Result{}, err
		}
		d.stats.Events++

		if err := d.step(ctx, ev); err != nil {
			return Result{}, err
		}
	}

	quit := d.state == terminating
	d.state = done

	out, err := d.sink.String()
	if err != nil {
		return Result{}, &internal.IOError{Op: "serialize output", Cause: err}
	}
	return Result{Output: out, Quit: quit, Stats: d.stats}, nil
}

func (d *Driver) step(ctx context.Context, ev xmlio.Event) error {
	switch ev.Kind {
	case xmlio.KindStart:
		if err := d.write(ev); err != nil {
			return err
		}
		if ev.Name == d.config.Tag {
			skip, err := d.tracker.ObserveOpen(ev)
			if err != nil {
				return err
			}
			d.inScope = true
			d.skipCurrent = skip
			d.currentKey, _ = ev.Attr(d.config.KeyAttr)
		}
		return nil

	case xmlio.KindEnd:
		if err := d.write(ev); err != nil {
			return err
		}
		if ev.Name == d.config.Tag {
			d.inScope = false
			d.skipCurrent = false
			d.currentKey = ""
		}
		return nil

	case xmlio.KindText:
		if !d.inScope {
			return d.write(ev)
		}
		return d.translate(ctx, ev)

	default:
		return d.write(ev)
	}
}

func (d *Driver) translate(ctx context.Context, ev xmlio.Event) error {
	english := string(ev.Text)

	if d.skipCurrent {
		d.stats.Jumped++
		fmt.Fprintf(d.diag, "jump text:%s\n", english)
		return d.write(ev)
	}

	candidate, err := d.client.Translate(orchestrator.WithResourceKey(ctx, d.currentKey), english, d.config.Target)
	if err != nil {
		var tErr *internal.TranslationError
		if !errors.As(err, &tErr) {
			err = &internal.TranslationError{Text: english, Cause: err}
		}
		return err
	}

	decision, err := d.prompter.Prompt(english, candidate)
	if err != nil {
		return err
	}
	d.stats.Prompted++

	var final string
	switch decision.Kind {
	case prompt.Accept:
		d.stats.Accepted++
		final = candidate
	case prompt.Manual:
		d.stats.Manual++
		final = decision.Text
	case prompt.Skip:
		d.stats.Skipped++
		final = english
	case prompt.Quit:
		d.state = terminating
		return nil
	default:
		return fmt.Errorf("unknown decision %v", decision.Kind)
	}

	if err := d.write(ev.WithText(final)); err != nil {
		return err
	}
	d.record(ctx, english, candidate, final, decision.Kind)
	return nil
}

func (d *Driver) record(ctx context.Context, english, candidate, final string, kind prompt.Kind) {
	if d.recorder == nil {
		return
	}
	err := d.recorder.SaveDecision(ctx, internal.DecisionRecord{
		SessionID:  d.config.SessionID,
		Key:        d.currentKey,
		SourceText: english,
		TargetLang: d.config.Target,
		Candidate:  candidate,
		FinalText:  final,
		Decision:   kind.String(),
		Timestamp:  time.Now(),
	})
	if err != nil {
		display.PrintWarn(d.diag, fmt.Sprintf("failed to record decision for %s: %v", d.currentKey, err))
	}
}

func (d *Driver) write(ev xmlio.Event) error {
	if err := d.sink.Write(ev); err != nil {
		return &internal.IOError{Op: "write output", Cause: err}
	}
	return nil
}
