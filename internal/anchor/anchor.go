// Package anchor tracks the --jump-to-value position: translatable elements
// are passed through until one whose key attribute equals the anchor opens.
package anchor

import (
	"fmt"

	"github.com/valpere/locwalk/internal"
	"github.com/valpere/locwalk/internal/xmlio"
)

// DefaultKeyAttr is the attribute that identifies a translatable element.
const DefaultKeyAttr = "Key"

type State int

const (
	NoAnchor State = iota
	Seeking
	Active
)

func (s State) String() string {
	switch s {
	case NoAnchor:
		return "no-anchor"
	case Seeking:
		return "seeking"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

type Tracker struct {
	state   State
	anchor  string
	keyAttr string
}

// New returns a tracker seeking value when set is true, otherwise one that
// never skips.
func New(value string, set bool) *Tracker {
	t := &Tracker{anchor: value, keyAttr: DefaultKeyAttr}
	if set {
		t.state = Seeking
	}
	return t
}

// WithKeyAttr changes the attribute compared against the anchor.
func (t *Tracker) WithKeyAttr(name string) *Tracker {
	if name != "" {
		t.keyAttr = name
	}
	return t
}

// ObserveOpen is called for every opening translatable element and reports
// whether its text must be passed through untranslated. The element whose key
// matches the anchor is the first one prompted.
func (t *Tracker) ObserveOpen(ev xmlio.Event) (bool, error) {
	key, ok := ev.Attr(t.keyAttr)
	if !ok {
		return false, &internal.MalformedInputError{
			Offset:  ev.Offset,
			Message: fmt.Sprintf("<%s> has no %s attribute", ev.Name, t.keyAttr),
		}
	}

	switch t.state {
	case Seeking:
		if key == t.anchor {
			t.state = Active
			return false, nil
		}
		return true, nil
	default:
		return false, nil
	}
}

func (t *Tracker) State() State {
	return t.state
}

func (t *Tracker) Anchor() string {
	return t.anchor
}
