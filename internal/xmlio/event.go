// Package xmlio adapts encoding/xml to the ordered stream of structural
// events consumed by the rewrite driver: a trimming Source over the input
// document and a Sink that serializes events back into a buffer.
package xmlio

import "encoding/xml"

// Kind identifies the variant of an Event.
type Kind int

const (
	KindStart Kind = iota
	KindEnd
	KindText
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindStart:
		return "ElementOpen"
	case KindEnd:
		return "ElementClose"
	case KindText:
		return "TextContent"
	case KindOther:
		return "OtherMarkup"
	default:
		return "Unknown"
	}
}

// Attr is one attribute of an element, kept in document order.
type Attr struct {
	Name  string
	Value string
}

// Event is a single structural event of a tagged document.
//
// Name is the qualified element name (prefix:local) for KindStart and
// KindEnd. Text holds unescaped character data for KindText. Token holds the
// comment, processing instruction or directive for KindOther.
type Event struct {
	Kind   Kind
	Name   string
	Attrs  []Attr
	Text   []byte
	Token  xml.Token
	Offset int64
}

// Attr returns the value of the named attribute.
func (e Event) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// WithText returns a copy of a text event carrying replacement content.
func (e Event) WithText(text string) Event {
	e.Text = []byte(text)
	return e
}

// Start builds an element-open event.
func Start(name string, attrs ...Attr) Event {
	return Event{Kind: KindStart, Name: name, Attrs: attrs}
}

// End builds an element-close event.
func End(name string) Event {
	return Event{Kind: KindEnd, Name: name}
}

// Text builds a text event.
func Text(text string) Event {
	return Event{Kind: KindText, Text: []byte(text)}
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}
