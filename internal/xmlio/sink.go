package xmlio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// textEscaper escapes only what character data requires, so apostrophes and
// quotes in UI strings are written as they appear in the template.
var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Sink serializes events into an in-memory buffer.
type Sink struct {
	buf bytes.Buffer
	enc *xml.Encoder
}

func NewSink() *Sink {
	s := &Sink{}
	s.enc = xml.NewEncoder(&s.buf)
	return s
}

// Write encodes one event. Closing tags must match the open element.
func (s *Sink) Write(ev Event) error {
	var tok xml.Token
	switch ev.Kind {
	case KindStart:
		attrs := make([]xml.Attr, 0, len(ev.Attrs))
		for _, a := range ev.Attrs {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
		}
		tok = xml.StartElement{Name: xml.Name{Local: ev.Name}, Attr: attrs}
	case KindEnd:
		tok = xml.EndElement{Name: xml.Name{Local: ev.Name}}
	case KindText:
		// The encoder has written the whole start tag; text goes straight
		// to the buffer behind it.
		if err := s.enc.Flush(); err != nil {
			return fmt.Errorf("failed to encode %s: %w", ev.Kind, err)
		}
		textEscaper.WriteString(&s.buf, string(ev.Text))
		return nil
	case KindOther:
		if ev.Token == nil {
			return nil
		}
		tok = ev.Token
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}

	if err := s.enc.EncodeToken(tok); err != nil {
		return fmt.Errorf("failed to encode %s: %w", ev.Kind, err)
	}
	return nil
}

// String flushes pending output and returns the document text. Elements left
// open are not closed, so a walk that stopped early yields its prefix.
func (s *Sink) String() (string, error) {
	if err := s.enc.Flush(); err != nil {
		return "", fmt.Errorf("failed to flush output: %w", err)
	}
	return s.buf.String(), nil
}
