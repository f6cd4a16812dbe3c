package xmlio

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/valpere/locwalk/internal"
)

// Source yields events from a document in order. Whitespace is trimmed from
// text and whitespace-only text is dropped. Element nesting is checked as the
// stream is read, so an unbalanced document fails at the offending tag.
type Source struct {
	dec   *xml.Decoder
	stack []string
}

// NewSource reads events lazily from r. A leading byte order mark is dropped
// and documents declaring another encoding are decoded to UTF-8.
func NewSource(r io.Reader) *Source {
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.Strict = true
	dec.CharsetReader = charsetReader
	return &Source{dec: dec}
}

// OpenSource opens the file at path. The returned closer releases the file.
func OpenSource(path string) (*Source, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &internal.IOError{Op: "open " + path, Cause: err}
	}
	return NewSource(f), f, nil
}

// Next returns the next event, or io.EOF once the document is exhausted.
func (s *Source) Next() (Event, error) {
	for {
		offset := s.dec.InputOffset()
		tok, err := s.dec.RawToken()
		if err == io.EOF {
			if len(s.stack) > 0 {
				return Event{}, &internal.MalformedInputError{
					Offset:  s.dec.InputOffset(),
					Message: fmt.Sprintf("unexpected end of document, <%s> is not closed", s.stack[len(s.stack)-1]),
				}
			}
			return Event{}, io.EOF
		}
		if err != nil {
			return Event{}, &internal.MalformedInputError{
				Offset:  s.dec.InputOffset(),
				Message: "parse error",
				Cause:   err,
			}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := qualified(t.Name)
			s.stack = append(s.stack, name)
			attrs := make([]Attr, 0, len(t.Attr))
			for _, a := range t.Attr {
				attrs = append(attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			return Event{Kind: KindStart, Name: name, Attrs: attrs, Offset: offset}, nil

		case xml.EndElement:
			name := qualified(t.Name)
			if len(s.stack) == 0 || s.stack[len(s.stack)-1] != name {
				return Event{}, &internal.MalformedInputError{
					Offset:  offset,
					Message: fmt.Sprintf("unexpected closing tag </%s>", name),
				}
			}
			s.stack = s.stack[:len(s.stack)-1]
			return Event{Kind: KindEnd, Name: name, Offset: offset}, nil

		case xml.CharData:
			text := bytes.TrimSpace(t)
			if len(text) == 0 {
				continue
			}
			return Event{Kind: KindText, Text: bytes.Clone(text), Offset: offset}, nil

		case xml.ProcInst:
			if t.Target == "xml" {
				t = xml.ProcInst{Target: t.Target, Inst: utf8Declaration(t.Inst)}
			}
			return Event{Kind: KindOther, Token: xml.CopyToken(t), Offset: offset}, nil

		case xml.Comment, xml.Directive:
			return Event{Kind: KindOther, Token: xml.CopyToken(t), Offset: offset}, nil
		}
	}
}

// charsetReader converts declared encodings to UTF-8. UTF-16 input is only
// readable with a byte order mark, and that has been decoded already.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	return charset.NewReaderLabel(label, input)
}

var encodingDecl = regexp.MustCompile(`encoding\s*=\s*("[^"]*"|'[^']*')`)

// utf8Declaration rewrites the encoding of an XML declaration to utf-8, since
// events always carry decoded text. A utf-8 declaration is left untouched.
func utf8Declaration(inst []byte) []byte {
	m := encodingDecl.FindSubmatchIndex(inst)
	if m == nil {
		return inst
	}
	value := string(inst[m[2]+1 : m[3]-1])
	if strings.EqualFold(value, "utf-8") || strings.EqualFold(value, "utf8") {
		return inst
	}
	out := make([]byte, 0, len(inst))
	out = append(out, inst[:m[2]]...)
	out = append(out, `"utf-8"`...)
	return append(out, inst[m[3]:]...)
}
