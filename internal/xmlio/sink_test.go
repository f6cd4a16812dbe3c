package xmlio

import (
	"io"
	"strings"
	"testing"
)

func TestSink_RoundTrip(t *testing.T) {
	doc := `<Root><Meta>keep me</Meta><String Key="A">hello</String></Root>`
	src := NewSource(strings.NewReader(doc))
	sink := NewSink()

	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, err := sink.String()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != doc {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", got, doc)
	}
}

func TestSink_EscapesText(t *testing.T) {
	sink := NewSink()
	for _, ev := range []Event{Start("String", Attr{Name: "Key", Value: "A"}), Text("a < b & c"), End("String")} {
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, _ := sink.String()
	want := `<String Key="A">a &lt; b &amp; c</String>`
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestSink_KeepsQuotesInText(t *testing.T) {
	doc := `<Root><String Key="A">Don't press "Max" &amp; wait</String></Root>`
	src := NewSource(strings.NewReader(doc))
	sink := NewSink()
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, _ := sink.String()
	if got != doc {
		t.Errorf("got %s, want %s", got, doc)
	}
}

func TestSink_PartialOutput(t *testing.T) {
	sink := NewSink()
	for _, ev := range []Event{Start("Root"), Start("String", Attr{Name: "Key", Value: "B"})} {
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, err := sink.String()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `<Root><String Key="B">` {
		t.Errorf("expected unclosed prefix, got %s", got)
	}
}

func TestSink_MismatchedClose(t *testing.T) {
	sink := NewSink()
	_ = sink.Write(Start("Root"))
	if err := sink.Write(End("Other")); err == nil {
		t.Error("expected error for mismatched close")
	}
}

func TestSink_PassesOtherMarkup(t *testing.T) {
	src := NewSource(strings.NewReader(`<?xml version="1.0" encoding="utf-8"?><Root><!-- c --></Root>`))
	sink := NewSink()
	for {
		ev, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := sink.Write(ev); err != nil {
			t.Fatalf("write failed: %v", err)
		}
	}

	got, _ := sink.String()
	if !strings.HasPrefix(got, `<?xml version="1.0" encoding="utf-8"?>`) {
		t.Errorf("expected declaration to survive, got %s", got)
	}
	if !strings.Contains(got, "<!-- c -->") {
		t.Errorf("expected comment to survive, got %s", got)
	}
}
