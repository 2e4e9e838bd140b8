package transcript

import "testing"

func TestParseTimedTextXML(t *testing.T) {
	payload := `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.0" dur="1.5">Hello &amp; welcome</text>
<text dur="2.0" start="1.5">second line</text>
<text start="notanumber" dur="1.0">skipped, bad start</text>
<text dur="1.0">skipped, no start</text>
<text start="3.5" dur="bogus">skipped, bad dur</text>
<text start="3.5">kept, no dur</text>
<text start="5.0" dur="2.5">it&#39;s the end</text>
</transcript>`

	segments := ParseTimedText(payload)
	if len(segments) != 4 {
		t.Fatalf("ParseTimedText returned %d segments, want 4", len(segments))
	}

	if segments[0].Text != "Hello & welcome" || segments[0].Start != 0.0 || segments[0].Duration != 1.5 {
		t.Errorf("segment 0 = %+v, want decoded text at 0.0/1.5", segments[0])
	}
	// Attribute order must not matter.
	if segments[1].Text != "second line" || segments[1].Start != 1.5 {
		t.Errorf("segment 1 = %+v, want start 1.5", segments[1])
	}
	// Missing dur defaults to zero.
	if segments[2].Text != "kept, no dur" || segments[2].Duration != 0 {
		t.Errorf("segment 2 = %+v, want zero duration", segments[2])
	}
	if segments[3].Text != "it's the end" || segments[3].Start != 5.0 {
		t.Errorf("segment 3 = %+v, want decoded apostrophe at 5.0", segments[3])
	}
}

func TestParseTimedTextJSON3(t *testing.T) {
	payload := `{"events":[
		{"tStartMs":0,"dDurationMs":1500,"segs":[{"utf8":"Hello "},{"utf8":"world"}]},
		{"tStartMs":1500,"dDurationMs":2000},
		{"tStartMs":3500,"dDurationMs":1000,"segs":[{"utf8":"\n"}]},
		{"tStartMs":4500,"dDurationMs":2500,"segs":[{"utf8":"goodbye"}]}
	]}`

	segments := ParseTimedText(payload)
	if len(segments) != 2 {
		t.Fatalf("ParseTimedText returned %d segments, want 2", len(segments))
	}
	if segments[0].Text != "Hello world" || segments[0].Start != 0 || segments[0].Duration != 1.5 {
		t.Errorf("segment 0 = %+v, want joined segs at 0/1.5", segments[0])
	}
	if segments[1].Text != "goodbye" || segments[1].Start != 4.5 {
		t.Errorf("segment 1 = %+v, want start 4.5", segments[1])
	}
}

func TestParseTimedTextOrder(t *testing.T) {
	payload := `<text start="0" dur="1">one</text><text start="1" dur="1">two</text><text start="2" dur="1">three</text>`
	segments := ParseTimedText(payload)
	if len(segments) != 3 {
		t.Fatalf("got %d segments, want 3", len(segments))
	}
	for i, want := range []string{"one", "two", "three"} {
		if segments[i].Text != want {
			t.Errorf("segment %d = %q, want %q (source order must be preserved)", i, segments[i].Text, want)
		}
	}
}

func TestParseTimedTextEmpty(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "Empty string", payload: ""},
		{name: "Whitespace", payload: "  \n "},
		{name: "No recognizable markup", payload: "<html><body>nothing here</body></html>"},
		{name: "Only malformed elements", payload: `<text start="x" dur="y">bad</text>`},
		{name: "Invalid JSON object", payload: `{"events": broken`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if segments := ParseTimedText(tt.payload); len(segments) != 0 {
				t.Errorf("ParseTimedText(%q) = %d segments, want 0", tt.payload, len(segments))
			}
		})
	}
}
