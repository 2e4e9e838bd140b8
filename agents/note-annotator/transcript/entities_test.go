package transcript

import "testing"

func TestDecodeEntities(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Named entities",
			input: "Tom &amp; Jerry &lt;3 &quot;cartoons&quot;",
			want:  `Tom & Jerry <3 "cartoons"`,
		},
		{
			name:  "Apostrophe variants",
			input: "it&#39;s, it&apos;s, it&#x27;s",
			want:  "it's, it's, it's",
		},
		{
			name:  "Non-breaking space",
			input: "a&nbsp;b",
			want:  "a b",
		},
		{
			name:  "Decimal numeric reference",
			input: "&#50504;&#45397;",
			want:  "안녕",
		},
		{
			name:  "Hexadecimal numeric reference",
			input: "&#xC548;&#xB155;",
			want:  "안녕",
		},
		{
			name:  "Uppercase hex marker",
			input: "&#X27;",
			want:  "'",
		},
		{
			name:  "Malformed reference left alone",
			input: "&#zz; &unknown; &#;",
			want:  "&#zz; &unknown; &#;",
		},
		{
			name:  "Double-encoded apostrophe resolves through",
			input: "it&amp;#39;s",
			want:  "it's",
		},
		{
			name:  "Plain text unchanged",
			input: "nothing to decode here",
			want:  "nothing to decode here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeEntities(tt.input); got != tt.want {
				t.Errorf("DecodeEntities(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Decoding already-decoded text must be a no-op, so running the decoder
// twice can never corrupt caption text.
func TestDecodeEntitiesIdempotent(t *testing.T) {
	inputs := []string{
		"plain text",
		"Tom &amp; Jerry",
		"it&#39;s &#xC548;",
	}
	for _, input := range inputs {
		once := DecodeEntities(input)
		twice := DecodeEntities(once)
		if once != twice {
			t.Errorf("DecodeEntities not idempotent on %q: first %q, second %q", input, once, twice)
		}
	}
}
