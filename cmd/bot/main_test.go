package main

import "testing"

func TestDocumentKind(t *testing.T) {
	cases := []struct {
		mimeType string
		want     string
	}{
		{"image/jpeg", documentImage},
		{"image/heic", documentImage},
		{"video/mp4", documentVideo},
		{"video/quicktime", documentVideo},
		{"application/pdf", ""},
		{"audio/ogg", ""},
		{"", ""},
	}
	for _, c := range cases {
		if got := documentKind(c.mimeType); got != c.want {
			t.Errorf("documentKind(%q) = %q, ожидалось %q", c.mimeType, got, c.want)
		}
	}
}
