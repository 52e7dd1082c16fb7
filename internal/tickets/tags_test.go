package tickets

import (
	"reflect"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"nil", nil, []string{}},
		{"trims and drops empty", []string{" a ", "", "  ", "b"}, []string{"a", "b"}},
		{"dedupes keeping first", []string{"b", "a", "b"}, []string{"b", "a"}},
		{"splits embedded commas", []string{"a,b", "c"}, []string{"a", "b", "c"}},
		{"lower-cases before deduping", []string{"Bug", "bug", " API "}, []string{"bug", "api"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	got := ParseTags(" bug, ,auth,bug ")
	want := []string{"bug", "auth"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ParseTags = %q, want %q", got, want)
	}
	if JoinTags(got) != "bug,auth" {
		t.Errorf("JoinTags = %q", JoinTags(got))
	}
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{}},
		{"[]", []string{}},
		{`["a","b"]`, []string{"a", "b"}},
		{"a,b", []string{"a", "b"}},
		{"[broken", []string{"[broken"}},
	}
	for _, tt := range tests {
		got := decodeTags(tt.raw)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("decodeTags(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
	if enc := encodeTags([]string{"x", "x", " y"}); enc != `["x","y"]` {
		t.Errorf("encodeTags = %s", enc)
	}
	if enc := encodeTags(nil); enc != "[]" {
		t.Errorf("encodeTags(nil) = %s, want []", enc)
	}
}
