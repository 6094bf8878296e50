package fmtcli

import "testing"

func TestSuggestOption(t *testing.T) {
	schema := testSchema(t)

	cases := []struct {
		name    string
		input   string
		want    string
		matched bool
	}{
		{"close miss", "tab-widht", "tab-width", true},
		{"one letter off", "smei", "semi", true},
		{"alias match", "x", "", true}, // distance 1 to some single-letter alias
		{"nothing close", "xyz123", "help", false},
		{"exact", "print-width", "print-width", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec, matched := SuggestOption(schema, tc.input)
			if matched != tc.matched {
				t.Fatalf("matched = %t, want %t", matched, tc.matched)
			}
			if tc.want != "" && spec.Name != tc.want {
				t.Fatalf("suggestion = %q, want %q", spec.Name, tc.want)
			}
		})
	}
}

func TestSuggestOptionFirstMatchWins(t *testing.T) {
	schema, err := BuildSchema([]OptionSpec{
		{Name: "alpha", Type: OptionTypeBoolean},
		{Name: "alphb", Type: OptionTypeBoolean},
		{Name: "help", Type: OptionTypeBoolean},
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equidistant from alpha and alphb; schema order breaks the tie.
	spec, matched := SuggestOption(schema, "alphc")
	if !matched {
		t.Fatalf("expected a match")
	}
	if spec.Name != "alpha" {
		t.Fatalf("first match in schema order should win, got %q", spec.Name)
	}
}
