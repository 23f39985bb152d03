package changelog

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFormatTerminal(t *testing.T) {
	tests := map[string]struct {
		entries     []Entry
		opts        FormatOptions
		contains    []string
		notContains []string
	}{
		"single entry plain": {
			entries: []Entry{
				{Version: "v1.0.0", Date: "2026-01-15", Notes: "* initial release"},
			},
			opts: FormatOptions{Plain: true},
			contains: []string{
				"v1.0.0 (2026-01-15)",
				"  * initial release",
			},
			notContains: []string{},
		},
		"entry without date omits parens": {
			entries: []Entry{
				{Version: "v1.0.0", Date: "", Notes: "* note"},
			},
			opts: FormatOptions{Plain: true},
			contains: []string{
				"v1.0.0\n",
			},
			notContains: []string{
				"()",
			},
		},
		"multiple entries keep order": {
			entries: []Entry{
				{Version: "v1.1.0", Date: "2026-01-16", Notes: "* newer"},
				{Version: "v1.0.0", Date: "2026-01-15", Notes: "* older"},
			},
			opts: FormatOptions{Plain: true},
			contains: []string{
				"v1.1.0 (2026-01-16)",
				"v1.0.0 (2026-01-15)",
				"  * newer",
				"  * older",
			},
			notContains: []string{},
		},
		"multi line notes all indented": {
			entries: []Entry{
				{Version: "v2.0.0", Date: "2026-02-01", Notes: "* FIX: bug A\n* FIX: bug B"},
			},
			opts: FormatOptions{Plain: true},
			contains: []string{
				"  * FIX: bug A",
				"  * FIX: bug B",
			},
			notContains: []string{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var b strings.Builder
			if err := FormatTerminal(tt.entries, &b, tt.opts); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			result := b.String()

			for _, expected := range tt.contains {
				if !strings.Contains(result, expected) {
					t.Errorf("expected output to contain %q, got:\n%s", expected, result)
				}
			}

			for _, notExpected := range tt.notContains {
				if strings.Contains(result, notExpected) {
					t.Errorf("expected output NOT to contain %q, got:\n%s", notExpected, result)
				}
			}
		})
	}
}

func TestFormatTerminal_EmptyEntries(t *testing.T) {
	var b strings.Builder
	if err := FormatTerminal(nil, &b, FormatOptions{Plain: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Len() != 0 {
		t.Errorf("expected no output for empty entries, got:\n%s", b.String())
	}
}

func TestFormatTerminal_SeparatorBetweenEntries(t *testing.T) {
	entries := []Entry{
		{Version: "v1.1.0", Date: "2026-01-16", Notes: "* newer"},
		{Version: "v1.0.0", Date: "2026-01-15", Notes: "* older"},
	}

	var b strings.Builder
	if err := FormatTerminal(entries, &b, FormatOptions{Plain: true, MaxWidth: 80}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "v1.1.0 (2026-01-16)\n  * newer\n\nv1.0.0 (2026-01-15)\n  * older\n"
	if b.String() != want {
		t.Errorf("output mismatch:\ngot:\n%q\nwant:\n%q", b.String(), want)
	}
}

func TestFormatTerminal_Idempotent(t *testing.T) {
	entries := []Entry{
		{Version: "v1.0.0", Date: "2026-01-15", Notes: "* note one\n* note two"},
	}
	opts := FormatOptions{Plain: true, MaxWidth: 80}

	var first, second strings.Builder
	if err := FormatTerminal(entries, &first, opts); err != nil {
		t.Fatalf("first format failed: %v", err)
	}
	if err := FormatTerminal(entries, &second, opts); err != nil {
		t.Fatalf("second format failed: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("idempotency check failed:\nFirst:\n%s\nSecond:\n%s", first.String(), second.String())
	}
}

func TestFormatYAML(t *testing.T) {
	entries := []Entry{
		{Version: "v1.1.0", Date: "2026-01-16", Notes: "* newer"},
		{Version: "v1.0.0", Date: "2026-01-15", Notes: "* older"},
	}

	var b strings.Builder
	if err := FormatYAML(entries, &b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := b.String()
	if !strings.Contains(result, "version: v1.1.0") {
		t.Errorf("expected output to contain version, got:\n%s", result)
	}

	// Output must survive a round-trip
	var parsed []Entry
	if err := yaml.Unmarshal([]byte(result), &parsed); err != nil {
		t.Fatalf("output is not valid YAML: %v\nContent:\n%s", err, result)
	}
	if len(parsed) != 2 {
		t.Fatalf("expected 2 entries after round-trip, got %d", len(parsed))
	}
	if parsed[0].Version != "v1.1.0" || parsed[0].Notes != "* newer" {
		t.Errorf("first entry not preserved: %+v", parsed[0])
	}
	if parsed[1].Version != "v1.0.0" || parsed[1].Date != "2026-01-15" {
		t.Errorf("second entry not preserved: %+v", parsed[1])
	}
}

func TestWrapText(t *testing.T) {
	tests := map[string]struct {
		text     string
		maxWidth int
		indent   string
		want     string
	}{
		"short text unchanged": {
			text:     "short line",
			maxWidth: 80,
			indent:   "    ",
			want:     "short line",
		},
		"zero width unchanged": {
			text:     "anything at all",
			maxWidth: 0,
			indent:   "    ",
			want:     "anything at all",
		},
		"wraps at spaces": {
			text:     "aaa bbb ccc ddd",
			maxWidth: 7,
			indent:   "    ",
			want:     "aaa\n    bbb\n    ccc ddd",
		},
		"no space forces hard break": {
			text:     "aaaaaaaaaa",
			maxWidth: 4,
			indent:   "  ",
			want:     "aaaa\n  aaaa\n  aa",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := wrapText(tt.text, tt.maxWidth, tt.indent)
			if got != tt.want {
				t.Errorf("wrapText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveWidth(t *testing.T) {
	if got := resolveWidth(120); got != 120 {
		t.Errorf("explicit width: got %d, want 120", got)
	}
	if got := resolveWidth(0); got <= 0 {
		t.Errorf("auto width must be positive, got %d", got)
	}
}
