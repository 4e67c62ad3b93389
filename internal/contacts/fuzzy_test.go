package contacts

import (
	"testing"
)

func testDirectory(entries ...[2]string) *Directory {
	dir := NewDirectory()
	for _, e := range entries {
		dir.Add(e[0], []string{e[1]})
	}
	return dir
}

func TestResolveJonSmithForms(t *testing.T) {
	dir := testDirectory(
		[2]string{"Jon Smith", "+1 (555) 010-2030"},
		[2]string{"Mary Jones", "+1 (555) 999-0000"},
	)

	queries := []string{"jon", "Jon", "jonn", "Jonnn", "smith", "Smith", "JonSmith", "jon smith"}
	for _, q := range queries {
		if got := Resolve(q, dir); got != "Jon Smith" {
			t.Errorf("Resolve(%q) = %q, want %q", q, got, "Jon Smith")
		}
	}
}

func TestResolveWordBoundaryBlocksSubstrings(t *testing.T) {
	dir := testDirectory([2]string{"Trinidad Herrera", "+1 555 222 3333"})

	if got := Resolve("dad", dir); got != "" {
		t.Errorf("Resolve(%q) = %q, want empty", "dad", got)
	}
}

func TestResolveReverseWordBoundary(t *testing.T) {
	// Single-token nickname entries should be found inside a longer query.
	dir := testDirectory([2]string{"Dad", "+1 555 444 5555"})

	if got := Resolve("call dad today", dir); got != "Dad" {
		t.Errorf("Resolve(%q) = %q, want %q", "call dad today", got, "Dad")
	}
}

func TestResolveEmojiStripped(t *testing.T) {
	dir := testDirectory([2]string{"Jon Smith ⭐", "+1 555 010 2030"})

	if got := Resolve("jon smith", dir); got != "Jon Smith ⭐" {
		t.Errorf("Resolve(%q) = %q, want emoji entry matched", "jon smith", got)
	}
}

func TestResolveTieBreaksBySnapshotOrder(t *testing.T) {
	dir := testDirectory(
		[2]string{"Jon Appleseed", "+1 555 111 1111"},
		[2]string{"Jon Baker", "+1 555 222 2222"},
	)

	if got := Resolve("jon", dir); got != "Jon Appleseed" {
		t.Errorf("Resolve(%q) = %q, want first snapshot entry", "jon", got)
	}
}

func TestResolveEmptyQuery(t *testing.T) {
	dir := testDirectory([2]string{"Jon Smith", "+1 555 010 2030"})

	if got := Resolve("  ", dir); got != "" {
		t.Errorf("Resolve(blank) = %q, want empty", got)
	}
}

func TestResolveNumberRankedRules(t *testing.T) {
	dir := NewDirectory()
	dir.Add("Jon Smith", []string{"+1 (555) 010-2030"})
	dir.Add("Mary Jones", []string{"5550102030"}) // same national number, no prefix
	dir.Add("Short Code", []string{"86753"})

	tests := []struct {
		number string
		want   string
	}{
		// Rank 1: exact digits beat suffix matches, so Jon wins for the full form.
		{"+15550102030", "Jon Smith"},
		// Rank 1 again: bare national form is exactly Mary's stored digits.
		{"5550102030", "Mary Jones"},
		// Rank 2: different prefix, same 10-digit suffix.
		{"00445550102030", "Jon Smith"},
		// Rank 1: short codes stored verbatim.
		{"86753", "Short Code"},
		// Rank 3: containment when the query carries extra digits.
		{"486753", "Short Code"},
		{"missing", ""},
		{"+1999", ""},
	}
	for _, tc := range tests {
		if got := ResolveNumber(tc.number, dir); got != tc.want {
			t.Errorf("ResolveNumber(%q) = %q, want %q", tc.number, got, tc.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  Jon   Smith ", "jon smith"},
		{"Mom ❤️", "mom"},
		{"UPPER", "upper"},
	}
	for _, tc := range tests {
		if got := normalize(tc.in); got != tc.want {
			t.Errorf("normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFoldRuns(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jonnn", "jon"},
		{"jon", "jon"},
		{"aabbcc", "abc"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := foldRuns(tc.in); got != tc.want {
			t.Errorf("foldRuns(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
