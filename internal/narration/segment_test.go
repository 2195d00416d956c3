package narration

import "testing"

func TestSegmentBasic(t *testing.T) {
	units := Segment("Sentence one. Sentence two. Sentence three.", 1)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	want := []string{"Sentence one.", "Sentence two.", "Sentence three."}
	for i, u := range units {
		if u.Text != want[i] {
			t.Fatalf("unit %d: got %q want %q", i, u.Text, want[i])
		}
		if u.Sequence != i {
			t.Fatalf("unit %d: sequence %d", i, u.Sequence)
		}
	}
}

func TestSegmentKeepsAbbreviationRuns(t *testing.T) {
	units := Segment("Wait... really?! Yes.", 1)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d: %v", len(units), units)
	}
	if units[0].Text != "Wait..." {
		t.Fatalf("unexpected first unit: %q", units[0].Text)
	}
	if units[1].Text != "really?!" {
		t.Fatalf("unexpected second unit: %q", units[1].Text)
	}
}

func TestSegmentDropsShortFragments(t *testing.T) {
	units := Segment("Ok. This sentence has plenty of words in it.", 5)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit after min-words filtering, got %d", len(units))
	}
	if units[0].Sequence != 0 {
		t.Fatalf("sequence must be renumbered after filtering, got %d", units[0].Sequence)
	}
}

func TestSegmentKeepsTrailingFragment(t *testing.T) {
	units := Segment("Complete sentence. trailing fragment without period", 1)
	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(units))
	}
	if units[1].Text != "trailing fragment without period" {
		t.Fatalf("unexpected trailing unit: %q", units[1].Text)
	}
}

func TestSegmentEmpty(t *testing.T) {
	if units := Segment("   ", 1); len(units) != 0 {
		t.Fatalf("expected no units, got %d", len(units))
	}
}

func TestText(t *testing.T) {
	units := Segment("A one. B two. C three.", 1)
	if got := Text(units, 1); got != "B two. C three." {
		t.Fatalf("unexpected remaining text: %q", got)
	}
	if got := Text(units, 3); got != "" {
		t.Fatalf("expected empty remaining text, got %q", got)
	}
}
