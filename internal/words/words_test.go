package words

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tomz197/typesurvivors/internal/object"
)

func TestStripExt(t *testing.T) {
	tests := []struct{ in, want string }{
		{"KEKW.png", "KEKW"},
		{"catJAM.gif", "catJAM"},
		{"noext", "noext"},
		{"dots.in.name.webp", "dots.in.name"},
		{"trailing.", "trailing."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := StripExt(tt.in); got != tt.want {
			t.Errorf("StripExt(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
- KEKW.png
- "  "
- {word: catKISS, asset: catKiss.gif}
- asset: PogChamp.png
- KEKW.png
`)
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []object.Word{
		{Text: "KEKW", Asset: "KEKW.png"},
		{Text: "catKISS", Asset: "catKiss.gif"},
		{Text: "PogChamp", Asset: "PogChamp.png"},
		{Text: "KEKW", Asset: "KEKW.png"},
	}
	if len(got) != len(want) {
		t.Fatalf("Parse = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestParseJSON(t *testing.T) {
	got, err := Parse([]byte(`["KEKW.png", "LUL.webp"]`))
	if err != nil || len(got) != 2 || got[1].Text != "LUL" {
		t.Fatalf("Parse JSON = %+v, %v", got, err)
	}
}

func TestParseErrors(t *testing.T) {
	for _, data := range []string{"", "[]", "- ''\n", "- [a, b]\n", "word: KEKW\n"} {
		if _, err := Parse([]byte(data)); err == nil {
			t.Errorf("Parse(%q) succeeded", data)
		}
	}
	if _, err := Parse([]byte("[]")); !errors.Is(err, ErrEmpty) {
		t.Errorf("Parse([]) error = %v, want ErrEmpty", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.yaml")
	if err := os.WriteFile(path, []byte("- KEKW.png\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := LoadOrDefault(path)
	if err != nil || len(got) != 1 {
		t.Fatalf("LoadOrDefault = %+v, %v", got, err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}

func TestDefaultCoversEveryTier(t *testing.T) {
	pool := object.NewWordPool(Default(), object.DefaultTierCutoffs())
	for tier := object.Tier1; tier <= object.Tier3; tier++ {
		if pool.TierLen(tier) == 0 {
			t.Errorf("default word list has no tier %d words", tier)
		}
	}
}
