package transcript

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildSortsByStart(t *testing.T) {
	tr := Build(DefaultDataset())

	want := []struct {
		speaker string
		start   float64
	}{
		{"John", 0.1},
		{"Jack", 1.5},
		{"John", 3.5},
		{"Jack", 5.5},
		{"John", 7.5},
		{"Jack", 9.0},
	}

	if tr.Len() != DefaultDataset().PhraseCount() {
		t.Fatalf("Len() = %d, want %d", tr.Len(), DefaultDataset().PhraseCount())
	}

	for i, w := range want {
		e, ok := tr.At(i)
		if !ok {
			t.Fatalf("missing entry %d", i)
		}
		if e.Speaker != w.speaker || e.Start != w.start {
			t.Errorf("entry %d = %s@%.1f, want %s@%.1f", i, e.Speaker, e.Start, w.speaker, w.start)
		}
		if e.Index != i {
			t.Errorf("entry %d has Index %d", i, e.Index)
		}
	}

	entries := tr.Entries()
	for i := 1; i < len(entries); i++ {
		if entries[i].Start < entries[i-1].Start {
			t.Fatalf("not sorted at %d: %.3f < %.3f", i, entries[i].Start, entries[i-1].Start)
		}
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build(DefaultDataset()).Entries()
	b := Build(DefaultDataset()).Entries()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("entry %d differs between builds: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestBuildKeepsSourceOrderOnTies(t *testing.T) {
	ds := Dataset{Speakers: []Speaker{
		{Name: "A", Phrases: []Phrase{{Words: "a1", Time: 1000}}},
		{Name: "B", Phrases: []Phrase{{Words: "b1", Time: 1000}, {Words: "b0", Time: 0}}},
	}}
	tr := Build(ds)

	got := []string{}
	for _, e := range tr.Entries() {
		got = append(got, e.Text)
	}
	want := []string{"b0", "a1", "b1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestActiveAt(t *testing.T) {
	tr := Build(DefaultDataset())

	tests := []struct {
		name     string
		position float64
		wantOK   bool
		wantText string
	}{
		{"Before first entry", 0.05, false, ""},
		{"At zero", 0, false, ""},
		{"Exact first start", 0.1, true, "this is one phrase."},
		{"Between first and second", 1.0, true, "this is one phrase."},
		{"Scenario position 2.0", 2.0, true, "another speaker here."},
		{"Exact boundary switches", 3.5, true, "now the second phrase."},
		{"Last entry", 9.0, true, "and eventually finishing up."},
		{"Past last entry", 120, true, "and eventually finishing up."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.ActiveAt(tt.position)
			if ok != tt.wantOK {
				t.Fatalf("ActiveAt(%v) ok = %v, want %v", tt.position, ok, tt.wantOK)
			}
			if ok && got.Text != tt.wantText {
				t.Errorf("ActiveAt(%v) = %q, want %q", tt.position, got.Text, tt.wantText)
			}
		})
	}
}

// The binary search must agree with the plain predicate scan for every position.
func TestActiveAtMatchesLinearScan(t *testing.T) {
	tr := Build(DefaultDataset())
	entries := tr.Entries()

	linear := func(p float64) (Entry, bool) {
		for i, e := range entries {
			if e.Start <= p && (i == len(entries)-1 || entries[i+1].Start > p) {
				return e, true
			}
		}
		return Entry{}, false
	}

	for ms := int64(0); ms <= 12000; ms += 50 {
		p := float64(ms) / 1000
		want, wantOK := linear(p)
		got, ok := tr.ActiveAt(p)
		if ok != wantOK || got.ID != want.ID {
			t.Fatalf("position %.2f: got (%q,%v), want (%q,%v)", p, got.Text, ok, want.Text, wantOK)
		}
	}
}

func TestActiveAtEmpty(t *testing.T) {
	tr := Build(Dataset{})
	if _, ok := tr.ActiveAt(5); ok {
		t.Error("empty transcript should have no active entry")
	}
}

func TestIndexOf(t *testing.T) {
	tr := Build(DefaultDataset())
	for _, e := range tr.Entries() {
		i, ok := tr.IndexOf(e.ID)
		if !ok || i != e.Index {
			t.Errorf("IndexOf(%s) = %d,%v want %d", e.Text, i, ok, e.Index)
		}
	}
	if _, ok := tr.IndexOf("missing"); ok {
		t.Error("unknown ID should not resolve")
	}
}

func TestSpeakersOrder(t *testing.T) {
	got := Build(DefaultDataset()).Speakers()
	if len(got) != 2 || got[0] != "John" || got[1] != "Jack" {
		t.Errorf("Speakers() = %v", got)
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "talk.yaml")
	yamlContent := `
pause: 300
speakers:
  - name: "Ana"
    phrases:
      - words: "hello there."
        time: 200
  - name: "Bo"
    phrases:
      - words: "hi."
        time: 100
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err := LoadDataset(yamlPath)
	if err != nil {
		t.Fatalf("LoadDataset yaml: %v", err)
	}
	if ds.Pause != 300 || ds.PhraseCount() != 2 {
		t.Errorf("unexpected dataset: %+v", ds)
	}

	jsonPath := filepath.Join(dir, "talk.json")
	jsonContent := `{"pause": 250, "speakers": [{"name": "Ana", "phrases": [{"words": "one", "time": 100}]}]}`
	if err := os.WriteFile(jsonPath, []byte(jsonContent), 0o644); err != nil {
		t.Fatal(err)
	}

	ds, err = LoadDataset(jsonPath)
	if err != nil {
		t.Fatalf("LoadDataset json: %v", err)
	}
	if len(ds.Speakers) != 1 || ds.Speakers[0].Phrases[0].Time != 100 {
		t.Errorf("unexpected dataset: %+v", ds)
	}

	if _, err := LoadDataset(filepath.Join(dir, "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
