package transcript

import (
	"sort"
	"strconv"

	"github.com/google/uuid"
)

// entryNamespace scopes the name-based IDs of transcript entries.
var entryNamespace = uuid.MustParse("6b1d3c0e-52f4-4a57-9a0e-4f2f7d1c9e21")

// Entry is one attributed phrase. Entries are immutable once built.
type Entry struct {
	ID          string  `json:"id"`
	Index       int     `json:"index"`
	Text        string  `json:"text"`
	Start       float64 `json:"start"` // seconds
	StartMillis int64   `json:"start_ms"`
	Speaker     string  `json:"speaker"`
}

// Transcript is the flat, time ordered sequence built from a Dataset.
type Transcript struct {
	entries []Entry
	byID    map[string]int
	pause   int64
}

// Build flattens the dataset and sorts it by start time.
// Entries sharing a start time keep their source order.
func Build(ds Dataset) *Transcript {
	entries := make([]Entry, 0, ds.PhraseCount())
	for _, sp := range ds.Speakers {
		for _, ph := range sp.Phrases {
			entries = append(entries, Entry{
				ID:          entryID(sp.Name, ph),
				Text:        ph.Words,
				Start:       float64(ph.Time) / 1000,
				StartMillis: ph.Time,
				Speaker:     sp.Name,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartMillis < entries[j].StartMillis
	})

	t := &Transcript{
		entries: entries,
		byID:    make(map[string]int, len(entries)),
		pause:   ds.Pause,
	}
	for i := range t.entries {
		t.entries[i].Index = i
		// Duplicate phrases (same speaker, time and words) resolve to the first one
		if _, dup := t.byID[t.entries[i].ID]; !dup {
			t.byID[t.entries[i].ID] = i
		}
	}
	return t
}

func entryID(speaker string, ph Phrase) string {
	name := speaker + "\x00" + strconv.FormatInt(ph.Time, 10) + "\x00" + ph.Words
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

func (t *Transcript) Len() int { return len(t.entries) }

// PauseMillis is the inter-phrase pause declared by the dataset.
func (t *Transcript) PauseMillis() int64 { return t.pause }

// At returns the entry at index i.
func (t *Transcript) At(i int) (Entry, bool) {
	if i < 0 || i >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Entries returns a copy of the sequence.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// IndexOf resolves an entry ID to its position.
func (t *Transcript) IndexOf(id string) (int, bool) {
	i, ok := t.byID[id]
	return i, ok
}

// ActiveAt returns the last entry whose start does not exceed position (seconds).
// It reports false when position precedes the first entry.
func (t *Transcript) ActiveAt(position float64) (Entry, bool) {
	// first index whose start is strictly after position
	i := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Start > position
	})
	if i == 0 {
		return Entry{}, false
	}
	return t.entries[i-1], true
}

// Speakers lists speaker names in order of first appearance in the sequence.
func (t *Transcript) Speakers() []string {
	seen := make(map[string]bool)
	var names []string
	for _, e := range t.entries {
		if !seen[e.Speaker] {
			seen[e.Speaker] = true
			names = append(names, e.Speaker)
		}
	}
	return names
}
