package transcript

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Phrase is one timed utterance of a speaker. Time is in milliseconds.
type Phrase struct {
	Words string `yaml:"words" json:"words"`
	Time  int64  `yaml:"time" json:"time"`
}

type Speaker struct {
	Name    string   `yaml:"name" json:"name"`
	Phrases []Phrase `yaml:"phrases" json:"phrases"`
}

// Dataset is the nested speaker/phrase source of a transcript.
type Dataset struct {
	Pause    int64     `yaml:"pause" json:"pause"`
	Speakers []Speaker `yaml:"speakers" json:"speakers"`
}

// PhraseCount returns the number of phrases across all speakers.
func (d Dataset) PhraseCount() int {
	n := 0
	for _, s := range d.Speakers {
		n += len(s.Phrases)
	}
	return n
}

// LoadDataset reads a dataset from a YAML or JSON file.
func LoadDataset(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("read transcript %s: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("parse transcript %s: %w", path, err)
	}
	return ds, nil
}

// DefaultDataset is the built-in two speaker sample.
func DefaultDataset() Dataset {
	return Dataset{
		Pause: 250,
		Speakers: []Speaker{
			{
				Name: "John",
				Phrases: []Phrase{
					{Words: "this is one phrase.", Time: 100},
					{Words: "now the second phrase.", Time: 3500},
					{Words: "end with last phrase.", Time: 7500},
				},
			},
			{
				Name: "Jack",
				Phrases: []Phrase{
					{Words: "another speaker here.", Time: 1500},
					{Words: "saying her second phrase.", Time: 5500},
					{Words: "and eventually finishing up.", Time: 9000},
				},
			},
		},
	}
}
