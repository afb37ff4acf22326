package transcript

import (
	"fmt"
	"math"
	"strings"
)

// FormatTime renders seconds as M:SS.
func FormatTime(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	minutes := int(seconds / 60)
	secs := int(math.Mod(seconds, 60))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// Progress returns position/duration clamped to [0,1]; 0 when duration is unknown.
func Progress(position, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	p := position / duration
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// SideMap assigns chat bubble sides to speakers.
type SideMap struct {
	sides   map[string]Side
	primary string
}

// NewSideMap builds the mapping from explicit configuration. Speakers not configured
// go left when they are the primary speaker and right otherwise.
// Names are matched case-insensitively.
func NewSideMap(configured map[string]string, primary string) SideMap {
	m := SideMap{sides: make(map[string]Side), primary: strings.ToLower(primary)}
	for name, side := range configured {
		switch strings.ToLower(strings.TrimSpace(side)) {
		case string(SideLeft):
			m.sides[strings.ToLower(name)] = SideLeft
		case string(SideRight):
			m.sides[strings.ToLower(name)] = SideRight
		}
	}
	return m
}

func (m SideMap) SideOf(speaker string) Side {
	key := strings.ToLower(speaker)
	if s, ok := m.sides[key]; ok {
		return s
	}
	if key == m.primary {
		return SideLeft
	}
	return SideRight
}
