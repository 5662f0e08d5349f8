package screens

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// RevealThreshold is the visible fraction at which a section unlocks.
const RevealThreshold = 0.1

// LockedTitle replaces the title of a section not yet revealed.
const LockedTitle = "???"

// Section is one chapter of the story, usually a year.
type Section struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Story  string   `json:"story"`
	Photos []string `json:"photos,omitempty"`
}

// Timeline reveals sections as they scroll into view. Observe is the visibility
// callback; Toggle handles clicks, which unlock a section regardless of scroll.
type Timeline struct {
	sections []Section

	mu       sync.Mutex
	unlocked map[string]bool
	expanded map[string]bool
}

func NewTimeline(sections []Section) *Timeline {
	return &Timeline{sections: sections, unlocked: map[string]bool{}, expanded: map[string]bool{}}
}

// LoadTimeline reads a JSON array of sections.
func LoadTimeline(r io.Reader) (*Timeline, error) {
	var sections []Section
	if err := json.NewDecoder(r).Decode(&sections); err != nil {
		return nil, fmt.Errorf("decode timeline: %w", err)
	}
	return NewTimeline(sections), nil
}

func LoadTimelineFile(path string) (*Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadTimeline(f)
}

func (t *Timeline) Sections() []Section { return t.sections }

// Observe reports that ratio of section id is visible. It returns true when this
// call unlocked the section. Sections never lock again.
func (t *Timeline) Observe(id string, ratio float64) bool {
	if ratio < RevealThreshold || !t.known(id) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.unlocked[id] {
		return false
	}
	t.unlocked[id] = true
	return true
}

// Toggle unlocks id and flips whether it is expanded. It returns the new expanded state.
func (t *Timeline) Toggle(id string) bool {
	if !t.known(id) {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unlocked[id] = true
	t.expanded[id] = !t.expanded[id]
	return t.expanded[id]
}

// State reports whether id is unlocked and whether its content is shown.
func (t *Timeline) State(id string) (unlocked, expanded bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unlocked[id], t.unlocked[id] && t.expanded[id]
}

// Header is the title to display for id.
func (t *Timeline) Header(id string) string {
	for _, s := range t.sections {
		if s.ID != id {
			continue
		}
		if unlocked, _ := t.State(id); unlocked {
			return s.Title
		}
		return LockedTitle
	}
	return ""
}

func (t *Timeline) known(id string) bool {
	for _, s := range t.sections {
		if s.ID == id {
			return true
		}
	}
	return false
}
