package character

import (
	"fmt"

	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

// CurrentLocation pins a character to one location on one map scale.
type CurrentLocation struct {
	MapLevel   worldmap.MapLevel `json:"map_level"`
	LocationID string            `json:"location_id"`
}

// LocationHistoryEntry is one stay at a location. An entry with no departure
// chapter is the character's current stay; at most one entry per character is
// open at a time.
type LocationHistoryEntry struct {
	LocationID        string   `json:"location_id"`
	ArrivalChapter    int      `json:"arrival_chapter"`
	DepartureChapter  *int     `json:"departure_chapter,omitempty"`
	SignificantEvents []string `json:"significant_events,omitempty"`
}

// CharacterLocation tracks one character's current location and ordered visit
// history. Records are created lazily on first movement and updated
// monotonically by chapter number.
type CharacterLocation struct {
	CharacterID     string                 `json:"character_id"`
	CurrentLocation CurrentLocation        `json:"current_location"`
	LocationHistory []LocationHistoryEntry `json:"location_history"`
}

// NewCharacterLocation starts tracking a character at a location.
func NewCharacterLocation(characterID string, level worldmap.MapLevel, locationID string, chapter int) *CharacterLocation {
	return &CharacterLocation{
		CharacterID:     characterID,
		CurrentLocation: CurrentLocation{MapLevel: level, LocationID: locationID},
		LocationHistory: []LocationHistoryEntry{
			{LocationID: locationID, ArrivalChapter: chapter},
		},
	}
}

// Update moves the character to a new location as of the given chapter: the
// open history entry is closed and a new one appended. Updating to the
// current location is a bookkeeping no-op. Chapter numbers must not go
// backwards relative to the last arrival.
func (c *CharacterLocation) Update(level worldmap.MapLevel, locationID string, chapter int) error {
	if locationID == c.CurrentLocation.LocationID && level == c.CurrentLocation.MapLevel {
		return nil
	}

	if n := len(c.LocationHistory); n > 0 {
		last := &c.LocationHistory[n-1]
		if chapter < last.ArrivalChapter {
			return fmt.Errorf("chapter %d is before the last arrival at chapter %d", chapter, last.ArrivalChapter)
		}
		if last.DepartureChapter == nil {
			ch := chapter
			last.DepartureChapter = &ch
		}
	}

	c.LocationHistory = append(c.LocationHistory, LocationHistoryEntry{
		LocationID:     locationID,
		ArrivalChapter: chapter,
	})
	c.CurrentLocation = CurrentLocation{MapLevel: level, LocationID: locationID}
	return nil
}

// RecordEvent attaches a significant event to the character's current stay.
func (c *CharacterLocation) RecordEvent(event string) {
	if n := len(c.LocationHistory); n > 0 {
		entry := &c.LocationHistory[n-1]
		entry.SignificantEvents = append(entry.SignificantEvents, event)
	}
}

// Tracker maintains the per-character location records for one project.
type Tracker struct {
	Records map[string]*CharacterLocation `json:"records"`
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{Records: make(map[string]*CharacterLocation)}
}

// Get returns the record for a character, or nil if the character has not
// moved yet.
func (t *Tracker) Get(characterID string) *CharacterLocation {
	return t.Records[characterID]
}

// Update applies a validated move, creating the character's record on first
// movement.
func (t *Tracker) Update(characterID string, level worldmap.MapLevel, locationID string, chapter int) (*CharacterLocation, error) {
	if t.Records == nil {
		t.Records = make(map[string]*CharacterLocation)
	}
	record, ok := t.Records[characterID]
	if !ok {
		record = NewCharacterLocation(characterID, level, locationID, chapter)
		t.Records[characterID] = record
		return record, nil
	}
	if err := record.Update(level, locationID, chapter); err != nil {
		return nil, err
	}
	return record, nil
}
