package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmiyata/story-atlas/pkg/worldmap"
)

func TestNewCharacterLocation(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 1)

	assert.Equal(t, "akira", c.CharacterID)
	assert.Equal(t, "oukoto", c.CurrentLocation.LocationID)
	require.Len(t, c.LocationHistory, 1)
	assert.Equal(t, 1, c.LocationHistory[0].ArrivalChapter)
	assert.Nil(t, c.LocationHistory[0].DepartureChapter)
}

func TestUpdate_ClosesPreviousStay(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 3)

	require.NoError(t, c.Update(worldmap.LevelWorld, "ironhold", 7))

	require.Len(t, c.LocationHistory, 2)

	first := c.LocationHistory[0]
	require.NotNil(t, first.DepartureChapter)
	assert.Equal(t, 7, *first.DepartureChapter, "departure matches the next arrival")

	second := c.LocationHistory[1]
	assert.Equal(t, "ironhold", second.LocationID)
	assert.Equal(t, 7, second.ArrivalChapter)
	assert.Nil(t, second.DepartureChapter, "the new stay is open")

	assert.Equal(t, "ironhold", c.CurrentLocation.LocationID)
}

func TestUpdate_SameLocationIsNoOp(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 3)

	require.NoError(t, c.Update(worldmap.LevelWorld, "oukoto", 9))

	assert.Len(t, c.LocationHistory, 1)
	assert.Nil(t, c.LocationHistory[0].DepartureChapter)
}

func TestUpdate_RejectsChapterRegression(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 5)

	err := c.Update(worldmap.LevelWorld, "ironhold", 2)
	require.Error(t, err)
	assert.Len(t, c.LocationHistory, 1, "a rejected move must not change history")
	assert.Equal(t, "oukoto", c.CurrentLocation.LocationID)
}

func TestUpdate_SameChapterMoveIsAllowed(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 5)

	require.NoError(t, c.Update(worldmap.LevelWorld, "ironhold", 5))
	assert.Len(t, c.LocationHistory, 2)
}

func TestRecordEvent(t *testing.T) {
	c := NewCharacterLocation("akira", worldmap.LevelWorld, "oukoto", 1)
	c.RecordEvent("met the royal archivist")
	c.RecordEvent("stole a map")

	require.Len(t, c.LocationHistory, 1)
	assert.Equal(t, []string{"met the royal archivist", "stole a map"}, c.LocationHistory[0].SignificantEvents)
}

func TestTracker_LazyCreation(t *testing.T) {
	tracker := NewTracker()
	assert.Nil(t, tracker.Get("akira"))

	record, err := tracker.Update("akira", worldmap.LevelRegion, "market-town", 2)
	require.NoError(t, err)
	assert.Same(t, record, tracker.Get("akira"))
	assert.Equal(t, worldmap.LevelRegion, record.CurrentLocation.MapLevel)
}

func TestTracker_UpdateWithNilMap(t *testing.T) {
	// Trackers deserialized from an empty blob arrive with a nil map.
	tracker := &Tracker{}

	record, err := tracker.Update("akira", worldmap.LevelWorld, "oukoto", 1)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Same(t, record, tracker.Get("akira"))
}

func TestTracker_UpdatePropagatesErrors(t *testing.T) {
	tracker := NewTracker()
	_, err := tracker.Update("akira", worldmap.LevelWorld, "oukoto", 5)
	require.NoError(t, err)

	_, err = tracker.Update("akira", worldmap.LevelWorld, "ironhold", 1)
	assert.Error(t, err)
}
