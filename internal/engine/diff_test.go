package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanMcMahon/BoardGameStar-sub000/pkg/types"
)

func TestGetClientEvents_NoChangeNoEvents(t *testing.T) {
	s := fixture()
	assert.True(t, GetClientEvents(s, s.Clone()).Empty())
}

func TestGetClientEvents_BatchesPieceChanges(t *testing.T) {
	prev := fixture()
	next := prev.Clone()
	for _, id := range []string{"pool", "area-a", "board"} {
		p := next.Pieces[id]
		p.X += 5
		p.Delta++
		next.Pieces[id] = p
	}
	next.Pieces["new"] = Piece{ID: "new", Type: PieceRect, Delta: 1}

	evs := GetClientEvents(prev, next)
	require.Len(t, evs.Room, 1)
	update, ok := evs.Room[0].(PieceUpdate)
	require.True(t, ok)
	assert.Len(t, update.Pieces, 4)
	assert.Equal(t, next.Pieces["pool"], update.Pieces["pool"], "current value, not a delta")
}

func TestGetClientEvents_RemovedPieceBecomesTombstone(t *testing.T) {
	prev := fixture()
	next := prev.Clone()
	delete(next.Pieces, "pool")

	update := roomUpdates(GetClientEvents(prev, next))
	require.Len(t, update, 1)
	gone := update[0].Pieces["pool"]
	assert.True(t, gone.IsDeleted())
	assert.Equal(t, prev.Pieces["pool"].Delta+1, gone.Delta)
}

func TestGetClientEvents_BoardReorderSendsFullBoard(t *testing.T) {
	prev := fixture()
	next := prev.Clone()
	next.Board[0], next.Board[1] = next.Board[1], next.Board[0]

	evs := GetClientEvents(prev, next)
	require.Len(t, evs.Room, 1)
	assert.Equal(t, SetBoard{Board: next.Board}, evs.Room[0])
}

func TestGetClientEvents_PrivateEventsStayPrivate(t *testing.T) {
	prev := fixture()
	next := prev.Clone()
	next.Hands["bob"] = []string{"2"}
	next.Dice["alice"] = []string{"x"}

	evs := GetClientEvents(prev, next)
	assert.Equal(t, []GameEvent{SetHand{Hand: []string{"2"}}}, evs.Players["bob"])
	assert.Equal(t, []GameEvent{SetDice{DiceIDs: []string{"x"}}}, evs.Players["alice"])
	assert.True(t, ContainsEvent(evs.Room, types.EventHandCount))
	assert.True(t, ContainsEvent(evs.Room, types.EventDiceCounts))
	assert.False(t, ContainsEvent(evs.Room, types.EventSetHand))
}
