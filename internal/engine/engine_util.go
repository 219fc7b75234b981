package engine

import (
	"cmp"
	"encoding/binary"
	"maps"
	"slices"
)

func NewEmptyState() GameState {
	return GameState{
		Pieces:       map[string]Piece{},
		Board:        []string{},
		Hands:        map[string][]string{},
		Shuffled:     map[string][]string{},
		Discarded:    map[string][]string{},
		Dice:         map[string][]string{},
		Chat:         []ChatMessage{},
		Peeks:        map[string]Peek{},
		Prompts:      map[string]Prompt{},
		Templates:    map[string]Piece{},
		PlayerCounts: PiecesForPlayerCounts{},
		MaxPlayers:   DefaultMaxPlayers,
	}
}

func ContainsEvent(events []GameEvent, kind string) bool {
	for _, event := range events {
		if event.Kind() == kind {
			return true
		}
	}
	return false
}

// sortedPieces orders pieces by layer, then id, so board order never depends
// on map iteration.
func sortedPieces(m map[string]Piece) []Piece {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b Piece) int {
		if c := cmp.Compare(a.Layer, b.Layer); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func removeIDs(list []string, ids []string) []string {
	return slices.DeleteFunc(slices.Clone(list), func(id string) bool {
		return slices.Contains(ids, id)
	})
}

func containsAll(list []string, ids []string) bool {
	for _, id := range ids {
		if !slices.Contains(list, id) {
			return false
		}
	}
	return true
}

func seedFor(seed, step uint64) [32]byte {
	var b [32]byte
	binary.LittleEndian.PutUint64(b[0:], seed)
	binary.LittleEndian.PutUint64(b[8:], step)
	binary.LittleEndian.PutUint64(b[16:], seed^0x9e3779b97f4a7c15)
	binary.LittleEndian.PutUint64(b[24:], step*0xbf58476d1ce4e5b9)
	return b
}
