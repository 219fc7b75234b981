package engine

import (
	"maps"
	"slices"
)

// ClientEvents is what one reducer step produces for the wire: events for
// every connected peer and events for individual players.
type ClientEvents struct {
	Room    []GameEvent
	Players map[string][]GameEvent
}

// Empty reports whether the step produced nothing to send.
func (c ClientEvents) Empty() bool {
	return len(c.Room) == 0 && len(c.Players) == 0
}

func (c *ClientEvents) toPlayer(playerID string, ev GameEvent) {
	if c.Players == nil {
		c.Players = map[string][]GameEvent{}
	}
	c.Players[playerID] = append(c.Players[playerID], ev)
}

// GetClientEvents diffs two states. All piece changes go out as a single
// update_piece carrying current values, and the board as one full
// set_board_event. Nothing is emitted for a change that did not happen.
func GetClientEvents(prev, next GameState) ClientEvents {
	var out ClientEvents

	if changed := changedPieces(prev.Pieces, next.Pieces); len(changed) > 0 {
		out.Room = append(out.Room, PieceUpdate{Pieces: changed})
	}
	if !slices.Equal(prev.Board, next.Board) {
		out.Room = append(out.Room, SetBoard{Board: slices.Clone(next.Board)})
	}
	if len(next.Chat) > len(prev.Chat) {
		for _, msg := range next.Chat[len(prev.Chat):] {
			out.Room = append(out.Room, msg)
		}
	}

	hands := changedPiles(prev.Hands, next.Hands)
	for _, playerID := range hands {
		out.toPlayer(playerID, SetHand{Hand: slices.Clone(next.Hands[playerID])})
	}
	if len(hands) > 0 {
		out.Room = append(out.Room, HandCount{Counts: pileCounts(next.Hands)})
	}

	dice := changedPiles(prev.Dice, next.Dice)
	for _, playerID := range dice {
		out.toPlayer(playerID, SetDice{DiceIDs: slices.Clone(next.Dice[playerID])})
	}
	if len(dice) > 0 {
		out.Room = append(out.Room, DiceCounts{Counts: pileCounts(next.Dice)})
	}

	for _, playerID := range slices.Sorted(maps.Keys(next.Peeks)) {
		peek := next.Peeks[playerID]
		if prev.Peeks[playerID].Seq == peek.Seq {
			continue
		}
		out.toPlayer(playerID, DeckPeekResults{DeckID: peek.DeckID, CardIDs: slices.Clone(peek.CardIDs)})
	}

	for _, id := range slices.Sorted(maps.Keys(next.Prompts)) {
		p := next.Prompts[id]
		old, existed := prev.Prompts[id]
		if !existed {
			for _, playerID := range p.PlayerIDs {
				out.toPlayer(playerID, PromptRequest{Prompt: p.clone()})
			}
		}
		if p.Complete && !old.Complete {
			out.Room = append(out.Room, PromptResults{Prompt: p.clone()})
		}
	}
	return out
}

// changedPieces returns the current value of every added or updated piece.
// A piece missing from next is reported as a tombstone so receivers drop it.
func changedPieces(prev, next map[string]Piece) map[string]Piece {
	out := map[string]Piece{}
	for id, p := range next {
		if old, ok := prev[id]; !ok || !old.Equal(p) {
			out[id] = p.clone()
		}
	}
	for id, old := range prev {
		if _, ok := next[id]; !ok {
			out[id] = Piece{ID: id, Type: PieceDeleted, Delta: old.Delta + 1}
		}
	}
	return out
}

func changedPiles(prev, next map[string][]string) []string {
	var out []string
	for _, id := range slices.Sorted(maps.Keys(next)) {
		if !slices.Equal(prev[id], next[id]) {
			out = append(out, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[id]; !ok && len(prev[id]) > 0 {
			out = append(out, id)
		}
	}
	return out
}

func pileCounts(piles map[string][]string) map[string]int {
	out := make(map[string]int, len(piles))
	for id, pile := range piles {
		out[id] = len(pile)
	}
	return out
}
