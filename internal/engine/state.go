package engine

import (
	"fmt"
	"maps"
	"slices"
)

// DefaultMaxPlayers bounds the player-count lookup when a game does not say.
const DefaultMaxPlayers = 8

// Game is a published game definition. Template pieces are immutable; a
// hosted session instantiates them into a GameState.
type Game struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	MaxPlayers  int               `json:"maxPlayers,omitempty" yaml:"maxPlayers,omitempty"`
	Pieces      map[string]Piece  `json:"pieces" yaml:"pieces"`
	Assets      map[string]string `json:"-" yaml:"assets,omitempty"`
}

// Asset is a named blob (usually a data URL) referenced by piece images.
type Asset struct {
	Name string `json:"name"`
	Data string `json:"data,omitempty"`
}

type ChatMessage struct {
	PlayerID string `json:"playerId"`
	Message  string `json:"message"`
}

// Peek is the private result of the last peek a player made. Seq advances on
// every peek so repeated peeks at the same cards are still delivered.
type Peek struct {
	DeckID  string   `json:"deckId"`
	CardIDs []string `json:"cardIds"`
	Seq     int      `json:"seq"`
}

type PromptInput struct {
	Label   string   `json:"label"`
	Options []string `json:"options,omitempty"`
}

type PromptSpec struct {
	Title  string        `json:"title"`
	Inputs []PromptInput `json:"inputs"`
}

type Prompt struct {
	ID        string              `json:"id"`
	OwnerID   string              `json:"ownerId"`
	Title     string              `json:"title"`
	Inputs    []PromptInput       `json:"inputs"`
	PlayerIDs []string            `json:"playerIds"`
	Responses map[string][]string `json:"responses"`
	Complete  bool                `json:"complete"`
}

func (p Prompt) clone() Prompt {
	p.Inputs = slices.Clone(p.Inputs)
	for i := range p.Inputs {
		p.Inputs[i].Options = slices.Clone(p.Inputs[i].Options)
	}
	p.PlayerIDs = slices.Clone(p.PlayerIDs)
	resp := make(map[string][]string, len(p.Responses))
	for k, v := range p.Responses {
		resp[k] = slices.Clone(v)
	}
	p.Responses = resp
	return p
}

// GameState is the canonical table owned by a host session.
type GameState struct {
	Pieces    map[string]Piece
	Board     []string
	Hands     map[string][]string
	Shuffled  map[string][]string
	Discarded map[string][]string
	Dice      map[string][]string
	Chat      []ChatMessage
	Peeks     map[string]Peek
	Prompts   map[string]Prompt

	// Templates holds the count-bearing template pieces and PlayerCounts the
	// lookup built from them. Both are fixed for the life of a session and
	// shared between clones.
	Templates    map[string]Piece
	PlayerCounts PiecesForPlayerCounts
	MaxPlayers   int

	// Seed and Step drive every random choice and fresh id, so Apply is a
	// deterministic function of its inputs.
	Seed uint64
	Step uint64
}

// NewGameState instantiates a game definition: count-bearing templates are
// set aside for expansion, everything else becomes a live piece, and
// table pieces form the initial board.
func NewGameState(g Game, seed uint64) (GameState, error) {
	maxPlayers := g.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = DefaultMaxPlayers
	}
	s := NewEmptyState()
	s.MaxPlayers = maxPlayers
	s.Seed = seed

	for id, p := range g.Pieces {
		if !p.Type.Valid() {
			return GameState{}, fmt.Errorf("piece %q: %w %q", id, ErrUnknownPieceType, p.Type)
		}
		p.ID = id
		if p.Counts != "" {
			s.Templates[id] = p.clone()
			continue
		}
		s.Pieces[id] = p.clone()
	}

	counts, err := BuildPlayerCounts(s.Templates, maxPlayers)
	if err != nil {
		return GameState{}, err
	}
	s.PlayerCounts = counts

	for _, p := range sortedPieces(s.Pieces) {
		if ok, _ := onTable(p.Type); ok {
			s.Board = append(s.Board, p.ID)
		}
	}
	return s, nil
}

// Clone deep-copies everything a reducer may mutate.
func (s GameState) Clone() GameState {
	out := s
	out.Pieces = make(map[string]Piece, len(s.Pieces))
	for id, p := range s.Pieces {
		out.Pieces[id] = p.clone()
	}
	out.Board = slices.Clone(s.Board)
	out.Hands = clonePiles(s.Hands)
	out.Shuffled = clonePiles(s.Shuffled)
	out.Discarded = clonePiles(s.Discarded)
	out.Dice = clonePiles(s.Dice)
	out.Chat = slices.Clone(s.Chat)
	out.Peeks = make(map[string]Peek, len(s.Peeks))
	for id, p := range s.Peeks {
		p.CardIDs = slices.Clone(p.CardIDs)
		out.Peeks[id] = p
	}
	out.Prompts = make(map[string]Prompt, len(s.Prompts))
	for id, p := range s.Prompts {
		out.Prompts[id] = p.clone()
	}
	return out
}

func clonePiles(m map[string][]string) map[string][]string {
	out := make(map[string][]string, len(m))
	for k, v := range m {
		out[k] = slices.Clone(v)
	}
	return out
}

// PlayArea returns the id of the play area bound to playerID, or "".
func (s GameState) PlayArea(playerID string) string {
	if playerID == "" {
		return ""
	}
	for _, id := range slices.Sorted(maps.Keys(s.Pieces)) {
		p := s.Pieces[id]
		if p.Type == PiecePlayer && p.PlayerID == playerID {
			return id
		}
	}
	return ""
}

// OnBoard reports whether id is currently on the shared board.
func (s GameState) OnBoard(id string) bool {
	return slices.Contains(s.Board, id)
}
