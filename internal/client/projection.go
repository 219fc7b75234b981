package client

import (
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

// Projection is a peer's read-model of the table, built only from host
// events. It never decides anything; it just folds.
type Projection struct {
	Player        string
	Spectator     bool
	Game          engine.Game
	StackDistance float64

	Pieces     map[string]engine.Piece
	Board      []string
	Hand       []string
	Dice       []string
	Chat       []engine.ChatMessage
	HandCounts map[string]int
	DiceCounts map[string]int
	Peek       engine.DeckPeekResults

	// Assets maps names to data; an empty value is known but not yet loaded.
	Assets map[string]string

	// Prompts are open prompts addressed to this peer; Results are
	// completed prompts in the order they finished.
	Prompts map[string]engine.Prompt
	Results []engine.Prompt

	Loaded bool

	// local holds speculative pieces from this peer's own input, e.g. a
	// drag in progress.
	local map[string]engine.Piece
}

func NewProjection() *Projection {
	return &Projection{
		Pieces:     map[string]engine.Piece{},
		Board:      []string{},
		Hand:       []string{},
		HandCounts: map[string]int{},
		DiceCounts: map[string]int{},
		Assets:     map[string]string{},
		Prompts:    map[string]engine.Prompt{},
		local:      map[string]engine.Piece{},
	}
}

func (p *Projection) Apply(ev engine.GameEvent) {
	switch e := ev.(type) {
	case engine.Join:
		p.Player = e.Player
		p.Spectator = e.Spectator
		p.Game = e.Game
		p.StackDistance = e.StackDistance
		p.Hand = slices.Clone(e.Hand)
		p.Chat = slices.Clone(e.Chat)
		for _, a := range e.Assets {
			if a.Data != "" || p.Assets[a.Name] == "" {
				p.Assets[a.Name] = a.Data
			}
		}
	case engine.PlayerJoin:
		// a full snapshot replaces whatever was there
		p.Pieces = maps.Clone(e.Pieces)
		if p.Pieces == nil {
			p.Pieces = map[string]engine.Piece{}
		}
		p.Board = slices.Clone(e.Board)
	case engine.SetBoard:
		p.Board = slices.Clone(e.Board)
	case engine.PieceUpdate:
		p.merge(e.Pieces)
	case engine.AddToBoard:
		for _, piece := range e.Pieces {
			p.merge(map[string]engine.Piece{piece.ID: piece})
			if !slices.Contains(p.Board, piece.ID) {
				p.Board = append(p.Board, piece.ID)
			}
		}
	case engine.RemoveFromBoard:
		p.Board = slices.DeleteFunc(p.Board, func(id string) bool { return slices.Contains(e.IDs, id) })
	case engine.SetHand:
		p.Hand = slices.Clone(e.Hand)
	case engine.HandCount:
		p.HandCounts = maps.Clone(e.Counts)
	case engine.SetDice:
		p.Dice = slices.Clone(e.DiceIDs)
	case engine.DiceCounts:
		p.DiceCounts = maps.Clone(e.Counts)
	case engine.ChatMessage:
		p.Chat = append(p.Chat, e)
	case engine.AssetLoaded:
		p.Assets[e.Asset.Name] = e.Asset.Data
	case engine.DeckPeekResults:
		p.Peek = e
	case engine.PromptRequest:
		p.Prompts[e.Prompt.ID] = e.Prompt
	case engine.PromptResults:
		delete(p.Prompts, e.Prompt.ID)
		p.Results = append(p.Results, e.Prompt)
	case engine.LoadComplete:
		p.Loaded = true
	case engine.LocalPieceUpdate:
		for id, piece := range e.Pieces {
			p.local[id] = piece
		}
	default:
		zap.L().Warn("projection ignoring event", zap.String("event", kindOf(ev)))
	}
}

func kindOf(ev engine.GameEvent) string {
	if ev == nil {
		return "<nil>"
	}
	return ev.Kind()
}

// merge keeps an incoming piece only if its delta is strictly newer. Stale
// and duplicate updates are dropped without complaint. A confirmed piece
// that catches up with a local overlay retires the overlay.
func (p *Projection) merge(pieces map[string]engine.Piece) {
	for id, in := range pieces {
		if cur, ok := p.Pieces[id]; ok && in.Delta <= cur.Delta {
			continue
		}
		p.Pieces[id] = in
		if l, ok := p.local[id]; ok && in.Delta >= l.Delta {
			delete(p.local, id)
		}
	}
}

// Piece returns what this peer should draw for id: its own pending change
// if there is one, else the confirmed piece.
func (p *Projection) Piece(id string) (engine.Piece, bool) {
	if l, ok := p.local[id]; ok {
		return l, true
	}
	piece, ok := p.Pieces[id]
	return piece, ok
}

// MissingAssets lists known asset names whose data has not arrived.
func (p *Projection) MissingAssets() []string {
	var out []string
	for _, name := range slices.Sorted(maps.Keys(p.Assets)) {
		if p.Assets[name] == "" {
			out = append(out, name)
		}
	}
	return out
}
