// Package catalog stores published game definitions.
package catalog

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/multierr"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

var ErrNotFound = errors.New("game not found")
var ErrInvalidGame = errors.New("invalid game")

// Summary is what a game listing shows before a game is hosted.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	MaxPlayers  int    `json:"maxPlayers"`
}

type Store interface {
	Get(ctx context.Context, id string) (engine.Game, error)
	List(ctx context.Context) ([]Summary, error)
}

func summarize(g engine.Game) Summary {
	maxPlayers := g.MaxPlayers
	if maxPlayers <= 0 {
		maxPlayers = engine.DefaultMaxPlayers
	}
	return Summary{ID: g.ID, Name: g.Name, Description: g.Description, MaxPlayers: maxPlayers}
}

func sortSummaries(s []Summary) {
	slices.SortFunc(s, func(a, b Summary) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Validate reports every problem with a definition at once: unknown piece
// types, bad counts expressions, cards pointing at missing decks and images
// naming missing assets.
func Validate(g engine.Game) error {
	var err error
	if g.ID == "" {
		err = multierr.Append(err, fmt.Errorf("%w: missing id", ErrInvalidGame))
	}
	for _, id := range slices.Sorted(maps.Keys(g.Pieces)) {
		p := g.Pieces[id]
		if !p.Type.Valid() {
			err = multierr.Append(err, fmt.Errorf("%w: piece %s: %w %q", ErrInvalidGame, id, engine.ErrUnknownPieceType, p.Type))
			continue
		}
		if p.Counts != "" {
			if _, perr := engine.ParseCounts(p.Counts); perr != nil {
				err = multierr.Append(err, fmt.Errorf("%w: piece %s: %w", ErrInvalidGame, id, perr))
			}
		}
		if p.Type == engine.PieceCard {
			if deck, ok := g.Pieces[p.DeckID]; !ok || deck.Type != engine.PieceDeck {
				err = multierr.Append(err, fmt.Errorf("%w: card %s: %w %q", ErrInvalidGame, id, engine.ErrUnknownDeck, p.DeckID))
			}
		}
		for _, img := range []string{p.Image, p.Back} {
			if img == "" {
				continue
			}
			if _, ok := g.Assets[img]; !ok {
				err = multierr.Append(err, fmt.Errorf("%w: piece %s: missing asset %q", ErrInvalidGame, id, img))
			}
		}
	}
	return err
}

// Import publishes every game src can load into dst. Games that fail to
// load or publish are reported together and do not stop the others.
func Import(ctx context.Context, src Store, dst *DBStore) (int, error) {
	summaries, err := src.List(ctx)
	n := 0
	for _, s := range summaries {
		g, gerr := src.Get(ctx, s.ID)
		if gerr == nil {
			gerr = dst.Publish(ctx, g)
		}
		if gerr != nil {
			err = multierr.Append(err, gerr)
			continue
		}
		n++
	}
	return n, err
}
