package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/config"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

const poker = `
name: Poker Night
description: Cards and chips.
maxPlayers: 6
pieces:
  table:
    type: board
    width: 1200
    height: 900
  deck:
    type: deck
    x: 100
    y: 100
    width: 60
    height: 90
    image: back.png
  ace:
    type: card
    deckId: deck
    image: ace.png
    back: back.png
  seat:
    type: player
    width: 300
    height: 150
    balance: 100
    counts: "1:1, 2:2, 3:3, 4:4, 5:5, 6:6"
assets:
  back.png: data:image/png;base64,AAAA
  ace.png: data:image/png;base64,BBBB
`

func writeGame(t *testing.T, dir, id, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".yaml"), []byte(body), 0o600))
}

func TestDirStore_Get(t *testing.T) {
	dir := t.TempDir()
	writeGame(t, dir, "poker", poker)
	s := NewDirStore(dir)

	g, err := s.Get(context.Background(), "poker")
	require.NoError(t, err)
	assert.Equal(t, "poker", g.ID)
	assert.Equal(t, "Poker Night", g.Name)
	assert.Equal(t, engine.PieceCard, g.Pieces["ace"].Type)
	assert.Equal(t, "deck", g.Pieces["ace"].DeckID)
	assert.Equal(t, 1200.0, g.Pieces["table"].Width)
	assert.Len(t, g.Assets, 2)

	_, err = engine.NewGameState(g, 1)
	require.NoError(t, err, "a loaded game can be hosted")
}

func TestDirStore_GetMissing(t *testing.T) {
	s := NewDirStore(t.TempDir())
	for _, id := range []string{"nope", "../etc/passwd", ""} {
		_, err := s.Get(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound, id)
	}
}

func TestDirStore_ListReportsBrokenGames(t *testing.T) {
	dir := t.TempDir()
	writeGame(t, dir, "poker", poker)
	writeGame(t, dir, "broken", "pieces:\n  x:\n    type: spaceship\n")
	writeGame(t, dir, "typo", "name: Typo\npeices: {}\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	list, err := NewDirStore(dir).List(context.Background())
	require.Len(t, list, 1)
	assert.Equal(t, Summary{ID: "poker", Name: "Poker Night", Description: "Cards and chips.", MaxPlayers: 6}, list[0])

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, ErrInvalidGame)
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	g := engine.Game{
		ID: "g",
		Pieces: map[string]engine.Piece{
			"a": {Type: "spaceship"},
			"b": {Type: engine.PieceCard, DeckID: "missing"},
			"c": {Type: engine.PieceCircle, Counts: "x:y"},
			"d": {Type: engine.PieceImage, Image: "nowhere.png"},
			"e": {Type: engine.PieceRect},
		},
	}
	err := Validate(g)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 4)
	assert.ErrorIs(t, err, engine.ErrUnknownPieceType)
	assert.ErrorIs(t, err, engine.ErrUnknownDeck)
	assert.ErrorIs(t, err, engine.ErrBadCounts)
}

func openTestDB(t *testing.T) *DBStore {
	t.Helper()
	cfg, err := config.LoadTest()
	if err != nil {
		t.Skipf("skip test db: %v", err)
	}
	s, err := OpenDB(cfg.TestPostgresDSN)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDBStore_PublishGetList(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	dir := t.TempDir()
	writeGame(t, dir, "poker-db-test", poker)
	n, err := Import(ctx, NewDirStore(dir), s)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	t.Cleanup(func() { _ = s.Delete(ctx, "poker-db-test") })

	g, err := s.Get(ctx, "poker-db-test")
	require.NoError(t, err)
	assert.Equal(t, "Poker Night", g.Name)
	assert.Equal(t, "data:image/png;base64,BBBB", g.Assets["ace.png"])
	assert.Equal(t, "1:1, 2:2, 3:3, 4:4, 5:5, 6:6", g.Pieces["seat"].Counts)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, Summary{ID: "poker-db-test", Name: "Poker Night", Description: "Cards and chips.", MaxPlayers: 6})

	_, err = s.Get(ctx, "no-such-game")
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.Publish(ctx, engine.Game{ID: "bad", Pieces: map[string]engine.Piece{"x": {Type: "spaceship"}}})
	assert.ErrorIs(t, err, ErrInvalidGame)
}
