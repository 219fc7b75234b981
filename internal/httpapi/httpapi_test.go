package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/catalog"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/client"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/hub"
	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/lobby"
)

type memStore map[string]engine.Game

func (m memStore) Get(_ context.Context, id string) (engine.Game, error) {
	g, ok := m[id]
	if !ok {
		return engine.Game{}, fmt.Errorf("%w: %q", catalog.ErrNotFound, id)
	}
	return g, nil
}

func (m memStore) List(context.Context) ([]catalog.Summary, error) {
	var out []catalog.Summary
	for id, g := range m {
		out = append(out, catalog.Summary{ID: id, Name: g.Name, MaxPlayers: g.MaxPlayers})
	}
	return out, nil
}

func cardGame() engine.Game {
	return engine.Game{
		ID:   "cards",
		Name: "Cards",
		Pieces: map[string]engine.Piece{
			"d":    {Type: engine.PieceDeck, X: 100, Y: 100, Width: 60, Height: 90},
			"c1":   {Type: engine.PieceCard, DeckID: "d"},
			"c2":   {Type: engine.PieceCard, DeckID: "d"},
			"c3":   {Type: engine.PieceCard, DeckID: "d"},
			"seat": {Type: engine.PiecePlayer, Width: 300, Height: 150, Counts: "1:1, 2:2"},
		},
	}
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	srv := httptest.NewServer(SetupRoutes(Deps{
		Hub:        hub.NewHub(ctx),
		Catalog:    memStore{"cards": cardGame()},
		Lobby:      lobby.Options{StackDistance: 25},
		MaxPlayers: 4,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func createLobby(t *testing.T, srv *httptest.Server, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/lobbies", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out createLobbyResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out.Code
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthzAndGames(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/games")
	require.NoError(t, err)
	defer resp.Body.Close()
	var games []catalog.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&games))
	require.Len(t, games, 1)
	assert.Equal(t, "cards", games[0].ID)
}

func TestCreateLobby_Errors(t *testing.T) {
	srv := newServer(t)

	resp, _ := createLobby(t, srv, `not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = createLobby(t, srv, `{"gameId":"chess"}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWS_RejectsUnknownLobby(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/ws")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/ws?code=NOPE00")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHostedGame_EndToEnd(t *testing.T) {
	srv := newServer(t)
	resp, code := createLobby(t, srv, `{"gameId":"cards"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, code)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	alice, err := client.Dial(ctx, wsURL, code, client.DialOptions{PlayerID: "alice", Name: "Alice"})
	require.NoError(t, err)
	defer alice.Close()
	require.NoError(t, alice.WaitLoaded(ctx))

	bob, err := client.Dial(ctx, wsURL, code, client.DialOptions{PlayerID: "bob", Name: "Bob"})
	require.NoError(t, err)
	defer bob.Close()
	require.NoError(t, bob.WaitLoaded(ctx))

	alice.View(func(p *client.Projection) {
		assert.Equal(t, "alice", p.Player)
		assert.Equal(t, 25.0, p.StackDistance)
	})

	require.NoError(t, alice.Send(ctx, engine.DrawCards{DeckID: "d", Count: 2}))

	require.Eventually(t, func() bool {
		var n int
		alice.View(func(p *client.Projection) { n = len(p.Hand) })
		return n == 2
	}, 2*time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		var count, deck int
		bob.View(func(p *client.Projection) {
			count = p.HandCounts["alice"]
			deck = p.Pieces["d"].Count
		})
		return count == 2 && deck == 1
	}, 2*time.Second, 10*time.Millisecond)

	bob.View(func(p *client.Projection) {
		assert.Empty(t, p.Hand, "hands stay private")
	})
}

func TestHostedGame_ReconnectKeepsSeat(t *testing.T) {
	srv := newServer(t)
	resp, code := createLobby(t, srv, `{"gameId":"cards"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	first, err := client.Dial(ctx, wsURL, code, client.DialOptions{PlayerID: "alice", Name: "Alice"})
	require.NoError(t, err)
	defer first.Close()
	require.NoError(t, first.WaitLoaded(ctx))
	require.NoError(t, first.Send(ctx, engine.DrawCards{DeckID: "d", Count: 1}))
	require.Eventually(t, func() bool {
		var n int
		first.View(func(p *client.Projection) { n = len(p.Hand) })
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)

	second, err := client.Dial(ctx, wsURL, code, client.DialOptions{PlayerID: "alice", Name: "Alice"})
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.WaitLoaded(ctx))

	select {
	case <-first.Done():
	case <-ctx.Done():
		t.Fatalf("replaced connection was not closed")
	}

	second.View(func(p *client.Projection) {
		assert.False(t, p.Spectator)
		assert.Len(t, p.Hand, 1, "hand survives the reconnect")
	})

	// the old socket's leave may land after the rejoin; chat keeps flowing
	require.Eventually(t, func() bool {
		_ = second.Send(ctx, engine.Chat{Message: "back"})
		var n int
		second.View(func(p *client.Projection) { n = len(p.Chat) })
		return n > 0
	}, 2*time.Second, 50*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	var before int
	second.View(func(p *client.Projection) { before = len(p.Chat) })
	require.NoError(t, second.Send(ctx, engine.Chat{Message: "still here"}))
	require.Eventually(t, func() bool {
		var n int
		second.View(func(p *client.Projection) { n = len(p.Chat) })
		return n > before
	}, 2*time.Second, 10*time.Millisecond)
}
