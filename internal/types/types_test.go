package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanMcMahon/BoardGameStar-sub000/internal/engine"
)

func TestDecodeClientEvent(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want engine.ClientEvent
	}{
		{
			name: "draw cards",
			in:   `{"event":"draw_cards","deckId":"d","count":2}`,
			want: engine.DrawCards{DeckID: "d", Count: 2},
		},
		{
			name: "roll dice keyed by faces",
			in:   `{"event":"roll_dice","dice":{"6":2,"20":1},"hidden":true}`,
			want: engine.RollDice{Dice: map[int]int{6: 2, 20: 1}, Hidden: true},
		},
		{
			name: "transaction to bank",
			in:   `{"event":"transaction","transaction":{"from":"p1"},"amount":5}`,
			want: engine.Transaction{Transaction: engine.TransactionRef{From: "p1"}, Amount: 5},
		},
		{
			name: "prompt submission",
			in:   `{"event":"prompt_submission","promptId":"q","values":["yes"]}`,
			want: engine.PromptSubmission{PromptID: "q", Values: []string{"yes"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeClientEvent([]byte(tc.in))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeClientEvent_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want error
	}{
		{"not json", `nope`, ErrMalformed},
		{"no event", `{"deckId":"d"}`, ErrMalformed},
		{"unknown kind", `{"event":"fly"}`, ErrUnknownEvent},
		{"host-only kind", `{"event":"player_connect","name":"x"}`, ErrUnknownEvent},
		{"wrong field type", `{"event":"draw_cards","count":"two"}`, ErrMalformed},
		{"bad piece type", `{"event":"update_piece","pieces":{"a":{"type":"spaceship"}}}`, engine.ErrUnknownPieceType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeClientEvent([]byte(tc.in))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestEncodeGameEvent_TagsTheObject(t *testing.T) {
	data, err := EncodeGameEvent(engine.LoadComplete{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"load_complete"}`, string(data))

	data, err = EncodeGameEvent(engine.SetBoard{Board: []string{"a", "b"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"event":"set_board_event","board":["a","b"]}`, string(data))

	_, err = EncodeGameEvent(engine.LocalPieceUpdate{})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestGameEvent_SurvivesTheWire(t *testing.T) {
	ev := engine.PieceUpdate{Pieces: map[string]engine.Piece{
		"s": {ID: "s", Type: engine.PieceStack, Delta: 3, IDs: []string{"a", "b"}},
	}}
	data, err := EncodeGameEvent(ev)
	require.NoError(t, err)

	got, err := DecodeGameEvent(data)
	require.NoError(t, err)
	assert.Equal(t, ev, got)
}

func TestEncodeClientEvent_KeepsRawPartials(t *testing.T) {
	ev := engine.UpdatePiece{Pieces: map[string]json.RawMessage{"a": json.RawMessage(`{"x":1}`)}}
	data, err := EncodeClientEvent(ev)
	require.NoError(t, err)

	got, err := DecodeClientEvent(data)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(got.(engine.UpdatePiece).Pieces["a"]))

	_, err = EncodeClientEvent(engine.PlayerConnect{})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}
