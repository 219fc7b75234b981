package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounts(t *testing.T) {
	cases := []struct {
		name    string
		expr    string
		want    []CountTuple
		wantErr bool
	}{
		{name: "single tuple", expr: "2:3", want: []CountTuple{{Min: 2, Count: 3}}},
		{name: "bare count means min one", expr: "4", want: []CountTuple{{Min: 1, Count: 4}}},
		{name: "unsorted with spaces", expr: " 5:4 , 1:1,3:2 ", want: []CountTuple{{1, 1}, {3, 2}, {5, 4}}},
		{name: "trailing comma", expr: "1:1,", want: []CountTuple{{1, 1}}},
		{name: "empty", expr: "", wantErr: true},
		{name: "not a number", expr: "1:x", wantErr: true},
		{name: "negative", expr: "-1:2", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseCounts(tc.expr)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrBadCounts)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBuildPlayerCounts_CarriesBreakpointsForward(t *testing.T) {
	templates := map[string]Piece{
		"meeple": {ID: "meeple", Counts: "1:1, 3:2, 5:4"},
		"plain":  {ID: "plain"},
	}
	pc, err := BuildPlayerCounts(templates, 6)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 1, 2, 2, 4, 4}, pc["meeple"])
	assert.NotContains(t, pc, "plain")
	assert.Equal(t, 4, pc.CopiesFor("meeple", 99))
	assert.Equal(t, 0, pc.CopiesFor("meeple", -1))
	assert.Equal(t, 0, pc.CopiesFor("unknown", 3))

	_, err = BuildPlayerCounts(map[string]Piece{"bad": {Counts: "a:b"}}, 4)
	assert.ErrorIs(t, err, ErrBadCounts)
}

func expansionState(t *testing.T) GameState {
	t.Helper()
	s := NewEmptyState()
	s.Seed = 3
	s.Templates["meeple"] = Piece{ID: "meeple", Type: PieceCircle, X: 10, Y: 10, Radius: 10, Counts: "1:1, 3:2, 5:4"}
	s.Templates["seat"] = Piece{ID: "seat", Type: PiecePlayer, Width: 100, Height: 50, Counts: "1:1, 2:2"}
	pc, err := BuildPlayerCounts(s.Templates, s.MaxPlayers)
	require.NoError(t, err)
	s.PlayerCounts = pc
	return s
}

func liveCopies(s GameState, templateID string) []Piece {
	var out []Piece
	for _, p := range sortedPieces(s.Pieces) {
		if p.ParentID == templateID && !p.IsDeleted() {
			out = append(out, p)
		}
	}
	return out
}

func TestExpand_CardinalityMatchesTable(t *testing.T) {
	base := expansionState(t)
	for n := 0; n <= 6; n++ {
		first := Expand(base, n)
		second := Expand(base, n)
		for _, id := range []string{"meeple", "seat"} {
			want := base.PlayerCounts.CopiesFor(id, n)
			assert.Len(t, liveCopies(first, id), want, "%s with %d players", id, n)
			assert.Len(t, liveCopies(second, id), want, "%s with %d players", id, n)
		}
	}
}

func TestExpand_LaysCopiesOnAGrid(t *testing.T) {
	s := Expand(expansionState(t), 5)
	xs := map[float64]bool{}
	for _, p := range liveCopies(s, "meeple") {
		assert.Equal(t, 10.0, p.Y)
		assert.Empty(t, p.Counts)
		assert.Equal(t, 1, p.Delta)
		xs[p.X] = true
	}
	assert.Len(t, xs, 4, "every copy gets its own column")
	assert.True(t, xs[10])
}

func TestExpand_ShrinkKeepsBoundCopies(t *testing.T) {
	s := Expand(expansionState(t), 2)
	seats := liveCopies(s, "seat")
	require.Len(t, seats, 2)
	bound := seats[1]
	bound.PlayerID = "alice"
	s.Pieces[bound.ID] = bound

	shrunk := Expand(s, 1)
	live := liveCopies(shrunk, "seat")
	require.Len(t, live, 1)
	assert.Equal(t, bound.ID, live[0].ID)
	assert.True(t, shrunk.Pieces[seats[0].ID].IsDeleted())
}
