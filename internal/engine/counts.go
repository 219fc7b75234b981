package engine

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// copiesPerRow is how many expanded copies sit side by side before the grid
// wraps to a new row.
const copiesPerRow = 10

const copySpacing = 1.2

// CountTuple says that from Min seated players upward, Count copies exist,
// until a tuple with a higher Min takes over.
type CountTuple struct {
	Min   int
	Count int
}

// ParseCounts reads "<min>:<count>, <min>:<count>, ...". A bare "<count>"
// means min 1.
func ParseCounts(expr string) ([]CountTuple, error) {
	var out []CountTuple
	for _, part := range strings.Split(expr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minStr, countStr, found := strings.Cut(part, ":")
		if !found {
			minStr, countStr = "1", part
		}
		minPlayers, err := strconv.Atoi(strings.TrimSpace(minStr))
		if err != nil || minPlayers < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadCounts, part)
		}
		count, err := strconv.Atoi(strings.TrimSpace(countStr))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadCounts, part)
		}
		out = append(out, CountTuple{Min: minPlayers, Count: count})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrBadCounts)
	}
	slices.SortStableFunc(out, func(a, b CountTuple) int { return cmp.Compare(a.Min, b.Min) })
	return out, nil
}

// PiecesForPlayerCounts maps a template id to the number of copies for each
// seated player count, indexed 0..maxPlayers.
type PiecesForPlayerCounts map[string][]int

// BuildPlayerCounts scans the templates once and builds the lookup.
func BuildPlayerCounts(templates map[string]Piece, maxPlayers int) (PiecesForPlayerCounts, error) {
	out := PiecesForPlayerCounts{}
	for id, p := range templates {
		if p.Counts == "" {
			continue
		}
		tuples, err := ParseCounts(p.Counts)
		if err != nil {
			return nil, fmt.Errorf("template %q: %w", id, err)
		}
		table := make([]int, maxPlayers+1)
		next := 0
		current := 0
		for n := 0; n <= maxPlayers; n++ {
			for next < len(tuples) && tuples[next].Min <= n {
				current = tuples[next].Count
				next++
			}
			table[n] = current
		}
		out[id] = table
	}
	return out, nil
}

// CopiesFor returns how many copies of a template exist with players seated.
// Counts above the table's range use its last entry.
func (pc PiecesForPlayerCounts) CopiesFor(templateID string, players int) int {
	table := pc[templateID]
	if len(table) == 0 {
		return 0
	}
	if players < 0 {
		players = 0
	}
	if players >= len(table) {
		players = len(table) - 1
	}
	return table[players]
}

// Expand returns s with every count-bearing template brought to the number of
// copies for the given seated player count.
func Expand(s GameState, players int) GameState {
	t := newTx(s)
	t.expand(players)
	return t.s
}

// expand brings every count-bearing template to the number of live copies the
// player count calls for. New copies get fresh ids and a grid position off
// the template; surplus unbound copies are tombstoned.
func (t *tx) expand(players int) {
	for _, templateID := range slices.Sorted(maps.Keys(t.s.Templates)) {
		tmpl := t.s.Templates[templateID]
		want := t.s.PlayerCounts.CopiesFor(templateID, players)

		var live []string
		for _, p := range sortedPieces(t.s.Pieces) {
			if p.ParentID == templateID && !p.IsDeleted() {
				live = append(live, p.ID)
			}
		}

		for i := len(live); i < want; i++ {
			t.create(copyOf(tmpl, t.newID(), i))
		}

		surplus := len(live) - want
		for i := len(live) - 1; i >= 0 && surplus > 0; i-- {
			if t.s.Pieces[live[i]].PlayerID != "" {
				continue
			}
			t.tombstone(live[i])
			surplus--
		}
	}
}

func copyOf(tmpl Piece, id string, index int) Piece {
	p := tmpl.clone()
	p.ID = id
	p.ParentID = tmpl.ID
	p.Counts = ""
	p.Delta = 0
	w, h := tmpl.span()
	p.X = tmpl.X + float64(index%copiesPerRow)*w*copySpacing
	p.Y = tmpl.Y + float64(index/copiesPerRow)*h*copySpacing
	return p
}
