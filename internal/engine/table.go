package engine

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"
)

func (t *tx) rollDice(playerID string, e RollDice) error {
	area, err := t.area(playerID)
	if err != nil {
		return err
	}
	total := 0
	for faces, n := range e.Dice {
		if !ValidDieFaces(faces) || n < 0 {
			return fmt.Errorf("%w: %d x d%d", ErrBadDice, n, faces)
		}
		total += n
	}
	if total == 0 {
		return fmt.Errorf("%w: no dice", ErrBadDice)
	}

	for _, id := range t.s.Dice[playerID] {
		if p, ok := t.s.Pieces[id]; ok && p.Type == PieceDie {
			t.tombstone(id)
		}
	}

	rng := t.random()
	var ids []string
	row := 0
	for _, faces := range slices.Sorted(maps.Keys(e.Dice)) {
		n := e.Dice[faces]
		if n == 0 {
			continue
		}
		for i := range n {
			die := Piece{
				ID:       t.newID(),
				Type:     PieceDie,
				X:        area.X + areaInset + float64(i)*dieSpacing,
				Y:        area.Y + areaInset + float64(row)*dieSpacing,
				Width:    dieSize,
				Height:   dieSize,
				Layer:    area.Layer + 1,
				Faces:    faces,
				Value:    rng.IntN(faces) + 1,
				Hidden:   e.Hidden,
				PlayerID: playerID,
			}
			t.create(die)
			t.addToBoard(die.ID)
			ids = append(ids, die.ID)
		}
		row++
	}
	t.s.Dice[playerID] = ids
	return nil
}

func holdsBalance(p Piece) bool {
	return p.Type == PieceMoney || p.Type == PiecePlayer
}

// transaction moves money between two balance-holding pieces. With no
// destination the amount leaves as a new money token beside the source.
func (t *tx) transaction(e Transaction) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, e.Amount)
	}
	from, err := t.piece(e.Transaction.From)
	if err != nil {
		return err
	}
	if !holdsBalance(from) {
		return fmt.Errorf("%w: %s holds no balance", ErrUnknownPiece, from.ID)
	}
	if from.Balance < e.Amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from.ID, from.Balance, e.Amount)
	}

	if to := e.Transaction.To; to != "" {
		dest, err := t.piece(to)
		if err != nil || !holdsBalance(dest) || dest.ID == from.ID {
			return fmt.Errorf("%w: %s", ErrUnknownRecipient, to)
		}
		_ = t.update(dest.ID, func(p *Piece) { p.Balance += e.Amount })
	} else {
		t.mintToken(from, e.Amount)
	}
	_ = t.update(from.ID, func(p *Piece) { p.Balance -= e.Amount })

	if from.Type == PieceMoney && t.s.Pieces[from.ID].Balance == 0 && t.otherPool(from.ID) {
		t.tombstone(from.ID)
	}
	return nil
}

func (t *tx) mintToken(from Piece, amount int) {
	token := Piece{
		ID:      t.newID(),
		Type:    PieceMoney,
		Radius:  defaultSpan / 2,
		Layer:   from.Layer + 1,
		Balance: amount,
	}
	if from.Type == PieceMoney {
		token.Radius, token.Width, token.Height = from.Radius, from.Width, from.Height
		token.Image, token.Color = from.Image, from.Color
	}
	w, _ := from.span()
	if w == 0 {
		w = defaultSpan
	}
	token.X = from.X + w + areaInset
	token.Y = from.Y
	t.create(token)
	t.addToBoard(token.ID)
}

func (t *tx) otherPool(id string) bool {
	for _, p := range t.s.Pieces {
		if p.Type == PieceMoney && p.ID != id {
			return true
		}
	}
	return false
}

func stackable(p Piece) bool {
	return p.Type == PieceStack || p.Stackable
}

// createStack merges on-board pieces, flattening any stacks among them, into
// one stack at the position of the first (bottom) piece.
func (t *tx) createStack(ids []string) error {
	if len(ids) < 2 {
		return ErrStackTooSmall
	}
	seen := map[string]bool{}
	var members []string
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		p, err := t.piece(id)
		if err != nil {
			return err
		}
		if !t.s.OnBoard(id) {
			return fmt.Errorf("%w: %s", ErrNotOnBoard, id)
		}
		if !stackable(p) {
			return fmt.Errorf("%w: %s", ErrNotStackable, id)
		}
		if p.Type == PieceStack {
			members = append(members, p.IDs...)
		} else {
			members = append(members, id)
		}
	}

	bottom := t.s.Pieces[ids[0]]
	stack := Piece{
		ID:     t.newID(),
		Type:   PieceStack,
		X:      bottom.X,
		Y:      bottom.Y,
		Width:  bottom.Width,
		Height: bottom.Height,
		Radius: bottom.Radius,
		Layer:  bottom.Layer,
		Stack:  bottom.Stack,
		IDs:    members,
	}
	for _, id := range ids {
		if t.s.Pieces[id].Type == PieceStack {
			t.tombstone(id)
		}
	}
	t.s.Board = removeIDs(t.s.Board, ids)
	t.create(stack)
	t.addToBoard(stack.ID)
	return nil
}

// splitStack cuts a stack after its first count members: IDs[:count] is the
// bottom part and IDs[count:] the top. The bottom part stays where the stack
// was, the top part moves one piece-width to the right. A part with a single
// member is restored as that piece, so three members split at two leave a
// two-piece stack and a single.
func (t *tx) splitStack(e SplitStack) error {
	stack, err := t.piece(e.ID)
	if err != nil {
		return err
	}
	if stack.Type != PieceStack {
		return fmt.Errorf("%w: %s is not a stack", ErrUnknownPiece, e.ID)
	}
	if e.Count <= 0 || e.Count >= len(stack.IDs) {
		return nil
	}

	w, _ := stack.span()
	if w == 0 {
		w = defaultSpan
	}
	bottom := slices.Clone(stack.IDs[:e.Count])
	top := slices.Clone(stack.IDs[e.Count:])

	t.tombstone(stack.ID)
	t.place(stack, bottom, stack.X, stack.Y)
	t.place(stack, top, stack.X+w*copySpacing, stack.Y)
	return nil
}

func (t *tx) place(from Piece, members []string, x, y float64) {
	if len(members) == 1 {
		id := members[0]
		_ = t.update(id, func(p *Piece) {
			p.X, p.Y = x, y
			p.Layer = from.Layer
		})
		t.addToBoard(id)
		return
	}
	sub := from.clone()
	sub.ID = t.newID()
	sub.X, sub.Y = x, y
	sub.Delta = 0
	sub.IDs = members
	t.create(sub)
	t.addToBoard(sub.ID)
}

// updatePieces merges caller-supplied partial pieces. The caller is trusted
// with every field, delta included.
func (t *tx) updatePieces(pieces map[string]json.RawMessage) error {
	for _, id := range slices.Sorted(maps.Keys(pieces)) {
		existing, ok := t.s.Pieces[id]
		if !ok {
			zap.L().Debug("update for unknown piece ignored", zap.String("piece", id))
			continue
		}
		merged := existing.clone()
		if err := json.Unmarshal(pieces[id], &merged); err != nil {
			return fmt.Errorf("piece %s: %w", id, err)
		}
		merged.ID = id
		if !merged.Type.Valid() {
			return fmt.Errorf("piece %s: %w %q", id, ErrUnknownPieceType, merged.Type)
		}
		t.s.Pieces[id] = merged
		if merged.IsDeleted() {
			t.s.Board = removeIDs(t.s.Board, []string{id})
		}
	}
	return nil
}

func (t *tx) promptPlayers(playerID string, e PromptPlayers) error {
	if len(e.PlayerIDs) == 0 {
		return fmt.Errorf("%w: no players addressed", ErrBadPrompt)
	}
	p := Prompt{
		ID:        t.newID(),
		OwnerID:   playerID,
		Title:     e.Prompt.Title,
		Inputs:    e.Prompt.Inputs,
		PlayerIDs: slices.Compact(slices.Sorted(slices.Values(e.PlayerIDs))),
		Responses: map[string][]string{},
	}
	t.s.Prompts[p.ID] = p.clone()
	return nil
}

func (t *tx) promptSubmission(playerID string, e PromptSubmission) error {
	p, ok := t.s.Prompts[e.PromptID]
	if !ok || p.Complete || !slices.Contains(p.PlayerIDs, playerID) {
		return fmt.Errorf("%w: %s", ErrUnknownPrompt, e.PromptID)
	}
	p.Responses[playerID] = slices.Clone(e.Values)
	p.Complete = len(p.Responses) == len(p.PlayerIDs)
	t.s.Prompts[p.ID] = p
	return nil
}
