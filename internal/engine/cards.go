package engine

import (
	"fmt"
	"slices"
)

func (t *tx) syncDeck(deckID string, force bool) {
	deck, ok := t.s.Pieces[deckID]
	if !ok || deck.Type != PieceDeck {
		return
	}
	count := len(t.s.Shuffled[deckID])
	total := 0
	for _, p := range t.s.Pieces {
		if p.Type == PieceCard && p.DeckID == deckID {
			total++
		}
	}
	if force || deck.Count != count || deck.Total != total {
		_ = t.update(deckID, func(p *Piece) {
			p.Count = count
			p.Total = total
		})
	}
}

func (t *tx) setHand(playerID string, hand []string) {
	t.s.Hands[playerID] = hand
	areaID := t.s.PlayArea(playerID)
	if areaID == "" || t.s.Pieces[areaID].HandCount == len(hand) {
		return
	}
	_ = t.update(areaID, func(p *Piece) { p.HandCount = len(hand) })
}

func (t *tx) cards(ids []string) error {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		seen[id] = true
		p, ok := t.s.Pieces[id]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownPiece, id)
		}
		if p.Type != PieceCard {
			return fmt.Errorf("%w: %s", ErrNotACard, id)
		}
	}
	return nil
}

func (t *tx) inHand(playerID string, ids []string) error {
	if err := t.cards(ids); err != nil {
		return err
	}
	if !containsAll(t.s.Hands[playerID], ids) {
		return ErrNotInHand
	}
	return nil
}

// takeFromDeck removes up to n cards from the front of the draw pile. When
// the pile runs short the discard pile is shuffled and put underneath it
// first. Fewer than n cards come back if both piles run dry.
func (t *tx) takeFromDeck(deckID string, n int) []string {
	shuffled := t.s.Shuffled[deckID]
	reshuffled := false
	if len(shuffled) < n {
		if discarded := t.s.Discarded[deckID]; len(discarded) > 0 {
			pile := slices.Clone(discarded)
			t.random().Shuffle(len(pile), func(i, j int) { pile[i], pile[j] = pile[j], pile[i] })
			shuffled = append(slices.Clone(shuffled), pile...)
			t.s.Discarded[deckID] = []string{}
			reshuffled = true
		}
	}
	n = min(n, len(shuffled))
	drawn := slices.Clone(shuffled[:n])
	t.s.Shuffled[deckID] = slices.Clone(shuffled[n:])
	if reshuffled || n > 0 {
		t.syncDeck(deckID, true)
	}
	return drawn
}

func (t *tx) drawCards(playerID string, e DrawCards) error {
	if _, err := t.deck(e.DeckID); err != nil {
		return err
	}
	if _, err := t.area(playerID); err != nil {
		return err
	}
	if e.Count <= 0 {
		return nil
	}
	drawn := t.takeFromDeck(e.DeckID, e.Count)
	if len(drawn) > 0 {
		t.setHand(playerID, append(t.s.Hands[playerID], drawn...))
	}
	return nil
}

func (t *tx) drawCardsToTable(playerID string, e DrawCardsToTable) error {
	deck, err := t.deck(e.DeckID)
	if err != nil {
		return err
	}
	if _, err := t.area(playerID); err != nil {
		return err
	}
	if e.Count <= 0 {
		return nil
	}
	w, _ := deck.span()
	if w == 0 {
		w = defaultSpan
	}
	for i, id := range t.takeFromDeck(e.DeckID, e.Count) {
		_ = t.update(id, func(p *Piece) {
			p.X = deck.X + w + areaInset + float64(i)*cardCascade
			p.Y = deck.Y
			p.Layer = deck.Layer + 1 + i
			p.FaceDown = e.FaceDown
		})
		t.addToBoard(id)
	}
	return nil
}

func (t *tx) pickUpCards(playerID string, ids []string) error {
	if err := t.cards(ids); err != nil {
		return err
	}
	if !containsAll(t.s.Board, ids) {
		return ErrNotOnBoard
	}
	if len(ids) == 0 {
		return nil
	}
	t.s.Board = removeIDs(t.s.Board, ids)
	t.setHand(playerID, append(t.s.Hands[playerID], ids...))
	return nil
}

func (t *tx) playCards(playerID string, e PlayCards) error {
	area, err := t.area(playerID)
	if err != nil {
		return err
	}
	if err := t.inHand(playerID, e.CardIDs); err != nil {
		return err
	}
	if len(e.CardIDs) == 0 {
		return nil
	}
	t.setHand(playerID, removeIDs(t.s.Hands[playerID], e.CardIDs))
	for i, id := range e.CardIDs {
		_ = t.update(id, func(p *Piece) {
			p.X = area.X + areaInset + float64(i)*cardCascade
			p.Y = area.Y + areaInset
			p.Layer = area.Layer + 1 + i
			p.FaceDown = e.FaceDown
		})
		t.addToBoard(id)
	}
	return nil
}

func (t *tx) passCards(playerID string, e PassCards) error {
	if err := t.inHand(playerID, e.CardIDs); err != nil {
		return err
	}
	if t.s.PlayArea(e.PlayerID) == "" {
		return fmt.Errorf("%w: %s", ErrUnknownRecipient, e.PlayerID)
	}
	if len(e.CardIDs) == 0 || e.PlayerID == playerID {
		return nil
	}
	t.setHand(playerID, removeIDs(t.s.Hands[playerID], e.CardIDs))
	t.setHand(e.PlayerID, append(t.s.Hands[e.PlayerID], e.CardIDs...))
	return nil
}

func (t *tx) discard(playerID string, ids []string) error {
	if err := t.inHand(playerID, ids); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	t.setHand(playerID, removeIDs(t.s.Hands[playerID], ids))
	for _, id := range ids {
		deckID := t.s.Pieces[id].DeckID
		t.s.Discarded[deckID] = append(t.s.Discarded[deckID], id)
	}
	return nil
}

func (t *tx) discardPlayed(deckID string) error {
	if _, err := t.deck(deckID); err != nil {
		return err
	}
	var played []string
	for _, id := range t.s.Board {
		if p := t.s.Pieces[id]; p.Type == PieceCard && p.DeckID == deckID {
			played = append(played, id)
		}
	}
	if len(played) == 0 {
		return nil
	}
	t.s.Board = removeIDs(t.s.Board, played)
	t.s.Discarded[deckID] = append(t.s.Discarded[deckID], played...)
	return nil
}

// shuffleDiscarded returns the discard pile to the bottom of the draw pile in
// discard order. It does not randomize.
func (t *tx) shuffleDiscarded(deckID string) error {
	if _, err := t.deck(deckID); err != nil {
		return err
	}
	discarded := t.s.Discarded[deckID]
	if len(discarded) == 0 {
		return nil
	}
	t.s.Shuffled[deckID] = append(t.s.Shuffled[deckID], discarded...)
	t.s.Discarded[deckID] = []string{}
	t.syncDeck(deckID, true)
	return nil
}

func (t *tx) shuffleDeck(deckID string) error {
	if _, err := t.deck(deckID); err != nil {
		return err
	}
	pile := append(slices.Clone(t.s.Shuffled[deckID]), t.s.Discarded[deckID]...)
	if len(pile) == 0 {
		return nil
	}
	t.random().Shuffle(len(pile), func(i, j int) { pile[i], pile[j] = pile[j], pile[i] })
	t.s.Shuffled[deckID] = pile
	t.s.Discarded[deckID] = []string{}
	t.syncDeck(deckID, true)
	return nil
}

func (t *tx) peekAtDeck(playerID string, e PeekAtDeck) error {
	if _, err := t.deck(e.DeckID); err != nil {
		return err
	}
	n := max(0, min(e.Count, len(t.s.Shuffled[e.DeckID])))
	t.setPeek(playerID, e.DeckID, slices.Clone(t.s.Shuffled[e.DeckID][:n]))
	return nil
}

func (t *tx) peekAtCard(playerID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := t.cards(ids); err != nil {
		return err
	}
	t.setPeek(playerID, t.s.Pieces[ids[0]].DeckID, slices.Clone(ids))
	return nil
}

func (t *tx) setPeek(playerID, deckID string, ids []string) {
	prev := t.s.Peeks[playerID]
	t.s.Peeks[playerID] = Peek{DeckID: deckID, CardIDs: ids, Seq: prev.Seq + 1}
}

// detach removes a card from wherever it currently is and reports the deck
// whose draw pile changed, if any.
func (t *tx) detach(id string) (drawPile string) {
	t.s.Board = removeIDs(t.s.Board, []string{id})
	for playerID, hand := range t.s.Hands {
		if slices.Contains(hand, id) {
			t.setHand(playerID, removeIDs(hand, []string{id}))
		}
	}
	for deckID, pile := range t.s.Discarded {
		if slices.Contains(pile, id) {
			t.s.Discarded[deckID] = removeIDs(pile, []string{id})
		}
	}
	for deckID, pile := range t.s.Shuffled {
		if slices.Contains(pile, id) {
			t.s.Shuffled[deckID] = removeIDs(pile, []string{id})
			drawPile = deckID
		}
	}
	return drawPile
}

func (t *tx) takeCards(playerID string, ids []string) error {
	if err := t.cards(ids); err != nil {
		return err
	}
	var taken []string
	for _, id := range ids {
		if slices.Contains(t.s.Hands[playerID], id) {
			continue
		}
		if deckID := t.detach(id); deckID != "" {
			t.syncDeck(deckID, true)
		}
		taken = append(taken, id)
	}
	if len(taken) > 0 {
		t.setHand(playerID, append(t.s.Hands[playerID], taken...))
	}
	return nil
}

// removeCards takes cards out of play and puts them at the bottom of their
// deck's draw pile.
func (t *tx) removeCards(ids []string) error {
	if err := t.cards(ids); err != nil {
		return err
	}
	for _, id := range ids {
		t.detach(id)
		deckID := t.s.Pieces[id].DeckID
		t.s.Shuffled[deckID] = append(t.s.Shuffled[deckID], id)
		t.syncDeck(deckID, true)
	}
	return nil
}
