package types

// Client -> Host
//
// Every message is a JSON object tagged by "event". Card, deck, piece and
// player references are string ids.
//
// chat:                {message}
// roll_dice:           {dice: {faces: count}, hidden}
// draw_cards:          {deckId, count}
// draw_cards_to_table: {deckId, count, faceDown}
// pick_up_cards:       {cardIds}
// pass_cards:          {cardIds, playerId}
// peek_at_card:        {cardIds}
// peek_at_deck:        {deckId, count}
// take_cards:          {cardIds}
// remove_cards:        {cardIds}
// rename_player:       {name}
// play_cards:          {cardIds, faceDown}
// discard:             {cardIds}
// shuffle_deck:        {deckId}
// shuffle_discarded:   {deckId}
// discard_played:      {deckId}
// request_asset:       {asset}
// update_piece:        {pieces: {id: partial piece}}
// create_stack:        {ids}
// split_stack:         {id, count}
// transaction:         {transaction: {from, to}, amount}
// prompt_players:      {prompt: {title, inputs}, playerIds}
// prompt_submission:   {promptId, values}
//
// player_connect is never sent by a peer; the host synthesizes it when a
// seat-taking peer connects.
const (
	EventPlayerConnect    = "player_connect"
	EventChat             = "chat"
	EventRollDice         = "roll_dice"
	EventDrawCards        = "draw_cards"
	EventDrawCardsToTable = "draw_cards_to_table"
	EventPickUpCards      = "pick_up_cards"
	EventPassCards        = "pass_cards"
	EventPeekAtCard       = "peek_at_card"
	EventPeekAtDeck       = "peek_at_deck"
	EventTakeCards        = "take_cards"
	EventRemoveCards      = "remove_cards"
	EventRenamePlayer     = "rename_player"
	EventPlayCards        = "play_cards"
	EventDiscard          = "discard"
	EventShuffleDeck      = "shuffle_deck"
	EventShuffleDiscarded = "shuffle_discarded"
	EventDiscardPlayed    = "discard_played"
	EventRequestAsset     = "request_asset"
	EventUpdatePiece      = "update_piece"
	EventCreateStack      = "create_stack"
	EventSplitStack       = "split_stack"
	EventTransaction      = "transaction"
	EventPromptPlayers    = "prompt_players"
	EventPromptSubmission = "prompt_submission"
)
