package game

import (
	"fmt"
	"sync"

	"github.com/thullagame/thulla/cards"
	"github.com/thullagame/thulla/events"
)

// Engine is the authoritative game state machine for a single room. All
// actions are serialized under its lock: one action is fully applied,
// including any trick bookkeeping, before the next is accepted. Every
// mutation is appended to the room's event log before being applied, so the
// state is always reconstructible from a snapshot plus later events.
type Engine struct {
	mu       sync.Mutex
	roomID   string
	rules    Rules
	store    events.Store
	state    *State
	lastSeq  uint64
	handlers []events.Handler
}

// NewEngine creates an engine for a fresh room backed by the given event store.
func NewEngine(store events.Store, roomID string, rules Rules) *Engine {
	return &Engine{
		roomID: roomID,
		rules:  rules,
		store:  store,
		state:  newState(roomID),
	}
}

// RegisterHandler registers a callback invoked for every appended event
// record. Handlers run on the acting goroutine and must not call back into
// the engine synchronously.
func (e *Engine) RegisterHandler(handler events.Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
}

// emit appends the event to the room log, applies it, and notifies handlers.
func (e *Engine) emit(event events.Event) error {
	rec, err := e.store.Append(e.roomID, event)
	if err != nil {
		return fmt.Errorf("failed to append %s event: %w", event.EventName(), err)
	}
	e.lastSeq = rec.Seq
	e.applyEvent(event)

	for _, handler := range e.handlers {
		handler(rec)
	}
	return nil
}

// StartGame shuffles, deals and opens play. The lobby supplies the fixed,
// ordered participant list; the engine never creates players itself.
func (e *Engine) StartGame(seats []Seat) error {
	deck := cards.Shuffle(cards.NewDeck52())
	return e.startWithDeck(seats, deck, true)
}

// startWithDeck is the deterministic core of StartGame. Tests feed it rigged
// decks with reshuffling disabled.
func (e *Engine) startWithDeck(seats []Seat, deck []cards.Card, reshuffle bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state.Status != StatusWaiting {
		return &StateError{Status: e.state.Status, Action: "start the game"}
	}
	if len(seats) < cards.MinPlayers || len(seats) > cards.MaxPlayers {
		return fmt.Errorf("cannot start with %d players", len(seats))
	}
	seenIDs := make(map[string]bool, len(seats))
	seenSeats := make(map[int]bool, len(seats))
	for _, seat := range seats {
		if seenIDs[seat.ID] {
			return fmt.Errorf("duplicate player id %s", seat.ID)
		}
		if seenSeats[seat.Seat] {
			return fmt.Errorf("duplicate seat position %d", seat.Seat)
		}
		seenIDs[seat.ID] = true
		seenSeats[seat.Seat] = true
	}

	// The Ace of Spades must open the round, so it cannot sit among the
	// withheld leftover cards when the deck doesn't divide evenly.
	dealt := len(seats) * cards.HandSize(len(seats))
	for reshuffle && !aceInPlay(deck, dealt) {
		deck = cards.Shuffle(deck)
	}
	if !aceInPlay(deck, dealt) {
		return fmt.Errorf("ace of spades not in the dealt portion of the deck")
	}

	if err := e.emit(GameStarted{RoomID: e.roomID, Players: seats}); err != nil {
		return err
	}

	hands, err := cards.Deal(deck, len(e.state.Players))
	if err != nil {
		return err
	}

	handsByID := make(map[string]cards.Hand, len(hands))
	var starter string
	for i, p := range e.state.Players {
		handsByID[p.ID] = hands[i]
		if hands[i].Contains(cards.AceOfSpades) {
			starter = p.ID
		}
	}

	if err := e.emit(CardsDealt{RoomID: e.roomID, Hands: handsByID, StartingPlayerID: starter}); err != nil {
		return err
	}
	return e.emit(TurnChanged{RoomID: e.roomID, CurrentPlayerID: starter})
}

func aceInPlay(deck []cards.Card, dealt int) bool {
	for i := 0; i < dealt && i < len(deck); i++ {
		if deck[i].Equals(cards.AceOfSpades) {
			return true
		}
	}
	return false
}

// PlayCard validates and applies a player's card. Rejected actions mutate
// nothing and emit nothing.
func (e *Engine) PlayCard(playerID string, card cards.Card) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Corrupt {
		return &IntegrityError{RoomID: e.roomID, Detail: "room flagged for recovery"}
	}
	if s.Status != StatusPlaying {
		return &StateError{Status: s.Status, Action: "play a card"}
	}
	if playerID != s.CurrentPlayerID {
		return &ValidationError{Reason: ReasonNotYourTurn, Detail: playerID}
	}
	player := s.Player(playerID)
	if player == nil || !player.Hand.Contains(card) {
		return &ValidationError{Reason: ReasonCardNotOwned, Detail: card.String()}
	}
	if s.FirstTrick && s.ActiveSuit == "" && !card.Equals(cards.AceOfSpades) {
		return &ValidationError{Reason: ReasonIllegalOpening, Detail: card.String()}
	}

	// Thulla: breaking suit while still holding the lead suit. A player out
	// of the lead suit discards legally and triggers no penalty flag here.
	thulla := s.ActiveSuit != "" && card.Suit != s.ActiveSuit && player.Hand.HasSuit(s.ActiveSuit)
	if thulla && e.rules.StrictFollowing {
		return &ValidationError{Reason: ReasonSuitViolation, Detail: fmt.Sprintf("must follow %s", s.ActiveSuit)}
	}

	if err := e.emit(CardPlayed{RoomID: e.roomID, PlayerID: playerID, Card: card, Thulla: thulla}); err != nil {
		return err
	}

	if len(player.Hand) == 0 {
		finished := PlayerFinished{RoomID: e.roomID, PlayerID: playerID, Place: len(s.FinishOrder) + 1}
		if err := e.emit(finished); err != nil {
			return err
		}
	}

	if thulla {
		// The senior card holder among the plays so far absorbs the pile.
		senior, ok := s.Trick.SeniorCard(s.Trick.LeadSuit)
		if !ok {
			return e.flagCorruptLocked("thulla with no senior card in trick")
		}
		triggered := ThullaTriggered{
			RoomID:     e.roomID,
			OffenderID: playerID,
			Card:       card,
			LeadSuit:   s.Trick.LeadSuit,
			PickerID:   senior.PlayerID,
		}
		if err := e.emit(triggered); err != nil {
			return err
		}
	}

	if s.Status == StatusPlaying {
		// Trick still open; pass the turn along seat order.
		next := e.nextToPlayLocked()
		if next == "" {
			return e.flagCorruptLocked("open trick with nobody left to play")
		}
		if err := e.emit(TurnChanged{RoomID: e.roomID, CurrentPlayerID: next}); err != nil {
			return err
		}
	}

	return e.verifyIntegrityLocked()
}

// nextToPlayLocked finds the next eligible player who has not yet played
// into the current trick.
func (e *Engine) nextToPlayLocked() string {
	s := e.state
	cur := s.CurrentPlayerID
	for range s.Players {
		next := NextEligible(s.Players, cur)
		if next == "" || next == cur && s.Trick.HasPlayed(next) {
			return ""
		}
		if !s.Trick.HasPlayed(next) {
			return next
		}
		cur = next
	}
	return ""
}

// ResolveTrick consumes a completed or thulla'd trick: a clean trick's cards
// are discarded to the void and the senior-card holder leads next; a broken
// trick's cards plus any standing pile transfer into the senior-card
// holder's hand.
func (e *Engine) ResolveTrick() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Corrupt {
		return &IntegrityError{RoomID: e.roomID, Detail: "room flagged for recovery"}
	}

	var winnerID string
	switch s.Status {
	case StatusThullaPending:
		winnerID = s.PendingPickerID
		picked := PilePickedUp{RoomID: e.roomID, PickerID: winnerID, Cards: append([]cards.Card{}, s.Pile...)}
		if err := e.emit(picked); err != nil {
			return err
		}

	case StatusTrickResolving:
		result, ok := s.Trick.Resolve()
		if !ok {
			return e.flagCorruptLocked("trick resolved with no senior card")
		}
		winnerID = result.WinnerID
		if result.PileTaken {
			taken := append(s.Trick.Cards(), s.Pile...)
			picked := PilePickedUp{RoomID: e.roomID, PickerID: winnerID, Cards: taken}
			if err := e.emit(picked); err != nil {
				return err
			}
		} else {
			cleared := TrickCleared{RoomID: e.roomID, WinnerID: winnerID, Cards: s.Trick.Cards()}
			if err := e.emit(cleared); err != nil {
				return err
			}
		}

	default:
		return &StateError{Status: s.Status, Action: "resolve the trick"}
	}

	if err := e.verifyIntegrityLocked(); err != nil {
		return err
	}

	if s.playersWithCards() <= 1 {
		winner := ""
		if len(s.FinishOrder) > 0 {
			winner = s.FinishOrder[0]
		}
		return e.emit(GameEnded{RoomID: e.roomID, WinnerID: winner})
	}

	leader := LeaderOrNext(s.Players, winnerID)
	if leader == "" {
		return e.flagCorruptLocked("no eligible leader after trick resolution")
	}
	return e.emit(TurnChanged{RoomID: e.roomID, CurrentPlayerID: leader})
}

// Restart discards all room state and the event log, returning to waiting.
func (e *Engine) Restart() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.store.Drop(e.roomID)
	e.state = newState(e.roomID)
	e.lastSeq = 0
	return nil
}

func (e *Engine) flagCorruptLocked(detail string) error {
	e.state.Corrupt = true
	return &IntegrityError{RoomID: e.roomID, Detail: detail}
}

func (e *Engine) verifyIntegrityLocked() error {
	if err := e.state.checkConservation(); err != nil {
		return e.flagCorruptLocked(err.Error())
	}
	return nil
}

// Status returns the room's current lifecycle status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Status
}

// TurnContext describes whose turn it is, with everything a decision policy
// needs to pick a card.
type TurnContext struct {
	PlayerID   string
	IsBot      bool
	Hand       cards.Hand
	ActiveSuit cards.Suit
	FirstTrick bool
}

// Turn returns the current turn context. The second return is false when no
// player is to act (waiting, resolving, finished).
func (e *Engine) Turn() (TurnContext, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.state
	if s.Status != StatusPlaying || s.CurrentPlayerID == "" {
		return TurnContext{}, false
	}
	player := s.Player(s.CurrentPlayerID)
	if player == nil {
		return TurnContext{}, false
	}

	hand := make(cards.Hand, len(player.Hand))
	copy(hand, player.Hand)
	return TurnContext{
		PlayerID:   player.ID,
		IsBot:      player.IsBot,
		Hand:       hand,
		ActiveSuit: s.ActiveSuit,
		FirstTrick: s.FirstTrick,
	}, true
}
