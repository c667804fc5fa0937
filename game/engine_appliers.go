package game

import (
	"log"

	"github.com/thullagame/thulla/events"
)

// Event appliers. Each applier is a pure state transform of its event, so
// replaying a room's log over a snapshot reproduces the exact state.

// applyEvent dispatches events to their appropriate appliers.
func (e *Engine) applyEvent(event events.Event) {
	switch ev := event.(type) {
	case GameStarted:
		e.applyGameStarted(ev)
	case CardsDealt:
		e.applyCardsDealt(ev)
	case CardPlayed:
		e.applyCardPlayed(ev)
	case ThullaTriggered:
		e.applyThullaTriggered(ev)
	case TrickCleared:
		e.applyTrickCleared(ev)
	case PilePickedUp:
		e.applyPilePickedUp(ev)
	case PlayerFinished:
		e.applyPlayerFinished(ev)
	case TurnChanged:
		e.applyTurnChanged(ev)
	case GameEnded:
		e.applyGameEnded(ev)
	default:
		log.Printf("warning: unknown event type %T", ev)
	}
}

func (e *Engine) applyGameStarted(ev GameStarted) {
	s := e.state
	s.Players = make([]*PlayerState, 0, len(ev.Players))
	for _, seat := range ev.Players {
		s.Players = append(s.Players, &PlayerState{
			ID:     seat.ID,
			Name:   seat.Name,
			Seat:   seat.Seat,
			IsBot:  seat.IsBot,
			Active: true,
		})
	}
	s.sortPlayersBySeat()
	s.Status = StatusDealing
}

func (e *Engine) applyCardsDealt(ev CardsDealt) {
	s := e.state
	total := 0
	for _, p := range s.Players {
		p.Hand = ev.Hands[p.ID]
		total += len(p.Hand)
	}
	s.DealtCount = total
	s.StartingPlayerID = ev.StartingPlayerID
	s.Trick = Trick{}
	s.Pile = nil
	s.Discarded = nil
	s.ActiveSuit = ""
	s.TrickNumber = 1
	s.FirstTrick = true
	s.FinishOrder = nil
	s.WinnerID = ""
	s.Status = StatusPlaying
}

func (e *Engine) applyCardPlayed(ev CardPlayed) {
	s := e.state
	player := s.Player(ev.PlayerID)
	if player == nil {
		return
	}
	player.Hand, _ = player.Hand.Remove(ev.Card)

	if s.Trick.LeadSuit == "" {
		s.Trick.LeadSuit = ev.Card.Suit
	}
	s.Trick.Plays = append(s.Trick.Plays, Play{PlayerID: ev.PlayerID, Card: ev.Card, Thulla: ev.Thulla})
	s.ActiveSuit = s.Trick.LeadSuit

	if s.trickComplete() {
		s.Status = StatusTrickResolving
	}
}

func (e *Engine) applyThullaTriggered(ev ThullaTriggered) {
	s := e.state
	// The trick's cards accrue to the pile, awaiting transfer to the picker.
	s.Pile = append(s.Pile, s.Trick.Cards()...)
	s.Trick.Plays = nil
	s.PendingPickerID = ev.PickerID
	s.Status = StatusThullaPending
}

func (e *Engine) applyTrickCleared(ev TrickCleared) {
	s := e.state
	s.Discarded = append(s.Discarded, ev.Cards...)
	e.resetTrick()
}

func (e *Engine) applyPilePickedUp(ev PilePickedUp) {
	s := e.state
	picker := s.Player(ev.PickerID)
	if picker == nil {
		return
	}
	picker.Hand = append(picker.Hand, ev.Cards...)

	// A player who had finished is back in the round once the pile lands in
	// their hand.
	if picker.Finished {
		picker.Finished = false
		for i, id := range s.FinishOrder {
			if id == ev.PickerID {
				s.FinishOrder = append(s.FinishOrder[:i], s.FinishOrder[i+1:]...)
				break
			}
		}
	}

	s.Pile = nil
	e.resetTrick()
}

func (e *Engine) resetTrick() {
	s := e.state
	s.Trick = Trick{}
	s.ActiveSuit = ""
	s.PendingPickerID = ""
	s.FirstTrick = false
	s.TrickNumber++
	s.Status = StatusPlaying
}

func (e *Engine) applyPlayerFinished(ev PlayerFinished) {
	s := e.state
	if player := s.Player(ev.PlayerID); player != nil {
		player.Finished = true
	}
	s.FinishOrder = append(s.FinishOrder, ev.PlayerID)
}

func (e *Engine) applyTurnChanged(ev TurnChanged) {
	s := e.state
	s.CurrentPlayerID = ev.CurrentPlayerID
	if len(s.Trick.Plays) == 0 {
		s.StartingPlayerID = ev.CurrentPlayerID
	}
}

func (e *Engine) applyGameEnded(ev GameEnded) {
	s := e.state
	s.WinnerID = ev.WinnerID
	s.CurrentPlayerID = ""
	s.Status = StatusFinished
}
