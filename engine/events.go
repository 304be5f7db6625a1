package engine

import (
	"fmt"
	"strconv"
)

const (
	GiftAmount     int64 = 5000
	MaxChildren    uint8 = 6
	StockPrice     int64 = 10_000
	MinimumTax     int64 = 5000
	LawsuitAmount  int64 = 100_000
	DefaultPool          = "basic"
	SkipChoiceID         = "skip"
	stockCertName        = "stock certificate"
	taxRatePercent       = 10
)

// ClassicEventResolver implements the tile rules of the classic board.
type ClassicEventResolver struct{}

func (r ClassicEventResolver) ResolveTile(state *State, tile Tile) (*State, []Event) {
	s := state.Clone()
	var events []Event
	idx := s.CurrentTurn
	mover := &s.Players[idx]

	switch tile.Type {
	case TilePayday:
		salary := int64(mover.Salary)
		mover.Money += salary
		events = append(events, moneyChanged(mover.ID, salary, "payday"))

	case TileAction:
		if tile.Event != nil && tile.Event.Type == TileEventMoney {
			mover.Money += tile.Event.Amount
			events = append(events, moneyChanged(mover.ID, tile.Event.Amount, tile.Event.Text))
		}

	case TileCareer:
		pool := DefaultPool
		if tile.Event != nil && tile.Event.Type == TileEventDrawCareer && tile.Event.Pool != "" {
			pool = tile.Event.Pool
		}
		var available []Career
		for _, c := range s.Careers {
			if c.Pool == pool {
				available = append(available, c)
			}
		}
		if len(available) > 0 {
			career := available[s.NextRandom()%uint64(len(available))]
			mover.Salary = career.Salary
			mover.Career = &career
			assigned := career
			events = append(events, Event{Kind: EventCareerAssigned, PlayerID: mover.ID, Career: &assigned})
		}

	case TileHouse:
		choices := make([]Choice, 0, len(s.HousesForSale)+1)
		for _, h := range s.HousesForSale {
			if s.HouseOwned(h.ID) {
				continue
			}
			choices = append(choices, Choice{
				ID:    h.ID,
				Label: fmt.Sprintf("%s ($%d / sells for $%d)", h.Name, h.Price, h.SellPrice),
			})
		}
		choices = append(choices, Choice{ID: SkipChoiceID, Label: "Don't buy"})
		s.Phase = PhaseChoosingAction
		events = append(events, Event{Kind: EventChoiceRequired, Choices: choices})

	case TileMarry:
		if !mover.Married {
			mover.Married = true
			events = append(events, Event{Kind: EventMarried, PlayerID: mover.ID})
			events = append(events, collectGifts(s, idx, GiftAmount, "wedding gift")...)
		}

	case TileBaby:
		if mover.Children < MaxChildren {
			mover.Children++
			events = append(events, Event{Kind: EventBabyBorn, PlayerID: mover.ID, Children: mover.Children})
			events = append(events, collectGifts(s, idx, GiftAmount, "baby gift")...)
		}

	case TileStock:
		if ev, ok := buyStock(s, idx); ok {
			events = append(events, ev...)
		}

	case TileInsurance:
		var choices []Choice
		if !mover.LifeInsurance {
			choices = append(choices, Choice{ID: string(InsuranceLife), Label: "Buy life insurance"})
		}
		if !mover.AutoInsurance {
			choices = append(choices, Choice{ID: string(InsuranceAuto), Label: "Buy auto insurance"})
		}
		choices = append(choices, Choice{ID: SkipChoiceID, Label: "No insurance"})
		s.Phase = PhaseChoosingAction
		events = append(events, Event{Kind: EventChoiceRequired, Choices: choices})

	case TileTax:
		tax := int64(mover.Salary) * taxRatePercent / 100
		if tax <= 0 {
			tax = MinimumTax
		}
		mover.Money -= tax
		events = append(events, moneyChanged(mover.ID, -tax, "tax"))

	case TileLawsuit:
		var choices []Choice
		for i, p := range s.Players {
			if i == idx || p.Retired {
				continue
			}
			choices = append(choices, Choice{ID: p.ID, Label: "Sue " + p.Name})
		}
		if len(choices) > 0 {
			s.Phase = PhaseChoosingAction
			events = append(events, Event{Kind: EventChoiceRequired, Choices: choices})
		}

	case TileBranch:
		s.Phase = PhaseChoosingPath
		events = append(events, Event{Kind: EventChoiceRequired, Choices: pathChoices(tile)})

	case TileRetire:
		mover.Retired = true
		events = append(events, Event{Kind: EventPlayerRetired, PlayerID: mover.ID})

	case TileStart:
		if tile.IsBranch() {
			s.Phase = PhaseChoosingPath
			events = append(events, Event{Kind: EventChoiceRequired, Choices: pathChoices(tile)})
		}
	}

	return s, events
}

func (r ClassicEventResolver) ResolvePayday(state *State, playerIndex int) *State {
	s := state.Clone()
	s.Players[playerIndex].Money += int64(s.Players[playerIndex].Salary)
	return s
}

// ResolveLawsuit moves LawsuitAmount from the target to the current player. An unknown
// target, or the mover naming themselves, changes nothing.
func (r ClassicEventResolver) ResolveLawsuit(state *State, targetID string) (*State, []Event) {
	s := state.Clone()
	target, ok := s.PlayerIndex(targetID)
	if !ok || target == s.CurrentTurn {
		return s, nil
	}
	s.Players[target].Money -= LawsuitAmount
	s.Players[s.CurrentTurn].Money += LawsuitAmount
	return s, []Event{
		moneyChanged(targetID, -LawsuitAmount, "lawsuit (paid)"),
		moneyChanged(s.Players[s.CurrentTurn].ID, LawsuitAmount, "lawsuit (received)"),
	}
}

// collectGifts takes amount from every other active player and credits the recipient
// with what was actually collected. Mutates s.
func collectGifts(s *State, recipient int, amount int64, reason string) []Event {
	var events []Event
	var collected int64
	for i := range s.Players {
		if i == recipient || s.Players[i].Retired {
			continue
		}
		s.Players[i].Money -= amount
		collected += amount
		events = append(events, moneyChanged(s.Players[i].ID, -amount, reason))
	}
	s.Players[recipient].Money += collected
	events = append(events, moneyChanged(s.Players[recipient].ID, collected, reason+" (received)"))
	return events
}

// buyStock debits StockPrice and mints a certificate with a random id. Mutates s.
func buyStock(s *State, idx int) ([]Event, bool) {
	if s.Players[idx].Money < StockPrice {
		return nil, false
	}
	s.Players[idx].Money -= StockPrice
	id := "stock_" + strconv.FormatUint(s.NextRandom()%100, 10)
	s.Players[idx].Stocks = append(s.Players[idx].Stocks, Stock{ID: id, Name: stockCertName})
	pid := s.Players[idx].ID
	return []Event{
		moneyChanged(pid, -StockPrice, "stock purchase"),
		{Kind: EventStockPurchased, PlayerID: pid},
	}, true
}

func pathChoices(tile Tile) []Choice {
	choices := make([]Choice, len(tile.Next))
	for i := range tile.Next {
		label := fmt.Sprintf("path %d", i+1)
		if i < len(tile.Labels) && tile.Labels[i] != "" {
			label = tile.Labels[i]
		}
		choices[i] = Choice{ID: strconv.Itoa(i), Label: label}
	}
	return choices
}

func moneyChanged(playerID string, amount int64, reason string) Event {
	return Event{Kind: EventMoneyChanged, PlayerID: playerID, Amount: amount, Reason: reason}
}
