// Package engine is the rules core of the board game. Every operation takes a State and
// returns a new one; nothing here holds mutable state or does I/O.
package engine

import "sort"

type Engine interface {
	Init(players []PlayerSeat, m MapData) *State
	Spin(s *State) (*State, SpinResult)
	Advance(s *State, steps uint32) (*State, []Event)
	ChoosePath(s *State, index int) *State
	ResolveAction(s *State, action Action) (*State, []Event)
	EndTurn(s *State) *State
	IsFinished(s *State) bool
	Rankings(s *State) []Ranking
}

type ClassicEngine struct {
	resolver EventResolver
	roulette Roulette
}

func NewClassicEngine() *ClassicEngine {
	return &ClassicEngine{resolver: ClassicEventResolver{}, roulette: StandardRoulette{}}
}

func NewEngineWithPolicies(resolver EventResolver, roulette Roulette) *ClassicEngine {
	return &ClassicEngine{resolver: resolver, roulette: roulette}
}

func (e *ClassicEngine) Init(players []PlayerSeat, m MapData) *State {
	board := NewBoard(m)
	start := board.EntryTile()

	states := make([]PlayerState, 0, len(players))
	for _, p := range players {
		ps := NewPlayerState(p.ID, p.Name, m.StartMoney)
		ps.Position = start
		states = append(states, ps)
	}

	return &State{
		Players:          states,
		Board:            board,
		CurrentTurn:      0,
		Phase:            PhaseWaitingForSpin,
		RngSeed:          InitialSeed,
		LoanUnit:         m.LoanUnit,
		LoanInterestRate: m.LoanInterestRate,
		Careers:          append([]Career{}, m.Careers...),
		HousesForSale:    append([]House{}, m.Houses...),
	}
}

// Spin reads the roulette before the seed moves, so the announced value stays stable no
// matter how many draws the rest of the turn consumes.
func (e *ClassicEngine) Spin(state *State) (*State, SpinResult) {
	value := e.roulette.Spin(state)
	s := state.Clone()
	s.NextRandom()
	s.Phase = PhaseMoving
	return s, SpinResult{PlayerID: s.CurrentPlayer().ID, Value: value}
}

func (e *ClassicEngine) Advance(state *State, steps uint32) (*State, []Event) {
	s := state.Clone()
	s.Phase = PhaseMoving
	var events []Event
	idx := s.CurrentTurn

	for remaining := steps; remaining > 0; {
		tile, ok := s.Board.Tile(s.Players[idx].Position)
		if !ok || tile.IsTerminal() {
			break
		}
		// Branches passed mid-move take the first path; choices only happen on the final stop.
		next := tile.Next[0]
		s.Players[idx].Position = next
		remaining--

		if remaining == 0 {
			break
		}
		// A terminal tile is the final stop even with steps left over; it pays when resolved.
		if passed, ok := s.Board.Tile(next); ok && passed.Type == TilePayday && !passed.IsTerminal() {
			s = e.resolver.ResolvePayday(s, idx)
			p := s.Players[idx]
			events = append(events, moneyChanged(p.ID, int64(p.Salary), "payday (passing)"))
		}
	}

	if tile, ok := s.Board.Tile(s.Players[idx].Position); ok {
		resolved, tileEvents := e.resolver.ResolveTile(s, tile)
		s = resolved
		events = append(events, tileEvents...)
	}

	if s.Phase == PhaseMoving {
		s.Phase = PhaseTurnEnd
	}
	return s, events
}

// ChoosePath moves the current player onto the chosen successor. An index out of range is
// accepted as a pass: the player stays and the turn still ends.
func (e *ClassicEngine) ChoosePath(state *State, index int) *State {
	s := state.Clone()
	p := s.CurrentPlayer()
	if tile, ok := s.Board.Tile(p.Position); ok && index >= 0 && index < len(tile.Next) {
		p.Position = tile.Next[index]
	}
	s.Phase = PhaseTurnEnd
	return s
}

func (e *ClassicEngine) ResolveAction(state *State, action Action) (*State, []Event) {
	s := state.Clone()
	var events []Event
	idx := s.CurrentTurn
	p := &s.Players[idx]

	switch action.Kind {
	case ActionBuyHouse:
		for _, h := range s.HousesForSale {
			if h.ID != action.HouseID {
				continue
			}
			if !s.HouseOwned(h.ID) && p.Money >= h.Price {
				p.Money -= h.Price
				p.Houses = append(p.Houses, h)
				bought := h
				events = append(events,
					moneyChanged(p.ID, -h.Price, "bought "+h.Name),
					Event{Kind: EventHousePurchased, PlayerID: p.ID, House: &bought},
				)
			}
			break
		}

	case ActionBuyInsurance:
		switch {
		case action.Insurance == InsuranceLife && !p.LifeInsurance:
			p.LifeInsurance = true
			events = append(events, Event{Kind: EventInsurancePurchased, PlayerID: p.ID, Insurance: InsuranceLife})
		case action.Insurance == InsuranceAuto && !p.AutoInsurance:
			p.AutoInsurance = true
			events = append(events, Event{Kind: EventInsurancePurchased, PlayerID: p.ID, Insurance: InsuranceAuto})
		}

	case ActionSelectLawsuitTarget:
		resolved, lawsuitEvents := e.resolver.ResolveLawsuit(s, action.TargetID)
		s = resolved
		events = append(events, lawsuitEvents...)

	case ActionRepayDebt:
		repay := int64(float64(s.LoanUnit) * s.LoanInterestRate)
		if s.LoanUnit > 0 && p.Debt >= s.LoanUnit && p.Money >= repay {
			p.Money -= repay
			p.Debt -= s.LoanUnit
			events = append(events, moneyChanged(p.ID, -repay, "debt repayment"))
		}

	case ActionBuyStock:
		if ev, ok := buyStock(s, idx); ok {
			events = append(events, ev...)
		}
	}

	s.Phase = PhaseTurnEnd
	return s, events
}

// EndTurn hands the turn to the next player who has not retired. When everyone has
// retired the turn index is left alone; callers check IsFinished first.
func (e *ClassicEngine) EndTurn(state *State) *State {
	s := state.Clone()
	n := len(s.Players)
	for step := 1; step <= n; step++ {
		next := (s.CurrentTurn + step) % n
		if !s.Players[next].Retired {
			s.CurrentTurn = next
			break
		}
	}
	s.Phase = PhaseWaitingForSpin
	return s
}

func (e *ClassicEngine) IsFinished(s *State) bool {
	for _, p := range s.Players {
		if !p.Retired {
			return false
		}
	}
	return true
}

func (e *ClassicEngine) Rankings(s *State) []Ranking {
	rankings := make([]Ranking, len(s.Players))
	for i, p := range s.Players {
		rankings[i] = Ranking{
			PlayerID:    p.ID,
			PlayerName:  p.Name,
			TotalAssets: p.TotalAssets(s.LoanInterestRate),
		}
	}
	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].TotalAssets > rankings[j].TotalAssets
	})
	for i := range rankings {
		rankings[i].Rank = uint32(i + 1)
	}
	return rankings
}

// Forfeit retires a player who left mid-game. It is not a turn transition: phase and turn
// are untouched.
func Forfeit(state *State, playerID string) (*State, bool) {
	i, ok := state.PlayerIndex(playerID)
	if !ok || state.Players[i].Retired {
		return state, false
	}
	s := state.Clone()
	s.Players[i].Retired = true
	return s, true
}
