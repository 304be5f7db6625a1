package engine

// Map asset types. These are loaded from JSON once per game start.

type MapData struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Version          string     `json:"version"`
	StartMoney       int64      `json:"start_money"`
	LoanUnit         uint64     `json:"loan_unit"`
	LoanInterestRate float64    `json:"loan_interest_rate"`
	Tiles            []TileData `json:"tiles"`
	Careers          []Career   `json:"careers"`
	Houses           []House    `json:"houses"`
}

type TileData struct {
	ID       int        `json:"id"`
	Type     TileType   `json:"type"`
	Position Position   `json:"position"`
	Next     []int      `json:"next"`
	Event    *TileEvent `json:"event,omitempty"`
	Labels   []string   `json:"labels,omitempty"`
}

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type TileType string

const (
	TileStart     TileType = "Start"
	TilePayday    TileType = "Payday"
	TileAction    TileType = "Action"
	TileCareer    TileType = "Career"
	TileHouse     TileType = "House"
	TileMarry     TileType = "Marry"
	TileBaby      TileType = "Baby"
	TileStock     TileType = "Stock"
	TileInsurance TileType = "Insurance"
	TileTax       TileType = "Tax"
	TileLawsuit   TileType = "Lawsuit"
	TileBranch    TileType = "Branch"
	TileRetire    TileType = "Retire"
)

func (t TileType) Valid() bool {
	switch t {
	case TileStart, TilePayday, TileAction, TileCareer, TileHouse, TileMarry, TileBaby,
		TileStock, TileInsurance, TileTax, TileLawsuit, TileBranch, TileRetire:
		return true
	}
	return false
}

const (
	TileEventMoney      = "money"
	TileEventDrawCareer = "draw_career"
)

// TileEvent is the literal payload attached to a tile, tagged by Type.
type TileEvent struct {
	Type   string `json:"type"`
	Amount int64  `json:"amount,omitempty"`
	Text   string `json:"text,omitempty"`
	Pool   string `json:"pool,omitempty"`
}

type Career struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Salary uint32 `json:"salary"`
	Pool   string `json:"pool"`
}

type House struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	SellPrice int64  `json:"sell_price"`
}

type Stock struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PromissoryNote struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type PlayerState struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Money           int64            `json:"money"`
	Career          *Career          `json:"career"`
	Salary          uint32           `json:"salary"`
	Married         bool             `json:"married"`
	Children        uint8            `json:"children"`
	LifeInsurance   bool             `json:"life_insurance"`
	AutoInsurance   bool             `json:"auto_insurance"`
	Stocks          []Stock          `json:"stocks"`
	Houses          []House          `json:"houses"`
	Debt            uint64           `json:"debt"`
	PromissoryNotes []PromissoryNote `json:"promissory_notes"`
	Position        int              `json:"position"`
	Retired         bool             `json:"retired"`
}

func NewPlayerState(id, name string, startMoney int64) PlayerState {
	return PlayerState{
		ID:              id,
		Name:            name,
		Money:           startMoney,
		Stocks:          []Stock{},
		Houses:          []House{},
		PromissoryNotes: []PromissoryNote{},
	}
}

// TotalAssets is money plus house sell prices plus notes, minus debt with interest.
// It is only used for ranking.
func (p PlayerState) TotalAssets(interestRate float64) int64 {
	total := p.Money
	for _, h := range p.Houses {
		total += h.SellPrice
	}
	for _, n := range p.PromissoryNotes {
		total += n.Amount
	}
	return total - int64(float64(p.Debt)*interestRate)
}

func (p PlayerState) clone() PlayerState {
	c := p
	if p.Career != nil {
		career := *p.Career
		c.Career = &career
	}
	c.Stocks = append([]Stock{}, p.Stocks...)
	c.Houses = append([]House{}, p.Houses...)
	c.PromissoryNotes = append([]PromissoryNote{}, p.PromissoryNotes...)
	return c
}

type Phase string

const (
	PhaseWaitingForSpin Phase = "WaitingForSpin"
	PhaseSpinning       Phase = "Spinning"
	PhaseMoving         Phase = "Moving"
	PhaseResolvingEvent Phase = "ResolvingEvent"
	PhaseChoosingPath   Phase = "ChoosingPath"
	PhaseChoosingAction Phase = "ChoosingAction"
	PhaseTurnEnd        Phase = "TurnEnd"
)

// State is the complete snapshot of one game. Engine operations never modify a State
// they receive; they return a new one.
type State struct {
	Players          []PlayerState `json:"players"`
	Board            Board         `json:"board"`
	CurrentTurn      int           `json:"current_turn"`
	Phase            Phase         `json:"phase"`
	RngSeed          uint64        `json:"rng_seed"`
	LoanUnit         uint64        `json:"loan_unit"`
	LoanInterestRate float64       `json:"loan_interest_rate"`
	Careers          []Career      `json:"careers"`
	HousesForSale    []House       `json:"houses_for_sale"`
}

// Clone returns a deep copy. The board is shared since it never changes after Init.
func (s *State) Clone() *State {
	c := *s
	c.Players = make([]PlayerState, len(s.Players))
	for i, p := range s.Players {
		c.Players[i] = p.clone()
	}
	c.Careers = append([]Career{}, s.Careers...)
	c.HousesForSale = append([]House{}, s.HousesForSale...)
	return &c
}

func (s *State) CurrentPlayer() *PlayerState {
	return &s.Players[s.CurrentTurn]
}

func (s *State) PlayerIndex(id string) (int, bool) {
	for i, p := range s.Players {
		if p.ID == id {
			return i, true
		}
	}
	return -1, false
}

func (s *State) ActivePlayerCount() int {
	n := 0
	for _, p := range s.Players {
		if !p.Retired {
			n++
		}
	}
	return n
}

// HouseOwned reports whether any player already holds the house.
func (s *State) HouseOwned(houseID string) bool {
	for _, p := range s.Players {
		for _, h := range p.Houses {
			if h.ID == houseID {
				return true
			}
		}
	}
	return false
}

type InsuranceType string

const (
	InsuranceLife InsuranceType = "life"
	InsuranceAuto InsuranceType = "auto"
)

type ActionKind string

const (
	ActionBuyHouse            ActionKind = "BuyHouse"
	ActionBuyInsurance        ActionKind = "BuyInsurance"
	ActionSkip                ActionKind = "SkipAction"
	ActionSelectLawsuitTarget ActionKind = "SelectLawsuitTarget"
	ActionRepayDebt           ActionKind = "RepayDebt"
	ActionBuyStock            ActionKind = "BuyStock"
)

// Action is a player's answer to a ChoosingAction phase. Only the field matching Kind is read.
type Action struct {
	Kind      ActionKind
	HouseID   string
	Insurance InsuranceType
	TargetID  string
}

type Choice struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

type EventKind string

const (
	EventMoneyChanged       EventKind = "MoneyChanged"
	EventCareerAssigned     EventKind = "CareerAssigned"
	EventMarried            EventKind = "Married"
	EventBabyBorn           EventKind = "BabyBorn"
	EventHousePurchased     EventKind = "HousePurchased"
	EventInsurancePurchased EventKind = "InsurancePurchased"
	EventStockPurchased     EventKind = "StockPurchased"
	EventPlayerRetired      EventKind = "PlayerRetired"
	EventChoiceRequired     EventKind = "ChoiceRequired"
)

// Event is an effect produced by an engine transition.
type Event struct {
	Kind      EventKind     `json:"kind"`
	PlayerID  string        `json:"player_id,omitempty"`
	Amount    int64         `json:"amount,omitempty"`
	Reason    string        `json:"reason,omitempty"`
	Career    *Career       `json:"career,omitempty"`
	Children  uint8         `json:"children,omitempty"`
	House     *House        `json:"house,omitempty"`
	Insurance InsuranceType `json:"insurance,omitempty"`
	Choices   []Choice      `json:"choices,omitempty"`
}

type SpinResult struct {
	PlayerID string `json:"player_id"`
	Value    uint32 `json:"value"`
}

type Ranking struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TotalAssets int64  `json:"total_assets"`
	Rank        uint32 `json:"rank"`
}

// PlayerSeat is a player entering a new game, in turn order.
type PlayerSeat struct {
	ID   string
	Name string
}
