package models

type SeatType string

const (
	SeatTypeVIP      SeatType = "vip"
	SeatTypeStandard SeatType = "standard"
)

// SeatMapEntry is one row per (trip, seat_number). Availability is a cached
// view of the active booking set and is only mutated by occupancy sync.
type SeatMapEntry struct {
	ID                int64    `json:"id"`
	TripID            int64    `json:"tripId"`
	SeatNumber        string   `json:"seatNumber"`
	PositionRow       int      `json:"positionRow"`
	PositionColumn    int      `json:"positionColumn"`
	SeatType          SeatType `json:"seatType"`
	IsAvailable       bool     `json:"isAvailable"`
	PriceModifierFCFA int64    `json:"priceModifierFcfa"`
}

// SeatLayout maps a linear seat number onto a row/column grid. Alternate bus
// configurations (2+1, double-decker halves) are a value swap, not new code.
type SeatLayout struct {
	SeatsPerRow int
}

func DefaultSeatLayout() SeatLayout {
	return SeatLayout{SeatsPerRow: 4}
}

// Position returns the 1-based row and column for a seat number.
func (l SeatLayout) Position(seatNumber int) (row, column int) {
	per := l.SeatsPerRow
	if per <= 0 {
		per = 4
	}
	row = (seatNumber-1)/per + 1
	column = (seatNumber-1)%per + 1
	return row, column
}
