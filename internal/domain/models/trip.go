package models

// Trip is a scheduled journey. Bus fields are denormalized from the joined
// buses row because seat generation needs capacity and type together.
type Trip struct {
	ID            int64  `json:"id"`
	AgencyID      int64  `json:"agencyId"`
	BusID         int64  `json:"busId"`
	DriverID      int64  `json:"driverId,omitempty"`
	DepartureCity string `json:"departureCity"`
	ArrivalCity   string `json:"arrivalCity"`
	DepartureAt   string `json:"departureAt"`
	ArrivalAt     string `json:"arrivalAt,omitempty"`
	PriceFCFA     int64  `json:"priceFcfa"`
	IsActive      bool   `json:"isActive"`

	BusPlate      string `json:"busPlate,omitempty"`
	BusTotalSeats int    `json:"busTotalSeats,omitempty"`
	BusIsVIP      bool   `json:"busIsVip,omitempty"`
}

// SeatType is the uniform type applied to every seat of the trip.
func (t Trip) SeatType() SeatType {
	if t.BusIsVIP {
		return SeatTypeVIP
	}
	return SeatTypeStandard
}
