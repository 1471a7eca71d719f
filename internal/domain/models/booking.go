package models

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingPending   BookingStatus = "pending"
	BookingCancelled BookingStatus = "cancelled"
)

// Active reports whether the booking still holds its seat.
func (s BookingStatus) Active() bool {
	return s == BookingConfirmed || s == BookingPending
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingConfirmed, BookingPending, BookingCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

type Booking struct {
	ID             int64         `json:"id"`
	TripID         int64         `json:"tripId"`
	SeatNumber     string        `json:"seatNumber"`
	PassengerName  string        `json:"passengerName"`
	PassengerPhone string        `json:"passengerPhone"`
	BookingStatus  BookingStatus `json:"bookingStatus"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PriceFCFA      int64         `json:"priceFcfa"`
	Reference      string        `json:"reference"`
	CreatedAt      string        `json:"createdAt,omitempty"`
}
