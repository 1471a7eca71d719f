package models

import "testing"

func TestSeatLayoutPosition(t *testing.T) {
	layout := DefaultSeatLayout()

	cases := []struct {
		seat, row, col int
	}{
		{1, 1, 1},
		{4, 1, 4},
		{5, 2, 1},
		{40, 10, 4},
	}
	for _, tc := range cases {
		row, col := layout.Position(tc.seat)
		if row != tc.row || col != tc.col {
			t.Fatalf("seat %d: got (%d,%d) want (%d,%d)", tc.seat, row, col, tc.row, tc.col)
		}
	}
}

func TestSeatLayoutAlternateWidth(t *testing.T) {
	layout := SeatLayout{SeatsPerRow: 3}

	row, col := layout.Position(4)
	if row != 2 || col != 1 {
		t.Fatalf("seat 4 on 3-wide layout: got (%d,%d) want (2,1)", row, col)
	}
	row, col = layout.Position(3)
	if row != 1 || col != 3 {
		t.Fatalf("seat 3 on 3-wide layout: got (%d,%d) want (1,3)", row, col)
	}
}

func TestSeatLayoutZeroWidthFallsBack(t *testing.T) {
	layout := SeatLayout{}
	row, col := layout.Position(5)
	if row != 2 || col != 1 {
		t.Fatalf("seat 5 on zero layout: got (%d,%d) want (2,1)", row, col)
	}
}

func TestBookingStatusActive(t *testing.T) {
	if !BookingConfirmed.Active() || !BookingPending.Active() {
		t.Fatal("confirmed and pending must count as active")
	}
	if BookingCancelled.Active() {
		t.Fatal("cancelled must not count as active")
	}
}
