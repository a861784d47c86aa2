package repository

import (
	"errors"
	"testing"
)

func TestResizeSeatsLeft(t *testing.T) {
	tests := []struct {
		name             string
		seats, seatsLeft uint32
		newSeats         uint32
		wantLeft         uint32
		wantErr          error
	}{
		{"grow keeps held seats", 10, 4, 20, 14, nil},
		{"shrink above held count", 10, 4, 8, 2, nil},
		{"shrink to exactly held count", 10, 4, 6, 0, nil},
		{"shrink below held count refused", 10, 4, 5, 0, ErrConflict},
		{"no bookings shrink to one", 10, 10, 1, 1, nil},
		{"unchanged capacity", 10, 7, 10, 7, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resizeSeatsLeft(tt.seats, tt.seatsLeft, tt.newSeats)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("resizeSeatsLeft(%d, %d, %d) error = %v, want %v",
					tt.seats, tt.seatsLeft, tt.newSeats, err, tt.wantErr)
			}
			if err == nil && got != tt.wantLeft {
				t.Fatalf("resizeSeatsLeft(%d, %d, %d) = %d, want %d",
					tt.seats, tt.seatsLeft, tt.newSeats, got, tt.wantLeft)
			}
		})
	}
}
