package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type BondStatus string

const (
	BondStatusNotPaid  BondStatus = "not_paid"
	BondStatusPaid     BondStatus = "paid"
	BondStatusReturned BondStatus = "returned"
)

func (s BondStatus) Valid() bool {
	return s == BondStatusNotPaid || s == BondStatusPaid || s == BondStatusReturned
}

// bookingTransitions lists the statuses reachable from each status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusActive, BookingStatusCancelled},
	BookingStatusActive:    {BookingStatusCompleted},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a booking in status s may move to next.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CanAdvanceTo reports whether the bond may move from s to next. Bonds go
// not_paid -> paid -> returned; a paid bond may be reset to not_paid to undo a mistake.
func (s BondStatus) CanAdvanceTo(next BondStatus) bool {
	switch s {
	case BondStatusNotPaid:
		return next == BondStatusPaid
	case BondStatusPaid:
		return next == BondStatusReturned || next == BondStatusNotPaid
	}
	return false
}

// RentalBooking is a customer's weekly rental of a bike over a date range.
// Rate and bond are snapshotted from settings when the booking is created.
type RentalBooking struct {
	ID              int32         `json:"id"`
	BikeID          *int32        `json:"bike_id,omitempty"`
	CustomerName    string        `json:"customer_name"`
	CustomerEmail   string        `json:"customer_email"`
	CustomerPhone   string        `json:"customer_phone"`
	Address         string        `json:"address"`
	StartDate       Date          `json:"start_date"`
	EndDate         Date          `json:"end_date"`
	WeeklyRateCents int64         `json:"weekly_rate_cents"`
	BondCents       int64         `json:"bond_cents"`
	BondStatus      BondStatus    `json:"bond_status"`
	ContractSigned  bool          `json:"contract_signed"`
	Status          BookingStatus `json:"status"`
	Notes           string        `json:"notes"`
	Locale          string        `json:"locale"`
	Payments        []Payment     `json:"payments,omitempty"`
	CreatedOn       time.Time     `json:"created_on"`
	UpdatedOn       time.Time     `json:"updated_on"`
}

// BlocksBike reports whether the booking holds its bike for its date range.
func (b *RentalBooking) BlocksBike() bool {
	if b.BikeID == nil {
		return false
	}
	switch b.Status {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusActive:
		return true
	}
	return false
}

// Overlaps reports whether the booking's inclusive date range intersects [from, to].
func (b *RentalBooking) Overlaps(from, to Date) bool {
	return !b.StartDate.After(to) && !from.After(b.EndDate)
}
