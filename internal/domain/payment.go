package domain

import "time"

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is a partial payment towards a booking. Amounts are always positive.
type Payment struct {
	ID          int32         `json:"id"`
	BookingID   int32         `json:"booking_id"`
	AmountCents int64         `json:"amount_cents"`
	PaidOn      Date          `json:"paid_on"`
	Method      PaymentMethod `json:"method"`
	Reference   string        `json:"reference"`
	Notes       string        `json:"notes"`
	CreatedOn   time.Time     `json:"created_on"`
}
