package domain

type InquiryKind string

const (
	InquiryKindContact    InquiryKind = "contact"
	InquiryKindSale       InquiryKind = "sale"
	InquiryKindConversion InquiryKind = "conversion"
	InquiryKindTour       InquiryKind = "tour"
)

func (k InquiryKind) Valid() bool {
	switch k {
	case InquiryKindContact, InquiryKindSale, InquiryKindConversion, InquiryKindTour:
		return true
	}
	return false
}

// Inquiry is a website form submission. It is delivered by email and not stored.
type Inquiry struct {
	Kind      InquiryKind `json:"kind"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	Message   string      `json:"message"`
	BikeID    *int32      `json:"bike_id,omitempty"`
	TourDate  Date        `json:"tour_date"`
	GroupSize int32       `json:"group_size"`
	Locale    string      `json:"locale"`
}
