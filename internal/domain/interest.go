package domain

import "time"

type InterestStatus string

const (
	InterestStatusWaiting   InterestStatus = "waiting"
	InterestStatusContacted InterestStatus = "contacted"
	InterestStatusConverted InterestStatus = "converted"
	InterestStatusDismissed InterestStatus = "dismissed"
)

func (s InterestStatus) Valid() bool {
	switch s {
	case InterestStatusWaiting, InterestStatusContacted, InterestStatusConverted, InterestStatusDismissed:
		return true
	}
	return false
}

// InterestRegistration is a waiting-list entry for a date range with no free bike.
type InterestRegistration struct {
	ID           int32          `json:"id"`
	Name         string         `json:"name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	DesiredStart Date           `json:"desired_start"`
	DesiredEnd   Date           `json:"desired_end"`
	Notes        string         `json:"notes"`
	Status       InterestStatus `json:"status"`
	Locale       string         `json:"locale"`
	NotifiedOn   *time.Time     `json:"notified_on,omitempty"`
	CreatedOn    time.Time      `json:"created_on"`
}
