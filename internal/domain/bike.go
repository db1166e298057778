package domain

import "time"

type BikeCategory string

const (
	BikeCategoryRental     BikeCategory = "rental"
	BikeCategorySale       BikeCategory = "sale"
	BikeCategoryConversion BikeCategory = "conversion"
	BikeCategoryTour       BikeCategory = "tour"
)

type BikeStatus string

const (
	BikeStatusAvailable   BikeStatus = "available"
	BikeStatusRented      BikeStatus = "rented"
	BikeStatusMaintenance BikeStatus = "maintenance"
	BikeStatusSold        BikeStatus = "sold"
	BikeStatusRetired     BikeStatus = "retired"
)

func (c BikeCategory) Valid() bool {
	switch c {
	case BikeCategoryRental, BikeCategorySale, BikeCategoryConversion, BikeCategoryTour:
		return true
	}
	return false
}

func (s BikeStatus) Valid() bool {
	switch s {
	case BikeStatusAvailable, BikeStatusRented, BikeStatusMaintenance, BikeStatusSold, BikeStatusRetired:
		return true
	}
	return false
}

type Bike struct {
	ID               int32        `json:"id"`
	Name             string       `json:"name"`
	Model            string       `json:"model"`
	Category         BikeCategory `json:"category"`
	Status           BikeStatus   `json:"status"`
	WeeklyPriceCents int64        `json:"weekly_price_cents"`
	SalePriceCents   int64        `json:"sale_price_cents"`
	BatteryWh        int32        `json:"battery_wh"`
	RangeKm          int32        `json:"range_km"`
	Description      string       `json:"description"`
	ImageURLs        []string     `json:"image_urls"`
	Featured         bool         `json:"featured"`
	CreatedOn        time.Time    `json:"created_on"`
	UpdatedOn        time.Time    `json:"updated_on"`
}

// Rentable reports whether the bike belongs to the rental fleet and can take new bookings.
func (b *Bike) Rentable() bool {
	return b.Category == BikeCategoryRental &&
		(b.Status == BikeStatusAvailable || b.Status == BikeStatusRented)
}

// InFleet reports whether the bike counts towards the rental fleet size.
func (b *Bike) InFleet() bool {
	return b.Category == BikeCategoryRental && b.Status != BikeStatusSold && b.Status != BikeStatusRetired
}
