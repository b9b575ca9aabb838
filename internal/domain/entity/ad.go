package entity

import "time"

type Ad struct {
	ID          int64     `db:"id" json:"id"`
	Sender      string    `db:"sender" json:"sender"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Price       int       `db:"price" json:"price"`
	YearCar     int       `db:"year_car" json:"year_car"`
	CarBrandID  int64     `db:"car_brand_id" json:"car_brand_id"`
	Model       string    `db:"model" json:"model"`
	MileageKm   int       `db:"mileage_km_car" json:"mileage_km_car"`
	VINNumber   string    `db:"vin_number" json:"vin_number"`
	Region      string    `db:"region" json:"region"`
	Condition   string    `db:"condition" json:"condition"`
	DayCount    int       `db:"day_count" json:"day_count"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`

	// BrandName is populated by queries that join car_brands.
	BrandName string `db:"brand_name" json:"brand_name,omitempty"`
}

type CarBrand struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

type AdImage struct {
	ID         int64     `db:"id" json:"id"`
	AdID       int64     `db:"ad_id" json:"ad_id"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

// NewAdInput carries the validated sell-form payload into AdService.Create.
type NewAdInput struct {
	Sender      string
	Title       string
	Description string
	Price       int
	Brand       string
	Model       string
	Year        int
	Mileage     int
	VIN         string
	Region      string
	Condition   string
	Photos      []string
}
