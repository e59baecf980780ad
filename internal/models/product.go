package models

import (
	"encoding/json"
	"time"
)

// Product images are stored as a JSON-encoded list of URLs in a single
// column; upload to the media host happens upstream of this service.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	PhoneNumber string    `json:"phone_number"`
	SellerID    int64     `json:"seller_id"`
	Arrival     bool      `json:"arrival"`
	Deleted     bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EncodeImages renders the image URL list for the database column.
func EncodeImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeImages parses the image column; malformed data yields an empty list.
func DecodeImages(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return []string{}
	}
	return images
}
