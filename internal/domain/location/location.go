package location

import "time"

type Location struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Address   string    `json:"address"`
	Date      time.Time `json:"date"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}

func (l Location) OwnerID() int64 { return l.UserID }

func (l Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type CreateInput struct {
	Address   string
	Date      time.Time
	Latitude  *float64
	Longitude *float64
}
