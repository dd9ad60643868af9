package budget

import "time"

// Entry amounts are signed: income is positive, spending negative.
type Entry struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Amount      float64   `json:"amount"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

func (e Entry) OwnerID() int64 { return e.UserID }

type CreateInput struct {
	Amount      float64
	Description *string
	Date        time.Time
}
