package donation

import (
	"fmt"
	"time"
)

type Donation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Amount    float64   `json:"amount"`
	DonorName *string   `json:"donorName,omitempty"`
	Date      time.Time `json:"date"`
}

func (d Donation) OwnerID() int64 { return d.UserID }

type CreateInput struct {
	Amount    float64
	DonorName *string
}

// Total sums donation amounts.
func Total(ds []Donation) float64 {
	var sum float64
	for _, d := range ds {
		sum += d.Amount
	}
	return sum
}

func FormatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
