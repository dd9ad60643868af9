package volunteer

type Volunteer struct {
	ID           int64   `json:"id"`
	UserID       int64   `json:"userId"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Phone        *string `json:"phone,omitempty"`
	Availability *string `json:"availability,omitempty"`
	Skills       *string `json:"skills,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (v Volunteer) OwnerID() int64 { return v.UserID }

type CreateInput struct {
	Name         string
	Email        string
	Phone        *string
	Availability *string
	Skills       *string
	Notes        *string
}
