package user

import "time"

const DefaultRole = "user"

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never expose hash in JSON
	Role         string    `json:"role"`
	Profile      Profile   `json:"profile"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Profile fields are optional; nil means the operator left them blank.
type Profile struct {
	Name         *string `json:"name,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	Website      *string `json:"website,omitempty"`
	Contact      *string `json:"contact,omitempty"`
	DonationLink *string `json:"donationLink,omitempty"`
}

type NewUser struct {
	Email        string
	PasswordHash string
	Role         string
}

// UnnamedShelter labels operators that have not set a public name.
const UnnamedShelter = "Unnamed shelter"

// DisplayName falls back to the login email when no name is set. Only for
// private contexts such as mail greetings.
func (u User) DisplayName() string {
	if u.Profile.Name != nil && *u.Profile.Name != "" {
		return *u.Profile.Name
	}
	return u.Email
}

// PublicName is what anonymous visitors see; it never reveals the email.
func (u User) PublicName() string {
	if u.Profile.Name != nil && *u.Profile.Name != "" {
		return *u.Profile.Name
	}
	return UnnamedShelter
}
