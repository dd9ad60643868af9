package note

import "time"

type Note struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func (n Note) OwnerID() int64 { return n.UserID }

type CreateInput struct {
	Content string
}
