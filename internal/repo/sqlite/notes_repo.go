package sqlite

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/note"
)

const noteColumns = `id, user_id, content, created_at`

type NotesRepo struct {
	base
}

func scanNote(row scanner) (note.Note, error) {
	var (
		n       note.Note
		created string
	)

	if err := row.Scan(&n.ID, &n.UserID, &n.Content, &created); err != nil {
		return note.Note{}, err
	}

	t, err := parseTimestamp(created)
	if err != nil {
		return note.Note{}, err
	}
	n.CreatedAt = t

	return n, nil
}

func (r *NotesRepo) Create(ctx context.Context, ownerID int64, in note.CreateInput) (note.Note, error) {
	return queryOne(ctx, r.base, "note.create",
		`INSERT INTO note (user_id, content, created_at) VALUES (?, ?, ?) RETURNING `+noteColumns,
		scanNote, ownerID, in.Content, formatTimestamp(r.now()),
	)
}

func (r *NotesRepo) GetByID(ctx context.Context, id int64) (note.Note, error) {
	return queryOne(ctx, r.base, "note.get_by_id", `SELECT `+noteColumns+` FROM note WHERE id = ?`, scanNote, id)
}

func (r *NotesRepo) ListByOwner(ctx context.Context, ownerID int64) ([]note.Note, error) {
	return queryAll(ctx, r.base, "note.list_by_owner",
		`SELECT `+noteColumns+` FROM note WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		scanNote, ownerID)
}

func (r *NotesRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "note.delete", "note", id)
}
