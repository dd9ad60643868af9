package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/note"
	"github.com/jackc/pgx/v5"
)

const noteColumns = `id, user_id, content, created_at`

type NotesRepo struct {
	base
}

func scanNote(row pgx.Row) (note.Note, error) {
	var n note.Note
	err := row.Scan(&n.ID, &n.UserID, &n.Content, &n.CreatedAt)
	return n, err
}

func (r *NotesRepo) Create(ctx context.Context, ownerID int64, in note.CreateInput) (note.Note, error) {
	var n note.Note

	err := r.observe("note.create", func() error {
		var err error
		n, err = scanNote(r.pool.QueryRow(ctx,
			`INSERT INTO note (user_id, content, created_at) VALUES ($1, $2, $3) RETURNING `+noteColumns,
			ownerID, in.Content, r.now().UTC(),
		))
		return err
	})

	return n, mapErr(err)
}

func (r *NotesRepo) GetByID(ctx context.Context, id int64) (note.Note, error) {
	var n note.Note

	err := r.observe("note.get_by_id", func() error {
		var err error
		n, err = scanNote(r.pool.QueryRow(ctx, `SELECT `+noteColumns+` FROM note WHERE id = $1`, id))
		return err
	})

	return n, mapErr(err)
}

func (r *NotesRepo) ListByOwner(ctx context.Context, ownerID int64) ([]note.Note, error) {
	var out []note.Note

	err := r.observe("note.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+noteColumns+` FROM note WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (note.Note, error) {
			return scanNote(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *NotesRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "note.delete", "note", id)
}
