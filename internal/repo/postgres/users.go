package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, role, name, bio, website, contact, donation_link, created_at, updated_at`

type UsersRepo struct {
	base
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User

	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Profile.Name,
		&u.Profile.Bio,
		&u.Profile.Website,
		&u.Profile.Contact,
		&u.Profile.DonationLink,
		&u.CreatedAt,
		&u.UpdatedAt,
	)

	return u, err
}

func (r *UsersRepo) Create(ctx context.Context, in user.NewUser) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`INSERT INTO users (email, password_hash, role)
			 VALUES ($1, $2, $3)
			 RETURNING `+userColumns,
			in.Email, in.PasswordHash, in.Role,
		))
		return err
	})

	return u, mapErr(err)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_id", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
		return err
	})

	return u, mapErr(err)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_email", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
		return err
	})

	return u, mapErr(err)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	var out []user.User

	err := r.observe("users.list", func() error {
		rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (user.User, error) {
			return scanUser(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, p user.Profile) (user.User, error) {
	var u user.User

	err := r.observe("users.update_profile", func() error {
		var err error
		u, err = scanUser(r.pool.QueryRow(ctx,
			`UPDATE users
			    SET name = $2,
			        bio = $3,
			        website = $4,
			        contact = $5,
			        donation_link = $6,
			        updated_at = NOW()
			  WHERE id = $1
			  RETURNING `+userColumns,
			id, p.Name, p.Bio, p.Website, p.Contact, p.DonationLink,
		))
		return err
	})

	return u, mapErr(err)
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	var affected int64

	err := r.observe("users.update_password", func() error {
		tag, err := r.pool.Exec(ctx,
			`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`,
			id, passwordHash,
		)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return mapErr(err)
	}

	if affected == 0 {
		return mapErr(pgx.ErrNoRows)
	}

	return nil
}
