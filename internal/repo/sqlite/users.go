package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/apperr"
	"github.com/geocoder89/foodshelter/internal/domain/user"
)

const userColumns = `id, email, password_hash, role, name, bio, website, contact, donation_link, created_at, updated_at`

type UsersRepo struct {
	base
}

func scanUser(row scanner) (user.User, error) {
	var (
		u                                       user.User
		name, bio, website, contact, donateLink sql.NullString
		created, updated                        string
	)

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &name, &bio, &website, &contact, &donateLink, &created, &updated)
	if err != nil {
		return user.User{}, err
	}

	u.Profile = user.Profile{
		Name:         nullString(name),
		Bio:          nullString(bio),
		Website:      nullString(website),
		Contact:      nullString(contact),
		DonationLink: nullString(donateLink),
	}

	if u.CreatedAt, err = parseTimestamp(created); err != nil {
		return user.User{}, err
	}
	if u.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, in user.NewUser) (user.User, error) {
	now := formatTimestamp(r.now())

	return queryOne(ctx, r.base, "users.create",
		`INSERT INTO users (email, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		scanUser, in.Email, in.PasswordHash, in.Role, now, now,
	)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return queryOne(ctx, r.base, "users.get_by_id", `SELECT `+userColumns+` FROM users WHERE id = ?`, scanUser, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return queryOne(ctx, r.base, "users.get_by_email", `SELECT `+userColumns+` FROM users WHERE email = ?`, scanUser, email)
}

func (r *UsersRepo) List(ctx context.Context) ([]user.User, error) {
	return queryAll(ctx, r.base, "users.list", `SELECT `+userColumns+` FROM users ORDER BY id ASC`, scanUser)
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, p user.Profile) (user.User, error) {
	return queryOne(ctx, r.base, "users.update_profile",
		`UPDATE users
		    SET name = ?, bio = ?, website = ?, contact = ?, donation_link = ?, updated_at = ?
		  WHERE id = ?
		  RETURNING `+userColumns,
		scanUser, optional(p.Name), optional(p.Bio), optional(p.Website), optional(p.Contact), optional(p.DonationLink), formatTimestamp(r.now()), id,
	)
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	var affected int64

	err := r.observe("users.update_password", func() error {
		res, err := r.db.ExecContext(ctx,
			`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
			passwordHash, formatTimestamp(r.now()), id,
		)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return mapErr(err)
	}

	if affected == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
