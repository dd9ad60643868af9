package postgres

import (
	"context"

	"github.com/geocoder89/foodshelter/internal/domain"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
	"github.com/jackc/pgx/v5"
)

const donationColumns = `id, user_id, amount, donor_name, date`

type DonationsRepo struct {
	base
}

func scanDonation(row pgx.Row) (donation.Donation, error) {
	var d donation.Donation
	err := row.Scan(&d.ID, &d.UserID, &d.Amount, &d.DonorName, &d.Date)
	return d, err
}

func (r *DonationsRepo) Create(ctx context.Context, ownerID int64, in donation.CreateInput) (donation.Donation, error) {
	var d donation.Donation

	err := r.observe("donation.create", func() error {
		var err error
		d, err = scanDonation(r.pool.QueryRow(ctx,
			`INSERT INTO donation (user_id, amount, donor_name, date)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+donationColumns,
			ownerID, in.Amount, in.DonorName, domain.Today(r.now()),
		))
		return err
	})

	return d, mapErr(err)
}

func (r *DonationsRepo) GetByID(ctx context.Context, id int64) (donation.Donation, error) {
	var d donation.Donation

	err := r.observe("donation.get_by_id", func() error {
		var err error
		d, err = scanDonation(r.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donation WHERE id = $1`, id))
		return err
	})

	return d, mapErr(err)
}

func (r *DonationsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]donation.Donation, error) {
	var out []donation.Donation

	err := r.observe("donation.list_by_owner", func() error {
		rows, err := r.pool.Query(ctx,
			`SELECT `+donationColumns+` FROM donation WHERE user_id = $1 ORDER BY date DESC, id DESC`, ownerID)
		if err != nil {
			return err
		}

		out, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (donation.Donation, error) {
			return scanDonation(row)
		})
		return err
	})

	return out, mapErr(err)
}

func (r *DonationsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "donation.delete", "donation", id)
}
