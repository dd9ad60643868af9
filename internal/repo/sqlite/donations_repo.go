package sqlite

import (
	"context"
	"database/sql"

	"github.com/geocoder89/foodshelter/internal/domain"
	"github.com/geocoder89/foodshelter/internal/domain/donation"
)

const donationColumns = `id, user_id, amount, donor_name, date`

type DonationsRepo struct {
	base
}

func scanDonation(row scanner) (donation.Donation, error) {
	var (
		d     donation.Donation
		donor sql.NullString
		date  string
	)

	if err := row.Scan(&d.ID, &d.UserID, &d.Amount, &donor, &date); err != nil {
		return donation.Donation{}, err
	}

	day, err := parseDate(date)
	if err != nil {
		return donation.Donation{}, err
	}

	d.DonorName = nullString(donor)
	d.Date = day

	return d, nil
}

func (r *DonationsRepo) Create(ctx context.Context, ownerID int64, in donation.CreateInput) (donation.Donation, error) {
	return queryOne(ctx, r.base, "donation.create",
		`INSERT INTO donation (user_id, amount, donor_name, date) VALUES (?, ?, ?, ?) RETURNING `+donationColumns,
		scanDonation, ownerID, in.Amount, optional(in.DonorName), formatDate(domain.Today(r.now())),
	)
}

func (r *DonationsRepo) GetByID(ctx context.Context, id int64) (donation.Donation, error) {
	return queryOne(ctx, r.base, "donation.get_by_id",
		`SELECT `+donationColumns+` FROM donation WHERE id = ?`, scanDonation, id)
}

func (r *DonationsRepo) ListByOwner(ctx context.Context, ownerID int64) ([]donation.Donation, error) {
	return queryAll(ctx, r.base, "donation.list_by_owner",
		`SELECT `+donationColumns+` FROM donation WHERE user_id = ? ORDER BY date DESC, id DESC`,
		scanDonation, ownerID)
}

func (r *DonationsRepo) Delete(ctx context.Context, id int64) error {
	return r.deleteByID(ctx, "donation.delete", "donation", id)
}
