package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/kennelworks/studbook-server/internal/model"
)

// ErrBreedingStudNotFound is returned when a breeding record lookup fails.
var ErrBreedingStudNotFound = errors.New("breeding stud not found")

// BreedingStudRepo provides CRUD over breeding records and their child
// breeding_dates rows.  Writes that touch both tables run inside a single
// transaction so a mid-sequence failure cannot leave a record with its
// dates cleared but not repopulated.
type BreedingStudRepo struct {
	db *sql.DB
}

// NewBreedingStudRepo constructs a BreedingStudRepo with the given DB handle.
func NewBreedingStudRepo(db *sql.DB) *BreedingStudRepo {
	return &BreedingStudRepo{db: db}
}

const breedingCols = `id, stud_name, owner_name, owner_contact, female_dog_color, female_breed,
	female_first_day_of_heat, female_status, female_puppy_count, female_dog_image_ref, breeding_image_ref,
	created_at, updated_at`

// Create inserts a breeding record together with its breeding dates.  The
// record is normalized first so a puppy count can never be stored against a
// non-delivered status.
func (r *BreedingStudRepo) Create(ctx context.Context, b *model.BreedingStud) error {
	b.Normalize()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const qInsert = `INSERT INTO breeding_studs
	    (stud_name, owner_name, owner_contact, female_dog_color, female_breed,
	     female_first_day_of_heat, female_status, female_puppy_count, female_dog_image_ref, breeding_image_ref)
	    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, qInsert,
		b.StudName, b.OwnerName, b.OwnerContact, b.FemaleColor, b.FemaleBreed,
		b.FirstDayHeat, string(b.Status), b.PuppyCount, b.FemaleImage, b.BreedingImage)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	if err := insertDates(ctx, tx, b.ID, b.Dates); err != nil {
		return err
	}
	return tx.Commit()
}

// GetByID retrieves one breeding record with its ordered dates.
func (r *BreedingStudRepo) GetByID(ctx context.Context, id uint64) (*model.BreedingStud, error) {
	const q = `SELECT ` + breedingCols + ` FROM breeding_studs WHERE id = ?`
	var b model.BreedingStud
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.StudName, &b.OwnerName, &b.OwnerContact, &b.FemaleColor, &b.FemaleBreed,
		&b.FirstDayHeat, &b.Status, &b.PuppyCount, &b.FemaleImage, &b.BreedingImage,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBreedingStudNotFound
		}
		return nil, err
	}
	dates, err := r.datesFor(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	b.Dates = dates
	return &b, nil
}

// List returns all breeding records, each with its ordered dates attached.
func (r *BreedingStudRepo) List(ctx context.Context) ([]*model.BreedingStud, error) {
	const q = `SELECT ` + breedingCols + ` FROM breeding_studs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.BreedingStud
	byID := map[uint64]*model.BreedingStud{}
	for rows.Next() {
		b := new(model.BreedingStud)
		if err := rows.Scan(
			&b.ID, &b.StudName, &b.OwnerName, &b.OwnerContact, &b.FemaleColor, &b.FemaleBreed,
			&b.FirstDayHeat, &b.Status, &b.PuppyCount, &b.FemaleImage, &b.BreedingImage,
			&b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
		byID[b.ID] = b
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// One pass over all child rows instead of a query per record.
	const qDates = `SELECT stud_id, breeding_date FROM breeding_dates ORDER BY stud_id, id`
	drows, err := r.db.QueryContext(ctx, qDates)
	if err != nil {
		return nil, err
	}
	defer drows.Close()
	for drows.Next() {
		var (
			studID uint64
			d      time.Time
		)
		if err := drows.Scan(&studID, &d); err != nil {
			return nil, err
		}
		if b, ok := byID[studID]; ok {
			b.Dates = append(b.Dates, d)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the full editable field set and the whole breeding-date
// child set.  The old dates are deleted and the provided set inserted in
// one transaction; the child rows are never merged or diffed.  Returns
// ErrBreedingStudNotFound when the record does not exist.
func (r *BreedingStudRepo) Update(ctx context.Context, b *model.BreedingStud) error {
	b.Normalize()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `UPDATE breeding_studs
	           SET stud_name = ?, owner_name = ?, owner_contact = ?, female_dog_color = ?, female_breed = ?,
	               female_first_day_of_heat = ?, female_status = ?, female_puppy_count = ?,
	               female_dog_image_ref = ?, breeding_image_ref = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q,
		b.StudName, b.OwnerName, b.OwnerContact, b.FemaleColor, b.FemaleBreed,
		b.FirstDayHeat, string(b.Status), b.PuppyCount, b.FemaleImage, b.BreedingImage, b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBreedingStudNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM breeding_dates WHERE stud_id = ?`, b.ID); err != nil {
		return err
	}
	if err := insertDates(ctx, tx, b.ID, b.Dates); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete removes a breeding record and its dependent date rows.  Children
// go first; the schema is not assumed to cascade.
func (r *BreedingStudRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM breeding_dates WHERE stud_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM breeding_studs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBreedingStudNotFound
	}
	return tx.Commit()
}

// CountByStatus returns record counts per female_status for the dashboard.
func (r *BreedingStudRepo) CountByStatus(ctx context.Context) (map[model.FemaleStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT female_status, COUNT(*) FROM breeding_studs GROUP BY female_status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[model.FemaleStatus]int{}
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[model.FemaleStatus(status)] = n
	}
	return out, rows.Err()
}

// datesFor loads the ordered breeding dates of one record.
func (r *BreedingStudRepo) datesFor(ctx context.Context, studID uint64) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT breeding_date FROM breeding_dates WHERE stud_id = ? ORDER BY id`, studID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// insertDates bulk-inserts the child rows inside the caller's transaction.
func insertDates(ctx context.Context, tx *sql.Tx, studID uint64, dates []time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	query := `INSERT INTO breeding_dates (stud_id, breeding_date) VALUES `
	args := make([]interface{}, 0, len(dates)*2)
	for i, d := range dates {
		if i > 0 {
			query += ","
		}
		query += "(?, ?)"
		args = append(args, studID, d)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
