package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/kennelworks/studbook-server/internal/model"
)

// ErrStudNotFound is returned when a male stud lookup fails.
var ErrStudNotFound = errors.New("stud not found")

// MaleStudRepo provides CRUD over the publicly listed male studs.
type MaleStudRepo struct {
	db *sql.DB
}

// NewMaleStudRepo constructs a MaleStudRepo with the given DB handle.
func NewMaleStudRepo(db *sql.DB) *MaleStudRepo {
	return &MaleStudRepo{db: db}
}

const maleStudCols = "id, name, lineage, color, temperament, age, location, image_ref, created_at, updated_at"

// Create inserts a new stud and re-reads the row so timestamp fields come
// back populated.
func (r *MaleStudRepo) Create(ctx context.Context, s *model.MaleStud) error {
	const qInsert = `INSERT INTO male_studs (name, lineage, color, temperament, age, location, image_ref)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.Name, s.Lineage, s.Color, s.Temperament, s.Age, s.Location, s.ImageRef)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const qSelect = `SELECT ` + maleStudCols + ` FROM male_studs WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).
		Scan(&s.ID, &s.Name, &s.Lineage, &s.Color, &s.Temperament, &s.Age, &s.Location, &s.ImageRef, &s.CreatedAt, &s.UpdatedAt)
}

// GetByID retrieves a stud by its ID.  Returns ErrStudNotFound when no row
// is found.
func (r *MaleStudRepo) GetByID(ctx context.Context, id uint64) (*model.MaleStud, error) {
	const q = `SELECT ` + maleStudCols + ` FROM male_studs WHERE id = ?`
	var s model.MaleStud
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&s.ID, &s.Name, &s.Lineage, &s.Color, &s.Temperament, &s.Age, &s.Location, &s.ImageRef, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns all male studs ordered by id.  This feeds the public page,
// so it takes no filter.
func (r *MaleStudRepo) List(ctx context.Context) ([]*model.MaleStud, error) {
	const q = `SELECT ` + maleStudCols + ` FROM male_studs ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MaleStud
	for rows.Next() {
		s := new(model.MaleStud)
		if err := rows.Scan(&s.ID, &s.Name, &s.Lineage, &s.Color, &s.Temperament, &s.Age, &s.Location, &s.ImageRef, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces the full editable field set of a stud.  Returns
// sql.ErrNoRows when no row was touched.
func (r *MaleStudRepo) Update(ctx context.Context, s *model.MaleStud) error {
	const q = `UPDATE male_studs
	           SET name = ?, lineage = ?, color = ?, temperament = ?, age = ?, location = ?, image_ref = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		s.Name, s.Lineage, s.Color, s.Temperament, s.Age, s.Location, s.ImageRef, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a stud by id.  Returns sql.ErrNoRows when absent.
func (r *MaleStudRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM male_studs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Count returns the number of listed studs for the dashboard.
func (r *MaleStudRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM male_studs`).Scan(&n)
	return n, err
}
