package model

import (
	"database/sql"
	"time"
)

// MaleStud mirrors the `male_studs` table.  These are the publicly listed
// dogs of the kennel; anyone may read them, only an admin may write them.
type MaleStud struct {
	ID          uint64         // male_studs.id
	Name        string         // male_studs.name
	Lineage     sql.NullString // male_studs.lineage
	Color       sql.NullString // male_studs.color
	Temperament sql.NullString // male_studs.temperament
	Age         sql.NullInt32  // male_studs.age (years)
	Location    sql.NullString // male_studs.location
	ImageRef    sql.NullString // male_studs.image_ref (media host URL)
	CreatedAt   time.Time      // male_studs.created_at
	UpdatedAt   time.Time      // male_studs.updated_at
}
