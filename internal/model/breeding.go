package model

import (
	"database/sql"
	"time"
)

// FemaleStatus enumerates the outcome states of a breeding record.  The set
// is closed; anything else is rejected at the handler boundary.
type FemaleStatus string

const (
	StatusWaiting   FemaleStatus = "Waiting"   // bred, outcome not yet known
	StatusDelivered FemaleStatus = "Delivered" // litter delivered
	StatusFailure   FemaleStatus = "Failure"   // breeding did not take
)

// Valid reports whether s is one of the known statuses.
func (s FemaleStatus) Valid() bool {
	return s == StatusWaiting || s == StatusDelivered || s == StatusFailure
}

// BreedingStud mirrors the `breeding_studs` table: one female dog bred with
// one of the kennel's males, plus owner contact details.  Dates holds the
// insertion-ordered child rows from `breeding_dates`; on update the whole
// set is replaced, never merged.  Admin-only, both read and write.
type BreedingStud struct {
	ID            uint64         // breeding_studs.id
	StudName      string         // breeding_studs.stud_name
	OwnerName     sql.NullString // breeding_studs.owner_name
	OwnerContact  sql.NullString // breeding_studs.owner_contact
	FemaleColor   sql.NullString // breeding_studs.female_dog_color
	FemaleBreed   sql.NullString // breeding_studs.female_breed
	FirstDayHeat  sql.NullTime   // breeding_studs.female_first_day_of_heat
	Status        FemaleStatus   // breeding_studs.female_status
	PuppyCount    sql.NullInt32  // breeding_studs.female_puppy_count
	FemaleImage   sql.NullString // breeding_studs.female_dog_image_ref
	BreedingImage sql.NullString // breeding_studs.breeding_image_ref
	CreatedAt     time.Time      // breeding_studs.created_at
	UpdatedAt     time.Time      // breeding_studs.updated_at
	Dates         []time.Time    // breeding_dates.breeding_date, insertion order
}

// Normalize enforces the record's one cross-field invariant: a puppy count
// is meaningful only for a delivered litter.  Whatever count the caller
// supplied is discarded when the status is not Delivered.
func (b *BreedingStud) Normalize() {
	if b.Status != StatusDelivered {
		b.PuppyCount = sql.NullInt32{}
	}
}

// NextHeatCycle projects the female's next heat window as six calendar
// months after the first recorded day of heat.  Calendar months, not a
// fixed day count: Jan 31 projects to Jul 31.
func NextHeatCycle(firstDay time.Time) time.Time {
	return firstDay.AddDate(0, 6, 0)
}

// PuppyDeliveryDate projects the whelping date as 63 days after the latest
// recorded breeding date.  The second return is false when no dates have
// been recorded yet.
func PuppyDeliveryDate(dates []time.Time) (time.Time, bool) {
	if len(dates) == 0 {
		return time.Time{}, false
	}
	latest := dates[0]
	for _, d := range dates[1:] {
		if d.After(latest) {
			latest = d
		}
	}
	return latest.AddDate(0, 0, 63), true
}
