package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextHeatCycle(t *testing.T) {
	cases := []struct {
		name  string
		first time.Time
		want  time.Time
	}{
		{"end of january", date(2024, time.January, 31), date(2024, time.July, 31)},
		{"mid month", date(2024, time.March, 15), date(2024, time.September, 15)},
		{"crosses year boundary", date(2023, time.October, 2), date(2024, time.April, 2)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NextHeatCycle(tc.first))
		})
	}
}

func TestPuppyDeliveryDate(t *testing.T) {
	t.Run("sixty three days after latest date", func(t *testing.T) {
		got, ok := PuppyDeliveryDate([]time.Time{
			date(2024, time.February, 1),
			date(2024, time.February, 10),
		})
		require.True(t, ok)
		assert.Equal(t, date(2024, time.April, 13), got)
	})

	t.Run("order of input does not matter", func(t *testing.T) {
		got, ok := PuppyDeliveryDate([]time.Time{
			date(2024, time.February, 10),
			date(2024, time.February, 1),
		})
		require.True(t, ok)
		assert.Equal(t, date(2024, time.April, 13), got)
	})

	t.Run("no dates recorded", func(t *testing.T) {
		_, ok := PuppyDeliveryDate(nil)
		assert.False(t, ok)
	})
}

func TestBreedingStudNormalize(t *testing.T) {
	t.Run("waiting discards puppy count", func(t *testing.T) {
		b := BreedingStud{
			Status:     StatusWaiting,
			PuppyCount: sql.NullInt32{Int32: 7, Valid: true},
		}
		b.Normalize()
		assert.False(t, b.PuppyCount.Valid)
	})

	t.Run("failure discards puppy count", func(t *testing.T) {
		b := BreedingStud{
			Status:     StatusFailure,
			PuppyCount: sql.NullInt32{Int32: 3, Valid: true},
		}
		b.Normalize()
		assert.False(t, b.PuppyCount.Valid)
	})

	t.Run("delivered keeps puppy count", func(t *testing.T) {
		b := BreedingStud{
			Status:     StatusDelivered,
			PuppyCount: sql.NullInt32{Int32: 5, Valid: true},
		}
		b.Normalize()
		require.True(t, b.PuppyCount.Valid)
		assert.Equal(t, int32(5), b.PuppyCount.Int32)
	})
}

func TestFemaleStatusValid(t *testing.T) {
	assert.True(t, StatusWaiting.Valid())
	assert.True(t, StatusDelivered.Valid())
	assert.True(t, StatusFailure.Valid())
	assert.False(t, FemaleStatus("").Valid())
	assert.False(t, FemaleStatus("delivered").Valid()) // case matters
}
