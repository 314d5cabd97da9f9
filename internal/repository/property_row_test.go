package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josiaO/SmartDalaliTZ/internal/model"
	"github.com/josiaO/SmartDalaliTZ/internal/seed"
)

func TestPropertyRowRoundTrip(t *testing.T) {
	for _, p := range seed.Properties() {
		row := toRow(&p)
		got := row.toModel()
		assert.Equal(t, p, got, "property %d", p.ID)
	}
}

func TestPropertyRowNullables(t *testing.T) {
	p := model.Property{ID: 9, Type: model.TypeLand, Status: model.StatusDraft, Images: []string{"a"}, Area: 1}
	row := toRow(&p)
	assert.False(t, row.Latitude.Valid)
	assert.False(t, row.Bedrooms.Valid)
	assert.False(t, row.CreatedAt.IsZero(), "missing creation time defaults to now")

	got := row.toModel()
	assert.Nil(t, got.Location.Coordinates)
	assert.Nil(t, got.Bedrooms)
	assert.Nil(t, got.Bathrooms)
}

func TestPropertyRowHalfCoordinateIsDropped(t *testing.T) {
	row := propertyRow{Latitude: sql.NullFloat64{Float64: -6.8, Valid: true}}
	got := row.toModel()
	require.Nil(t, got.Location.Coordinates)
}
