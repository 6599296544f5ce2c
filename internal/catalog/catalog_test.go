package catalog

import (
	"reservas-service/internal/models"
	"reservas-service/pkg/response"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstances(t *testing.T) {
	cat := Default()

	stations, err := cat.Instances(models.StationPool)
	require.NoError(t, err)
	assert.Equal(t, []string{"Station 1", "Station 2", "Station 3", "Station 4"}, stations)

	for _, rt := range []models.ResourceType{
		models.ScienceLab, models.MakerLab, models.Kitchen, models.LibraryRoom, models.Auditorium,
	} {
		instances, err := cat.Instances(rt)
		require.NoError(t, err)
		assert.Equal(t, []string{string(rt)}, instances, "single-instance type %s", rt)
	}

	_, err = cat.Instances("GYM")
	assert.ErrorIs(t, err, response.ErrUnknownResource)
}

func TestAttributes(t *testing.T) {
	cat := Default()

	specs, err := cat.Attributes(models.Auditorium)
	require.NoError(t, err)

	names := make([]string, len(specs))
	for i, spec := range specs {
		names[i] = spec.Name
	}
	assert.Contains(t, names, "event_title")
	assert.Contains(t, names, "needs_sound")

	_, err = cat.Attributes("GYM")
	assert.ErrorIs(t, err, response.ErrUnknownResource)
}

func TestHasInstance(t *testing.T) {
	cat := Default()

	assert.True(t, cat.HasInstance(models.StationPool, "Station 2"))
	assert.False(t, cat.HasInstance(models.StationPool, "Station 5"))
	assert.True(t, cat.HasInstance(models.ScienceLab, "SCIENCE_LAB"))
	assert.False(t, cat.HasInstance(models.ScienceLab, "Station 1"))
	assert.False(t, cat.HasInstance("GYM", "GYM"))
}
