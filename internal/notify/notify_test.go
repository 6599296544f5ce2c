package notify

import (
	"reservas-service/internal/models"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannel(t *testing.T) {
	assert.Equal(t, "reservations:SCIENCE_LAB", Channel(models.ScienceLab))
	assert.NotEqual(t, Channel(models.MakerLab), Channel(models.Kitchen))
}

func TestEventJSON(t *testing.T) {
	event := Event{
		Kind:         KindCancelled,
		ID:           "abc",
		ResourceType: models.Auditorium,
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded Event
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, event, decoded)
	// cancellation events carry the id only
	assert.NotContains(t, string(payload), "reservation")
}
