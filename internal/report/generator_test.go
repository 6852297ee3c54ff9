package report

import (
	"context"
	"testing"

	"fleet_utilization/internal/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Generate(t *testing.T) {
	g := NewGenerator(dbtest.OpenSeeded(t), defaultEngineOptions())

	res, err := g.Generate(context.Background(), march2020)
	require.NoError(t, err)

	assert.Equal(t, march2020, res.Period)
	assert.Len(t, res.Airframe, dbtest.FleetSize+1)
	assert.Len(t, res.Engines, 9)
	assert.Len(t, res.Removals, 3)
}

func TestGenerator_GenerateFleetError(t *testing.T) {
	g := NewGenerator(failingStore{}, defaultEngineOptions())

	_, err := g.Generate(context.Background(), march2020)
	assert.Error(t, err)
}

func TestGenerator_GenerateWithoutPartNumbers(t *testing.T) {
	g := NewGenerator(dbtest.OpenSeeded(t), EngineOptions{})

	_, err := g.Generate(context.Background(), march2020)
	assert.ErrorContains(t, err, "engines report failed")
}
