package model

import (
	"bytes"
	"encoding/gob"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestArtifact_SaveLoad(t *testing.T) {
	X := mat.NewDense(4, 1, []float64{1, 2, 8, 9})
	y := []int{0, 0, 1, 1}
	m := NewLogisticRegression(500, 1.0, 0.1, 1e-6)
	require.NoError(t, m.Fit(X, y))

	trainedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, Save(&buf, &Artifact{
		RunID:     "run-1",
		Features:  FeatureNames,
		TrainedAt: trainedAt,
		Model:     m,
	}))

	got, err := Load(&buf)
	require.NoError(t, err)

	assert.Equal(t, ArtifactVersion, got.Version)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, FeatureNames, got.Features)
	assert.True(t, trainedAt.Equal(got.TrainedAt))
	assert.Equal(t, m.Predict(X), got.Model.Predict(X))
}

func TestArtifact_SaveNilModel(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Save(&buf, &Artifact{}))
	assert.Error(t, Save(&buf, nil))
}

func TestArtifact_LoadRejectsVersion(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(&Artifact{
		Version: ArtifactVersion + 1,
		Model:   &LogisticRegression{Labels: []int{0}},
	}))

	_, err := Load(&buf)
	assert.Error(t, err)
}

func TestArtifact_LoadGarbage(t *testing.T) {
	_, err := Load(bytes.NewBufferString("not a gob stream"))
	assert.Error(t, err)
}
