package model

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"
)

// ArtifactVersion is bumped whenever the encoded layout changes.
const ArtifactVersion = 1

// Artifact is the persisted form of a fitted classifier.
type Artifact struct {
	Version   int
	RunID     string
	Features  []string
	TrainedAt time.Time
	Model     *LogisticRegression
}

// Save gob-encodes a to w.
func Save(w io.Writer, a *Artifact) error {
	if a == nil || a.Model == nil {
		return fmt.Errorf("Save: nil model")
	}
	a.Version = ArtifactVersion
	if err := gob.NewEncoder(w).Encode(a); err != nil {
		return fmt.Errorf("Save: encoding artifact: %w", err)
	}
	return nil
}

// Load decodes an artifact written by Save.
func Load(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("Load: decoding artifact: %w", err)
	}
	if a.Version != ArtifactVersion {
		return nil, fmt.Errorf("Load: artifact version %d, want %d", a.Version, ArtifactVersion)
	}
	if a.Model == nil {
		return nil, fmt.Errorf("Load: artifact has no model")
	}
	return &a, nil
}
