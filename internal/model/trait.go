// Package model defines the core trait-training data types.
package model

import (
	"encoding/json"
	"time"
)

// Stage is the position of the training workflow.
type Stage string

const (
	StageSetup     Stage = "setup"
	StageTraining  Stage = "training"
	StageCompleted Stage = "completed"
)

// TraitUnit is one (type, value) pair to be trained.
type TraitUnit struct {
	Type  string `json:"type"`
	Value string `json:"value"`
	Key   string `json:"key"`
}

// TraitKey builds the canonical key for a trait type and value.
func TraitKey(traitType, value string) string {
	return traitType + ":" + value
}

// NewTraitUnit returns a TraitUnit with its key derived from type and value.
func NewTraitUnit(traitType, value string) TraitUnit {
	return TraitUnit{Type: traitType, Value: value, Key: TraitKey(traitType, value)}
}

// TrainingResult holds the example tokens saved for one trait unit.
type TrainingResult struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Examples []int  `json:"examples"`
}

// ProjectMetadata is pass-through data forwarded into the export untouched.
type ProjectMetadata struct {
	ImageMap      json.RawMessage `json:"imageMap"`
	OverallSchema json.RawMessage `json:"overallSchema"`
	TraitSchema   json.RawMessage `json:"traitSchema"`
	ImagesPath    string          `json:"imagesPath"`
	MetadataPath  string          `json:"metadataPath"`
}

// StoredProgress is the persisted form of an in-progress session.
// Display handles for images are never part of it.
type StoredProgress struct {
	SessionID         string                    `json:"sessionId"`
	Timestamp         time.Time                 `json:"timestamp"`
	Stage             Stage                     `json:"stage"`
	CurrentTraitIndex int                       `json:"currentTraitIndex"`
	Selection         []int                     `json:"selection"`
	TrainingResults   map[string]TrainingResult `json:"trainingResults"`
	AllTraits         []TraitUnit               `json:"allTraits"`
	ProjectData       ProjectMetadata           `json:"projectData"`
}
