package model

import "encoding/json"

// ExportDocument is the self-describing training data artifact.
type ExportDocument struct {
	Timestamp       string                    `json:"timestamp"`
	TotalTraits     int                       `json:"totalTraits"`
	TrainedTraits   int                       `json:"trainedTraits"`
	TrainingResults map[string]TrainingResult `json:"trainingResults"`
	Schemas         ExportSchemas             `json:"schemas"`
	ImageMap        json.RawMessage           `json:"imageMap"`
	Paths           ExportPaths               `json:"paths"`
}

// ExportSchemas carries the two schema documents verbatim.
type ExportSchemas struct {
	Overall json.RawMessage `json:"overall"`
	Traits  json.RawMessage `json:"traits"`
}

// ExportPaths records where the images and metadata were loaded from.
type ExportPaths struct {
	Images   string `json:"images"`
	Metadata string `json:"metadata"`
}
