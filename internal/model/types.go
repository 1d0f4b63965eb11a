package model

import (
	"time"

	"github.com/google/uuid"
)

// Stats holds the named counters published when a conversion completes.
// Keys match the wire format of the status endpoint.
type Stats struct {
	ItemsProcessed   int `json:"items_processed"`
	BlocksProcessed  int `json:"blocks_processed"`
	RecipesConverted int `json:"recipes_converted"`
	AssetsExtracted  int `json:"assets_extracted"`
}

// Job is a conversion job as stored in the jobs table. Status moves
// monotonically through submitted -> processing -> {completed | failed}
// and never regresses once terminal.
type Job struct {
	ID          uuid.UUID
	Filename    string
	Status      string
	Progress    int
	Message     string
	Error       *string
	Stats       *Stats
	JarPath     string
	ResultFile  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}
