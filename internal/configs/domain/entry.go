package domain

import (
	"time"

	"github.com/google/uuid"
)

// Metadata carries audit fields for a configuration entry.
type Metadata struct {
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
	Tags        []string  `json:"tags"`
	Description *string   `json:"description,omitempty"`
}

// Entry is the current state of one configuration value: a namespace/key
// pair scoped to an environment, with a monotonically increasing version.
// Past versions live in separate Version records.
type Entry struct {
	ID          uuid.UUID   `json:"id"`
	Namespace   string      `json:"namespace"`
	Key         string      `json:"key"`
	Value       Value       `json:"value"`
	Environment Environment `json:"environment"`
	Version     uint64      `json:"version"`
	Metadata    Metadata    `json:"metadata"`
}

// NewEntry creates a version-1 entry with a fresh random ID and creation
// metadata stamped with the current time.
func NewEntry(namespace, key string, value Value, environment Environment, createdBy string) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:          uuid.New(),
		Namespace:   namespace,
		Key:         key,
		Value:       value,
		Environment: environment,
		Version:     1,
		Metadata: Metadata{
			CreatedAt: now,
			CreatedBy: createdBy,
			UpdatedAt: now,
			UpdatedBy: createdBy,
			Tags:      []string{},
		},
	}
}

// Update replaces the entry's value, bumps its version and stamps the
// update metadata.
func (e *Entry) Update(value Value, updatedBy string) {
	e.Value = value
	e.Version++
	e.Metadata.UpdatedAt = time.Now().UTC()
	e.Metadata.UpdatedBy = updatedBy
}
