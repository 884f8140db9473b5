package domain

import (
	"time"

	"github.com/google/uuid"
)

// Version is an immutable history record capturing the state of an entry at
// one version number. A record is written for every create, update and
// rollback; deletes leave the history intact.
type Version struct {
	Version           uint64      `json:"version"`
	ConfigID          uuid.UUID   `json:"config_id"`
	Namespace         string      `json:"namespace"`
	Key               string      `json:"key"`
	Value             Value       `json:"value"`
	Environment       Environment `json:"environment"`
	CreatedAt         time.Time   `json:"created_at"`
	CreatedBy         string      `json:"created_by"`
	ChangeDescription *string     `json:"change_description,omitempty"`
}

// NewVersion snapshots an entry into a history record.
func NewVersion(entry Entry, changeDescription *string) Version {
	return Version{
		Version:           entry.Version,
		ConfigID:          entry.ID,
		Namespace:         entry.Namespace,
		Key:               entry.Key,
		Value:             entry.Value,
		Environment:       entry.Environment,
		CreatedAt:         time.Now().UTC(),
		CreatedBy:         entry.Metadata.UpdatedBy,
		ChangeDescription: changeDescription,
	}
}
