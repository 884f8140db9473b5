package dto

import (
	"time"

	"github.com/allisson/llm-config/internal/cache"
	configsDomain "github.com/allisson/llm-config/internal/configs/domain"
)

// encryptedPlaceholder replaces secret envelopes in responses that return
// stored values without decrypting them.
const encryptedPlaceholder = "<encrypted>"

// ConfigResponse represents a configuration entry in API responses.
type ConfigResponse struct {
	ID          string              `json:"id"`
	Namespace   string              `json:"namespace"`
	Key         string              `json:"key"`
	Value       configsDomain.Value `json:"value"`
	Environment string              `json:"environment"`
	Version     uint64              `json:"version"`
	Metadata    MetadataResponse    `json:"metadata"`
}

// MetadataResponse carries the audit metadata of an entry.
type MetadataResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   string    `json:"updated_by"`
	Tags        []string  `json:"tags"`
	Description *string   `json:"description,omitempty"`
}

// displayValue masks secret envelopes; decrypted values pass through
// unchanged since they are no longer secret-shaped.
func displayValue(value configsDomain.Value) configsDomain.Value {
	if _, ok := value.AsSecret(); ok {
		return configsDomain.StringValue(encryptedPlaceholder)
	}
	return value
}

// MapEntryToResponse converts a domain entry to an API response. Values
// still in their encrypted form are masked.
func MapEntryToResponse(entry *configsDomain.Entry) ConfigResponse {
	tags := entry.Metadata.Tags
	if tags == nil {
		tags = []string{}
	}
	return ConfigResponse{
		ID:          entry.ID.String(),
		Namespace:   entry.Namespace,
		Key:         entry.Key,
		Value:       displayValue(entry.Value),
		Environment: string(entry.Environment),
		Version:     entry.Version,
		Metadata: MetadataResponse{
			CreatedAt:   entry.Metadata.CreatedAt,
			CreatedBy:   entry.Metadata.CreatedBy,
			UpdatedAt:   entry.Metadata.UpdatedAt,
			UpdatedBy:   entry.Metadata.UpdatedBy,
			Tags:        tags,
			Description: entry.Metadata.Description,
		},
	}
}

// MapEntriesToResponse converts a namespace listing to API responses.
func MapEntriesToResponse(entries []configsDomain.Entry) []ConfigResponse {
	mapped := make([]ConfigResponse, len(entries))
	for i := range entries {
		mapped[i] = MapEntryToResponse(&entries[i])
	}
	return mapped
}

// SecretValueResponse carries decrypted secret bytes, base64 encoded in JSON.
type SecretValueResponse struct {
	Namespace   string `json:"namespace"`
	Key         string `json:"key"`
	Environment string `json:"environment"`
	Value       []byte `json:"value"`
}

// VersionResponse represents one history record in API responses.
type VersionResponse struct {
	Version           uint64              `json:"version"`
	Value             configsDomain.Value `json:"value"`
	CreatedAt         time.Time           `json:"created_at"`
	CreatedBy         string              `json:"created_by"`
	ChangeDescription *string             `json:"change_description,omitempty"`
}

// MapVersionsToResponse converts history records to API responses, newest
// first as delivered by the use case. Secret values stay masked.
func MapVersionsToResponse(versions []configsDomain.Version) []VersionResponse {
	mapped := make([]VersionResponse, len(versions))
	for i, version := range versions {
		mapped[i] = VersionResponse{
			Version:           version.Version,
			Value:             displayValue(version.Value),
			CreatedAt:         version.CreatedAt,
			CreatedBy:         version.CreatedBy,
			ChangeDescription: version.ChangeDescription,
		}
	}
	return mapped
}

// CacheStatsResponse reports cache effectiveness for both tiers.
type CacheStatsResponse struct {
	L1        cache.Stats `json:"l1"`
	L2Entries int         `json:"l2_entries"`
}
