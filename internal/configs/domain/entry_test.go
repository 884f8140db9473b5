package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry(t *testing.T) {
	t.Parallel()

	entry := NewEntry("app", "database_url", StringValue("postgres://localhost"), EnvProduction, "alice")

	assert.NotEqual(t, uuid.Nil, entry.ID)
	assert.Equal(t, "app", entry.Namespace)
	assert.Equal(t, "database_url", entry.Key)
	assert.Equal(t, EnvProduction, entry.Environment)
	assert.Equal(t, uint64(1), entry.Version)
	assert.Equal(t, "alice", entry.Metadata.CreatedBy)
	assert.Equal(t, "alice", entry.Metadata.UpdatedBy)
	assert.Equal(t, entry.Metadata.CreatedAt, entry.Metadata.UpdatedAt)
	assert.NotNil(t, entry.Metadata.Tags)
	assert.WithinDuration(t, time.Now().UTC(), entry.Metadata.CreatedAt, time.Minute)
}

func TestEntryUpdate(t *testing.T) {
	t.Parallel()

	entry := NewEntry("app", "timeout", IntegerValue(30), EnvBase, "alice")
	createdAt := entry.Metadata.CreatedAt

	entry.Update(IntegerValue(60), "bob")

	assert.Equal(t, uint64(2), entry.Version)
	v, _ := entry.Value.AsInteger()
	assert.Equal(t, int64(60), v)
	assert.Equal(t, "alice", entry.Metadata.CreatedBy)
	assert.Equal(t, "bob", entry.Metadata.UpdatedBy)
	assert.Equal(t, createdAt, entry.Metadata.CreatedAt)
	assert.False(t, entry.Metadata.UpdatedAt.Before(createdAt))
}

func TestNewVersion(t *testing.T) {
	t.Parallel()

	entry := NewEntry("app", "timeout", IntegerValue(30), EnvStaging, "alice")
	entry.Update(IntegerValue(60), "bob")

	desc := "Increased timeout"
	version := NewVersion(entry, &desc)

	assert.Equal(t, uint64(2), version.Version)
	assert.Equal(t, entry.ID, version.ConfigID)
	assert.Equal(t, "app", version.Namespace)
	assert.Equal(t, "timeout", version.Key)
	assert.Equal(t, EnvStaging, version.Environment)
	assert.Equal(t, "bob", version.CreatedBy)
	require.NotNil(t, version.ChangeDescription)
	assert.Equal(t, "Increased timeout", *version.ChangeDescription)
}
