package database

import (
	"testing"

	modelspkg "bloghub/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesPage(t *testing.T) {
	found := false
	for _, model := range PersistentModels() {
		if _, ok := model.(*modelspkg.Page); ok {
			found = true
			break
		}
	}
	require.True(t, found, "PersistentModels should include Page")
}

func TestMigrationsRegistered(t *testing.T) {
	ms := GetMigrations()
	require.NotEmpty(t, ms)
	require.Equal(t, 1, ms[0].Version)
	require.NotEmpty(t, ms[0].UpScript)
	require.NotEmpty(t, ms[0].DownScript)
	require.Nil(t, GetMigrationByVersion(999))
}
