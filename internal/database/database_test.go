package database

import (
	"path/filepath"
	"testing"

	"job-portal-api/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestOpen_CreatesFileAndMigrates(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "portal.db"), logger.Silent)
	require.NoError(t, err)

	for _, m := range models.All() {
		require.True(t, db.Migrator().HasTable(m))
	}

	job := models.Job{ID: "j-1", Title: "Backend Engineer", EmployerID: "e-1"}
	require.NoError(t, db.Create(&job).Error)

	var got models.Job
	require.NoError(t, db.First(&got, "id = ?", "j-1").Error)
	require.Equal(t, models.JobStatusOpen, got.Status)
	require.Equal(t, models.JobTypeFullTime, got.JobType)
}
