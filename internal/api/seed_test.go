package api

import (
	"testing"

	"github.com/SundayYogurt/document_service/internal/domain"
	"github.com/SundayYogurt/document_service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSeedCatalogIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.DocumentType{}, &domain.Faculty{}))

	docRepo := repository.NewDocumentTypeRepository(db)
	facultyRepo := repository.NewFacultyRepository(db)

	seedCatalog(docRepo, facultyRepo)
	seedCatalog(docRepo, facultyRepo)

	dts, err := docRepo.ListAll()
	require.NoError(t, err)
	assert.Len(t, dts, 4)

	fs, err := facultyRepo.ListAll()
	require.NoError(t, err)
	assert.Len(t, fs, 4)
}
