// Package tester opens throwaway databases for package tests.
package tester

import (
	"path/filepath"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/sqlite"
	"portalmunicipal/cmd/internal/utils"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// TestDB returns a migrated sqlite database living in the test's temp dir.
// It is closed when the test ends.
func TestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := sqlite.Init(sqlite.Options{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "portal.db"),
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err = sqlite.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// SeedCategory creates an active area with one active category of the given macro.
func SeedCategory(t *testing.T, db *gorm.DB, slug string, macro entity.CategoryMacro) *entity.DocumentCategory {
	t.Helper()

	now := utils.NowUTC()
	area := &entity.DocumentArea{
		Name:      "Area " + slug,
		Slug:      "area-" + slug,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(area).Error; err != nil {
		t.Fatalf("failed to seed area: %v", err)
	}

	category := &entity.DocumentCategory{
		AreaID:    area.ID,
		Name:      "Category " + slug,
		Slug:      slug,
		Macro:     macro,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	return category
}

// SeedDocument creates a document in the given status under category.
func SeedDocument(t *testing.T, db *gorm.DB, categoryID int64, status entity.DocumentStatus, contexts ...entity.DocumentContext) *entity.Document {
	t.Helper()

	now := utils.NowUTC()
	doc := &entity.Document{
		Title:        "Documento",
		CategoryID:   categoryID,
		DocumentType: "Regimento Interno",
		Status:       status,
		CreatedByID:  1,
		UpdatedByID:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, c := range contexts {
		doc.Contexts = append(doc.Contexts, &entity.DocumentPlacement{Context: c})
	}

	if err := db.Omit("Category", "CurrentVersion").Create(doc).Error; err != nil {
		t.Fatalf("failed to seed document: %v", err)
	}
	return doc
}

// SeedVersion adds a version to the document. When current is true the
// document pointer is moved to it as well.
func SeedVersion(t *testing.T, db *gorm.DB, documentID int64, number int, current bool) *entity.DocumentVersion {
	t.Helper()

	version := &entity.DocumentVersion{
		DocumentID:    documentID,
		VersionNumber: number,
		FileName:      "arquivo.pdf",
		FilePath:      "documents/arquivo.pdf",
		FileSize:      1024,
		FileType:      "application/pdf",
		IsCurrent:     current,
		CreatedByID:   1,
		CreatedAt:     utils.NowUTC(),
	}
	if err := db.Create(version).Error; err != nil {
		t.Fatalf("failed to seed version: %v", err)
	}

	if current {
		err := db.Model(&entity.Document{}).
			Where("id = ?", documentID).
			Update("current_version_id", version.ID).Error
		if err != nil {
			t.Fatalf("failed to point document at version: %v", err)
		}
	}
	return version
}
