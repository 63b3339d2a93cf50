package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentStore is the persistence side of documents, their versions and
// their audit trail. Multi-statement writes go through Transaction.
type DocumentStore interface {
	FindByID(ctx context.Context, id int64) (*entity.Document, error)
	// FindByIDForUpdate locks the document row until the transaction ends
	// on databases that support row locks.
	FindByIDForUpdate(ctx context.Context, id int64) (*entity.Document, error)
	FindAll(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error)
	Create(ctx context.Context, doc *entity.Document) error
	Save(ctx context.Context, doc *entity.Document) error
	// UpdateDetails writes the editable metadata only. Status, approval and
	// the current version pointer keep whatever is stored.
	UpdateDetails(ctx context.Context, doc *entity.Document) error
	ReplaceContexts(ctx context.Context, documentID int64, contexts []entity.DocumentContext) error
	CountByCategory(ctx context.Context, categoryID int64) (int64, error)

	FindVersions(ctx context.Context, documentID int64) ([]*entity.DocumentVersion, error)
	FindVersion(ctx context.Context, documentID, versionID int64) (*entity.DocumentVersion, error)
	CountVersions(ctx context.Context, documentID int64) (int64, error)
	NextVersionNumber(ctx context.Context, documentID int64) (int, error)
	CreateVersion(ctx context.Context, version *entity.DocumentVersion) error
	ClearCurrentVersions(ctx context.Context, documentID int64) error
	MarkCurrentVersion(ctx context.Context, versionID int64) error
	SetCurrentVersion(ctx context.Context, documentID, versionID, updatedByID, updatedAt int64) error

	AppendAudit(ctx context.Context, audit *entity.DocumentAudit) error
	FindAudits(ctx context.Context, documentID int64) ([]*entity.DocumentAudit, error)

	Transaction(ctx context.Context, fn func(tx DocumentStore) error) error
}

// DocumentFilter narrows FindAll. Zero values mean "any".
type DocumentFilter struct {
	Status       entity.DocumentStatus
	Context      entity.DocumentContext
	CategoryID   int64
	CategorySlug string
}

var _ DocumentStore = (*DefaultDocumentRepository)(nil)

type DefaultDocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DefaultDocumentRepository {
	return &DefaultDocumentRepository{db: db}
}

func (r *DefaultDocumentRepository) FindByID(ctx context.Context, id int64) (*entity.Document, error) {
	return r.findByID(r.db.WithContext(ctx), id)
}

func (r *DefaultDocumentRepository) FindByIDForUpdate(ctx context.Context, id int64) (*entity.Document, error) {
	tx := r.db.WithContext(ctx)
	if tx.Dialector.Name() == "postgres" {
		tx = tx.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Table: clause.Table{Name: clause.CurrentTable}})
	}
	return r.findByID(tx, id)
}

func (r *DefaultDocumentRepository) findByID(tx *gorm.DB, id int64) (*entity.Document, error) {
	var doc entity.Document
	err := tx.
		Preload("Category").
		Preload("Contexts").
		Preload("CurrentVersion").
		First(&doc, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DefaultDocumentRepository) FindAll(ctx context.Context, filter DocumentFilter) ([]*entity.Document, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Contexts").
		Preload("CurrentVersion")

	if filter.Status != "" {
		query = query.Where("documents.status = ?", filter.Status)
	}

	if filter.Context != "" {
		placements := r.db.Model(&entity.DocumentPlacement{}).
			Select("document_id").
			Where("context = ?", filter.Context)
		query = query.Where("documents.id IN (?)", placements)
	}

	if filter.CategoryID != 0 {
		query = query.Where("documents.category_id = ?", filter.CategoryID)
	}

	if filter.CategorySlug != "" {
		categories := r.db.Model(&entity.DocumentCategory{}).
			Select("id").
			Where("slug = ?", filter.CategorySlug)
		query = query.Where("documents.category_id IN (?)", categories)
	}

	var docs []*entity.Document
	err := query.
		Order("documents.display_order ASC").
		Order("documents.id DESC").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	return docs, nil
}

// Create inserts the document together with its contexts.
func (r *DefaultDocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).
		Omit("Category", "CurrentVersion").
		Create(doc).Error
}

// Save only writes the document columns, relations are changed through
// their own methods.
func (r *DefaultDocumentRepository) Save(ctx context.Context, doc *entity.Document) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Save(doc).Error
}

func (r *DefaultDocumentRepository) UpdateDetails(ctx context.Context, doc *entity.Document) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Document{ID: doc.ID}).
		Select("title", "description", "category_id", "document_type", "display_order", "updated_by_id", "updated_at").
		Updates(&entity.Document{
			Title:        doc.Title,
			Description:  doc.Description,
			CategoryID:   doc.CategoryID,
			DocumentType: doc.DocumentType,
			DisplayOrder: doc.DisplayOrder,
			UpdatedByID:  doc.UpdatedByID,
			UpdatedAt:    doc.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DefaultDocumentRepository) ReplaceContexts(ctx context.Context, documentID int64, contexts []entity.DocumentContext) error {
	tx := r.db.WithContext(ctx)
	err := tx.Where("document_id = ?", documentID).Delete(&entity.DocumentPlacement{}).Error
	if err != nil {
		return err
	}

	if len(contexts) == 0 {
		return nil
	}

	placements := make([]*entity.DocumentPlacement, len(contexts))
	for i, c := range contexts {
		placements[i] = &entity.DocumentPlacement{DocumentID: documentID, Context: c}
	}
	return tx.Create(&placements).Error
}

func (r *DefaultDocumentRepository) CountByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Document{}).
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *DefaultDocumentRepository) FindVersions(ctx context.Context, documentID int64) ([]*entity.DocumentVersion, error) {
	var versions []*entity.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("version_number DESC").
		Find(&versions).Error
	if err != nil {
		return nil, err
	}
	return versions, nil
}

// FindVersion is scoped to the document: a version of another document
// is reported as missing.
func (r *DefaultDocumentRepository) FindVersion(ctx context.Context, documentID, versionID int64) (*entity.DocumentVersion, error) {
	var version entity.DocumentVersion
	err := r.db.WithContext(ctx).
		Where("id = ? AND document_id = ?", versionID, documentID).
		First(&version).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *DefaultDocumentRepository) CountVersions(ctx context.Context, documentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.DocumentVersion{}).
		Where("document_id = ?", documentID).
		Count(&count).Error
	return count, err
}

func (r *DefaultDocumentRepository) NextVersionNumber(ctx context.Context, documentID int64) (int, error) {
	var last int
	err := r.db.WithContext(ctx).
		Model(&entity.DocumentVersion{}).
		Select("COALESCE(MAX(version_number), 0)").
		Where("document_id = ?", documentID).
		Scan(&last).Error
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func (r *DefaultDocumentRepository) CreateVersion(ctx context.Context, version *entity.DocumentVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

func (r *DefaultDocumentRepository) ClearCurrentVersions(ctx context.Context, documentID int64) error {
	return r.db.WithContext(ctx).
		Model(&entity.DocumentVersion{}).
		Where("document_id = ? AND is_current = ?", documentID, true).
		Update("is_current", false).Error
}

func (r *DefaultDocumentRepository) MarkCurrentVersion(ctx context.Context, versionID int64) error {
	res := r.db.WithContext(ctx).
		Model(&entity.DocumentVersion{}).
		Where("id = ?", versionID).
		Update("is_current", true)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DefaultDocumentRepository) SetCurrentVersion(ctx context.Context, documentID, versionID, updatedByID, updatedAt int64) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Document{}).
		Where("id = ?", documentID).
		Updates(map[string]any{
			"current_version_id": versionID,
			"updated_by_id":      updatedByID,
			"updated_at":         updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DefaultDocumentRepository) AppendAudit(ctx context.Context, audit *entity.DocumentAudit) error {
	return r.db.WithContext(ctx).Create(audit).Error
}

func (r *DefaultDocumentRepository) FindAudits(ctx context.Context, documentID int64) ([]*entity.DocumentAudit, error) {
	var audits []*entity.DocumentAudit
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&audits).Error
	if err != nil {
		return nil, err
	}
	return audits, nil
}

// Transaction runs fn against a store bound to one database transaction.
// Returning an error from fn rolls back every write made through tx.
func (r *DefaultDocumentRepository) Transaction(ctx context.Context, fn func(tx DocumentStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DefaultDocumentRepository{db: tx})
	})
}
