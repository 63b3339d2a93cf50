package repository

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BiddingStore persists biddings with their documents and movement log.
type BiddingStore interface {
	// FindByID loads the bidding with every document and movement.
	FindByID(ctx context.Context, id int64) (*entity.Bidding, error)
	// FindPublishedByID only returns published biddings, with published documents.
	FindPublishedByID(ctx context.Context, id int64) (*entity.Bidding, error)
	FindAll(ctx context.Context, filter BiddingFilter) ([]*entity.Bidding, error)
	Create(ctx context.Context, bidding *entity.Bidding) error
	// UpdateDetails writes the editable columns, the status only moves
	// through UpdateStatus.
	UpdateDetails(ctx context.Context, bidding *entity.Bidding) error
	UpdateStatus(ctx context.Context, id int64, status entity.Phase, updatedAt int64) error

	AppendMovement(ctx context.Context, movement *entity.BiddingMovement) error
	FindDocument(ctx context.Context, biddingID, documentID int64) (*entity.BiddingDocument, error)
	SaveDocument(ctx context.Context, doc *entity.BiddingDocument) error

	Transaction(ctx context.Context, fn func(tx BiddingStore) error) error
}

// BiddingFilter narrows FindAll. Zero values mean "any".
type BiddingFilter struct {
	Status        entity.Phase
	PublishedOnly bool
}

var _ BiddingStore = (*DefaultBiddingRepository)(nil)

type DefaultBiddingRepository struct {
	db *gorm.DB
}

func NewBiddingRepository(db *gorm.DB) *DefaultBiddingRepository {
	return &DefaultBiddingRepository{db: db}
}

func (r *DefaultBiddingRepository) FindByID(ctx context.Context, id int64) (*entity.Bidding, error) {
	var bidding entity.Bidding
	err := r.db.WithContext(ctx).
		Preload("Documents", orderDocuments).
		Preload("Movements", orderMovements).
		First(&bidding, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &bidding, nil
}

func (r *DefaultBiddingRepository) FindPublishedByID(ctx context.Context, id int64) (*entity.Bidding, error) {
	var bidding entity.Bidding
	err := r.db.WithContext(ctx).
		Preload("Documents", publishedDocuments).
		Preload("Movements", orderMovements).
		Where("published = ?", true).
		First(&bidding, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &bidding, nil
}

func (r *DefaultBiddingRepository) FindAll(ctx context.Context, filter BiddingFilter) ([]*entity.Bidding, error) {
	query := r.db.WithContext(ctx)
	if filter.PublishedOnly {
		query = query.
			Where("published = ?", true).
			Preload("Documents", publishedDocuments)
	} else {
		query = query.Preload("Documents", orderDocuments)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var biddings []*entity.Bidding
	err := query.
		Preload("Movements", orderMovements).
		Order("created_at DESC").
		Order("id DESC").
		Find(&biddings).Error
	if err != nil {
		return nil, err
	}
	return biddings, nil
}

func (r *DefaultBiddingRepository) Create(ctx context.Context, bidding *entity.Bidding) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Create(bidding).Error
}

func (r *DefaultBiddingRepository) UpdateDetails(ctx context.Context, bidding *entity.Bidding) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Bidding{ID: bidding.ID}).
		Select("number", "modality", "object", "estimated_value_cents", "publication_date", "opening_date", "supplier_cnpj", "published", "updated_at").
		Updates(&entity.Bidding{
			Number:              bidding.Number,
			Modality:            bidding.Modality,
			Object:              bidding.Object,
			EstimatedValueCents: bidding.EstimatedValueCents,
			PublicationDate:     bidding.PublicationDate,
			OpeningDate:         bidding.OpeningDate,
			SupplierCNPJ:        bidding.SupplierCNPJ,
			Published:           bidding.Published,
			UpdatedAt:           bidding.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DefaultBiddingRepository) UpdateStatus(ctx context.Context, id int64, status entity.Phase, updatedAt int64) error {
	res := r.db.WithContext(ctx).
		Model(&entity.Bidding{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *DefaultBiddingRepository) AppendMovement(ctx context.Context, movement *entity.BiddingMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *DefaultBiddingRepository) FindDocument(ctx context.Context, biddingID, documentID int64) (*entity.BiddingDocument, error) {
	var doc entity.BiddingDocument
	err := r.db.WithContext(ctx).
		Where("id = ? AND bidding_id = ?", documentID, biddingID).
		First(&doc).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *DefaultBiddingRepository) SaveDocument(ctx context.Context, doc *entity.BiddingDocument) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

func (r *DefaultBiddingRepository) Transaction(ctx context.Context, fn func(tx BiddingStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&DefaultBiddingRepository{db: tx})
	})
}

func orderDocuments(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func publishedDocuments(db *gorm.DB) *gorm.DB {
	return orderDocuments(db.Where("status = ?", entity.StatusDocumentoPublished))
}

// Movements are shown newest first.
func orderMovements(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id DESC")
}
