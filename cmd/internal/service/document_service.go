package service

import (
	"context"
	"errors"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/policy"
	"portalmunicipal/cmd/internal/domain/sqlite/repository"
	"portalmunicipal/cmd/internal/infrastructure/aws/storage"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"portalmunicipal/cmd/internal/utils/uid"
	"slices"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

// errAbort rolls a transaction back after the callback already recorded
// the API error to return.
var errAbort = errors.New("transaction aborted")

type CategoryRepository interface {
	FindCategoryByID(ctx context.Context, id int64) (*entity.DocumentCategory, error)
}

type DefaultDocumentService struct {
	DocRepo      repository.DocumentStore
	CategoryRepo CategoryRepository
	Storage      storage.FileStorage
	Cache        *PublicCache
	Validate     *validator.Validate
}

func NewDocumentService(
	docRepo repository.DocumentStore,
	categoryRepo CategoryRepository,
	files storage.FileStorage,
	publicCache *PublicCache,
	validate *validator.Validate,
) *DefaultDocumentService {
	return &DefaultDocumentService{
		DocRepo:      docRepo,
		CategoryRepo: categoryRepo,
		Storage:      files,
		Cache:        publicCache,
		Validate:     validate,
	}
}

func (s *DefaultDocumentService) ListDocuments(ctx context.Context, actor *entity.Actor, status, docContext, category string) ([]*contract.DocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	filter, apierr := parseDocumentFilter(docContext, category)
	if apierr != nil {
		return nil, apierr
	}

	if status != "" {
		parsed, ok := entity.ParseDocumentStatus(status)
		if !ok {
			return nil, apierror.NewInvalidFieldValueError("status", status)
		}
		filter.Status = parsed
	}
	return s.findDocuments(ctx, filter, false)
}

func (s *DefaultDocumentService) GetDocument(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	doc, apierr := s.loadDocument(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toDocumentResponse(doc, s.Storage), nil
}

// ListPublished is the public listing: PUBLISHED documents with their current version.
func (s *DefaultDocumentService) ListPublished(ctx context.Context, docContext, category string) ([]*contract.DocumentResponse, apierror.ErrorResponse) {
	filter, apierr := parseDocumentFilter(docContext, category)
	if apierr != nil {
		return nil, apierr
	}
	filter.Status = entity.DocumentPublished

	key := cache.Key(cache.PrefixDocuments, "list", string(filter.Context), strconv.FormatInt(filter.CategoryID, 10), filter.CategorySlug)
	return cachedResponse(ctx, s.Cache, key, func() ([]*contract.DocumentResponse, apierror.ErrorResponse) {
		return s.findDocuments(ctx, filter, true)
	})
}

func (s *DefaultDocumentService) GetPublished(ctx context.Context, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	key := cache.Key(cache.PrefixDocuments, "id", strconv.FormatInt(id, 10))
	return cachedResponse(ctx, s.Cache, key, func() (*contract.DocumentResponse, apierror.ErrorResponse) {
		doc, apierr := s.loadDocument(ctx, id)
		if apierr != nil {
			return nil, apierr
		}

		if doc.Status != entity.DocumentPublished {
			return nil, apierror.DocumentNotFoundError
		}
		return toPublicDocumentResponse(doc, s.Storage), nil
	})
}

func (s *DefaultDocumentService) CreateDocument(ctx context.Context, actor *entity.Actor, req *contract.DocumentRequest) (*contract.DocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapCreateDocuments); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	contexts, apierr := parseContexts(req.Contexts)
	if apierr != nil {
		return nil, apierr
	}

	category, apierr := s.loadCategory(ctx, req.CategoryID)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	doc := &entity.Document{
		Title:        req.Title,
		Description:  req.Description,
		CategoryID:   category.ID,
		DocumentType: req.DocumentType,
		Status:       entity.DocumentDraft,
		DisplayOrder: req.DisplayOrder,
		CreatedByID:  actor.UserID,
		UpdatedByID:  actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	for _, c := range contexts {
		doc.Contexts = append(doc.Contexts, &entity.DocumentPlacement{Context: c})
	}

	err := s.DocRepo.Transaction(ctx, func(tx repository.DocumentStore) error {
		if err := tx.Create(ctx, doc); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, newAudit(doc.ID, entity.AuditCreated, "", entity.DocumentDraft, nil, actor, now))
	})
	if err != nil {
		log.Errorf("failed to create document: %v", err)
		return nil, apierror.InternalServerError
	}

	doc.Category = *category
	return toDocumentResponse(doc, s.Storage), nil
}

func (s *DefaultDocumentService) UpdateDocument(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateDocumentRequest) (*contract.DocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapCreateDocuments); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	contexts, apierr := parseContexts(req.Contexts)
	if apierr != nil {
		return nil, apierr
	}

	current, apierr := s.loadDocument(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.CategoryID != nil && *req.CategoryID != current.CategoryID {
		if _, apierr := s.loadCategory(ctx, *req.CategoryID); apierr != nil {
			return nil, apierr
		}
	}

	// The row is read again under lock, a transition or promotion committed
	// since the first read must survive this update.
	var doc *entity.Document
	var failure apierror.ErrorResponse
	err := s.DocRepo.Transaction(ctx, func(tx repository.DocumentStore) error {
		var err error
		doc, err = tx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if doc == nil {
			failure = apierror.DocumentNotFoundError
			return errAbort
		}

		applyDocumentChanges(doc, req)
		now := utils.NowUTC()
		doc.UpdatedByID = actor.UserID
		doc.UpdatedAt = now

		if err = tx.UpdateDetails(ctx, doc); err != nil {
			return err
		}

		if req.Contexts != nil {
			if err = tx.ReplaceContexts(ctx, doc.ID, contexts); err != nil {
				return err
			}
		}
		return tx.AppendAudit(ctx, newAudit(doc.ID, entity.AuditUpdated, doc.Status, doc.Status, nil, actor, now))
	})

	if failure != nil {
		return nil, failure
	}

	if err != nil {
		log.Errorf("failed to update document: %v", err)
		return nil, apierror.InternalServerError
	}

	if doc.Status == entity.DocumentPublished {
		s.Cache.Invalidate(ctx, cache.PrefixDocuments)
	}
	return s.reload(ctx, doc.ID)
}

func applyDocumentChanges(doc *entity.Document, req *contract.UpdateDocumentRequest) {
	if req.CategoryID != nil {
		doc.CategoryID = *req.CategoryID
	}
	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Description != nil {
		doc.Description = *req.Description
	}
	if req.DocumentType != nil {
		doc.DocumentType = *req.DocumentType
	}
	if req.DisplayOrder != nil {
		doc.DisplayOrder = *req.DisplayOrder
	}
}

func (s *DefaultDocumentService) Submit(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	return s.changeStatus(ctx, actor, id, policy.SubmitTransition)
}

func (s *DefaultDocumentService) Approve(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	return s.changeStatus(ctx, actor, id, policy.ApproveTransition)
}

func (s *DefaultDocumentService) Reject(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	return s.changeStatus(ctx, actor, id, policy.RejectTransition)
}

func (s *DefaultDocumentService) Unpublish(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	return s.changeStatus(ctx, actor, id, policy.UnpublishTransition)
}

func (s *DefaultDocumentService) Restore(ctx context.Context, actor *entity.Actor, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	return s.changeStatus(ctx, actor, id, policy.RestoreTransition)
}

// changeStatus checks the actor first, then the source state of the locked
// row. The status update and its audit record commit together, a rejected
// transition writes nothing.
func (s *DefaultDocumentService) changeStatus(ctx context.Context, actor *entity.Actor, id int64, t policy.Transition) (*contract.DocumentResponse, apierror.ErrorResponse) {
	if apierr := t.CanPerform(actor); apierr != nil {
		return nil, apierr
	}

	var failure apierror.ErrorResponse
	err := s.DocRepo.Transaction(ctx, func(tx repository.DocumentStore) error {
		doc, err := tx.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if doc == nil {
			failure = apierror.DocumentNotFoundError
			return errAbort
		}

		if apierr := t.CheckSource(doc.Status); apierr != nil {
			failure = apierr
			return errAbort
		}

		now := utils.NowUTC()
		doc.Status = t.To
		doc.UpdatedByID = actor.UserID
		doc.UpdatedAt = now
		if t.To == entity.DocumentPublished {
			approver := actor.UserID
			doc.PublishedAt = &now
			doc.ApprovedByID = &approver
		}

		if err = tx.Save(ctx, doc); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, newAudit(doc.ID, entity.AuditStatusChanged, t.From, t.To, nil, actor, now))
	})

	if failure != nil {
		return nil, failure
	}

	if err != nil {
		log.Errorf("failed to change document %d status to %s: %v", id, t.To, err)
		return nil, apierror.InternalServerError
	}

	if t.From == entity.DocumentPublished || t.To == entity.DocumentPublished {
		s.Cache.Invalidate(ctx, cache.PrefixDocuments)
	}
	return s.reload(ctx, id)
}

func (s *DefaultDocumentService) GetHistory(ctx context.Context, actor *entity.Actor, id int64) ([]*contract.AuditResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	if _, apierr := s.loadDocument(ctx, id); apierr != nil {
		return nil, apierr
	}

	audits, err := s.DocRepo.FindAudits(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch document history: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.AuditResponse, len(audits))
	for i, a := range audits {
		resp[i] = toAuditResponse(a)
	}
	return resp, nil
}

func (s *DefaultDocumentService) findDocuments(ctx context.Context, filter repository.DocumentFilter, public bool) ([]*contract.DocumentResponse, apierror.ErrorResponse) {
	docs, err := s.DocRepo.FindAll(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch documents: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.DocumentResponse, len(docs))
	for i, doc := range docs {
		if public {
			resp[i] = toPublicDocumentResponse(doc, s.Storage)
		} else {
			resp[i] = toDocumentResponse(doc, s.Storage)
		}
	}
	return resp, nil
}

func (s *DefaultDocumentService) loadDocument(ctx context.Context, id int64) (*entity.Document, apierror.ErrorResponse) {
	doc, err := s.DocRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch document: %v", err)
		return nil, apierror.InternalServerError
	}

	if doc == nil {
		return nil, apierror.DocumentNotFoundError
	}
	return doc, nil
}

func (s *DefaultDocumentService) loadCategory(ctx context.Context, id int64) (*entity.DocumentCategory, apierror.ErrorResponse) {
	category, err := s.CategoryRepo.FindCategoryByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch category: %v", err)
		return nil, apierror.InternalServerError
	}

	if category == nil {
		return nil, apierror.NewInvalidFieldValueError("category_id", strconv.FormatInt(id, 10))
	}
	return category, nil
}

func (s *DefaultDocumentService) reload(ctx context.Context, id int64) (*contract.DocumentResponse, apierror.ErrorResponse) {
	doc, apierr := s.loadDocument(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toDocumentResponse(doc, s.Storage), nil
}

// parseDocumentFilter reads the public query filters. category is either a
// numeric id or a slug.
func parseDocumentFilter(docContext, category string) (repository.DocumentFilter, apierror.ErrorResponse) {
	var filter repository.DocumentFilter
	if docContext != "" {
		parsed, ok := entity.ParseDocumentContext(docContext)
		if !ok {
			return filter, apierror.NewInvalidFieldValueError("context", docContext)
		}
		filter.Context = parsed
	}

	if category != "" {
		if id, err := strconv.ParseInt(category, 10, 64); err == nil {
			filter.CategoryID = id
		} else {
			filter.CategorySlug = category
		}
	}
	return filter, nil
}

func parseContexts(raw []string) ([]entity.DocumentContext, apierror.ErrorResponse) {
	contexts := make([]entity.DocumentContext, 0, len(raw))
	for _, r := range raw {
		c, ok := entity.ParseDocumentContext(r)
		if !ok {
			return nil, apierror.NewInvalidFieldValueError("contexts", r)
		}

		if !slices.Contains(contexts, c) {
			contexts = append(contexts, c)
		}
	}
	return contexts, nil
}

func newAudit(documentID int64, action entity.AuditAction, from, to entity.DocumentStatus, versionID *int64, actor *entity.Actor, now int64) *entity.DocumentAudit {
	return &entity.DocumentAudit{
		ID:         uid.Generate(),
		DocumentID: documentID,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		VersionID:  versionID,
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		CreatedAt:  now,
	}
}

func toDocumentResponse(doc *entity.Document, files storage.FileStorage) *contract.DocumentResponse {
	contexts := make([]string, 0, len(doc.Contexts))
	for _, c := range doc.Contexts {
		contexts = append(contexts, string(c.Context))
	}
	slices.Sort(contexts)

	var current *contract.VersionResponse
	if doc.CurrentVersion != nil {
		current = toVersionResponse(doc.CurrentVersion, files)
	}

	var category *contract.CategorySummaryResponse
	if doc.Category.ID != 0 {
		category = &contract.CategorySummaryResponse{
			ID:    doc.Category.ID,
			Name:  doc.Category.Name,
			Slug:  doc.Category.Slug,
			Macro: string(doc.Category.Macro),
		}
	}

	return &contract.DocumentResponse{
		ID:                  doc.ID,
		Title:               doc.Title,
		Description:         doc.Description,
		Category:            category,
		DocumentType:        doc.DocumentType,
		Status:              string(doc.Status),
		DisplayOrder:        doc.DisplayOrder,
		Contexts:            contexts,
		CurrentVersion:      current,
		CanCreateNewVersion: policy.CanCreateNewVersion(string(doc.Category.Macro), doc.DocumentType),
		CreatedByID:         doc.CreatedByID,
		UpdatedByID:         doc.UpdatedByID,
		ApprovedByID:        doc.ApprovedByID,
		PublishedAt:         utils.FormatEpochPtr(doc.PublishedAt),
		CreatedAt:           utils.FormatEpoch(doc.CreatedAt),
		UpdatedAt:           utils.FormatEpoch(doc.UpdatedAt),
	}
}

// toPublicDocumentResponse drops the staff identifiers.
func toPublicDocumentResponse(doc *entity.Document, files storage.FileStorage) *contract.DocumentResponse {
	resp := toDocumentResponse(doc, files)
	resp.CreatedByID = 0
	resp.UpdatedByID = 0
	resp.ApprovedByID = nil
	if resp.CurrentVersion != nil {
		resp.CurrentVersion.CreatedByID = 0
	}
	return resp
}

func toAuditResponse(a *entity.DocumentAudit) *contract.AuditResponse {
	return &contract.AuditResponse{
		ID:         a.ID,
		DocumentID: a.DocumentID,
		Action:     string(a.Action),
		FromStatus: string(a.FromStatus),
		ToStatus:   string(a.ToStatus),
		VersionID:  a.VersionID,
		ActorID:    a.ActorID,
		ActorRole:  string(a.ActorRole),
		CreatedAt:  utils.FormatEpoch(a.CreatedAt),
	}
}
