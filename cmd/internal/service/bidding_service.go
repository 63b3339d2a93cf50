package service

import (
	"context"
	"errors"
	"mime/multipart"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/domain/entity"
	"portalmunicipal/cmd/internal/domain/policy"
	"portalmunicipal/cmd/internal/domain/sqlite/repository"
	"portalmunicipal/cmd/internal/infrastructure/aws/storage"
	"portalmunicipal/cmd/internal/infrastructure/cache"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"portalmunicipal/cmd/internal/utils/uid"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type DefaultBiddingService struct {
	BiddingRepo repository.BiddingStore
	Storage     storage.FileStorage
	Cache       *PublicCache
	Validate    *validator.Validate
}

func NewBiddingService(
	biddingRepo repository.BiddingStore,
	files storage.FileStorage,
	publicCache *PublicCache,
	validate *validator.Validate,
) *DefaultBiddingService {
	return &DefaultBiddingService{
		BiddingRepo: biddingRepo,
		Storage:     files,
		Cache:       publicCache,
		Validate:    validate,
	}
}

// ListPublic lists published biddings with their published documents.
func (s *DefaultBiddingService) ListPublic(ctx context.Context, status string) ([]*contract.BiddingResponse, apierror.ErrorResponse) {
	filter, apierr := biddingFilter(status)
	if apierr != nil {
		return nil, apierr
	}
	filter.PublishedOnly = true

	key := cache.Key(cache.PrefixBiddings, "list", string(filter.Status))
	return cachedResponse(ctx, s.Cache, key, func() ([]*contract.BiddingResponse, apierror.ErrorResponse) {
		return s.findBiddings(ctx, filter)
	})
}

func (s *DefaultBiddingService) GetPublic(ctx context.Context, id int64) (*contract.BiddingResponse, apierror.ErrorResponse) {
	key := cache.Key(cache.PrefixBiddings, "id", strconv.FormatInt(id, 10))
	return cachedResponse(ctx, s.Cache, key, func() (*contract.BiddingResponse, apierror.ErrorResponse) {
		bidding, err := s.BiddingRepo.FindPublishedByID(ctx, id)
		if err != nil {
			log.Errorf("failed to fetch bidding: %v", err)
			return nil, apierror.InternalServerError
		}

		if bidding == nil {
			return nil, apierror.BiddingNotFoundError
		}
		return toBiddingResponse(bidding, s.Storage), nil
	})
}

func (s *DefaultBiddingService) ListBiddings(ctx context.Context, actor *entity.Actor, status string) ([]*contract.BiddingResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	filter, apierr := biddingFilter(status)
	if apierr != nil {
		return nil, apierr
	}
	return s.findBiddings(ctx, filter)
}

func (s *DefaultBiddingService) GetBidding(ctx context.Context, actor *entity.Actor, id int64) (*contract.BiddingResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	bidding, apierr := s.loadBidding(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toBiddingResponse(bidding, s.Storage), nil
}

func (s *DefaultBiddingService) CreateBidding(ctx context.Context, actor *entity.Actor, req *contract.BiddingRequest) (*contract.BiddingResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageBiddings); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	status := entity.PhasePlanejamento
	if req.Status != "" {
		phase, ok := policy.NormalizePhase(req.Status)
		if !ok {
			return nil, apierror.NewInvalidFieldValueError("status", req.Status)
		}
		status = phase
	}

	now := utils.NowUTC()
	bidding := &entity.Bidding{
		Number:      req.Number,
		Modality:    req.Modality,
		Object:      req.Object,
		Status:      status,
		Published:   req.Published,
		CreatedByID: actor.UserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if apierr := applyBiddingValues(bidding, req.EstimatedValue, req.PublicationDate, req.OpeningDate, req.SupplierCNPJ); apierr != nil {
		return nil, apierr
	}

	err := s.BiddingRepo.Create(ctx, bidding)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.DuplicateBiddingError
	}

	if err != nil {
		log.Errorf("failed to create bidding: %v", err)
		return nil, apierror.InternalServerError
	}

	if bidding.Published {
		s.Cache.Invalidate(ctx, cache.PrefixBiddings)
	}
	return toBiddingResponse(bidding, s.Storage), nil
}

func (s *DefaultBiddingService) UpdateBidding(ctx context.Context, actor *entity.Actor, id int64, req *contract.UpdateBiddingRequest) (*contract.BiddingResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageBiddings); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	bidding, apierr := s.loadBidding(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	if req.Number != nil {
		bidding.Number = *req.Number
	}
	if req.Modality != nil {
		bidding.Modality = *req.Modality
	}
	if req.Object != nil {
		bidding.Object = *req.Object
	}
	if req.Published != nil {
		bidding.Published = *req.Published
	}

	// Only the fields present in the request are touched.
	if req.EstimatedValue != nil {
		if bidding.EstimatedValueCents, apierr = parseOptionalBRL("estimated_value", req.EstimatedValue); apierr != nil {
			return nil, apierr
		}
	}
	if req.PublicationDate != nil {
		if bidding.PublicationDate, apierr = parseOptionalDate("publication_date", req.PublicationDate); apierr != nil {
			return nil, apierr
		}
	}
	if req.OpeningDate != nil {
		if bidding.OpeningDate, apierr = parseOptionalDate("opening_date", req.OpeningDate); apierr != nil {
			return nil, apierr
		}
	}
	if req.SupplierCNPJ != nil {
		bidding.SupplierCNPJ = cnpjOrNil(*req.SupplierCNPJ)
	}
	bidding.UpdatedAt = utils.NowUTC()

	// The status is left out, it only moves with a movement.
	err := s.BiddingRepo.UpdateDetails(ctx, bidding)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.DuplicateBiddingError
	}

	if err != nil {
		log.Errorf("failed to update bidding: %v", err)
		return nil, apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixBiddings)
	return s.reload(ctx, id)
}

// AddMovement appends a movement and moves the bidding to the movement's
// phase in the same transaction.
func (s *DefaultBiddingService) AddMovement(ctx context.Context, actor *entity.Actor, id int64, req *contract.MovementRequest) (*contract.BiddingResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageBiddings); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	phase, ok := policy.NormalizePhase(req.Phase)
	if !ok {
		return nil, apierror.NewInvalidFieldValueError("phase", req.Phase)
	}

	bidding, apierr := s.loadBidding(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	err := s.BiddingRepo.Transaction(ctx, func(tx repository.BiddingStore) error {
		now := utils.NowUTC()
		movement := &entity.BiddingMovement{
			ID:          uid.Generate(),
			BiddingID:   bidding.ID,
			Phase:       phase,
			Description: req.Description,
			AuthorID:    actor.UserID,
			CreatedAt:   now,
		}
		if err := tx.AppendMovement(ctx, movement); err != nil {
			return err
		}
		return tx.UpdateStatus(ctx, bidding.ID, phase, now)
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierror.BiddingNotFoundError
	}

	if err != nil {
		log.Errorf("failed to add movement to bidding %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if bidding.Published {
		s.Cache.Invalidate(ctx, cache.PrefixBiddings)
	}
	return s.reload(ctx, id)
}

// AddDocument attaches a file to the bidding once its type, phase and
// attachment number pass the phase gate. An absent status means DRAFT.
func (s *DefaultBiddingService) AddDocument(ctx context.Context, actor *entity.Actor, id int64, req *contract.BiddingDocumentRequest, fileHeader *multipart.FileHeader) (*contract.BiddingDocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageBiddings); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	tipo, ok := policy.NormalizeTipoDocumento(req.DocumentType)
	if !ok {
		return nil, apierror.NewInvalidFieldValueError("document_type", req.DocumentType)
	}

	phase, ok := policy.NormalizePhase(req.Phase)
	if !ok {
		return nil, apierror.NewInvalidFieldValueError("phase", req.Phase)
	}

	if err := policy.ValidateTipoDocumentoPhase(tipo, phase); err != nil {
		return nil, apierror.NewBadRequestError(err.Error())
	}

	if err := policy.ValidateAnexoFields(tipo, req.NumeroAnexo); err != nil {
		return nil, apierror.NewBadRequestError(err.Error())
	}

	status := entity.StatusDocumentoDraft
	if req.Status != nil {
		parsed, ok := policy.NormalizeStatusDocumento(*req.Status)
		if !ok {
			return nil, apierror.NewInvalidFieldValueError("status", *req.Status)
		}
		status = parsed
	}

	bidding, apierr := s.loadBidding(ctx, id)
	if apierr != nil {
		return nil, apierr
	}

	prefix := storage.PathBiddings + strconv.FormatInt(bidding.ID, 10) + "/"
	file, apierr := storeUpload(ctx, s.Storage, prefix, fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	doc := &entity.BiddingDocument{
		BiddingID:    bidding.ID,
		DocumentType: tipo,
		Phase:        phase,
		Title:        req.Title,
		FileName:     file.Name,
		FilePath:     file.Key,
		FileSize:     file.Size,
		FileType:     file.ContentType,
		Status:       status,
		CreatedByID:  actor.UserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if tipo == entity.TipoAnexo {
		doc.NumeroAnexo = req.NumeroAnexo
	}
	if status == entity.StatusDocumentoPublished {
		doc.PublishedAt = &now
	}

	if err := s.BiddingRepo.SaveDocument(ctx, doc); err != nil {
		discardUpload(ctx, s.Storage, file)
		log.Errorf("failed to save bidding document: %v", err)
		return nil, apierror.InternalServerError
	}

	if bidding.Published && status == entity.StatusDocumentoPublished {
		s.Cache.Invalidate(ctx, cache.PrefixBiddings)
	}
	return toBiddingDocumentResponse(doc, s.Storage), nil
}

func (s *DefaultBiddingService) ChangeDocumentStatus(ctx context.Context, actor *entity.Actor, biddingID, documentID int64, req *contract.BiddingDocumentStatusRequest) (*contract.BiddingDocumentResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageBiddings); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	status, ok := policy.NormalizeStatusDocumento(req.Status)
	if !ok {
		return nil, apierror.NewInvalidFieldValueError("status", req.Status)
	}

	doc, err := s.BiddingRepo.FindDocument(ctx, biddingID, documentID)
	if err != nil {
		log.Errorf("failed to fetch bidding document: %v", err)
		return nil, apierror.InternalServerError
	}

	if doc == nil {
		return nil, apierror.BiddingDocNotFoundError
	}

	if doc.Status == status {
		return toBiddingDocumentResponse(doc, s.Storage), nil
	}

	now := utils.NowUTC()
	doc.Status = status
	doc.UpdatedAt = now
	if status == entity.StatusDocumentoPublished {
		doc.PublishedAt = &now
	} else {
		doc.PublishedAt = nil
	}

	if err = s.BiddingRepo.SaveDocument(ctx, doc); err != nil {
		log.Errorf("failed to update bidding document status: %v", err)
		return nil, apierror.InternalServerError
	}

	s.Cache.Invalidate(ctx, cache.PrefixBiddings)
	return toBiddingDocumentResponse(doc, s.Storage), nil
}

func (s *DefaultBiddingService) findBiddings(ctx context.Context, filter repository.BiddingFilter) ([]*contract.BiddingResponse, apierror.ErrorResponse) {
	biddings, err := s.BiddingRepo.FindAll(ctx, filter)
	if err != nil {
		log.Errorf("failed to fetch biddings: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.BiddingResponse, len(biddings))
	for i, b := range biddings {
		resp[i] = toBiddingResponse(b, s.Storage)
	}
	return resp, nil
}

func (s *DefaultBiddingService) loadBidding(ctx context.Context, id int64) (*entity.Bidding, apierror.ErrorResponse) {
	bidding, err := s.BiddingRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch bidding: %v", err)
		return nil, apierror.InternalServerError
	}

	if bidding == nil {
		return nil, apierror.BiddingNotFoundError
	}
	return bidding, nil
}

func (s *DefaultBiddingService) reload(ctx context.Context, id int64) (*contract.BiddingResponse, apierror.ErrorResponse) {
	bidding, apierr := s.loadBidding(ctx, id)
	if apierr != nil {
		return nil, apierr
	}
	return toBiddingResponse(bidding, s.Storage), nil
}

func biddingFilter(status string) (repository.BiddingFilter, apierror.ErrorResponse) {
	var filter repository.BiddingFilter
	if status == "" {
		return filter, nil
	}

	phase, ok := policy.NormalizePhase(status)
	if !ok {
		return filter, apierror.NewInvalidFieldValueError("status", status)
	}
	filter.Status = phase
	return filter, nil
}

func applyBiddingValues(b *entity.Bidding, value, publication, opening, supplier *string) apierror.ErrorResponse {
	var apierr apierror.ErrorResponse
	if b.EstimatedValueCents, apierr = parseOptionalBRL("estimated_value", value); apierr != nil {
		return apierr
	}
	if b.PublicationDate, apierr = parseOptionalDate("publication_date", publication); apierr != nil {
		return apierr
	}
	if b.OpeningDate, apierr = parseOptionalDate("opening_date", opening); apierr != nil {
		return apierr
	}
	if supplier != nil {
		b.SupplierCNPJ = cnpjOrNil(*supplier)
	}
	return nil
}

// cnpjOrNil stores CNPJs as digits only, an empty value clears it.
func cnpjOrNil(raw string) *string {
	digits := utils.StripCNPJ(raw)
	if digits == "" {
		return nil
	}
	return &digits
}

func toBiddingResponse(b *entity.Bidding, files storage.FileStorage) *contract.BiddingResponse {
	docs := make([]*contract.BiddingDocumentResponse, len(b.Documents))
	for i, d := range b.Documents {
		docs[i] = toBiddingDocumentResponse(d, files)
	}

	movements := make([]*contract.MovementResponse, len(b.Movements))
	for i, m := range b.Movements {
		movements[i] = &contract.MovementResponse{
			ID:          m.ID,
			Phase:       string(m.Phase),
			Description: m.Description,
			AuthorID:    m.AuthorID,
			CreatedAt:   utils.FormatEpoch(m.CreatedAt),
		}
	}

	return &contract.BiddingResponse{
		ID:                  b.ID,
		Number:              b.Number,
		Modality:            b.Modality,
		Object:              b.Object,
		Status:              string(b.Status),
		EstimatedValueCents: b.EstimatedValueCents,
		EstimatedValue:      formatOptionalBRL(b.EstimatedValueCents),
		PublicationDate:     formatOptionalDate(b.PublicationDate),
		OpeningDate:         formatOptionalDate(b.OpeningDate),
		SupplierCNPJ:        b.SupplierCNPJ,
		Published:           b.Published,
		Documents:           docs,
		Movements:           movements,
		CreatedAt:           utils.FormatEpoch(b.CreatedAt),
		UpdatedAt:           utils.FormatEpoch(b.UpdatedAt),
	}
}

func toBiddingDocumentResponse(d *entity.BiddingDocument, files storage.FileStorage) *contract.BiddingDocumentResponse {
	return &contract.BiddingDocumentResponse{
		ID:            d.ID,
		BiddingID:     d.BiddingID,
		DocumentType:  string(d.DocumentType),
		Phase:         string(d.Phase),
		Title:         d.Title,
		NumeroAnexo:   d.NumeroAnexo,
		FileName:      d.FileName,
		FileURL:       files.URL(d.FilePath),
		FileSize:      d.FileSize,
		FileSizeHuman: humanSize(d.FileSize),
		FileType:      d.FileType,
		Status:        string(d.Status),
		PublishedAt:   utils.FormatEpochPtr(d.PublishedAt),
		CreatedAt:     utils.FormatEpoch(d.CreatedAt),
	}
}
