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

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

type DefaultVersionService struct {
	DocRepo  repository.DocumentStore
	Storage  storage.FileStorage
	Cache    *PublicCache
	Validate *validator.Validate
}

func NewVersionService(
	docRepo repository.DocumentStore,
	files storage.FileStorage,
	publicCache *PublicCache,
	validate *validator.Validate,
) *DefaultVersionService {
	return &DefaultVersionService{
		DocRepo:  docRepo,
		Storage:  files,
		Cache:    publicCache,
		Validate: validate,
	}
}

func (s *DefaultVersionService) ListVersions(ctx context.Context, actor *entity.Actor, documentID int64) ([]*contract.VersionResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapViewAdmin); apierr != nil {
		return nil, apierr
	}

	doc, err := s.DocRepo.FindByID(ctx, documentID)
	if err != nil {
		log.Errorf("failed to fetch document: %v", err)
		return nil, apierror.InternalServerError
	}

	if doc == nil {
		return nil, apierror.DocumentNotFoundError
	}

	versions, err := s.DocRepo.FindVersions(ctx, documentID)
	if err != nil {
		log.Errorf("failed to fetch versions: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.VersionResponse, len(versions))
	for i, v := range versions {
		resp[i] = toVersionResponse(v, s.Storage)
	}
	return resp, nil
}

// UploadVersion stores a new file for the document and makes it the current
// version. The first version is always accepted, later ones only when the
// category and document type allow versioning.
func (s *DefaultVersionService) UploadVersion(ctx context.Context, actor *entity.Actor, documentID int64, req *contract.VersionRequest, fileHeader *multipart.FileHeader) (*contract.VersionResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageVersions); apierr != nil {
		return nil, apierr
	}

	utils.Sanitize(req)
	if valerr := s.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	doc, err := s.DocRepo.FindByID(ctx, documentID)
	if err != nil {
		log.Errorf("failed to fetch document: %v", err)
		return nil, apierror.InternalServerError
	}

	if doc == nil {
		return nil, apierror.DocumentNotFoundError
	}

	if apierr := s.checkVersioning(ctx, s.DocRepo, doc); apierr != nil {
		return nil, apierr
	}

	file, apierr := storeUpload(ctx, s.Storage, storage.PathDocuments, fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	var failure apierror.ErrorResponse
	var version *entity.DocumentVersion
	err = s.DocRepo.Transaction(ctx, func(tx repository.DocumentStore) error {
		locked, err := tx.FindByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}

		if locked == nil {
			failure = apierror.DocumentNotFoundError
			return errAbort
		}

		// Another upload may have landed between the first check and the lock.
		if apierr := s.checkVersioning(ctx, tx, locked); apierr != nil {
			failure = apierr
			return errAbort
		}

		number, err := tx.NextVersionNumber(ctx, documentID)
		if err != nil {
			return err
		}

		now := utils.NowUTC()
		version = &entity.DocumentVersion{
			DocumentID:    documentID,
			VersionNumber: number,
			FileName:      file.Name,
			FilePath:      file.Key,
			FileSize:      file.Size,
			FileType:      file.ContentType,
			Notes:         req.Notes,
			CreatedByID:   actor.UserID,
			CreatedAt:     now,
		}
		if err = tx.CreateVersion(ctx, version); err != nil {
			return err
		}

		if err = promoteVersion(ctx, tx, documentID, version.ID, actor.UserID, now); err != nil {
			return err
		}
		version.IsCurrent = true

		versionID := version.ID
		return tx.AppendAudit(ctx, newAudit(documentID, entity.AuditVersionAdded, locked.Status, locked.Status, &versionID, actor, now))
	})

	if failure != nil || err != nil {
		discardUpload(ctx, s.Storage, file)
	}

	if failure != nil {
		return nil, failure
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, apierror.DuplicateVersionError
	}

	if err != nil {
		log.Errorf("failed to create version for document %d: %v", documentID, err)
		return nil, apierror.InternalServerError
	}

	if doc.Status == entity.DocumentPublished {
		s.Cache.Invalidate(ctx, cache.PrefixDocuments)
	}
	return toVersionResponse(version, s.Storage), nil
}

// SetCurrentVersion makes versionID the only current version of the document.
// A version of another document is reported as not found and nothing changes.
func (s *DefaultVersionService) SetCurrentVersion(ctx context.Context, actor *entity.Actor, documentID, versionID int64) (*contract.VersionResponse, apierror.ErrorResponse) {
	if apierr := policy.Authorize(actor, entity.CapManageVersions); apierr != nil {
		return nil, apierr
	}

	var failure apierror.ErrorResponse
	var version *entity.DocumentVersion
	var status entity.DocumentStatus
	err := s.DocRepo.Transaction(ctx, func(tx repository.DocumentStore) error {
		doc, err := tx.FindByIDForUpdate(ctx, documentID)
		if err != nil {
			return err
		}

		if doc == nil {
			failure = apierror.DocumentNotFoundError
			return errAbort
		}

		version, err = tx.FindVersion(ctx, documentID, versionID)
		if err != nil {
			return err
		}

		if version == nil {
			failure = apierror.VersionNotFoundError
			return errAbort
		}

		now := utils.NowUTC()
		if err = promoteVersion(ctx, tx, documentID, versionID, actor.UserID, now); err != nil {
			return err
		}
		version.IsCurrent = true
		status = doc.Status

		return tx.AppendAudit(ctx, newAudit(documentID, entity.AuditVersionPromote, doc.Status, doc.Status, &versionID, actor, now))
	})

	if failure != nil {
		return nil, failure
	}

	if err != nil {
		log.Errorf("failed to promote version %d of document %d: %v", versionID, documentID, err)
		return nil, apierror.InternalServerError
	}

	if status == entity.DocumentPublished {
		s.Cache.Invalidate(ctx, cache.PrefixDocuments)
	}
	return toVersionResponse(version, s.Storage), nil
}

func (s *DefaultVersionService) checkVersioning(ctx context.Context, store repository.DocumentStore, doc *entity.Document) apierror.ErrorResponse {
	count, err := store.CountVersions(ctx, doc.ID)
	if err != nil {
		log.Errorf("failed to count versions: %v", err)
		return apierror.InternalServerError
	}

	if count > 0 && !policy.CanCreateNewVersion(string(doc.Category.Macro), doc.DocumentType) {
		return apierror.VersioningNotAllowedError
	}
	return nil
}

// promoteVersion must run inside a transaction: it clears every current
// flag of the document, sets the target one and moves the document pointer.
func promoteVersion(ctx context.Context, tx repository.DocumentStore, documentID, versionID, actorID, now int64) error {
	if err := tx.ClearCurrentVersions(ctx, documentID); err != nil {
		return err
	}

	if err := tx.MarkCurrentVersion(ctx, versionID); err != nil {
		return err
	}
	return tx.SetCurrentVersion(ctx, documentID, versionID, actorID, now)
}

func toVersionResponse(v *entity.DocumentVersion, files storage.FileStorage) *contract.VersionResponse {
	return &contract.VersionResponse{
		ID:            v.ID,
		DocumentID:    v.DocumentID,
		VersionNumber: v.VersionNumber,
		FileName:      v.FileName,
		FileURL:       files.URL(v.FilePath),
		FileSize:      v.FileSize,
		FileSizeHuman: humanSize(v.FileSize),
		FileType:      v.FileType,
		Notes:         v.Notes,
		IsCurrent:     v.IsCurrent,
		CreatedByID:   v.CreatedByID,
		CreatedAt:     utils.FormatEpoch(v.CreatedAt),
	}
}
