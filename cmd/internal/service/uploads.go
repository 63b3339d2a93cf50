package service

import (
	"context"
	"io"
	"mime/multipart"
	"portalmunicipal/cmd/internal/contract"
	"portalmunicipal/cmd/internal/infrastructure/aws/storage"
	"portalmunicipal/cmd/internal/utils"
	"portalmunicipal/cmd/internal/utils/apierror"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// storedFile describes an object already written to the FileStorage.
type storedFile struct {
	Name        string
	Key         string
	Size        int64
	ContentType string
}

func checkUploadFile(fileHeader *multipart.FileHeader) apierror.ErrorResponse {
	if fileHeader == nil {
		return apierror.MissingFileError
	}

	if fileHeader.Size > contract.MaxDocumentFileSizeBytes {
		return apierror.NewFileTooLargeError(contract.MaxDocumentFileSizeBytes)
	}

	if strings.TrimSpace(fileHeader.Filename) == "" {
		return apierror.MissingFileNameError
	}

	if ext, ok := utils.CheckFileExt(fileHeader.Filename, contract.ValidDocumentFileTypes); !ok {
		return apierror.NewInvalidFileExtError(ext)
	}
	return nil
}

// storeUpload validates the file, then writes it under prefix with a fresh
// uuid name. The original name is only kept as metadata.
func storeUpload(ctx context.Context, files storage.FileStorage, prefix string, fileHeader *multipart.FileHeader) (*storedFile, apierror.ErrorResponse) {
	if apierr := checkUploadFile(fileHeader); apierr != nil {
		return nil, apierr
	}

	data, apierr := readUploadFile(fileHeader)
	if apierr != nil {
		return nil, apierr
	}

	ext, _ := utils.CheckFileExt(fileHeader.Filename, contract.ValidDocumentFileTypes)
	key := prefix + uuid.NewString() + "." + ext
	contentType := mimetype.Detect(data).String()

	if err := files.Upload(ctx, key, data, contentType); err != nil {
		log.Errorf("failed to upload file: %v", err)
		return nil, apierror.InternalServerError
	}

	return &storedFile{
		Name:        fileHeader.Filename,
		Key:         key,
		Size:        int64(len(data)),
		ContentType: contentType,
	}, nil
}

// discardUpload removes an object whose database row could not be written.
func discardUpload(ctx context.Context, files storage.FileStorage, file *storedFile) {
	if err := files.Delete(ctx, file.Key); err != nil {
		log.Warnf("failed to remove orphan upload %s: %v", file.Key, err)
	}
}

func readUploadFile(fileHeader *multipart.FileHeader) ([]byte, apierror.ErrorResponse) {
	file, err := fileHeader.Open()
	if err != nil {
		log.Errorf("failed to open file: %v", err)
		return nil, apierror.InternalServerError
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, contract.MaxDocumentFileSizeBytes+1))
	if err != nil {
		log.Errorf("failed to read file: %v", err)
		return nil, apierror.InternalServerError
	}

	if int64(len(data)) > contract.MaxDocumentFileSizeBytes {
		return nil, apierror.NewFileTooLargeError(contract.MaxDocumentFileSizeBytes)
	}
	return data, nil
}

func humanSize(size int64) string {
	if size < 0 {
		size = 0
	}
	return humanize.Bytes(uint64(size))
}
