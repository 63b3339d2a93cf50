package entity

import "portalmunicipal/cmd/internal/utils/normalize"

type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "DRAFT"
	DocumentPending   DocumentStatus = "PENDING"
	DocumentPublished DocumentStatus = "PUBLISHED"
	DocumentArchived  DocumentStatus = "ARCHIVED"
)

// ParseDocumentStatus accepts the canonical names and their portuguese labels.
func ParseDocumentStatus(raw string) (DocumentStatus, bool) {
	switch normalize.CanonicalToken(raw) {
	case "DRAFT", "RASCUNHO":
		return DocumentDraft, true
	case "PENDING", "PENDENTE":
		return DocumentPending, true
	case "PUBLISHED", "PUBLICADO":
		return DocumentPublished, true
	case "ARCHIVED", "ARQUIVADO":
		return DocumentArchived, true
	}
	return "", false
}

// DocumentContext is a place of the portal where a document is listed.
type DocumentContext string

const (
	ContextTransparency  DocumentContext = "TRANSPARENCY"
	ContextBiddings      DocumentContext = "BIDDINGS"
	ContextInstitutional DocumentContext = "INSTITUTIONAL"
)

// ParseDocumentContext accepts the canonical names and their portuguese labels.
func ParseDocumentContext(raw string) (DocumentContext, bool) {
	switch normalize.CanonicalToken(raw) {
	case "TRANSPARENCY", "TRANSPARENCIA":
		return ContextTransparency, true
	case "BIDDINGS", "LICITACOES":
		return ContextBiddings, true
	case "INSTITUTIONAL", "INSTITUCIONAL":
		return ContextInstitutional, true
	}
	return "", false
}

type Document struct {
	ID               int64          `gorm:"primaryKey"`
	Title            string         `gorm:"not null"`
	Description      string         `gorm:"not null;default:''"`
	CategoryID       int64          `gorm:"not null;index"` // References: document_categories(id)
	DocumentType     string         `gorm:"not null"`
	Status           DocumentStatus `gorm:"not null;index;default:DRAFT"`
	DisplayOrder     int            `gorm:"not null;default:0"`
	CurrentVersionID *int64         // References: document_versions(id), the "vigente" one
	CreatedByID      int64          `gorm:"not null"`
	UpdatedByID      int64          `gorm:"not null"`
	ApprovedByID     *int64
	PublishedAt      *int64
	CreatedAt        int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt        int64 `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Category       DocumentCategory     `gorm:"foreignKey:CategoryID;references:ID"`
	Contexts       []*DocumentPlacement `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE;"`
	CurrentVersion *DocumentVersion     `gorm:"foreignKey:CurrentVersionID;references:ID"`
}

// DocumentPlacement lists a document under one portal context.
type DocumentPlacement struct {
	DocumentID int64           `gorm:"primaryKey;autoIncrement:false"`
	Context    DocumentContext `gorm:"primaryKey"`
}

type DocumentVersion struct {
	ID            int64  `gorm:"primaryKey"`
	DocumentID    int64  `gorm:"not null;index;uniqueIndex:idx_document_version_number"`
	VersionNumber int    `gorm:"not null;uniqueIndex:idx_document_version_number"`
	FileName      string `gorm:"not null"`
	FilePath      string `gorm:"not null"`
	FileSize      int64  `gorm:"not null"`
	FileType      string `gorm:"not null"`
	Notes         string `gorm:"not null;default:''"`
	IsCurrent     bool   `gorm:"not null;default:false;index"`
	CreatedByID   int64  `gorm:"not null"`
	CreatedAt     int64  `gorm:"not null;autoCreateTime:false"`
}

type AuditAction string

const (
	AuditCreated        AuditAction = "CREATED"
	AuditUpdated        AuditAction = "UPDATED"
	AuditStatusChanged  AuditAction = "STATUS_CHANGED"
	AuditVersionAdded   AuditAction = "VERSION_ADDED"
	AuditVersionPromote AuditAction = "VERSION_PROMOTED"
)

// DocumentAudit is append-only, rows are never updated nor deleted.
type DocumentAudit struct {
	ID         int64          `gorm:"primaryKey;autoIncrement:false"`
	DocumentID int64          `gorm:"not null;index"`
	Action     AuditAction    `gorm:"not null"`
	FromStatus DocumentStatus `gorm:"not null;default:''"`
	ToStatus   DocumentStatus `gorm:"not null;default:''"`
	VersionID  *int64
	ActorID    int64 `gorm:"not null"`
	ActorRole  Role  `gorm:"not null"`
	CreatedAt  int64 `gorm:"not null;autoCreateTime:false"`
}
