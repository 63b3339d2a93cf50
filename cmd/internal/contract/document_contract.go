package contract

const MaxDocumentFileSizeBytes = 30 * 1024 * 1024

var ValidDocumentFileTypes = []string{"pdf", "doc", "docx", "odt", "xls", "xlsx", "ods", "csv", "zip", "png", "jpg", "jpeg"}

type DocumentRequest struct {
	Title        string   `json:"title" validate:"required,min=2,max=200"`
	Description  string   `json:"description" validate:"max=5000"`
	CategoryID   int64    `json:"category_id" validate:"required,gt=0"`
	DocumentType string   `json:"document_type" validate:"required,min=2,max=120"`
	DisplayOrder int      `json:"display_order" validate:"min=0"`
	Contexts     []string `json:"contexts" validate:"omitempty,max=3,nodupes,dive,required"`
}

type UpdateDocumentRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=2,max=200"`
	Description  *string  `json:"description" validate:"omitempty,max=5000"`
	CategoryID   *int64   `json:"category_id" validate:"omitempty,gt=0"`
	DocumentType *string  `json:"document_type" validate:"omitempty,min=2,max=120"`
	DisplayOrder *int     `json:"display_order" validate:"omitempty,min=0"`
	Contexts     []string `json:"contexts" validate:"omitempty,max=3,nodupes,dive,required"`
}

type DocumentResponse struct {
	ID                  int64                    `json:"id"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Category            *CategorySummaryResponse `json:"category"`
	DocumentType        string                   `json:"document_type"`
	Status              string                   `json:"status"`
	DisplayOrder        int                      `json:"display_order"`
	Contexts            []string                 `json:"contexts"`
	CurrentVersion      *VersionResponse         `json:"current_version"`
	CanCreateNewVersion bool                     `json:"can_create_new_version"`
	CreatedByID         int64                    `json:"created_by_id,omitempty"`
	UpdatedByID         int64                    `json:"updated_by_id,omitempty"`
	ApprovedByID        *int64                   `json:"approved_by_id,omitempty"`
	PublishedAt         *string                  `json:"published_at"`
	CreatedAt           string                   `json:"created_at"`
	UpdatedAt           string                   `json:"updated_at"`
}

type CategorySummaryResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Macro string `json:"macro"`
}

type VersionRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type VersionResponse struct {
	ID            int64  `json:"id"`
	DocumentID    int64  `json:"document_id"`
	VersionNumber int    `json:"version_number"`
	FileName      string `json:"file_name"`
	FileURL       string `json:"file_url"`
	FileSize      int64  `json:"file_size"`
	FileSizeHuman string `json:"file_size_human"`
	FileType      string `json:"file_type"`
	Notes         string `json:"notes"`
	IsCurrent     bool   `json:"is_current"`
	CreatedByID   int64  `json:"created_by_id,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type AuditResponse struct {
	ID         int64  `json:"id,string"`
	DocumentID int64  `json:"document_id"`
	Action     string `json:"action"`
	FromStatus string `json:"from_status,omitempty"`
	ToStatus   string `json:"to_status,omitempty"`
	VersionID  *int64 `json:"version_id,omitempty"`
	ActorID    int64  `json:"actor_id"`
	ActorRole  string `json:"actor_role"`
	CreatedAt  string `json:"created_at"`
}
