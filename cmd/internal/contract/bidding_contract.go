package contract

type BiddingRequest struct {
	Number          string  `json:"number" validate:"required,min=1,max=40,nospaces"`
	Modality        string  `json:"modality" validate:"required,min=2,max=80"`
	Object          string  `json:"object" validate:"required,min=2,max=2000"`
	Status          string  `json:"status" validate:"max=40"`
	EstimatedValue  *string `json:"estimated_value" validate:"omitempty,brl"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,dateonly"`
	OpeningDate     *string `json:"opening_date" validate:"omitempty,dateonly"`
	SupplierCNPJ    *string `json:"supplier_cnpj" validate:"omitempty,cnpj"`
	Published       bool    `json:"published"`
}

type UpdateBiddingRequest struct {
	Number          *string `json:"number" validate:"omitempty,min=1,max=40,nospaces"`
	Modality        *string `json:"modality" validate:"omitempty,min=2,max=80"`
	Object          *string `json:"object" validate:"omitempty,min=2,max=2000"`
	EstimatedValue  *string `json:"estimated_value" validate:"omitempty,brl"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,dateonly"`
	OpeningDate     *string `json:"opening_date" validate:"omitempty,dateonly"`
	SupplierCNPJ    *string `json:"supplier_cnpj" validate:"omitempty,cnpj"`
	Published       *bool   `json:"published"`
}

type MovementRequest struct {
	Phase       string `json:"phase" validate:"required,max=40"`
	Description string `json:"description" validate:"required,min=2,max=2000"`
}

type BiddingDocumentRequest struct {
	DocumentType string  `json:"document_type" validate:"required,max=60"`
	Phase        string  `json:"phase" validate:"required,max=40"`
	Title        string  `json:"title" validate:"required,min=2,max=200"`
	NumeroAnexo  *int    `json:"numero_anexo"`
	Status       *string `json:"status" validate:"omitempty,max=20"`
}

type BiddingDocumentStatusRequest struct {
	Status string `json:"status" validate:"required,max=20"`
}

type BiddingResponse struct {
	ID                  int64                      `json:"id"`
	Number              string                     `json:"number"`
	Modality            string                     `json:"modality"`
	Object              string                     `json:"object"`
	Status              string                     `json:"status"`
	EstimatedValueCents *int64                     `json:"estimated_value_cents"`
	EstimatedValue      *string                    `json:"estimated_value"`
	PublicationDate     *string                    `json:"publication_date"`
	OpeningDate         *string                    `json:"opening_date"`
	SupplierCNPJ        *string                    `json:"supplier_cnpj,omitempty"`
	Published           bool                       `json:"published"`
	Documents           []*BiddingDocumentResponse `json:"documents"`
	Movements           []*MovementResponse        `json:"movements"`
	CreatedAt           string                     `json:"created_at"`
	UpdatedAt           string                     `json:"updated_at"`
}

type BiddingDocumentResponse struct {
	ID            int64   `json:"id"`
	BiddingID     int64   `json:"bidding_id"`
	DocumentType  string  `json:"document_type"`
	Phase         string  `json:"phase"`
	Title         string  `json:"title"`
	NumeroAnexo   *int    `json:"numero_anexo,omitempty"`
	FileName      string  `json:"file_name"`
	FileURL       string  `json:"file_url"`
	FileSize      int64   `json:"file_size"`
	FileSizeHuman string  `json:"file_size_human"`
	FileType      string  `json:"file_type"`
	Status        string  `json:"status"`
	PublishedAt   *string `json:"published_at"`
	CreatedAt     string  `json:"created_at"`
}

type MovementResponse struct {
	ID          int64  `json:"id,string"`
	Phase       string `json:"phase"`
	Description string `json:"description"`
	AuthorID    int64  `json:"author_id"`
	CreatedAt   string `json:"created_at"`
}
