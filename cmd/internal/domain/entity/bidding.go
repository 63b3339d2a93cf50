package entity

// Phase is a stage of the procurement lifecycle. A bidding status is always a phase.
type Phase string

const (
	PhasePlanejamento Phase = "PLANEJAMENTO"
	PhaseAbertura     Phase = "ABERTURA"
	PhaseJulgamento   Phase = "JULGAMENTO"
	PhaseHomologacao  Phase = "HOMOLOGACAO"
	PhaseRecurso      Phase = "RECURSO"
	PhaseContratacao  Phase = "CONTRATACAO"
	PhaseExecucao     Phase = "EXECUCAO"
	PhaseEncerramento Phase = "ENCERRAMENTO"
)

// TipoDocumento is one of the 17 document types a bidding may carry.
type TipoDocumento string

const (
	TipoEdital                  TipoDocumento = "EDITAL"
	TipoAvisoLicitacao          TipoDocumento = "AVISO_LICITACAO"
	TipoTermoReferencia         TipoDocumento = "TERMO_REFERENCIA"
	TipoEstudoTecnicoPreliminar TipoDocumento = "ESTUDO_TECNICO_PRELIMINAR"
	TipoAnexo                   TipoDocumento = "ANEXO"
	TipoEsclarecimento          TipoDocumento = "ESCLARECIMENTO"
	TipoImpugnacao              TipoDocumento = "IMPUGNACAO"
	TipoErrata                  TipoDocumento = "ERRATA"
	TipoAtaSessao               TipoDocumento = "ATA_SESSAO"
	TipoResultadoJulgamento     TipoDocumento = "RESULTADO_JULGAMENTO"
	TipoRecurso                 TipoDocumento = "RECURSO"
	TipoDecisaoRecurso          TipoDocumento = "DECISAO_RECURSO"
	TipoTermoHomologacao        TipoDocumento = "TERMO_HOMOLOGACAO"
	TipoContrato                TipoDocumento = "CONTRATO"
	TipoOrdemServico            TipoDocumento = "ORDEM_SERVICO"
	TipoTermoAditivo            TipoDocumento = "TERMO_ADITIVO"
	TipoTermoEncerramento       TipoDocumento = "TERMO_ENCERRAMENTO"
)

// StatusDocumento is the publication status of a bidding document.
type StatusDocumento string

const (
	StatusDocumentoDraft     StatusDocumento = "DRAFT"
	StatusDocumentoPublished StatusDocumento = "PUBLISHED"
)

type Bidding struct {
	ID                  int64  `gorm:"primaryKey"`
	Number              string `gorm:"not null;uniqueIndex"`
	Modality            string `gorm:"not null"`
	Object              string `gorm:"not null"`
	Status              Phase  `gorm:"not null;index"`
	EstimatedValueCents *int64
	PublicationDate     *int64  // UTC midnight, millis
	OpeningDate         *int64  // UTC midnight, millis
	SupplierCNPJ        *string // Digits only, set once the contract is signed
	Published           bool    `gorm:"not null;default:false"`
	CreatedByID         int64   `gorm:"not null"`
	CreatedAt           int64   `gorm:"not null;autoCreateTime:false"`
	UpdatedAt           int64   `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Documents []*BiddingDocument `gorm:"foreignKey:BiddingID;constraint:OnDelete:CASCADE;"`
	Movements []*BiddingMovement `gorm:"foreignKey:BiddingID;constraint:OnDelete:CASCADE;"`
}

type BiddingDocument struct {
	ID           int64           `gorm:"primaryKey"`
	BiddingID    int64           `gorm:"not null;index"`
	DocumentType TipoDocumento   `gorm:"not null"`
	Phase        Phase           `gorm:"not null"`
	Title        string          `gorm:"not null"`
	NumeroAnexo  *int            // Only set for ANEXO documents
	FileName     string          `gorm:"not null"`
	FilePath     string          `gorm:"not null"`
	FileSize     int64           `gorm:"not null"`
	FileType     string          `gorm:"not null"`
	Status       StatusDocumento `gorm:"not null;default:DRAFT"`
	PublishedAt  *int64
	CreatedByID  int64 `gorm:"not null"`
	CreatedAt    int64 `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64 `gorm:"not null;autoUpdateTime:false"`
}

// BiddingMovement is an append-only log entry of a bidding.
type BiddingMovement struct {
	ID          int64  `gorm:"primaryKey;autoIncrement:false"`
	BiddingID   int64  `gorm:"not null;index"`
	Phase       Phase  `gorm:"not null"`
	Description string `gorm:"not null"`
	AuthorID    int64  `gorm:"not null"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`
}
