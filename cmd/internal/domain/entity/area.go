package entity

// CategoryMacro is the top level classification ("categoria macro") of a
// document category. It drives the versioning rules.
type CategoryMacro string

const (
	MacroInstitucional      CategoryMacro = "INSTITUCIONAL"
	MacroGovernancaGestao   CategoryMacro = "GOVERNANCA_GESTAO"
	MacroNormativosInternos CategoryMacro = "NORMATIVOS_INTERNOS"
	MacroContratosParcerias CategoryMacro = "CONTRATOS_PARCERIAS"
	MacroPrestacaoContas    CategoryMacro = "PRESTACAO_CONTAS"
	MacroDocumentosOficiais CategoryMacro = "DOCUMENTOS_OFICIAIS"
)

type DocumentArea struct {
	ID           int64  `gorm:"primaryKey"`
	Name         string `gorm:"not null"`
	Slug         string `gorm:"not null;uniqueIndex"`
	Description  string `gorm:"not null;default:''"`
	DisplayOrder int    `gorm:"not null;default:0"`
	Active       bool   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`

	// Relations
	Categories []*DocumentCategory `gorm:"foreignKey:AreaID"`
}

type DocumentCategory struct {
	ID           int64         `gorm:"primaryKey"`
	AreaID       int64         `gorm:"not null;index"` // References: document_areas(id)
	Name         string        `gorm:"not null"`
	Slug         string        `gorm:"not null;uniqueIndex"`
	Macro        CategoryMacro `gorm:"not null"`
	DisplayOrder int           `gorm:"not null;default:0"`
	Active       bool          `gorm:"not null"`
	CreatedAt    int64         `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64         `gorm:"not null;autoUpdateTime:false"`
}
