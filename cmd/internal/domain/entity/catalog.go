package entity

// MunicipalService is a citizen facing service ("serviço") listed on the portal.
type MunicipalService struct {
	ID           int64  `gorm:"primaryKey"`
	Title        string `gorm:"not null"`
	Slug         string `gorm:"not null;uniqueIndex"`
	Description  string `gorm:"not null;default:''"`
	Department   string `gorm:"not null;default:''"`
	ExternalURL  string `gorm:"not null;default:''"`
	DisplayOrder int    `gorm:"not null;default:0"`
	Active       bool   `gorm:"not null"`
	CreatedAt    int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}

type ProjectStatus string

const (
	ProjectPlanned    ProjectStatus = "PLANEJADO"
	ProjectInProgress ProjectStatus = "EM_ANDAMENTO"
	ProjectDone       ProjectStatus = "CONCLUIDO"
	ProjectSuspended  ProjectStatus = "SUSPENSO"
)

type Project struct {
	ID          int64         `gorm:"primaryKey"`
	Title       string        `gorm:"not null"`
	Slug        string        `gorm:"not null;uniqueIndex"`
	Description string        `gorm:"not null;default:''"`
	Status      ProjectStatus `gorm:"not null;default:PLANEJADO"`
	BudgetCents *int64
	StartDate   *int64 // UTC midnight, millis
	EndDate     *int64 // UTC midnight, millis
	Active      bool   `gorm:"not null"`
	CreatedAt   int64  `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64  `gorm:"not null;autoUpdateTime:false"`
}
