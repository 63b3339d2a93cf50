package entity

type NewsStatus string

const (
	NewsDraft     NewsStatus = "DRAFT"
	NewsScheduled NewsStatus = "SCHEDULED"
	NewsPublished NewsStatus = "PUBLISHED"
	NewsArchived  NewsStatus = "ARCHIVED"
)

type News struct {
	ID          int64      `gorm:"primaryKey"`
	Title       string     `gorm:"not null"`
	Slug        string     `gorm:"not null;uniqueIndex"`
	Summary     string     `gorm:"not null;default:''"`
	Body        string     `gorm:"not null"`
	CoverURL    string     `gorm:"not null;default:''"`
	Status      NewsStatus `gorm:"not null;index;default:DRAFT"`
	PublishAt   *int64     `gorm:"index"`
	CreatedByID int64      `gorm:"not null"`
	CreatedAt   int64      `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   int64      `gorm:"not null;autoUpdateTime:false"`
}
