package contract

type NewsRequest struct {
	Title     string  `json:"title" validate:"required,min=2,max=200"`
	Slug      string  `json:"slug" validate:"omitempty,max=200,slug"`
	Summary   string  `json:"summary" validate:"max=500"`
	Body      string  `json:"body" validate:"required,max=200000"`
	CoverURL  string  `json:"cover_url" validate:"omitempty,url"`
	PublishAt *string `json:"publish_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type UpdateNewsRequest struct {
	Title    *string `json:"title" validate:"omitempty,min=2,max=200"`
	Slug     *string `json:"slug" validate:"omitempty,max=200,slug"`
	Summary  *string `json:"summary" validate:"omitempty,max=500"`
	Body     *string `json:"body" validate:"omitempty,max=200000"`
	CoverURL *string `json:"cover_url" validate:"omitempty,url"`
	Status   *string `json:"status" validate:"omitempty,oneof=DRAFT ARCHIVED"`
}

// PublishNewsRequest publishes now when PublishAt is absent or in the past,
// otherwise the news is scheduled.
type PublishNewsRequest struct {
	PublishAt *string `json:"publish_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type NewsResponse struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Summary   string  `json:"summary"`
	Body      string  `json:"body,omitempty"`
	CoverURL  string  `json:"cover_url"`
	Status    string  `json:"status"`
	PublishAt *string `json:"publish_at"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}
