package contract

type ServiceRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Slug         string `json:"slug" validate:"omitempty,max=200,slug"`
	Description  string `json:"description" validate:"max=5000"`
	Department   string `json:"department" validate:"max=200"`
	ExternalURL  string `json:"external_url" validate:"omitempty,url"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	Active       *bool  `json:"active"`
}

type UpdateServiceRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=2,max=200"`
	Slug         *string `json:"slug" validate:"omitempty,max=200,slug"`
	Description  *string `json:"description" validate:"omitempty,max=5000"`
	Department   *string `json:"department" validate:"omitempty,max=200"`
	ExternalURL  *string `json:"external_url" validate:"omitempty,url"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	Active       *bool   `json:"active"`
}

type ServiceResponse struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	Department   string `json:"department"`
	ExternalURL  string `json:"external_url"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}

type ProjectRequest struct {
	Title       string  `json:"title" validate:"required,min=2,max=200"`
	Slug        string  `json:"slug" validate:"omitempty,max=200,slug"`
	Description string  `json:"description" validate:"max=10000"`
	Status      string  `json:"status" validate:"omitempty,oneof=PLANEJADO EM_ANDAMENTO CONCLUIDO SUSPENSO"`
	Budget      *string `json:"budget" validate:"omitempty,brl"`
	StartDate   *string `json:"start_date" validate:"omitempty,dateonly"`
	EndDate     *string `json:"end_date" validate:"omitempty,dateonly"`
	Active      *bool   `json:"active"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=2,max=200"`
	Slug        *string `json:"slug" validate:"omitempty,max=200,slug"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Status      *string `json:"status" validate:"omitempty,oneof=PLANEJADO EM_ANDAMENTO CONCLUIDO SUSPENSO"`
	Budget      *string `json:"budget" validate:"omitempty,brl"`
	StartDate   *string `json:"start_date" validate:"omitempty,dateonly"`
	EndDate     *string `json:"end_date" validate:"omitempty,dateonly"`
	Active      *bool   `json:"active"`
}

type ProjectResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	BudgetCents *int64  `json:"budget_cents"`
	Budget      *string `json:"budget"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	Active      bool    `json:"active"`
}
