package contract

type AreaRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Slug         string `json:"slug" validate:"omitempty,max=120,slug"`
	Description  string `json:"description" validate:"max=1000"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	Active       *bool  `json:"active"`
}

type UpdateAreaRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Slug         *string `json:"slug" validate:"omitempty,max=120,slug"`
	Description  *string `json:"description" validate:"omitempty,max=1000"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	Active       *bool   `json:"active"`
}

type CategoryRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=120"`
	Slug         string `json:"slug" validate:"omitempty,max=120,slug"`
	Macro        string `json:"macro" validate:"required,oneof=INSTITUCIONAL GOVERNANCA_GESTAO NORMATIVOS_INTERNOS CONTRATOS_PARCERIAS PRESTACAO_CONTAS DOCUMENTOS_OFICIAIS"`
	DisplayOrder int    `json:"display_order" validate:"min=0"`
	Active       *bool  `json:"active"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=2,max=120"`
	Slug         *string `json:"slug" validate:"omitempty,max=120,slug"`
	Macro        *string `json:"macro" validate:"omitempty,oneof=INSTITUCIONAL GOVERNANCA_GESTAO NORMATIVOS_INTERNOS CONTRATOS_PARCERIAS PRESTACAO_CONTAS DOCUMENTOS_OFICIAIS"`
	DisplayOrder *int    `json:"display_order" validate:"omitempty,min=0"`
	Active       *bool   `json:"active"`
}

type AreaResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Slug         string              `json:"slug"`
	Description  string              `json:"description"`
	DisplayOrder int                 `json:"display_order"`
	Active       bool                `json:"active"`
	Categories   []*CategoryResponse `json:"categories"`
}

type CategoryResponse struct {
	ID           int64  `json:"id"`
	AreaID       int64  `json:"area_id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Macro        string `json:"macro"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}
