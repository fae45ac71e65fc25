package template

import "errors"

type CreateTemplateDTO struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Category string `json:"category" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

func (dto CreateTemplateDTO) Validate() error {
	if dto.Name == "" {
		return errors.New("name is required")
	}
	if len(dto.Name) > 120 {
		return errors.New("name must be less than 120 characters")
	}
	if dto.Category == "" {
		return errors.New("category is required")
	}
	if dto.Content == "" {
		return errors.New("content is required")
	}
	return nil
}

// UpdateTemplateDTO carries partial updates; empty fields are left unchanged.
type UpdateTemplateDTO struct {
	Name     string `json:"name,omitempty"`
	Category string `json:"category,omitempty"`
	Content  string `json:"content,omitempty"`
}

func (dto UpdateTemplateDTO) Validate() error {
	if dto.Name == "" && dto.Category == "" && dto.Content == "" {
		return errors.New("nothing to update")
	}
	if len(dto.Name) > 120 {
		return errors.New("name must be less than 120 characters")
	}
	return nil
}

type TemplatesResponse struct {
	Templates []*DocumentTemplate `json:"templates"`
}
