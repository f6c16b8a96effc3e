package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	ParentID    string `json:"parent_id,omitempty"`
}

func (c *Client) listCategories(ctx context.Context, path string) ([]entity.Category, error) {
	var out []categoryDTO
	if err := c.call(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return categoriesToEntities(out), nil
}

func (c *Client) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return c.listCategories(ctx, "/categories")
}

func (c *Client) TopLevelCategories(ctx context.Context) ([]entity.Category, error) {
	return c.listCategories(ctx, "/categories/top-level")
}

func (c *Client) ChildCategories(ctx context.Context, parentID string) ([]entity.Category, error) {
	return c.listCategories(ctx, "/categories/"+url.PathEscape(parentID)+"/children")
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*entity.Category, error) {
	var out categoryDTO
	if err := c.call(ctx, http.MethodPost, "/categories", in, &out); err != nil {
		return nil, err
	}
	cat := out.toEntity()
	return &cat, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*entity.Category, error) {
	var out categoryDTO
	if err := c.call(ctx, http.MethodPut, "/categories/"+url.PathEscape(id), in, &out); err != nil {
		return nil, err
	}
	cat := out.toEntity()
	return &cat, nil
}

func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/categories/"+url.PathEscape(id), nil, nil)
}
