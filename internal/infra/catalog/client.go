// Package catalog implements the HTTP client for the external inventory
// collaborator.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"tabletab/config"
	"tabletab/internal/domain/entity"
	"tabletab/internal/domain/service"

	"github.com/pkg/errors"
)

type client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// categoryDTO mirrors the collaborator's categories payload.
type categoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// inventoryDTO mirrors the collaborator's inventory payload. BasePrice
// and Quantity are carried by the wire format but unused by the core.
type inventoryDTO struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	BasePrice   float64 `json:"basePrice"`
	Quantity    int     `json:"quantity"`
}

// NewClient builds the inventory collaborator client from configuration.
func NewClient(cfg *config.Config) service.CatalogService {
	return &client{
		baseURL: cfg.Catalog.BaseURL,
		apiKey:  cfg.Catalog.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Catalog.Timeout,
		},
	}
}

// FetchCategories lists the categories of an organization.
func (c *client) FetchCategories(ctx context.Context, organizationID int64) ([]entity.Category, error) {
	endpoint := fmt.Sprintf("%s/categories?organizationId=%d", c.baseURL, organizationID)

	var dtos []categoryDTO
	if err := c.getJSON(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}

	categories := make([]entity.Category, 0, len(dtos))
	for _, dto := range dtos {
		categories = append(categories, entity.Category{
			ID:   dto.ID,
			Name: dto.Name,
		})
	}

	return categories, nil
}

// FetchInventory lists the sellable items of one category. The owning
// category name is attached by the caller, which knows it.
func (c *client) FetchInventory(ctx context.Context, categoryID, organizationID int64) ([]entity.Product, error) {
	endpoint := c.baseURL + "/inventory?" + url.Values{
		"categoryId":     []string{strconv.FormatInt(categoryID, 10)},
		"organizationId": []string{strconv.FormatInt(organizationID, 10)},
	}.Encode()

	var dtos []inventoryDTO
	if err := c.getJSON(ctx, endpoint, &dtos); err != nil {
		return nil, err
	}

	products := make([]entity.Product, 0, len(dtos))
	for _, dto := range dtos {
		products = append(products, entity.Product{
			ID:          entity.ProductID(dto.ProductID),
			Name:        dto.ProductName,
			Description: dto.Description,
			UnitPrice:   entity.CentsFromFloat(dto.UnitPrice),
		})
	}

	return products, nil
}

// getJSON performs a credentialed, cache-disabled GET and decodes the
// body. A non-success status is a hard failure carrying the URL for
// diagnosis.
func (c *client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return errors.Wrap(err, "failed to build catalog request")
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "catalog request failed: %s", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return errors.Errorf("catalog HTTP %d: %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "failed to decode catalog response: %s", endpoint)
	}

	return nil
}
