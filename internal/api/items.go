package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Item categories and statuses as the backend knows them.
const (
	CategoryStationary  = "Stationary"
	CategoryKitchenware = "Kitchenware"
	CategoryAppliance   = "Appliance"
	CategoryOther       = "Other"

	StatusActive    = "ACTIVE"
	StatusSuspended = "SUSPENDED"
	StatusDeleted   = "DELETED"
)

// Item is the backend's item entity. The backend owns it; the console
// only ever holds the current page.
type Item struct {
	ID       string `json:"_id"`
	Name     string `json:"itemName"`
	Category string `json:"itemCategory"`
	Price    string `json:"itemPrice"`
	Status   string `json:"status"`
}

// ItemDraft carries the fields of a new item.
type ItemDraft struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
}

// ItemPatch carries a partial update. Nil fields are not sent.
type ItemPatch struct {
	Name     *string `json:"name,omitempty"`
	Category *string `json:"category,omitempty"`
	Price    *string `json:"price,omitempty"`
	Status   *string `json:"status,omitempty"`
}

// ItemPage is the canonical shape of one item list page.
type ItemPage struct {
	Items      []Item
	TotalPages int
}

type ItemClient struct {
	*Client
}

func NewItemClient(c *Client) *ItemClient {
	return &ItemClient{Client: c}
}

// List fetches one page of items. The backend answers with either a
// plain array or a {data, pagination} envelope; both are normalized
// through NormalizeItemPage.
func (c *ItemClient) List(ctx context.Context, page, limit int) (ItemPage, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	resp, err := c.doJSON(ctx, http.MethodGet, "/api/item?"+q.Encode(), nil)
	if err != nil {
		return ItemPage{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ItemPage{}, responseError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ItemPage{}, fmt.Errorf("read item list: %w", err)
	}
	return NormalizeItemPage(body)
}

// NormalizeItemPage accepts the two list shapes the backend produces, a
// raw JSON array of items or an envelope {data: [...], pagination:
// {totalPages}}, and returns the canonical page. A missing or zero
// totalPages defaults to 1.
func NormalizeItemPage(body []byte) (ItemPage, error) {
	var arr []Item
	if err := json.Unmarshal(body, &arr); err == nil {
		return ItemPage{Items: arr, TotalPages: 1}, nil
	}

	var env struct {
		Data       []Item `json:"data"`
		Pagination struct {
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ItemPage{}, fmt.Errorf("decode item list: %w", err)
	}

	totalPages := env.Pagination.TotalPages
	if totalPages < 1 {
		totalPages = 1
	}
	return ItemPage{Items: env.Data, TotalPages: totalPages}, nil
}

func (c *ItemClient) Get(ctx context.Context, id string) (Item, error) {
	resp, err := c.doJSON(ctx, http.MethodGet, "/api/item/"+url.PathEscape(id), nil)
	if err != nil {
		return Item{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Item{}, responseError(resp)
	}

	var item Item
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return Item{}, fmt.Errorf("decode item: %w", err)
	}
	return item, nil
}

// Create posts a new item. Name and price are checked locally first; a
// blank one rejects the draft without touching the network.
func (c *ItemClient) Create(ctx context.Context, draft ItemDraft) error {
	if draft.Name == "" || draft.Price == "" {
		return fmt.Errorf("%w: name and price required", ErrValidation)
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/api/item", draft)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

func (c *ItemClient) Update(ctx context.Context, id string, patch ItemPatch) error {
	resp, err := c.doJSON(ctx, http.MethodPatch, "/api/item/"+url.PathEscape(id), patch)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}

// Delete removes an item. Confirmation is the caller's responsibility.
func (c *ItemClient) Delete(ctx context.Context, id string) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/api/item/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(resp)
	}
	return nil
}
