package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Gateway is the remote CRUD surface for one entity kind, e.g. tasks at
// /api/v1/tasks.
type Gateway[T any] struct {
	c    *Client
	base string
}

// NewGateway binds a typed gateway to an entity route.
func NewGateway[T any](c *Client, base string) *Gateway[T] {
	return &Gateway[T]{c: c, base: base}
}

type listPayload[T any] struct {
	Items      []T `json:"items"`
	Pagination struct {
		Page       int `json:"page"`
		PageSize   int `json:"page_size"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

// List fetches the full remote snapshot, walking pages until exhausted.
func (g *Gateway[T]) List(ctx context.Context) ([]T, error) {
	const pageSize = 100

	var all []T
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("page_size", strconv.Itoa(pageSize))

		var payload listPayload[T]
		if err := g.c.do(ctx, http.MethodGet, g.base, q, nil, &payload); err != nil {
			return nil, err
		}
		all = append(all, payload.Items...)
		if page >= payload.Pagination.TotalPages || len(payload.Items) == 0 {
			break
		}
	}
	return all, nil
}

// Create persists a new record and returns the server-issued one (durable id,
// server-normalized code).
func (g *Gateway[T]) Create(ctx context.Context, rec T) (T, error) {
	var created T
	err := g.c.do(ctx, http.MethodPost, g.base, nil, rec, &created)
	return created, err
}

// Update replaces the record with the given id and returns the stored result.
func (g *Gateway[T]) Update(ctx context.Context, id string, rec T) (T, error) {
	var updated T
	err := g.c.do(ctx, http.MethodPut, g.base+"/"+id, nil, rec, &updated)
	return updated, err
}

// Delete removes one record. The server soft-deletes; from the client's view
// the record is gone.
func (g *Gateway[T]) Delete(ctx context.Context, id string) error {
	return g.c.do(ctx, http.MethodDelete, g.base+"/"+id, nil, nil, nil)
}

// CodeExists asks the authoritative store whether a candidate code is taken.
// The sequencer re-verifies generated codes through this before committing.
func (g *Gateway[T]) CodeExists(ctx context.Context, code string) (bool, error) {
	q := url.Values{}
	q.Set("code", code)

	var payload struct {
		Exists bool `json:"exists"`
	}
	if err := g.c.do(ctx, http.MethodGet, g.base+"/code-exists", q, nil, &payload); err != nil {
		return false, err
	}
	return payload.Exists, nil
}

// Permission is the capability set the server grants the caller for one
// console route.
type Permission struct {
	CanRead  bool `json:"can_read"`
	CanWrite bool `json:"can_write"`
	CanFull  bool `json:"can_full"`
}

// CheckPermission queries the permission oracle once per view mount.
func (c *Client) CheckPermission(ctx context.Context, routeKey string) (*Permission, error) {
	var p Permission
	if err := c.do(ctx, http.MethodGet, "/api/v1/permissions/"+routeKey, nil, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
