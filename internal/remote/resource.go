package remote

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Houeta/rentcatalog/internal/models"
	"github.com/go-resty/resty/v2"
)

// PageQuery holds the parameters of the server side filter endpoint.
type PageQuery struct {
	Page     int
	PageSize int
	SortBy   string
	SortDir  string
	Brand    string
	Model    string
}

func (q PageQuery) values() map[string]string {
	params := map[string]string{}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}
	if q.PageSize > 0 {
		params["pageSize"] = strconv.Itoa(q.PageSize)
	}

	optional := map[string]string{"sortBy": q.SortBy, "sortDir": q.SortDir, "brand": q.Brand, "model": q.Model}
	for k, v := range optional {
		if v != "" {
			params[k] = v
		}
	}

	return params
}

// Paged is the answer of the server side filter endpoint.
type Paged[T any] struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
	Items    []T `json:"items"`
}

// Resource exposes the endpoints of one catalog kind.
type Resource[T models.Listing] struct {
	client *Client
	kind   models.Kind
}

// NewResource binds a client to the endpoints of kind.
func NewResource[T models.Listing](client *Client, kind models.Kind) *Resource[T] {
	return &Resource[T]{client: client, kind: kind}
}

// Kind returns the catalog kind this resource serves.
func (r *Resource[T]) Kind() models.Kind {
	return r.kind
}

// FetchAll returns the whole catalog in whatever layout the service used.
func (r *Resource[T]) FetchAll(ctx context.Context) (ListResponse[T], error) {
	const opn = "remote.Resource.FetchAll"

	return r.fetchList(ctx, opn, "/"+string(r.kind), nil)
}

// FetchByOwner returns the items attributed to ownerID.
func (r *Resource[T]) FetchByOwner(ctx context.Context, ownerID string) (ListResponse[T], error) {
	const opn = "remote.Resource.FetchByOwner"

	return r.fetchList(ctx, opn, "/"+string(r.kind)+"/owner/{ownerId}", map[string]string{"ownerId": ownerID})
}

func (r *Resource[T]) fetchList(
	ctx context.Context,
	opn, path string,
	pathParams map[string]string,
) (ListResponse[T], error) {
	req, err := r.client.request(ctx)
	if err != nil {
		return ListResponse[T]{}, fmt.Errorf("%s: %w", opn, err)
	}

	resp, err := req.SetPathParams(pathParams).Get(path)
	if err != nil {
		return ListResponse[T]{}, fmt.Errorf("%s: failed to request %s: %w", opn, path, err)
	}
	if resp.IsError() {
		return ListResponse[T]{}, fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	list := DecodeList[T](resp.Body(), r.kind)
	r.client.log.DebugContext(ctx, "Received list response",
		"op", opn, "kind", r.kind, "shape", list.Shape.String(), "count", len(list.Items))

	return list, nil
}

// FetchPage queries the server side filter endpoint.
func (r *Resource[T]) FetchPage(ctx context.Context, query PageQuery) (*Paged[T], error) {
	const opn = "remote.Resource.FetchPage"

	req, err := r.client.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	var page Paged[T]
	resp, err := req.SetQueryParams(query.values()).SetResult(&page).Get("/" + string(r.kind))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to request page: %w", opn, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	return &page, nil
}

// FetchByID returns a single item. A 404 matches ErrNotFound.
func (r *Resource[T]) FetchByID(ctx context.Context, id string) (*T, error) {
	const opn = "remote.Resource.FetchByID"

	req, err := r.client.request(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	resp, err := req.SetPathParam("id", id).Get("/" + string(r.kind) + "/{id}")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to request item %s: %w", opn, id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	item := decodeEcho[T](resp.Body())
	if item == nil {
		return nil, fmt.Errorf("%s: item %s: %w", opn, id, ErrNotFound)
	}

	return item, nil
}

// Create uploads a new item. It returns nil when the service answers without a body.
func (r *Resource[T]) Create(ctx context.Context, draft models.Draft) (*T, error) {
	const opn = "remote.Resource.Create"

	req, err := r.multipart(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	resp, err := req.Post("/" + string(r.kind))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create item: %w", opn, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	return decodeEcho[T](resp.Body()), nil
}

// Update replaces the scalar fields of item id, adds draft.Files and drops
// draft.RemoveMediaIDs. It returns nil when the service does not echo the item.
func (r *Resource[T]) Update(ctx context.Context, id string, draft models.Draft) (*T, error) {
	const opn = "remote.Resource.Update"

	req, err := r.multipart(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}

	req.SetMultipartFormData(map[string]string{"id": id})
	if len(draft.RemoveMediaIDs) > 0 {
		req.SetFormDataFromValues(url.Values{"removeMediaIds": draft.RemoveMediaIDs})
	}

	resp, err := req.SetPathParam("id", id).Put("/" + string(r.kind) + "/{id}")
	if err != nil {
		return nil, fmt.Errorf("%s: failed to update item %s: %w", opn, id, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	return decodeEcho[T](resp.Body()), nil
}

// Delete removes item id.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	const opn = "remote.Resource.Delete"

	req, err := r.client.request(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", opn, err)
	}

	resp, err := req.SetPathParam("id", id).Delete("/" + string(r.kind) + "/{id}")
	if err != nil {
		return fmt.Errorf("%s: failed to delete item %s: %w", opn, id, err)
	}
	if resp.IsError() {
		return fmt.Errorf("%s: %w", opn, newAPIError(resp))
	}

	return nil
}

func (r *Resource[T]) multipart(ctx context.Context, draft models.Draft) (*resty.Request, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	req, err := r.client.request(ctx)
	if err != nil {
		return nil, err
	}

	req.SetMultipartFormData(draft.FormFields())
	for _, file := range draft.Files {
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		req.SetMultipartField("media", file.Name, contentType, file.Content)
	}

	return req, nil
}
