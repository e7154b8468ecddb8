// SPDX-License-Identifier: Apache-2.0

package opensearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"

	"github.com/xataio/indexschema/internal/json"
	"github.com/xataio/indexschema/internal/searchstore"
)

type Client struct {
	client *opensearch.Client
}

type ClientOption func(*opensearch.Config)

var errNoAddress = errors.New("no address provided")

func NewClient(url string, opts ...ClientOption) (*Client, error) {
	osc, err := newClient(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return &Client{client: osc}, nil
}

// WithTransport overrides the HTTP transport, http.DefaultTransport by
// default.
func WithTransport(t http.RoundTripper) ClientOption {
	return func(cfg *opensearch.Config) {
		cfg.Transport = t
	}
}

func WithBasicAuth(username, password string) ClientOption {
	return func(cfg *opensearch.Config) {
		cfg.Username = username
		cfg.Password = password
	}
}

func (c *Client) GetMapper() searchstore.Mapper {
	return NewMapper()
}

func (c *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := searchstore.CreateReader(body)
	if err != nil {
		return err
	}
	res, err := c.client.Indices.Create(index,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(reader),
	)
	return c.checkResponse("CreateIndex", res, err)
}

func (c *Client) DeleteIndex(ctx context.Context, index []string) error {
	res, err := c.client.Indices.Delete(
		index,
		c.client.Indices.Delete.WithContext(ctx),
	)
	return c.checkResponse("DeleteIndex", res, err)
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.client.Indices.Exists([]string{index},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("[IndexExists] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("[IndexExists] error response from OpenSearch: [%d]", res.StatusCode)
	}

	return res.StatusCode == http.StatusOK, nil
}

func (c *Client) GetIndexAlias(ctx context.Context, name string) (searchstore.AliasResponse, error) {
	res, err := c.client.Indices.GetAlias(
		c.client.Indices.GetAlias.WithContext(ctx),
		c.client.Indices.GetAlias.WithName(name),
	)
	if err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error response from OpenSearch: %w", err)
	}

	aliases := searchstore.AliasResponse{}
	if err := decodeBody(res.Body, &aliases); err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error decoding OpenSearch response: %w", err)
	}
	return aliases, nil
}

func (c *Client) GetIndexMappings(ctx context.Context, index string) (*searchstore.Mappings, error) {
	res, err := c.client.Indices.GetMapping(
		c.client.Indices.GetMapping.WithIndex(index),
		c.client.Indices.GetMapping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error response from OpenSearch: %w", err)
	}

	indexMappings := searchstore.MappingResponse{}
	if err := decodeBody(res.Body, &indexMappings); err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error decoding OpenSearch response: %w", err)
	}

	// the response is keyed by the concrete index name, which differs from
	// the input when it's an alias
	for _, m := range indexMappings {
		return &m.Mappings, nil
	}
	return nil, fmt.Errorf("[GetIndexMappings] %w: no mappings for index %s", searchstore.ErrResourceNotFound, index)
}

func (c *Client) PutIndexAlias(ctx context.Context, index []string, name string) error {
	res, err := c.client.Indices.PutAlias(
		index,
		name,
		c.client.Indices.PutAlias.WithContext(ctx),
	)
	return c.checkResponse("PutIndexAlias", res, err)
}

// PutIndexMappings adds field mappings to an existing index. Indices are
// created with strict dynamic mapping, so every field must be mapped
// explicitly.
func (c *Client) PutIndexMappings(ctx context.Context, index string, mapping map[string]any) error {
	reader, err := searchstore.CreateReader(mapping)
	if err != nil {
		return err
	}
	res, err := c.client.Indices.PutMapping(
		reader,
		c.client.Indices.PutMapping.WithIndex(index),
		c.client.Indices.PutMapping.WithContext(ctx))
	return c.checkResponse("PutIndexMappings", res, err)
}

func (c *Client) checkResponse(op string, res *opensearchapi.Response, err error) error {
	if err != nil {
		return fmt.Errorf("[%s] error from OpenSearch: %w", op, err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return fmt.Errorf("[%s] error response from OpenSearch: %w", op, err)
	}
	return nil
}

func (c *Client) isErrResponse(res *opensearchapi.Response) error {
	return searchstore.IsErrResponse(newAPIResponse(res))
}

func decodeBody(body io.Reader, v any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func newClient(address string, opts ...ClientOption) (*opensearch.Client, error) {
	if address == "" {
		return nil, errNoAddress
	}

	cfg := opensearch.Config{
		Addresses: []string{
			address,
		},
		Transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return opensearch.NewClient(cfg)
}

type apiResponse struct {
	*opensearchapi.Response
}

func newAPIResponse(res *opensearchapi.Response) *apiResponse {
	return &apiResponse{Response: res}
}

func (r *apiResponse) GetBody() io.ReadCloser {
	return r.Body
}

func (r *apiResponse) GetStatusCode() int {
	return r.StatusCode
}
