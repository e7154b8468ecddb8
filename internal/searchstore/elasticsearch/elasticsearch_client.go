// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/xataio/indexschema/internal/json"
	"github.com/xataio/indexschema/internal/searchstore"
)

type Client struct {
	client *elasticsearch.Client
}

type ClientOption func(*elasticsearch.Config)

var errNoAddress = errors.New("no address provided")

func NewClient(url string, opts ...ClientOption) (*Client, error) {
	es, err := newClient(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{client: es}, nil
}

// WithTransport overrides the HTTP transport, http.DefaultTransport by
// default.
func WithTransport(t http.RoundTripper) ClientOption {
	return func(cfg *elasticsearch.Config) {
		cfg.Transport = t
	}
}

func WithBasicAuth(username, password string) ClientOption {
	return func(cfg *elasticsearch.Config) {
		cfg.Username = username
		cfg.Password = password
	}
}

func (ec *Client) GetMapper() searchstore.Mapper {
	return NewMapper()
}

func (ec *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := searchstore.CreateReader(body)
	if err != nil {
		return err
	}
	res, err := ec.client.Indices.Create(index,
		ec.client.Indices.Create.WithContext(ctx),
		ec.client.Indices.Create.WithBody(reader),
	)
	return ec.checkResponse("CreateIndex", res, err)
}

func (ec *Client) DeleteIndex(ctx context.Context, index []string) error {
	res, err := ec.client.Indices.Delete(
		index,
		ec.client.Indices.Delete.WithContext(ctx),
	)
	return ec.checkResponse("DeleteIndex", res, err)
}

func (ec *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := ec.client.Indices.Exists([]string{index},
		ec.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("[IndexExists] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("[IndexExists] error response from Elasticsearch: [%d]", res.StatusCode)
	}

	return res.StatusCode == http.StatusOK, nil
}

func (ec *Client) GetIndexAlias(ctx context.Context, name string) (searchstore.AliasResponse, error) {
	res, err := ec.client.Indices.GetAlias(
		ec.client.Indices.GetAlias.WithContext(ctx),
		ec.client.Indices.GetAlias.WithName(name),
	)
	if err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error response from Elasticsearch: %w", err)
	}

	aliases := searchstore.AliasResponse{}
	if err := decodeBody(res.Body, &aliases); err != nil {
		return nil, fmt.Errorf("[GetIndexAlias] error decoding Elasticsearch response: %w", err)
	}
	return aliases, nil
}

func (ec *Client) GetIndexMappings(ctx context.Context, index string) (*searchstore.Mappings, error) {
	res, err := ec.client.Indices.GetMapping(
		ec.client.Indices.GetMapping.WithIndex(index),
		ec.client.Indices.GetMapping.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error response from Elasticsearch: %w", err)
	}

	indexMappings := searchstore.MappingResponse{}
	if err := decodeBody(res.Body, &indexMappings); err != nil {
		return nil, fmt.Errorf("[GetIndexMappings] error decoding Elasticsearch response: %w", err)
	}

	// the response is keyed by the concrete index name, which differs from
	// the input when it's an alias
	for _, m := range indexMappings {
		return &m.Mappings, nil
	}
	return nil, fmt.Errorf("[GetIndexMappings] %w: no mappings for index %s", searchstore.ErrResourceNotFound, index)
}

func (ec *Client) PutIndexAlias(ctx context.Context, index []string, name string) error {
	res, err := ec.client.Indices.PutAlias(
		index,
		name,
		ec.client.Indices.PutAlias.WithContext(ctx),
	)
	return ec.checkResponse("PutIndexAlias", res, err)
}

// PutIndexMappings adds field mappings to an existing index. Indices are
// created with strict dynamic mapping, so every field must be mapped
// explicitly.
func (ec *Client) PutIndexMappings(ctx context.Context, index string, mapping map[string]any) error {
	reader, err := searchstore.CreateReader(mapping)
	if err != nil {
		return err
	}
	res, err := ec.client.Indices.PutMapping(
		[]string{index},
		reader,
		ec.client.Indices.PutMapping.WithContext(ctx))
	return ec.checkResponse("PutIndexMappings", res, err)
}

func (ec *Client) checkResponse(op string, res *esapi.Response, err error) error {
	if err != nil {
		return fmt.Errorf("[%s] error from Elasticsearch: %w", op, err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return fmt.Errorf("[%s] error response from Elasticsearch: %w", op, err)
	}
	return nil
}

func (ec *Client) isErrResponse(res *esapi.Response) error {
	return searchstore.IsErrResponse(newAPIResponse(res))
}

func decodeBody(body io.Reader, v any) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func newClient(address string, opts ...ClientOption) (*elasticsearch.Client, error) {
	if address == "" {
		return nil, errNoAddress
	}

	cfg := elasticsearch.Config{
		Addresses: []string{
			address,
		},
		Transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return elasticsearch.NewClient(cfg)
}

type apiResponse struct {
	*esapi.Response
}

func newAPIResponse(res *esapi.Response) *apiResponse {
	return &apiResponse{Response: res}
}

func (r *apiResponse) GetBody() io.ReadCloser {
	return r.Body
}

func (r *apiResponse) GetStatusCode() int {
	return r.StatusCode
}
