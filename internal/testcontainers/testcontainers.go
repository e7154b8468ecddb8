// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/modules/opensearch"
)

type Engine string

const (
	Elasticsearch Engine = "elasticsearch"
	OpenSearch    Engine = "opensearch"

	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.9.0"
	opensearchImage    = "opensearchproject/opensearch:2.11.1"
)

type Cleanup func() error

// StartSearchEngine starts a single node container for the engine on input
// with security disabled, and returns its HTTP address.
func StartSearchEngine(ctx context.Context, engine Engine) (string, Cleanup, error) {
	var (
		ctr     testcontainers.Container
		address string
		err     error
	)
	switch engine {
	case Elasticsearch:
		var esCtr *elasticsearch.ElasticsearchContainer
		esCtr, err = elasticsearch.Run(ctx, elasticsearchImage,
			testcontainers.WithEnv(map[string]string{"xpack.security.enabled": "false"}))
		if err == nil {
			ctr, address = esCtr, esCtr.Settings.Address
		}
	case OpenSearch:
		var osCtr *opensearch.OpenSearchContainer
		osCtr, err = opensearch.Run(ctx, opensearchImage)
		if err == nil {
			ctr = osCtr
			address, err = osCtr.Address(ctx)
		}
	default:
		return "", nil, fmt.Errorf("unsupported search engine: %s", engine)
	}
	if err != nil {
		if ctr != nil {
			_ = ctr.Terminate(ctx)
		}
		return "", nil, fmt.Errorf("starting %s container: %w", engine, err)
	}

	return address, func() error {
		return ctr.Terminate(ctx)
	}, nil
}
