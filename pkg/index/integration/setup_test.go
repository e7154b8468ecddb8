// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/xataio/indexschema/internal/testcontainers"
)

var (
	opensearchURL    string
	elasticsearchURL string
)

func TestMain(m *testing.M) {
	// if integration tests are not enabled, nothing to setup
	if os.Getenv("INDEXSCHEMA_INTEGRATION_TESTS") != "" {
		ctx := context.Background()
		var osCleanup, esCleanup testcontainers.Cleanup
		var err error
		opensearchURL, osCleanup, err = testcontainers.StartSearchEngine(ctx, testcontainers.OpenSearch)
		if err != nil {
			log.Fatal(err)
		}
		defer osCleanup()

		elasticsearchURL, esCleanup, err = testcontainers.StartSearchEngine(ctx, testcontainers.Elasticsearch)
		if err != nil {
			log.Fatal(err)
		}
		defer esCleanup()
	}

	m.Run()
}
