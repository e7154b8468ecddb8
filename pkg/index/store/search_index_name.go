// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"strings"

	"github.com/xataio/indexschema/pkg/index"
)

type IndexNameAdapter interface {
	SchemaNameToIndex(name string) (IndexName, error)
	IndexToSchemaName(index string) string
}

// IndexName represents a search store index name constructed from a schema
// name.
type IndexName interface {
	Name() string
	Version() int
	NameWithVersion() string
	SchemaName() string
}

type defaultIndexNameAdapter struct{}

const (
	defaultIndexVersion = 1
	maxIndexNameBytes   = 255
	invalidIndexChars   = `\/*?"<>| ,#:`
)

func newDefaultIndexNameAdapter() IndexNameAdapter {
	return &defaultIndexNameAdapter{}
}

func (i *defaultIndexNameAdapter) SchemaNameToIndex(name string) (IndexName, error) {
	if err := validateIndexName(name); err != nil {
		return nil, err
	}
	return newDefaultIndexName(name), nil
}

func (i *defaultIndexNameAdapter) IndexToSchemaName(index string) string {
	return strings.TrimSuffix(index, fmt.Sprintf("-%d", defaultIndexVersion))
}

// validateIndexName checks the name against the Elasticsearch/OpenSearch
// index naming restrictions, leaving room for the version suffix.
func validateIndexName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", index.ErrInvalidIndexName)
	case name != strings.ToLower(name):
		return fmt.Errorf("%w: %q must be lowercase", index.ErrInvalidIndexName, name)
	case strings.ContainsAny(name, invalidIndexChars):
		return fmt.Errorf("%w: %q can't contain any of %q", index.ErrInvalidIndexName, name, invalidIndexChars)
	case strings.HasPrefix(name, "-"), strings.HasPrefix(name, "_"), strings.HasPrefix(name, "+"):
		return fmt.Errorf("%w: %q can't start with -, _ or +", index.ErrInvalidIndexName, name)
	case name == ".", name == "..":
		return fmt.Errorf("%w: %q", index.ErrInvalidIndexName, name)
	case len(name)+len(fmt.Sprintf("-%d", defaultIndexVersion)) > maxIndexNameBytes:
		return fmt.Errorf("%w: %q is longer than %d bytes", index.ErrInvalidIndexName, name, maxIndexNameBytes)
	}
	return nil
}

type defaultIndexName struct {
	schemaName string
	version    int
}

func newDefaultIndexName(schemaName string) IndexName {
	return &defaultIndexName{
		schemaName: schemaName,
		version:    defaultIndexVersion,
	}
}

func (i defaultIndexName) SchemaName() string {
	return i.schemaName
}

// NameWithVersion represents the name of the index with the version number.
// This should generally not be needed, in favour of `Name`.
func (i defaultIndexName) NameWithVersion() string {
	return fmt.Sprintf("%s-%d", i.schemaName, i.version)
}

// Name returns the name we should use for querying the index. It is an alias
// of the versioned index.
func (i *defaultIndexName) Name() string {
	return i.schemaName
}

func (i *defaultIndexName) Version() int {
	return i.version
}
