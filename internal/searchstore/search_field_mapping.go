// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"fmt"
	"strings"

	"github.com/xataio/indexschema/pkg/schema"
)

const (
	// Lucene’s term byte-length limit is 32766. UTF-8 characters may occupy
	// at most 4 bytes, so keywords over 32766 / 4 characters are not indexed.
	termByteLengthLimit = 32766
	keywordIgnoreAbove  = termByteLengthLimit / 4

	// KeywordSubField is the name of the keyword sub field of searchable
	// string fields that are also filterable, sortable or facetable.
	KeywordSubField = "keyword"

	dateFormat = "strict_date_optional_time||epoch_millis"
)

// BaseFieldMapping returns the mapping of a leaf field that is common to
// Elasticsearch and OpenSearch. Collections map like their element type.
//
// Searchable strings are text fields, with a keyword sub field when they are
// also filterable, sortable or facetable. Fields that are not filterable are
// not indexed, and fields that are neither sortable nor facetable have no doc
// values. Synonym map names are kept in the field metadata, synonyms
// themselves are configured in the index analysis settings.
func BaseFieldMapping(f *schema.Field) (map[string]any, error) {
	var mapping map[string]any
	switch f.Type.ElementType() {
	case schema.String:
		return stringMapping(f), nil
	case schema.Int32:
		mapping = map[string]any{"type": "integer"}
	case schema.Int64:
		mapping = map[string]any{"type": "long"}
	case schema.Double:
		mapping = map[string]any{"type": "double"}
	case schema.Boolean:
		mapping = map[string]any{"type": "boolean"}
	case schema.DateTimeOffset:
		mapping = map[string]any{"type": "date", "format": dateFormat}
	case schema.GeographyPoint:
		mapping = map[string]any{"type": "geo_point"}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSearchFieldType, f.Type)
	}

	setIndexOptions(mapping, f)
	return mapping, nil
}

func stringMapping(f *schema.Field) map[string]any {
	keyword := map[string]any{
		"type":         "keyword",
		"ignore_above": keywordIgnoreAbove,
	}
	if f.NormalizerName != "" {
		keyword["normalizer"] = f.NormalizerName
	}
	setIndexOptions(keyword, f)

	if !f.Searchable {
		return keyword
	}

	text := map[string]any{"type": "text"}
	switch {
	case f.AnalyzerName != "":
		text["analyzer"] = f.AnalyzerName
	case f.IndexAnalyzerName != "":
		text["analyzer"] = f.IndexAnalyzerName
		text["search_analyzer"] = f.SearchAnalyzerName
	}
	if f.Filterable || f.Sortable || f.Facetable {
		text["fields"] = map[string]any{
			KeywordSubField: keyword,
		}
	}
	if len(f.SynonymMapNames) > 0 {
		text["meta"] = map[string]any{
			"synonym_maps": strings.Join(f.SynonymMapNames, ","),
		}
	}
	return text
}

func setIndexOptions(mapping map[string]any, f *schema.Field) {
	if !f.Filterable {
		mapping["index"] = false
	}
	if !f.Sortable && !f.Facetable {
		mapping["doc_values"] = false
	}
}
