// SPDX-License-Identifier: Apache-2.0

package structtag

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xataio/indexschema/pkg/schema"
)

// parseTag parses the comma separated options of a search tag. Boolean
// options can be given as a bare name (true) or as name=value.
func parseTag(tag string) (schema.Annotations, error) {
	a := schema.Annotations{}
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return a, nil
	}
	if tag == "-" {
		a.Ignored = true
		return a, nil
	}

	for _, opt := range strings.Split(tag, ",") {
		name, value, hasValue := strings.Cut(strings.TrimSpace(opt), "=")
		if name == "" {
			continue
		}

		switch name {
		case "key", "hidden", "searchable", "filterable", "sortable", "facetable":
			b := true
			if hasValue {
				var err error
				if b, err = strconv.ParseBool(value); err != nil {
					return a, fmt.Errorf("%w: option %s: %q is not a boolean", ErrInvalidTag, name, value)
				}
			}
			setFlag(&a, name, b)
		case "analyzer", "searchAnalyzer", "indexAnalyzer", "normalizer":
			if value == "" {
				return a, fmt.Errorf("%w: option %s requires a value", ErrInvalidTag, name)
			}
			setName(&a, name, value)
		case "synonymMaps":
			if value == "" {
				return a, fmt.Errorf("%w: option %s requires a value", ErrInvalidTag, name)
			}
			a.SynonymMaps = strings.Split(value, "|")
		default:
			return a, fmt.Errorf("%w: unknown option %q", ErrInvalidTag, name)
		}
	}
	return a, nil
}

func setFlag(a *schema.Annotations, name string, v bool) {
	switch name {
	case "key":
		a.Key = v
	case "hidden":
		a.Hidden = v
	case "searchable":
		a.Searchable = &v
	case "filterable":
		a.Filterable = &v
	case "sortable":
		a.Sortable = &v
	case "facetable":
		a.Facetable = &v
	}
}

func setName(a *schema.Annotations, name, value string) {
	switch name {
	case "analyzer":
		a.Analyzer = value
	case "searchAnalyzer":
		a.SearchAnalyzer = value
	case "indexAnalyzer":
		a.IndexAnalyzer = value
	case "normalizer":
		a.Normalizer = value
	}
}
