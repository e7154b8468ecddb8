// SPDX-License-Identifier: Apache-2.0

package searchstore

// Mappings is the mapping of an index as returned by the get mapping API.
type Mappings struct {
	Properties map[string]any `json:"properties"`
	Dynamic    string         `json:"dynamic"`
	Meta       map[string]any `json:"_meta"`
}

type MappingResponse map[string]struct {
	Mappings Mappings `json:"mappings"`
}

// AliasResponse maps index names to the aliases pointing at them.
type AliasResponse map[string]struct {
	Aliases map[string]any `json:"aliases"`
}

// Indices returns the names of the indices in the alias response.
func (r AliasResponse) Indices() []string {
	indices := make([]string, 0, len(r))
	for index := range r {
		indices = append(indices, index)
	}
	return indices
}
