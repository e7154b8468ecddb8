// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"sync/atomic"
)

type mockModelSource struct {
	modelFn    func(name string, i uint64) (*Model, error)
	modelCalls atomic.Uint64
}

func (m *mockModelSource) Model(name string) (*Model, error) {
	return m.modelFn(name, m.modelCalls.Add(1))
}

var errTest = errors.New("oh noes")

func ptr[T any](v T) *T {
	return &v
}

// newTestRegistry returns a registry with the hotel models used across the
// builder tests.
func newTestRegistry(models ...*Model) *Registry {
	r, err := NewRegistry(models...)
	if err != nil {
		panic(err)
	}
	return r
}

func testHotelModel() *Model {
	return NewModel("Hotel",
		Prop("hotelId", Scalar(String)).Key().Filterable(true).Sortable(true),
		Prop("hotelName", Scalar(String)).Searchable(true).Filterable(true).Sortable(true),
		Prop("description", Scalar(String)).Analyzer("en.lucene"),
		Prop("descriptionFr", Scalar(String)).SearchAnalyzer("standard.lucene").IndexAnalyzer("fr.lucene"),
		Prop("category", Scalar(String)).Normalizer("lowercase").Facetable(true),
		Prop("tags", CollectionOf(Scalar(String))).SynonymMaps("hotel-synonyms", "amenity-synonyms"),
		Prop("parkingIncluded", Scalar(Boolean)),
		Prop("lastRenovationDate", Scalar(DateTimeOffset)),
		Prop("rating", Scalar(Double)).Sortable(true).Facetable(true),
		Prop("location", Scalar(GeographyPoint)),
		Prop("secret", Scalar(String)).Hidden(),
		Prop("internalNotes", Scalar(String)).Ignore(),
		Prop("address", ModelRef("Address")),
		Prop("rooms", CollectionOf(ModelRef("Room"))),
	)
}

func testAddressModel() *Model {
	return NewModel("Address",
		Prop("streetAddress", Scalar(String)),
		Prop("city", Scalar(String)).Facetable(true),
		Prop("postalCode", Scalar(String)).Searchable(false),
	)
}

func testRoomModel() *Model {
	return NewModel("Room",
		Prop("description", Scalar(String)).Analyzer("en.lucene"),
		Prop("type", Scalar(String)),
		Prop("baseRate", Scalar(Double)),
		Prop("sleepsCount", Scalar(Int32)),
		Prop("smokingAllowed", Scalar(Boolean)),
		Prop("tags", CollectionOf(Scalar(String))),
	)
}

func stringField(name string) Field {
	return Field{Name: name, Type: String, Searchable: true, Filterable: true, Sortable: true, Facetable: true}
}
