// SPDX-License-Identifier: Apache-2.0

package structtag

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/xataio/indexschema/pkg/geo"
	"github.com/xataio/indexschema/pkg/schema"
)

type testAudit struct {
	CreatedBy string    `json:"createdBy" search:"filterable,searchable=false"`
	CreatedAt time.Time `json:"createdAt"`
}

type testHotel struct {
	testAudit

	ID          string         `json:"hotelId" search:"key"`
	Name        *string        `json:"hotelName" search:"searchable,sortable=false"`
	Description string         `json:"description" search:"analyzer=en.lucene"`
	Tags        []string       `json:"tags" search:"synonymMaps=hotels|amenities"`
	Rating      float64        `json:"rating"`
	Rooms       int16          `json:"rooms"`
	Views       int            `json:"views,omitempty"`
	Location    geo.Position   `json:"location"`
	Address     *testAddress   `json:"address"`
	Branches    []testAddress  `json:"branches"`
	Parent      *testHotel     `json:"parent"`
	Internal    string         `json:"-"`
	Skipped     string         `json:"skipped" search:"-"`
	NoJSONTag   bool           ``
	Metadata    map[string]any `json:"metadata" search:"-"`
	unexported  string
}

type testAddress struct {
	City    string `json:"city" search:"facetable"`
	Country string `json:"country" search:"normalizer=lowercase"`
}

type testMatrix struct {
	Values [][]int32 `json:"values"`
}

type testBinary struct {
	Payload []byte `json:"payload"`
}

type testBadTag struct {
	Name string `json:"name" search:"bogus"`
}

type testBadNested struct {
	ID  string     `json:"id" search:"key"`
	Bad testBadTag `json:"bad"`
}

type testSelfEmbedded struct {
	*testSelfEmbedded
	ID string `json:"id" search:"key"`
}

type testEmbeddedLoop struct {
	testEmbeddedInner
	Name string `json:"name"`
}

type testEmbeddedInner struct {
	*testEmbeddedLoop
	City string `json:"city"`
}

func TestSource_Register(t *testing.T) {
	t.Parallel()

	s := NewSource()
	name, err := s.Register(&testHotel{})
	require.NoError(t, err)
	require.Equal(t, "testHotel", name)

	// registering again is a noop
	_, err = s.Register(testHotel{})
	require.NoError(t, err)

	m, err := s.Model("testHotel")
	require.NoError(t, err)

	gotNames := make([]string, 0, len(m.Properties))
	for _, p := range m.Properties {
		gotNames = append(gotNames, p.Name)
	}
	require.Equal(t, []string{
		"createdBy", "createdAt", "hotelId", "hotelName", "description", "tags", "rating", "rooms", "views",
		"location", "address", "branches", "parent", "skipped", "NoJSONTag", "metadata",
	}, gotNames)

	_, err = s.Model("testAddress")
	require.NoError(t, err)

	fields, err := schema.NewBuilder(s).Build(name)
	require.NoError(t, err)

	wantTypes := map[string]schema.DataType{
		"createdBy":    schema.String,
		"createdAt":    schema.DateTimeOffset,
		"hotelId":      schema.String,
		"hotelName":    schema.String,
		"description":  schema.String,
		"tags":         schema.Collection(schema.String),
		"rating":       schema.Double,
		"rooms":        schema.Int32,
		"views":        schema.Int64,
		"location":     schema.GeographyPoint,
		"address":      schema.ComplexType,
		"address.city": schema.String,
		"branches":     schema.Collection(schema.ComplexType),
		"parent":       schema.ComplexType,
		"NoJSONTag":    schema.Boolean,
	}
	for path, want := range wantTypes {
		f, found := schema.Find(fields, path)
		require.True(t, found, path)
		require.Equal(t, want, f.Type, path)
	}

	_, found := schema.Find(fields, "skipped")
	require.False(t, found)
	_, found = schema.Find(fields, "metadata")
	require.False(t, found)

	hotelID, _ := schema.Find(fields, "hotelId")
	require.True(t, hotelID.Key)

	hotelName, _ := schema.Find(fields, "hotelName")
	require.True(t, hotelName.Searchable)
	require.False(t, hotelName.Sortable)

	createdBy, _ := schema.Find(fields, "createdBy")
	require.False(t, createdBy.Searchable)

	tags, _ := schema.Find(fields, "tags")
	require.Equal(t, []string{"hotels", "amenities"}, tags.SynonymMapNames)

	country, _ := schema.Find(fields, "branches.country")
	require.Equal(t, "lowercase", country.NormalizerName)

	parent, _ := schema.Find(fields, "parent")
	require.Empty(t, parent.Fields)
}

func TestSource_Register_circularEmbedding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any

		wantModel  string
		wantFields []string
	}{
		{
			name:       "self embedded",
			value:      testSelfEmbedded{},
			wantModel:  "testSelfEmbedded",
			wantFields: []string{"id"},
		},
		{
			name:       "embedding loop",
			value:      &testEmbeddedLoop{},
			wantModel:  "testEmbeddedLoop",
			wantFields: []string{"city", "name"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewSource()
			name, err := s.Register(tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.wantModel, name)

			m, err := s.Model(name)
			require.NoError(t, err)
			names := make([]string, 0, len(m.Properties))
			for _, p := range m.Properties {
				names = append(names, p.Name)
			}
			require.Equal(t, tc.wantFields, names)
		})
	}
}

func TestSource_Register_errors(t *testing.T) {
	t.Parallel()

	t.Run("error - not a struct", func(t *testing.T) {
		t.Parallel()
		_, err := NewSource().Register(42)
		require.ErrorIs(t, err, ErrNotStruct)

		_, err = NewSource().Register(nil)
		require.ErrorIs(t, err, ErrNotStruct)

		_, err = NewSource().Register(struct{ A string }{})
		require.ErrorIs(t, err, ErrNotStruct)
	})

	t.Run("error - invalid tag", func(t *testing.T) {
		t.Parallel()
		type badTag struct {
			Name string `json:"name" search:"searchable=maybe"`
		}
		_, err := NewSource().Register(badTag{})
		require.ErrorIs(t, err, ErrInvalidTag)
	})

	t.Run("error - invalid tag is not registered on retry", func(t *testing.T) {
		t.Parallel()
		s := NewSource()
		_, err := s.Register(testBadTag{})
		require.ErrorIs(t, err, ErrInvalidTag)

		_, err = s.Register(testBadTag{})
		require.ErrorIs(t, err, ErrInvalidTag)

		_, err = s.Model("testBadTag")
		require.ErrorIs(t, err, schema.ErrModelNotFound)
	})

	t.Run("error - invalid nested type leaves no parent model", func(t *testing.T) {
		t.Parallel()
		s := NewSource()
		_, err := s.Register(testBadNested{})
		require.ErrorIs(t, err, ErrInvalidTag)
		require.ErrorContains(t, err, "testBadTag")

		_, err = s.Model("testBadNested")
		require.ErrorIs(t, err, schema.ErrModelNotFound)

		_, err = s.Register(testBadNested{})
		require.ErrorIs(t, err, ErrInvalidTag)
	})

	t.Run("error - name conflict", func(t *testing.T) {
		t.Parallel()
		type testAddress struct {
			Street string `json:"street"`
		}
		s := NewSource()
		_, err := s.Register(testHotel{})
		require.NoError(t, err)
		_, err = s.Register(testAddress{})
		require.ErrorIs(t, err, ErrNameConflict)
	})

	t.Run("error - multi dimensional collection", func(t *testing.T) {
		t.Parallel()
		s := NewSource()
		name, err := s.Register(testMatrix{})
		require.NoError(t, err)
		_, err = schema.NewBuilder(s).Build(name)
		require.ErrorIs(t, err, schema.ErrMultiDimensionalCollection)
		require.ErrorContains(t, err, "values")
		require.ErrorContains(t, err, "single-dimensional")
	})

	t.Run("error - byte slice", func(t *testing.T) {
		t.Parallel()
		s := NewSource()
		name, err := s.Register(testBinary{})
		require.NoError(t, err)
		_, err = schema.NewBuilder(s).Build(name)
		require.ErrorIs(t, err, schema.ErrUnsupportedType)
		require.ErrorContains(t, err, "[]uint8")
	})
}

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tag  string

		want    schema.Annotations
		wantErr error
	}{
		{name: "empty", tag: "", want: schema.Annotations{}},
		{name: "ignored", tag: "-", want: schema.Annotations{Ignored: true}},
		{
			name: "flags",
			tag:  "key, hidden,searchable,filterable=false,sortable=true,facetable=0",
			want: schema.Annotations{
				Key:        true,
				Hidden:     true,
				Searchable: ptr(true),
				Filterable: ptr(false),
				Sortable:   ptr(true),
				Facetable:  ptr(false),
			},
		},
		{
			name: "names",
			tag:  "searchAnalyzer=standard,indexAnalyzer=en.lucene,normalizer=lowercase,synonymMaps=a|b|a",
			want: schema.Annotations{
				SearchAnalyzer: "standard",
				IndexAnalyzer:  "en.lucene",
				Normalizer:     "lowercase",
				SynonymMaps:    []string{"a", "b", "a"},
			},
		},
		{name: "error - unknown option", tag: "retrievable", wantErr: ErrInvalidTag},
		{name: "error - missing analyzer", tag: "analyzer=", wantErr: ErrInvalidTag},
		{name: "error - missing synonym maps", tag: "synonymMaps", wantErr: ErrInvalidTag},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := parseTag(tc.tag)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("unexpected annotations (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr[T any](v T) *T {
	return &v
}
