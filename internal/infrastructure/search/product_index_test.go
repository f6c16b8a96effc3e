package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-storefront/internal/domain/entity"
)

func newTestIndex(t *testing.T, h http.HandlerFunc) *ProductIndex {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return NewProductIndex(es, "products")
}

func TestProductIndex_Search(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/products/_search"))
		body, _ := io.ReadAll(r.Body)
		var q map[string]any
		require.NoError(t, json.Unmarshal(body, &q))
		assert.EqualValues(t, 5, q["size"])
		_, _ = w.Write([]byte(`{"hits":{"hits":[
			{"_id":"p1","_source":{"id":"p1","name":"Milk","price":1.5}},
			{"_id":"p2","_source":{"name":"Cheese"}}
		]}}`))
	})

	got, err := idx.Search(context.Background(), "milk", 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Milk", got[0].Name)
	assert.Equal(t, 1.5, got[0].Price)
	assert.Equal(t, "p2", got[1].ID)
}

func TestProductIndex_IndexAndDelete(t *testing.T) {
	var calls []string
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"result":"not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"result":"created"}`))
	})

	require.NoError(t, idx.Index(context.Background(), entity.Product{ID: "p1", Name: "Milk"}))
	require.NoError(t, idx.Delete(context.Background(), "p1"))
	assert.Equal(t, []string{"PUT /products/_doc/p1", "DELETE /products/_doc/p1"}, calls)
}

func TestProductIndex_SearchError(t *testing.T) {
	idx := newTestIndex(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	})
	_, err := idx.Search(context.Background(), "milk", 5)
	assert.Error(t, err)
}
