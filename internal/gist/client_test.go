package gist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("user", "token")
	client.BaseURL = server.URL
	return client, server
}

func TestClient_List(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/user/gists", r.URL.Path)
		assert.Equal(t, "token token", r.Header.Get("Authorization"))
		assert.Equal(t, "user", r.Header.Get("X-Github-Username"))
		json.NewEncoder(w).Encode([]Gist{
			{ID: "abc", Description: "host1_master benchmarks"},
			{ID: "def", Description: "host1_feature"},
		})
	}))
	defer server.Close()

	gists, err := client.List(context.Background())
	require.NoError(t, err)
	require.Len(t, gists, 2)
	assert.Equal(t, "abc", gists[0].ID)
}

func TestClient_List_Error(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"rate limited"}`))
	}))
	defer server.Close()

	_, err := client.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "rate limited")
}

func TestClient_Get(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/gists/abc", r.URL.Path)
		json.NewEncoder(w).Encode(Gist{
			ID: "abc",
			Files: map[string]File{
				"bench_results.csv": {Content: "name,iterations,real_time,cpu_time,time_unit\n"},
			},
		})
	}))
	defer server.Close()

	g, err := client.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Contains(t, g.Files["bench_results.csv"].Content, "cpu_time")
}

func TestClient_Create(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "POST", r.Method)
			assert.Equal(t, "/gists", r.URL.Path)

			var payload struct {
				Description string          `json:"description"`
				Public      bool            `json:"public"`
				Files       map[string]File `json:"files"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, "host1_feature", payload.Description)
			assert.True(t, payload.Public)
			assert.Contains(t, payload.Files, "bench_results.csv")

			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()

		err := client.Create(context.Background(), "host1_feature", true, map[string]File{
			"bench_results.csv": {Content: "data"},
		})
		assert.NoError(t, err)
	})

	t.Run("failure carries status and body", func(t *testing.T) {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte("validation failed"))
		}))
		defer server.Close()

		err := client.Create(context.Background(), "d", true, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "422")
		assert.Contains(t, err.Error(), "validation failed")
	})
}

func TestClient_Edit(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "PATCH", r.Method)
			assert.Equal(t, "/gists/abc", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		err := client.Edit(context.Background(), "abc", map[string]File{
			"meta_data.txt": {Content: "meta"},
		})
		assert.NoError(t, err)
	})

	t.Run("non-2xx", func(t *testing.T) {
		client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte("Not Found"))
		}))
		defer server.Close()

		err := client.Edit(context.Background(), "abc", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})
}

func TestFindByDescriptionPrefix(t *testing.T) {
	gists := []Gist{
		{ID: "1", Description: "otherhost_master"},
		{ID: "2", Description: "host1_master benchmarks"},
		{ID: "3", Description: "host1_master second match"},
	}

	g := FindByDescriptionPrefix(gists, "host1_master")
	require.NotNil(t, g)
	// First match wins.
	assert.Equal(t, "2", g.ID)

	assert.Nil(t, FindByDescriptionPrefix(gists, "nohost"))
}
