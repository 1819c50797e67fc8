package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *atomic.Int64) {
	t.Helper()

	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL), &calls
}

func TestNormalizeItemPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		body           string
		wantLen        int
		wantTotalPages int
		wantErr        bool
	}{
		{
			name:           "raw array defaults to one page",
			body:           `[{"itemName":"A"}]`,
			wantLen:        1,
			wantTotalPages: 1,
		},
		{
			name:           "envelope with pagination",
			body:           `{"data":[{"itemName":"A"}],"pagination":{"totalPages":2}}`,
			wantLen:        1,
			wantTotalPages: 2,
		},
		{
			name:           "envelope without pagination defaults to one page",
			body:           `{"data":[{"itemName":"A"},{"itemName":"B"}]}`,
			wantLen:        2,
			wantTotalPages: 1,
		},
		{
			name:           "empty array",
			body:           `[]`,
			wantLen:        0,
			wantTotalPages: 1,
		},
		{
			name:    "not a list at all",
			body:    `"nope"`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			page, err := NormalizeItemPage([]byte(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, page.Items, tt.wantLen)
			assert.Equal(t, tt.wantTotalPages, page.TotalPages)
		})
	}
}

func TestItemClient_List_SendsPageAndLimit(t *testing.T) {
	t.Parallel()

	var gotPage, gotLimit string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPage = r.URL.Query().Get("page")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[],"pagination":{"totalPages":3}}`))
	})

	page, err := NewItemClient(client).List(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, "2", gotPage)
	assert.Equal(t, "5", gotLimit)
	assert.Equal(t, 3, page.TotalPages)
}

func TestItemClient_Create_RejectsBlankFieldsLocally(t *testing.T) {
	t.Parallel()

	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	items := NewItemClient(client)

	tests := []struct {
		name  string
		draft ItemDraft
	}{
		{name: "empty name", draft: ItemDraft{Price: "10", Category: CategoryOther}},
		{name: "empty price", draft: ItemDraft{Name: "Pen", Category: CategoryStationary}},
		{name: "both empty", draft: ItemDraft{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := items.Create(context.Background(), tt.draft)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.EqualValues(t, 0, calls.Load(), "validation failures must not reach the network")
}

func TestItemClient_Create_SurfacesServerMessage(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"price must be positive"}`))
	})

	err := NewItemClient(client).Create(context.Background(), ItemDraft{Name: "Pen", Price: "-1"})
	require.Error(t, err)
	assert.EqualError(t, err, "price must be positive")
}

func TestItemClient_Update_SendsOnlyProvidedFields(t *testing.T) {
	t.Parallel()

	var gotBody []byte
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	})

	name := "Stapler"
	err := NewItemClient(client).Update(context.Background(), "42", ItemPatch{Name: &name})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Stapler"}`, string(gotBody))
}

func TestItemClient_Delete(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, NewItemClient(client).Delete(context.Background(), "42"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/api/item/42", gotPath)
}

func TestItemClient_List_TransportFailure(t *testing.T) {
	t.Parallel()

	client := NewClient("http://127.0.0.1:1")
	_, err := NewItemClient(client).List(context.Background(), 1, 5)
	require.Error(t, err)
}
