package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hourlystay/internal/domain"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewClient(srv.URL, srv.URL, 5*time.Second), srv
}

func TestCreateListing_SendsTokenAndDecodesID(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/listings", r.URL.Path)

		var draft domain.ListingDraft
		require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
		assert.Equal(t, "Отель «Тест»", draft.Title)

		resp := Listing{ListingDraft: draft}
		resp.ID = 42
		resp.ModerationStatus = ModerationPending
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", 5*time.Second)
	draft := domain.NewListingDraft()
	draft.Title = "Отель «Тест»"

	created, err := c.CreateListing(context.Background(), "tok-123", draft)
	require.NoError(t, err)
	assert.Equal(t, int64(42), created.ID)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestUpdateListing_ErrorBodySurfaced(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "объект не найден"})
	}))
	defer srv.Close()

	_, err := c.UpdateListing(context.Background(), "tok", 7, domain.NewListingDraft())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "объект не найден", apiErr.Message)
}

func TestGeocode_Unresolved(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode", r.URL.Path)
		assert.Equal(t, "Москва", r.URL.Query().Get("city"))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{})
	}))
	defer srv.Close()

	pt, err := c.Geocode(context.Background(), "Москва", "Арбат 1")
	require.NoError(t, err)
	assert.Nil(t, pt)
}

func TestGeocode_Resolved(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]float64{"lat": 55.7522, "lng": 37.6156})
	}))
	defer srv.Close()

	pt, err := c.Geocode(context.Background(), "Москва", "Арбат 1")
	require.NoError(t, err)
	require.NotNil(t, pt)
	assert.InDelta(t, 55.7522, pt.Lat, 1e-9)
	assert.InDelta(t, 37.6156, pt.Lng, 1e-9)
}

func TestGeocode_SkipsWhenAddressMissing(t *testing.T) {
	called := false
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	pt, err := c.Geocode(context.Background(), "Москва", "")
	require.NoError(t, err)
	assert.Nil(t, pt)
	assert.False(t, called)
}

func TestUploadImage_ReturnsHostedURL(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, hdr, err := r.FormFile("image")
		require.NoError(t, err)
		assert.Equal(t, "photo.jpg", hdr.Filename)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/p/1.jpg"})
	}))
	defer srv.Close()

	url, err := c.UploadImage(context.Background(), "tok", []byte{0xFF, 0xD8, 0xFF}, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/p/1.jpg", url)
}

func TestUploadImage_FailureHasNoURL(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "storage unavailable"})
	}))
	defer srv.Close()

	url, err := c.UploadImage(context.Background(), "tok", []byte{1, 2, 3}, "image/jpeg")
	assert.Error(t, err)
	assert.Empty(t, url)
}

func TestSubmitForModeration_NoBody(t *testing.T) {
	c, srv := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/42/moderation", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, c.SubmitForModeration(context.Background(), "tok", 42))
}
