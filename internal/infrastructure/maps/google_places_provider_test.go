package maps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlacesIngest-App/internal/domain/model"
)

func newTestProvider(srv *httptest.Server) *GooglePlacesProvider {
	provider := NewGooglePlacesProvider("test-key")
	provider.baseURL = srv.URL
	return provider
}

func TestSearchNearby(t *testing.T) {
	t.Run("結果とnext_page_tokenをパースする", func(t *testing.T) {
		var gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/maps/api/place/nearbysearch/json", r.URL.Path)
			gotQuery = r.URL.RawQuery
			fmt.Fprint(w, `{
				"status": "OK",
				"next_page_token": "tok2",
				"results": [
					{"place_id": "p1", "name": "Cafe X", "vicinity": "1 Main St",
					 "geometry": {"location": {"lat": 1.0, "lng": 2.0}},
					 "types": ["cafe"]}
				]
			}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		page, err := provider.SearchNearby(context.Background(), model.LatLng{Lat: 1.0, Lng: 2.0}, "")
		require.NoError(t, err)

		require.Len(t, page.Places, 1)
		assert.Equal(t, "p1", page.Places[0].PlaceID)
		assert.Equal(t, "Cafe X", page.Places[0].Name)
		assert.Equal(t, 1.0, page.Places[0].Location().Lat)
		assert.Equal(t, "tok2", page.NextPageToken)

		assert.Contains(t, gotQuery, "rankby=distance")
		assert.Contains(t, gotQuery, "key=test-key")
		assert.NotContains(t, gotQuery, "pagetoken", "初回リクエストにはpagetokenを付けない")
	})

	t.Run("continuation tokenをリクエストに引き継ぐ", func(t *testing.T) {
		var gotToken string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotToken = r.URL.Query().Get("pagetoken")
			fmt.Fprint(w, `{"status": "OK", "results": []}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.SearchNearby(context.Background(), model.LatLng{}, "tok2")
		require.NoError(t, err)
		assert.Equal(t, "tok2", gotToken)
	})

	t.Run("ZERO_RESULTSはエラーではなく空ページ", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		page, err := provider.SearchNearby(context.Background(), model.LatLng{}, "")
		require.NoError(t, err)
		assert.NotNil(t, page.Places)
		assert.Len(t, page.Places, 0)
		assert.Empty(t, page.NextPageToken)
	})

	t.Run("エラーステータスはエラーとして返す", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "The provided API key is invalid."}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.SearchNearby(context.Background(), model.LatLng{}, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_DENIED")
	})
}

func TestFetchDetail(t *testing.T) {
	t.Run("詳細レスポンスをパースする", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/maps/api/place/details/json", r.URL.Path)
			assert.Equal(t, "p1", r.URL.Query().Get("placeid"))
			fmt.Fprint(w, `{
				"status": "OK",
				"result": {
					"place_id": "p1", "name": "Cafe X",
					"formatted_address": "1 Main St",
					"international_phone_number": "+81 75-000-0000",
					"opening_hours": {"weekday_text": ["Monday: 9:00 AM - 6:00 PM"]},
					"types": ["cafe"],
					"photos": [{"photo_reference": "ref1"}],
					"reviews": [{"author_name": "Jane Doe", "rating": 5, "text": "great", "time": 1500000000}]
				}
			}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		place, err := provider.FetchDetail(context.Background(), "p1")
		require.NoError(t, err)

		assert.Equal(t, "1 Main St", place.FormattedAddress)
		assert.Equal(t, "+81 75-000-0000", place.Phone)
		require.Len(t, place.Reviews, 1)
		assert.Equal(t, "Jane Doe", place.Reviews[0].AuthorName)
		assert.Equal(t, int64(1500000000), place.Reviews[0].Time)
		require.Len(t, place.Photos, 1)
		assert.Equal(t, "ref1", place.Photos[0].PhotoReference)
	})

	t.Run("NOT_FOUNDはエラーとして返す", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "NOT_FOUND"}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.FetchDetail(context.Background(), "missing")
		require.Error(t, err)
	})
}

func TestGetJSONRetry(t *testing.T) {
	t.Run("5xxは限定的にリトライする", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, `{"status": "OK", "results": []}`)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.SearchNearby(context.Background(), model.LatLng{}, "")
		require.NoError(t, err)
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("リトライ上限を超えたら失敗する", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.SearchNearby(context.Background(), model.LatLng{}, "")
		require.Error(t, err)
		assert.Equal(t, int32(maxFetchRetries+1), atomic.LoadInt32(&calls))
	})

	t.Run("4xxはリトライしない", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		provider := newTestProvider(srv)
		_, err := provider.SearchNearby(context.Background(), model.LatLng{}, "")
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}
