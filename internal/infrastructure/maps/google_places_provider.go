package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"PlacesIngest-App/internal/domain/model"
)

const defaultBaseURL = "https://maps.googleapis.com"

// 上流の一時的な失敗（ネットワークエラー・5xx・429）への限定的なリトライ
const (
	maxFetchRetries = 2
	retryBackoff    = 500 * time.Millisecond
)

// GooglePlacesProvider はGoogle Places APIを使用したスポットデータソースの実装
type GooglePlacesProvider struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
}

// NewGooglePlacesProvider は新しいプロバイダを生成する
func NewGooglePlacesProvider(apiKey string) *GooglePlacesProvider {
	return &GooglePlacesProvider{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// SearchNearby はNearby Search APIを呼び出して周辺スポットを距離順で1ページ分取得する
func (g *GooglePlacesProvider) SearchNearby(ctx context.Context, location model.LatLng, pageToken string) (*model.NearbyPage, error) {
	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", location.Lat, location.Lng))
	params.Set("rankby", "distance")
	params.Set("key", g.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var apiResp nearbySearchResponse
	if err := g.getJSON(ctx, "/maps/api/place/nearbysearch/json", params, &apiResp); err != nil {
		return nil, err
	}

	switch apiResp.Status {
	case "OK":
		return &model.NearbyPage{
			Places:        apiResp.Results,
			NextPageToken: apiResp.NextPageToken,
		}, nil
	case "ZERO_RESULTS":
		// 結果0件はエラーではない
		return &model.NearbyPage{Places: []*model.Place{}}, nil
	default:
		return nil, fmt.Errorf("nearby search がエラーステータスを返しました: %s %s", apiResp.Status, apiResp.ErrorMessage)
	}
}

// FetchDetail はPlace Details APIを呼び出してスポットの詳細情報を取得する
func (g *GooglePlacesProvider) FetchDetail(ctx context.Context, placeID string) (*model.Place, error) {
	params := url.Values{}
	params.Set("placeid", placeID)
	params.Set("key", g.apiKey)

	var apiResp placeDetailResponse
	if err := g.getJSON(ctx, "/maps/api/place/details/json", params, &apiResp); err != nil {
		return nil, err
	}

	if apiResp.Status != "OK" || apiResp.Result == nil {
		return nil, fmt.Errorf("place details がエラーステータスを返しました: %s %s", apiResp.Status, apiResp.ErrorMessage)
	}

	return apiResp.Result, nil
}

// getJSON はGETリクエストを実行してJSONレスポンスをパースする
// 一時的な失敗（ネットワークエラー・5xx・429）には限定的なリトライを行う
func (g *GooglePlacesProvider) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s%s?%s", g.baseURL, path, params.Encode())

	var lastErr error
	for attempt := 0; attempt <= maxFetchRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retryBackoff * time.Duration(attempt)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
		if err != nil {
			return fmt.Errorf("リクエストの作成に失敗: %w", err)
		}

		resp, err := g.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("APIリクエストに失敗: %w", err)
			continue
		}

		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("JSONのパースに失敗: %w", err)
		}
		return nil
	}

	return lastErr
}

// --- Google Places APIのレスポンスをパースするための構造体 ---

type nearbySearchResponse struct {
	Results       []*model.Place `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
	ErrorMessage  string         `json:"error_message,omitempty"`
}

type placeDetailResponse struct {
	Result       *model.Place `json:"result"`
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message,omitempty"`
}
