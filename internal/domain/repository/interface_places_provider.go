package repository

import (
	"context"

	"PlacesIngest-App/internal/domain/model"
)

// PlacesProvider 外部のスポットデータソース（Google Places API）への窓口
type PlacesProvider interface {
	// SearchNearby は指定座標の周辺スポットを距離順で1ページ分取得する
	// pageToken が空でない場合は continuation token として続きのページを取得する
	SearchNearby(ctx context.Context, location model.LatLng, pageToken string) (*model.NearbyPage, error)

	// FetchDetail は place_id を指定してスポットの詳細情報を取得する
	FetchDetail(ctx context.Context, placeID string) (*model.Place, error)
}
