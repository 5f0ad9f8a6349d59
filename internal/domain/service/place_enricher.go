package service

import (
	"context"
	"fmt"

	"PlacesIngest-App/internal/domain/model"
	"PlacesIngest-App/internal/domain/repository"
)

// PlaceEnricher nearby search のスタブに place details をマージして完成形を作る
type PlaceEnricher struct {
	provider repository.PlacesProvider
}

// NewPlaceEnricher 新しい PlaceEnricher を作成
func NewPlaceEnricher(provider repository.PlacesProvider) *PlaceEnricher {
	return &PlaceEnricher{provider: provider}
}

// Enrich はスポットの詳細を取得し、スタブにマージした完成形を返す
// 詳細側の値が優先され、スタブにしかないフィールドはそのまま残る
// photos / reviews が無い場合は空スライスに正規化される
func (e *PlaceEnricher) Enrich(ctx context.Context, stub *model.Place) (*model.Place, error) {
	detail, err := e.provider.FetchDetail(ctx, stub.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("スポット '%s' の詳細取得に失敗: %w", stub.Name, err)
	}

	merged := stub.Merged(detail)
	merged.Normalize()
	return merged, nil
}
