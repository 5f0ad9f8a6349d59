package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"PlacesIngest-App/internal/domain/model"
	"PlacesIngest-App/internal/domain/repository"
)

// NearbyPaginator 1座標分の nearby search を continuation token で辿って全ページを連結する
// 同一座標のページ送りには最小間隔を強制する（next_page_token は発行直後だと上流に拒否されるため）
type NearbyPaginator struct {
	provider   repository.PlacesProvider
	interval   time.Duration
	maxFollows int
}

// NewNearbyPaginator 新しい NearbyPaginator を作成
func NewNearbyPaginator(provider repository.PlacesProvider, interval time.Duration, maxFollows int) *NearbyPaginator {
	if maxFollows < 0 {
		maxFollows = 0
	}
	return &NearbyPaginator{
		provider:   provider,
		interval:   interval,
		maxFollows: maxFollows,
	}
}

// CollectAll は1座標分の全ページを取得し、ページ順を保ったまま連結して返す
// 戻り値は (スポット一覧, 取得したページ数, エラー)
// 結果が0件の座標はエラーではなく空スライスを返す
func (p *NearbyPaginator) CollectAll(ctx context.Context, coord model.Coordinate) ([]*model.Place, int, error) {
	// レートリミッタは座標ごとに独立（座標内のページ送りだけを間隔制御する）
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)

	places := []*model.Place{}
	token := ""
	pages := 0

	for {
		if err := limiter.Wait(ctx); err != nil {
			return nil, pages, fmt.Errorf("座標 '%s' のページ送り待機が中断されました: %w", coord.Name, err)
		}

		page, err := p.provider.SearchNearby(ctx, coord.ToLatLng(), token)
		if err != nil {
			return nil, pages, fmt.Errorf("座標 '%s' の%dページ目の取得に失敗: %w", coord.Name, pages+1, err)
		}
		pages++
		places = append(places, page.Places...)

		if page.NextPageToken == "" || pages > p.maxFollows {
			break
		}
		token = page.NextPageToken
	}

	return places, pages, nil
}
