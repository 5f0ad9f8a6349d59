package repository

import (
	"context"

	"PlacesIngest-App/internal/domain/model"
)

// PlaceStoreRepository スポットデータの永続化先
// すべての操作は宣言されたユニーク制約をキーとした冪等なUPSERTで、
// 同じ入力で何度呼んでも行数が増えないことを保証する
type PlaceStoreRepository interface {
	// UpsertPlace は (name, address) をキーにスポットを登録・更新してIDを返す
	// 既存行がある場合は可変属性（座標・営業時間・電話番号）を上書きする
	UpsertPlace(ctx context.Context, place *model.Place) (int64, error)

	// UpsertCategory は name をキーにカテゴリを登録してIDを返す（既存なら既存ID）
	UpsertCategory(ctx context.Context, name string) (int64, error)

	// LinkCategory はスポットとカテゴリを関連付ける（重複はno-op）
	LinkCategory(ctx context.Context, placeID, categoryID int64) error

	// UpsertPhoto は写真参照を登録する（同一 (photo_reference, place_id) はno-op）
	UpsertPhoto(ctx context.Context, photoReference string, placeID int64) error

	// UpsertUser は表示名を正規化したスラッグをキーにユーザーを登録してIDを返す
	UpsertUser(ctx context.Context, displayName string) (int64, error)

	// UpsertReview はレビューを登録する
	// ユニークキーは (place_id, user_id, time) で、同一レビューの再取り込みはno-op
	UpsertReview(ctx context.Context, placeID int64, review model.Review, userID int64) error
}
