package repository

import (
	"context"
	"fmt"
	"time"

	"PlacesIngest-App/internal/domain/helper"
	"PlacesIngest-App/internal/domain/model"
	"PlacesIngest-App/internal/domain/repository"
	"PlacesIngest-App/internal/infrastructure/database"
)

// PostgresPlaceStoreRepository PlaceStoreRepositoryのPostgreSQL実装
// すべての書き込みは ON CONFLICT による冪等なUPSERTで、グローバルな
// トランザクションは張らない（スポット単位で独立にコミットされる）
type PostgresPlaceStoreRepository struct {
	client *database.PostgreSQLClient
}

// NewPostgresPlaceStoreRepository 新しいリポジトリを作成
func NewPostgresPlaceStoreRepository(client *database.PostgreSQLClient) repository.PlaceStoreRepository {
	return &PostgresPlaceStoreRepository{
		client: client,
	}
}

// UpsertPlace は (name, address) をキーにスポットを登録・更新してIDを返す
// 既存行は可変属性（座標・営業時間・電話番号）だけが上書きされ、IDは変わらない
func (r *PostgresPlaceStoreRepository) UpsertPlace(ctx context.Context, place *model.Place) (int64, error) {
	query := `
		INSERT INTO place (name, address, lat, lon, opening_hours, phone)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (name, address)
		DO UPDATE SET
			lat = $3,
			lon = $4,
			opening_hours = $5,
			phone = $6
		RETURNING id`

	loc := place.Location()
	var id int64
	err := r.client.DB.QueryRowContext(ctx, query,
		place.Name,
		place.Address(),
		loc.Lat,
		loc.Lng,
		place.OpeningHoursJSON(),
		place.Phone,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("スポット '%s' の書き込みに失敗: %w", place.Name, err)
	}

	return id, nil
}

// UpsertCategory は name をキーにカテゴリを登録してIDを返す
// DO UPDATE SET name = name はRETURNINGで既存行のIDを取るためのno-op更新
func (r *PostgresPlaceStoreRepository) UpsertCategory(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO category (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = $1
		RETURNING id`

	var id int64
	if err := r.client.DB.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("カテゴリ '%s' の書き込みに失敗: %w", name, err)
	}
	return id, nil
}

// LinkCategory はスポットとカテゴリの関連を登録する（重複はno-op）
func (r *PostgresPlaceStoreRepository) LinkCategory(ctx context.Context, placeID, categoryID int64) error {
	query := `
		INSERT INTO place_category (place_id, category_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.client.DB.ExecContext(ctx, query, placeID, categoryID); err != nil {
		return fmt.Errorf("カテゴリ関連付けの書き込みに失敗: %w", err)
	}
	return nil
}

// UpsertPhoto は写真参照を登録する（同一 (photo_reference, place_id) はno-op）
func (r *PostgresPlaceStoreRepository) UpsertPhoto(ctx context.Context, photoReference string, placeID int64) error {
	query := `
		INSERT INTO place_photo (photo_reference, place_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.client.DB.ExecContext(ctx, query, photoReference, placeID); err != nil {
		return fmt.Errorf("写真参照の書き込みに失敗: %w", err)
	}
	return nil
}

// UpsertUser は表示名を正規化したスラッグをキーにユーザーを登録してIDを返す
func (r *PostgresPlaceStoreRepository) UpsertUser(ctx context.Context, displayName string) (int64, error) {
	query := `
		INSERT INTO "user" (user_name, name) VALUES ($1, $2)
		ON CONFLICT (user_name) DO UPDATE SET user_name = $1
		RETURNING id`

	slug := helper.NormalizeUserName(displayName)
	var id int64
	if err := r.client.DB.QueryRowContext(ctx, query, slug, displayName).Scan(&id); err != nil {
		return 0, fmt.Errorf("ユーザー '%s' の書き込みに失敗: %w", displayName, err)
	}
	return id, nil
}

// UpsertReview はレビューを登録する（同一 (place_id, user_id, time) はno-op）
func (r *PostgresPlaceStoreRepository) UpsertReview(ctx context.Context, placeID int64, review model.Review, userID int64) error {
	query := `
		INSERT INTO place_review (place_id, rating, text, time, user_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (place_id, user_id, time) DO NOTHING`

	reviewedAt := time.Unix(review.Time, 0).UTC()
	if _, err := r.client.DB.ExecContext(ctx, query, placeID, review.Rating, review.Text, reviewedAt, userID); err != nil {
		return fmt.Errorf("レビューの書き込みに失敗: %w", err)
	}
	return nil
}
