package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"PlacesIngest-App/internal/domain/helper"
	"PlacesIngest-App/internal/domain/model"
	"PlacesIngest-App/internal/domain/repository"
	"PlacesIngest-App/internal/domain/service"
	"PlacesIngest-App/internal/infrastructure/logger"
)

// IngestUseCase 座標リスト全体の取り込みパイプラインを実行する
type IngestUseCase interface {
	// Run は全座標を処理して実行レポートを返す
	// DB書き込みの失敗は実行全体を打ち切るが、それまでにコミット済みの内容は残る
	Run(ctx context.Context, coords []model.Coordinate) (*model.IngestReport, error)

	// Progress は実行中の進捗スナップショットを返す（ステータスAPI用）
	Progress() model.IngestProgress
}

// ingestUseCaseImpl はIngestUseCaseの実装
// 座標は順番に処理し、座標内のスポットはセマフォで同時実行数を制限して並行処理する
type ingestUseCaseImpl struct {
	paginator   *service.NearbyPaginator
	enricher    *service.PlaceEnricher
	store       repository.PlaceStoreRepository
	logger      *logger.Logger
	concurrency int64

	mu       sync.Mutex
	progress model.IngestProgress
}

// NewIngestUseCase 新しいIngestUseCaseインスタンスを作成
func NewIngestUseCase(
	paginator *service.NearbyPaginator,
	enricher *service.PlaceEnricher,
	store repository.PlaceStoreRepository,
	log *logger.Logger,
	concurrency int,
) IngestUseCase {
	if concurrency <= 0 {
		concurrency = model.DefaultIngestConcurrency
	}
	return &ingestUseCaseImpl{
		paginator:   paginator,
		enricher:    enricher,
		store:       store,
		logger:      log,
		concurrency: int64(concurrency),
	}
}

// Run は全座標を処理して実行レポートを返す
func (u *ingestUseCaseImpl) Run(ctx context.Context, coords []model.Coordinate) (*model.IngestReport, error) {
	runID := uuid.New().String()
	report := &model.IngestReport{
		RunID:     runID,
		StartedAt: time.Now(),
	}

	u.mu.Lock()
	u.progress = model.IngestProgress{
		RunID:            runID,
		Running:          true,
		CoordinatesTotal: len(coords),
	}
	u.mu.Unlock()

	u.logger.Info("🚀 取り込み開始", "run_id", runID, "coordinates", len(coords))

	var fatalErr error
	for _, coord := range coords {
		result, err := u.processCoordinate(ctx, coord)
		report.Results = append(report.Results, result)

		u.mu.Lock()
		u.progress.CoordinatesDone++
		u.mu.Unlock()

		if err != nil {
			// DB書き込み失敗など回復不能な失敗は実行全体を打ち切る
			fatalErr = err
			break
		}
	}

	report.FinishedAt = time.Now()

	u.mu.Lock()
	u.progress.Running = false
	u.mu.Unlock()

	found, succeeded, skipped, failed := report.Totals()
	if fatalErr != nil {
		u.logger.Error("❌ 取り込みを中断しました",
			"run_id", runID,
			"error", fatalErr.Error(),
			"found", found, "succeeded", succeeded, "skipped", skipped, "failed", failed,
			"duration", report.Duration().String(),
		)
		return report, fatalErr
	}

	u.logger.Info("🎉 取り込み完了",
		"run_id", runID,
		"found", found, "succeeded", succeeded, "skipped", skipped, "failed", failed,
		"duration", report.Duration().String(),
	)
	return report, nil
}

// Progress は実行中の進捗スナップショットを返す
func (u *ingestUseCaseImpl) Progress() model.IngestProgress {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.progress
}

// processCoordinate は1座標分の検索・ページング・スポット処理を行う
// ページング失敗は座標単位の失敗として記録し、実行は継続する
// 戻り値のerrorはDB書き込み失敗など実行全体を打ち切るべき失敗のみ
func (u *ingestUseCaseImpl) processCoordinate(ctx context.Context, coord model.Coordinate) (model.CoordinateResult, error) {
	result := model.CoordinateResult{Coordinate: coord}

	u.logger.Info("📍 座標の処理開始", "name", coord.Name, "lat", coord.Lat, "lon", coord.Lon)

	stubs, pages, err := u.paginator.CollectAll(ctx, coord)
	result.Pages = pages
	if err != nil {
		result.Err = err.Error()
		u.logger.Warn("⚠️ 座標の検索に失敗したためスキップ", "name", coord.Name, "error", err.Error())
		return result, nil
	}

	result.Found = len(stubs)
	u.logger.Info("✅ 周辺スポット取得完了", "name", coord.Name, "pages", pages, "found", len(stubs))

	u.mu.Lock()
	u.progress.PlacesFound += len(stubs)
	u.mu.Unlock()

	// 起点からの距離を付与（nearby search は距離順なのでログ・レポートで使う）
	origin := coord.ToLatLng()
	for _, stub := range stubs {
		stub.DistanceMeters = helper.DistanceMeters(origin, stub.Location())
	}

	// スポットごとの詳細取得＋書き込みをセマフォで制限しつつ並行実行する
	sem := semaphore.NewWeighted(u.concurrency)
	var wg sync.WaitGroup
	var resultMu sync.Mutex
	outcomes := make([]model.PlaceOutcome, 0, len(stubs))
	var fatalErr error

	for _, stub := range stubs {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(stub *model.Place) {
			defer wg.Done()
			defer sem.Release(1)

			outcome := u.processPlace(ctx, stub)

			resultMu.Lock()
			outcomes = append(outcomes, outcome)
			if outcome.Status == model.PlaceOutcomeFailed && fatalErr == nil {
				fatalErr = errors.New(outcome.Reason)
			}
			resultMu.Unlock()

			u.mu.Lock()
			switch outcome.Status {
			case model.PlaceOutcomeOK:
				u.progress.PlacesSucceeded++
			case model.PlaceOutcomeSkipped:
				u.progress.PlacesSkipped++
			case model.PlaceOutcomeFailed:
				u.progress.PlacesFailed++
			}
			u.mu.Unlock()
		}(stub)
	}
	wg.Wait()

	result.Outcomes = outcomes
	if fatalErr != nil {
		return result, fmt.Errorf("座標 '%s' の処理中にDB書き込みが失敗: %w", coord.Name, fatalErr)
	}
	return result, nil
}

// processPlace は1スポットの詳細取得と書き込みを行う
// 詳細取得の失敗はスキップ扱いで他のスポットには影響しない
func (u *ingestUseCaseImpl) processPlace(ctx context.Context, stub *model.Place) model.PlaceOutcome {
	outcome := model.PlaceOutcome{
		PlaceID:        stub.PlaceID,
		Name:           stub.Name,
		DistanceMeters: stub.DistanceMeters,
	}

	place, err := u.enricher.Enrich(ctx, stub)
	if err != nil {
		outcome.Status = model.PlaceOutcomeSkipped
		outcome.Reason = err.Error()
		u.logger.Warn("⚠️ 詳細取得に失敗したためスキップ", "name", stub.Name, "place_id", stub.PlaceID, "error", err.Error())
		return outcome
	}

	if err := u.writePlace(ctx, place); err != nil {
		outcome.Status = model.PlaceOutcomeFailed
		outcome.Reason = err.Error()
		u.logger.Error("❌ スポットの書き込みに失敗", "name", place.Name, "error", err.Error())
		return outcome
	}

	outcome.Status = model.PlaceOutcomeOK
	u.logger.Info("✅ スポット取り込み完了",
		"name", place.Name,
		"distance_m", int(stub.DistanceMeters),
		"categories", len(place.Types),
		"photos", len(place.Photos),
		"reviews", len(place.Reviews),
	)
	return outcome
}

// writePlace はスポット本体と従属データ（カテゴリ・写真・レビュー）を順に書き込む
// place の ID を先に確定させる必要があるため、スポット内の書き込みは逐次実行する
func (u *ingestUseCaseImpl) writePlace(ctx context.Context, place *model.Place) error {
	placeID, err := u.store.UpsertPlace(ctx, place)
	if err != nil {
		return err
	}

	for _, category := range place.Types {
		categoryID, err := u.store.UpsertCategory(ctx, category)
		if err != nil {
			return err
		}
		if err := u.store.LinkCategory(ctx, placeID, categoryID); err != nil {
			return err
		}
	}

	for _, photo := range place.Photos {
		if err := u.store.UpsertPhoto(ctx, photo.PhotoReference, placeID); err != nil {
			return err
		}
	}

	for _, review := range place.Reviews {
		userID, err := u.store.UpsertUser(ctx, review.AuthorName)
		if err != nil {
			return err
		}
		if err := u.store.UpsertReview(ctx, placeID, review, userID); err != nil {
			return err
		}
	}

	return nil
}
