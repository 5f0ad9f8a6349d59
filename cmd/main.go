package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"PlacesIngest-App/internal/domain/model"
	"PlacesIngest-App/internal/domain/service"
	"PlacesIngest-App/internal/handler"
	"PlacesIngest-App/internal/infrastructure/database"
	"PlacesIngest-App/internal/infrastructure/logger"
	"PlacesIngest-App/internal/infrastructure/maps"
	repoImpl "PlacesIngest-App/internal/repository"
	"PlacesIngest-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	required := []string{"PG_HOST", "PG_USER", "PG_PASSWORD", "PG_DATABASE", "GOOGLE_API_KEY"}
	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		fmt.Println("⚠️  環境変数が設定されていません:")
		for _, key := range missing {
			fmt.Printf("  - %s\n", key)
		}
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		os.Exit(1)
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ロガーの初期化に失敗: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	coords, err := loadCoordinates(envString("COORDINATES_FILE", model.DefaultCoordinatesFile))
	if err != nil {
		log.Fatal("❌ 座標リストの読み込みに失敗", "error", err.Error())
	}
	log.Info("📋 座標リスト読み込み完了", "coordinates", len(coords))

	pgClient, err := database.NewPostgreSQLClient()
	if err != nil {
		log.Fatal("❌ PostgreSQLクライアント初期化失敗", "error", err.Error())
	}
	defer pgClient.Close()

	if err := pgClient.HealthCheck(); err != nil {
		log.Fatal("❌ PostgreSQLヘルスチェック失敗", "error", err.Error())
	}
	log.Info("✅ PostgreSQL接続成功")

	// 依存関係の組み立て
	placesProvider := maps.NewGooglePlacesProvider(os.Getenv("GOOGLE_API_KEY"))
	placeStore := repoImpl.NewPostgresPlaceStoreRepository(pgClient)
	paginator := service.NewNearbyPaginator(
		placesProvider,
		envDuration("NEARBY_PAGE_INTERVAL_MS", model.DefaultPageInterval),
		model.MaxPageFollows,
	)
	enricher := service.NewPlaceEnricher(placesProvider)
	ingestUseCase := usecase.NewIngestUseCase(
		paginator,
		enricher,
		placeStore,
		log,
		envInt("INGEST_CONCURRENCY", model.DefaultIngestConcurrency),
	)

	// STATUS_ADDR が設定されている場合は実行中の進捗を返すAPIを立ち上げる
	if addr := os.Getenv("STATUS_ADDR"); addr != "" {
		go func() {
			gin.SetMode(gin.ReleaseMode)
			r := gin.Default()
			handler.NewStatusHandler(ingestUseCase).RegisterRoutes(r)
			if err := r.Run(addr); err != nil {
				log.Warn("⚠️ ステータスAPIの起動に失敗", "addr", addr, "error", err.Error())
			}
		}()
		log.Info("📡 ステータスAPI起動", "addr", addr)
	}

	if _, err := ingestUseCase.Run(context.Background(), coords); err != nil {
		log.Error("❌ 取り込みが失敗しました", "error", err.Error())
		pgClient.Close()
		log.Sync()
		os.Exit(1)
	}
}

// loadCoordinates 起点座標リストをJSONファイルから読み込む
func loadCoordinates(path string) ([]model.Coordinate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("座標ファイル '%s' の読み込みに失敗: %w", path, err)
	}

	var coords []model.Coordinate
	if err := json.Unmarshal(data, &coords); err != nil {
		return nil, fmt.Errorf("座標ファイル '%s' のパースに失敗: %w", path, err)
	}
	return coords, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms < 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
