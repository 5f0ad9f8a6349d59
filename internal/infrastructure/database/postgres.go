package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

// PostgreSQLClient PostgreSQL直接接続クライアント
type PostgreSQLClient struct {
	DB *sql.DB
}

// NewPostgreSQLClient 環境変数から新しいPostgreSQLクライアントを作成
// 必要な環境変数: PG_HOST, PG_USER, PG_PASSWORD, PG_DATABASE（PG_PORTは省略時5432）
func NewPostgreSQLClient() (*PostgreSQLClient, error) {
	host := os.Getenv("PG_HOST")
	user := os.Getenv("PG_USER")
	password := os.Getenv("PG_PASSWORD")
	dbname := os.Getenv("PG_DATABASE")
	port := os.Getenv("PG_PORT")

	if host == "" {
		return nil, fmt.Errorf("PG_HOST環境変数が設定されていません")
	}
	if user == "" {
		return nil, fmt.Errorf("PG_USER環境変数が設定されていません")
	}
	if password == "" {
		return nil, fmt.Errorf("PG_PASSWORD環境変数が設定されていません")
	}
	if dbname == "" {
		return nil, fmt.Errorf("PG_DATABASE環境変数が設定されていません")
	}
	if port == "" {
		port = "5432"
	}

	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("PostgreSQL接続の初期化に失敗: %w", err)
	}

	// 書き込みタスクが同時に使うので小さめのプールを共有する
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	// 接続テスト
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("PostgreSQLへの接続に失敗: %w", err)
	}

	return &PostgreSQLClient{
		DB: db,
	}, nil
}

// Close データベース接続を閉じる
func (pc *PostgreSQLClient) Close() error {
	if pc.DB != nil {
		return pc.DB.Close()
	}
	return nil
}

// HealthCheck データベース接続のヘルスチェック
func (pc *PostgreSQLClient) HealthCheck() error {
	if pc.DB == nil {
		return fmt.Errorf("PostgreSQLクライアントが初期化されていません")
	}
	return pc.DB.Ping()
}
