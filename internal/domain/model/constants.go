package model

import "time"

// 取り込みパイプラインの既定値
// 上限値は外部APIのスロットリングとDB接続プールに合わせて控えめにしている
const (
	// DefaultIngestConcurrency 詳細取得＋書き込みの同時実行数の上限
	DefaultIngestConcurrency = 5

	// MaxPageFollows 1ページ目以降に辿る continuation token の最大数
	// （1座標あたり最大 1 + MaxPageFollows ページを取得する）
	MaxPageFollows = 2

	// DefaultPageInterval 同一座標のページ送りリクエストの最小間隔
	// next_page_token は発行直後に使うと上流に拒否される
	DefaultPageInterval = 2 * time.Second

	// DefaultCoordinatesFile 起点座標リストの既定パス
	DefaultCoordinatesFile = "coordinates.json"
)
