package model

import "time"

// PlaceOutcomeStatus 1スポットの処理結果の種別
type PlaceOutcomeStatus string

const (
	// PlaceOutcomeOK 取り込み成功
	PlaceOutcomeOK PlaceOutcomeStatus = "ok"
	// PlaceOutcomeSkipped 詳細取得に失敗してスキップ（他のスポットには影響しない）
	PlaceOutcomeSkipped PlaceOutcomeStatus = "skipped"
	// PlaceOutcomeFailed DB書き込みに失敗（実行全体を打ち切る）
	PlaceOutcomeFailed PlaceOutcomeStatus = "failed"
)

// PlaceOutcome 1スポットの処理結果
type PlaceOutcome struct {
	PlaceID        string             `json:"place_id"`
	Name           string             `json:"name"`
	Status         PlaceOutcomeStatus `json:"status"`
	Reason         string             `json:"reason,omitempty"`
	DistanceMeters float64            `json:"distance_meters"`
}

// CoordinateResult 1座標分の処理結果
type CoordinateResult struct {
	Coordinate Coordinate     `json:"coordinate"`
	Pages      int            `json:"pages"`
	Found      int            `json:"found"`
	Outcomes   []PlaceOutcome `json:"outcomes"`
	Err        string         `json:"error,omitempty"` // ページング失敗など座標単位の失敗
}

// Succeeded 成功したスポット数を数える
func (r *CoordinateResult) Succeeded() int { return r.countByStatus(PlaceOutcomeOK) }

// Skipped スキップされたスポット数を数える
func (r *CoordinateResult) Skipped() int { return r.countByStatus(PlaceOutcomeSkipped) }

// Failed 失敗したスポット数を数える
func (r *CoordinateResult) Failed() int { return r.countByStatus(PlaceOutcomeFailed) }

func (r *CoordinateResult) countByStatus(s PlaceOutcomeStatus) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == s {
			n++
		}
	}
	return n
}

// IngestReport 1回の実行全体のレポート
type IngestReport struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Results    []CoordinateResult `json:"results"`
}

// Duration 実行にかかった時間
func (r *IngestReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Totals 全座標の集計値を返す
func (r *IngestReport) Totals() (found, succeeded, skipped, failed int) {
	for i := range r.Results {
		res := &r.Results[i]
		found += res.Found
		succeeded += res.Succeeded()
		skipped += res.Skipped()
		failed += res.Failed()
	}
	return
}

// IngestProgress 実行中の進捗スナップショット（ステータスAPI用）
type IngestProgress struct {
	RunID            string `json:"run_id"`
	Running          bool   `json:"running"`
	CoordinatesTotal int    `json:"coordinates_total"`
	CoordinatesDone  int    `json:"coordinates_done"`
	PlacesFound      int    `json:"places_found"`
	PlacesSucceeded  int    `json:"places_succeeded"`
	PlacesSkipped    int    `json:"places_skipped"`
	PlacesFailed     int    `json:"places_failed"`
}
