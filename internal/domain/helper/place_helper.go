package helper

import (
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"PlacesIngest-App/internal/domain/model"
)

// NormalizeUserName はレビュー著者の表示名をユーザーのスラッグキーに正規化する
// 小文字化し、空白（全角含む）をすべて取り除く
// 例: "Jane Doe" と "jane  doe" はどちらも "janedoe" になる
func NormalizeUserName(displayName string) string {
	return strings.Join(strings.Fields(strings.ToLower(displayName)), "")
}

// DistanceMeters は2地点間の距離をメートルで計算する
func DistanceMeters(from, to model.LatLng) float64 {
	return geo.Distance(
		orb.Point{from.Lng, from.Lat},
		orb.Point{to.Lng, to.Lat},
	)
}
