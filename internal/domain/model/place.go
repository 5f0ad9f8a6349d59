package model

import "encoding/json"

// LatLng 緯度経度を表す基本的な型
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinate 取り込みの起点となる座標（coordinates.json から読み込む）
type Coordinate struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// ToLatLng Coordinate を LatLng 型に変換
func (c Coordinate) ToLatLng() LatLng {
	return LatLng{Lat: c.Lat, Lng: c.Lon}
}

// Geometry Google Places API の geometry フィールドに対応する構造体
type Geometry struct {
	Location LatLng `json:"location"`
}

// OpeningHours 営業時間（DBにはJSONテキストとしてそのまま保存する）
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Photo スポットに紐づく写真参照
type Photo struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width,omitempty"`
	Height         int    `json:"height,omitempty"`
}

// Review スポットに対するレビュー
type Review struct {
	AuthorName string  `json:"author_name"`
	Rating     float64 `json:"rating"`
	Text       string  `json:"text"`
	Time       int64   `json:"time"` // UNIX秒
}

// Place Google Places のスポットを表すモデル
// nearby search の結果（スタブ）と place details のレスポンスを
// 両方受けられるフィールド構成で、マージして完成形になる
type Place struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Vicinity         string        `json:"vicinity,omitempty"`
	Geometry         *Geometry     `json:"geometry"`
	Types            []string      `json:"types"`
	OpeningHours     *OpeningHours `json:"opening_hours"`
	Phone            string        `json:"international_phone_number"`
	Photos           []Photo       `json:"photos"`
	Reviews          []Review      `json:"reviews"`

	// 起点座標からの距離（nearby search は距離順なのでログ・レポート用に保持）
	DistanceMeters float64 `json:"-"`
}

// NearbyPage nearby search 1ページ分の結果
type NearbyPage struct {
	Places        []*Place
	NextPageToken string
}

// Merged はスタブに詳細レスポンスを重ねた新しい Place を返す
// 詳細側に値があるフィールドは詳細が勝ち、無いフィールドはスタブの値が残る
func (p *Place) Merged(detail *Place) *Place {
	merged := *p
	if detail == nil {
		return &merged
	}
	if detail.PlaceID != "" {
		merged.PlaceID = detail.PlaceID
	}
	if detail.Name != "" {
		merged.Name = detail.Name
	}
	if detail.FormattedAddress != "" {
		merged.FormattedAddress = detail.FormattedAddress
	}
	if detail.Vicinity != "" {
		merged.Vicinity = detail.Vicinity
	}
	if detail.Geometry != nil {
		merged.Geometry = detail.Geometry
	}
	if detail.Types != nil {
		merged.Types = detail.Types
	}
	if detail.OpeningHours != nil {
		merged.OpeningHours = detail.OpeningHours
	}
	if detail.Phone != "" {
		merged.Phone = detail.Phone
	}
	if detail.Photos != nil {
		merged.Photos = detail.Photos
	}
	if detail.Reviews != nil {
		merged.Reviews = detail.Reviews
	}
	return &merged
}

// Normalize は欠けているコレクションを空スライスに揃える
// 以降の処理で nil チェックを不要にするための正規化
func (p *Place) Normalize() {
	if p.Types == nil {
		p.Types = []string{}
	}
	if p.Photos == nil {
		p.Photos = []Photo{}
	}
	if p.Reviews == nil {
		p.Reviews = []Review{}
	}
}

// Location geometry から位置情報を取り出す（無い場合はゼロ値）
func (p *Place) Location() LatLng {
	if p.Geometry != nil {
		return p.Geometry.Location
	}
	return LatLng{}
}

// Address 住所を返す（詳細の formatted_address 優先、無ければ vicinity）
func (p *Place) Address() string {
	if p.FormattedAddress != "" {
		return p.FormattedAddress
	}
	return p.Vicinity
}

// OpeningHoursJSON 営業時間をDB保存用のJSONテキストに変換する（無い場合は "{}"）
func (p *Place) OpeningHoursJSON() string {
	if p.OpeningHours == nil {
		return "{}"
	}
	b, err := json.Marshal(p.OpeningHours)
	if err != nil {
		return "{}"
	}
	return string(b)
}
