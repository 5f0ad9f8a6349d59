package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceMerged(t *testing.T) {
	stub := &Place{
		PlaceID:  "p1",
		Name:     "Cafe X",
		Vicinity: "河原町通",
		Geometry: &Geometry{Location: LatLng{Lat: 35.0, Lng: 135.7}},
		Types:    []string{"cafe"},
	}

	t.Run("詳細側の値が優先される", func(t *testing.T) {
		detail := &Place{
			FormattedAddress: "京都市中京区1-2-3",
			Phone:            "+81 75-000-0000",
			Types:            []string{"cafe", "bakery"},
		}
		merged := stub.Merged(detail)

		assert.Equal(t, "京都市中京区1-2-3", merged.FormattedAddress)
		assert.Equal(t, "+81 75-000-0000", merged.Phone)
		assert.Equal(t, []string{"cafe", "bakery"}, merged.Types)
	})

	t.Run("詳細に無いフィールドはスタブの値が残る", func(t *testing.T) {
		detail := &Place{FormattedAddress: "京都市中京区1-2-3"}
		merged := stub.Merged(detail)

		assert.Equal(t, "p1", merged.PlaceID)
		assert.Equal(t, "Cafe X", merged.Name)
		assert.Equal(t, "河原町通", merged.Vicinity)
		assert.NotNil(t, merged.Geometry)
		assert.Equal(t, 35.0, merged.Geometry.Location.Lat)
		assert.Equal(t, []string{"cafe"}, merged.Types)
	})

	t.Run("元のスタブは変更されない", func(t *testing.T) {
		detail := &Place{Name: "Cafe X 本店"}
		_ = stub.Merged(detail)
		assert.Equal(t, "Cafe X", stub.Name)
	})

	t.Run("詳細がnilでも落ちない", func(t *testing.T) {
		merged := stub.Merged(nil)
		assert.Equal(t, "Cafe X", merged.Name)
	})
}

func TestPlaceNormalize(t *testing.T) {
	t.Run("nilのコレクションは空スライスになる", func(t *testing.T) {
		p := &Place{PlaceID: "p1", Name: "Cafe X"}
		p.Normalize()

		assert.NotNil(t, p.Types)
		assert.NotNil(t, p.Photos)
		assert.NotNil(t, p.Reviews)
		assert.Len(t, p.Types, 0)
		assert.Len(t, p.Photos, 0)
		assert.Len(t, p.Reviews, 0)
	})

	t.Run("既存のコレクションは変わらない", func(t *testing.T) {
		p := &Place{
			Types:  []string{"cafe"},
			Photos: []Photo{{PhotoReference: "ref1"}},
		}
		p.Normalize()

		assert.Equal(t, []string{"cafe"}, p.Types)
		assert.Len(t, p.Photos, 1)
	})
}

func TestPlaceAddress(t *testing.T) {
	t.Run("formatted_addressを優先する", func(t *testing.T) {
		p := &Place{FormattedAddress: "京都市中京区1-2-3", Vicinity: "河原町通"}
		assert.Equal(t, "京都市中京区1-2-3", p.Address())
	})

	t.Run("formatted_addressが無ければvicinityを使う", func(t *testing.T) {
		p := &Place{Vicinity: "河原町通"}
		assert.Equal(t, "河原町通", p.Address())
	})
}

func TestPlaceOpeningHoursJSON(t *testing.T) {
	t.Run("営業時間が無い場合は空オブジェクト", func(t *testing.T) {
		p := &Place{}
		assert.Equal(t, "{}", p.OpeningHoursJSON())
	})

	t.Run("営業時間はJSONテキストに変換される", func(t *testing.T) {
		open := true
		p := &Place{OpeningHours: &OpeningHours{
			OpenNow:     &open,
			WeekdayText: []string{"月曜日: 9時00分～18時00分"},
		}}
		s := p.OpeningHoursJSON()
		assert.Contains(t, s, `"open_now":true`)
		assert.Contains(t, s, "月曜日")
	})
}

func TestPlaceLocation(t *testing.T) {
	t.Run("geometryが無い場合はゼロ値", func(t *testing.T) {
		p := &Place{}
		assert.Equal(t, LatLng{}, p.Location())
	})
}
