package model

import "github.com/paulmach/orb"

// UnnamedPolygon 名前を持たないポリゴンの表示名
const UnnamedPolygon = "(unnamed)"

// PointRecord 分類対象の1ポイント（経度・緯度と任意の重み）
type PointRecord struct {
	Lon    float64
	Lat    float64
	Weight *float64 // 重み列が無い・セルが空/解釈不能の場合は nil（0ではない）
}

// Point orb.Point 形式（[lon, lat]）に変換
func (p PointRecord) Point() orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// HasWeight 重みが設定されているかチェック
func (p PointRecord) HasWeight() bool {
	return p.Weight != nil
}

// Polygon 名前付きポリゴン（外周リング1本と0本以上の穴リング）
// BBox は構築時に外周リングから一度だけ導出され、以後不変
type Polygon struct {
	Name  string
	Outer orb.Ring
	Holes []orb.Ring
	BBox  orb.Bound
}

// NewPolygon 新しいPolygonを作成する（名前が空の場合は UnnamedPolygon を設定）
func NewPolygon(name string, outer orb.Ring, holes []orb.Ring) Polygon {
	if name == "" {
		name = UnnamedPolygon
	}
	return Polygon{
		Name:  name,
		Outer: outer,
		Holes: holes,
		BBox:  outer.Bound(),
	}
}

// Geometry 外周リングと穴リングをまとめた orb.Polygon に変換（GeoJSON出力用）
func (pg Polygon) Geometry() orb.Polygon {
	rings := make(orb.Polygon, 0, 1+len(pg.Holes))
	rings = append(rings, pg.Outer)
	rings = append(rings, pg.Holes...)
	return rings
}
