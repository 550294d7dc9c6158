package kml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"GeoCount-App/internal/domain/model"
)

// kmlNamespace 要素解決に使用するKML 2.2のデフォルト名前空間
const kmlNamespace = "http://www.opengis.net/kml/2.2"

// element KML文書の汎用ツリーノード
// Placemark / Polygon / LinearRing の入れ子深さが文書によって異なるため、
// タグ名による子孫検索ができる形で保持する
type element struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []element `xml:",any"`
}

// findChild 直下の子要素からタグ名で検索する
func (e *element) findChild(local string) *element {
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Space == kmlNamespace && c.XMLName.Local == local {
			return c
		}
	}
	return nil
}

// findDescendant 文書順の深さ優先で最初に一致する子孫要素を検索する
func (e *element) findDescendant(local string) *element {
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Space == kmlNamespace && c.XMLName.Local == local {
			return c
		}
		if found := c.findDescendant(local); found != nil {
			return found
		}
	}
	return nil
}

// appendDescendants 文書順で一致する全ての子孫要素を収集する
func (e *element) appendDescendants(local string, out []*element) []*element {
	for i := range e.Children {
		c := &e.Children[i]
		if c.XMLName.Space == kmlNamespace && c.XMLName.Local == local {
			out = append(out, c)
			continue
		}
		out = c.appendDescendants(local, out)
	}
	return out
}

// Parse KML文書を読み込み、文書順のPolygonリストを返す
// 外周リングを持たないPlacemarkはエラーにせず読み飛ばす
func Parse(r io.Reader) ([]model.Polygon, error) {
	var root element
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return nil, &model.GeometryParseError{Cause: err}
	}

	var polygons []model.Polygon
	for _, pm := range root.appendDescendants("Placemark", nil) {
		name := ""
		if nameEl := pm.findChild("name"); nameEl != nil {
			name = strings.TrimSpace(nameEl.Text)
		}

		poly := pm.findDescendant("Polygon")
		if poly == nil {
			continue
		}

		var outer orb.Ring
		if outerEl := findRingCoordinates(poly.findDescendant("outerBoundaryIs")); outerEl != nil {
			ring, err := parseCoordinates(outerEl.Text)
			if err != nil {
				return nil, &model.GeometryParseError{Cause: err}
			}
			outer = ring
		}
		if len(outer) == 0 {
			continue
		}

		var holes []orb.Ring
		for _, innerEl := range poly.appendDescendants("innerBoundaryIs", nil) {
			coordsEl := findRingCoordinates(innerEl)
			if coordsEl == nil {
				continue
			}
			ring, err := parseCoordinates(coordsEl.Text)
			if err != nil {
				return nil, &model.GeometryParseError{Cause: err}
			}
			if len(ring) > 0 {
				holes = append(holes, ring)
			}
		}

		polygons = append(polygons, model.NewPolygon(name, outer, holes))
	}

	return polygons, nil
}

// findRingCoordinates 境界要素配下の LinearRing > coordinates を検索する
func findRingCoordinates(boundary *element) *element {
	if boundary == nil {
		return nil
	}
	ring := boundary.findDescendant("LinearRing")
	if ring == nil {
		return nil
	}
	return ring.findDescendant("coordinates")
}

// parseCoordinates 空白区切りの "lon,lat[,alt]" トークン列をリングに変換する
// カンマ区切りフィールドが2つ未満のトークンは読み飛ばし、数値として
// 解釈できないフィールドはエラーにする
func parseCoordinates(text string) (orb.Ring, error) {
	var ring orb.Ring
	for _, token := range strings.Fields(text) {
		parts := strings.Split(token, ",")
		if len(parts) < 2 {
			continue
		}
		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("経度 %q を数値として解釈できません: %w", parts[0], err)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("緯度 %q を数値として解釈できません: %w", parts[1], err)
		}
		ring = append(ring, orb.Point{lon, lat})
	}
	return ring, nil
}
