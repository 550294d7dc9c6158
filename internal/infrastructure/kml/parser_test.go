package kml

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GeoCount-App/internal/domain/model"
)

const sampleKML = `<?xml version="1.0" encoding="UTF-8"?>
<kml xmlns="http://www.opengis.net/kml/2.2">
  <Document>
    <Placemark>
      <name>Area A</name>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing>
            <coordinates>
              0,0,0 10,0,0 10,10,0 0,10,0
            </coordinates>
          </LinearRing>
        </outerBoundaryIs>
        <innerBoundaryIs>
          <LinearRing>
            <coordinates>4,4 6,4 6,6 4,6</coordinates>
          </LinearRing>
        </innerBoundaryIs>
      </Polygon>
    </Placemark>
    <Placemark>
      <name>Just a point</name>
      <Point><coordinates>1,1</coordinates></Point>
    </Placemark>
    <Placemark>
      <Polygon>
        <outerBoundaryIs>
          <LinearRing><coordinates></coordinates></LinearRing>
        </outerBoundaryIs>
      </Polygon>
    </Placemark>
    <Placemark>
      <MultiGeometry>
        <Polygon>
          <outerBoundaryIs>
            <LinearRing><coordinates>20,20 21,20 badtoken 21,21 20,21</coordinates></LinearRing>
          </outerBoundaryIs>
        </Polygon>
      </MultiGeometry>
    </Placemark>
  </Document>
</kml>`

func TestParse_ポリゴン抽出(t *testing.T) {
	polygons, err := Parse(strings.NewReader(sampleKML))
	require.NoError(t, err)

	// ポリゴンを持たないPlacemarkと外周座標が空のPlacemarkは読み飛ばされる
	require.Len(t, polygons, 2)

	a := polygons[0]
	assert.Equal(t, "Area A", a.Name)
	require.Len(t, a.Outer, 4)
	assert.Equal(t, orb.Point{0, 0}, a.Outer[0], "高度フィールドは無視される")
	require.Len(t, a.Holes, 1)
	assert.Equal(t, orb.Point{4, 4}, a.Holes[0][0])

	// バウンディングボックスは外周リングから導出
	assert.Equal(t, orb.Point{0, 0}, a.BBox.Min)
	assert.Equal(t, orb.Point{10, 10}, a.BBox.Max)

	// 名前なし・MultiGeometry入れ子のポリゴン。フィールド2未満のトークンは読み飛ばし
	b := polygons[1]
	assert.Equal(t, model.UnnamedPolygon, b.Name)
	assert.Len(t, b.Outer, 4)
}

func TestParse_数値でない座標は致命的エラー(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
	  <Placemark>
	    <Polygon>
	      <outerBoundaryIs>
	        <LinearRing><coordinates>abc,1 2,2 3,3</coordinates></LinearRing>
	      </outerBoundaryIs>
	    </Polygon>
	  </Placemark>
	</kml>`

	_, err := Parse(strings.NewReader(doc))
	var parseErr *model.GeometryParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParse_不正なXMLは致命的エラー(t *testing.T) {
	_, err := Parse(strings.NewReader("<kml><Placemark>"))
	var parseErr *model.GeometryParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParse_名前空間が異なる文書はポリゴン0件(t *testing.T) {
	doc := `<kml xmlns="http://example.com/other">
	  <Placemark>
	    <Polygon>
	      <outerBoundaryIs>
	        <LinearRing><coordinates>0,0 1,0 1,1</coordinates></LinearRing>
	      </outerBoundaryIs>
	    </Polygon>
	  </Placemark>
	</kml>`

	polygons, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Empty(t, polygons)
}

func TestParse_空の穴リングは保持しない(t *testing.T) {
	doc := `<kml xmlns="http://www.opengis.net/kml/2.2">
	  <Placemark>
	    <Polygon>
	      <outerBoundaryIs>
	        <LinearRing><coordinates>0,0 1,0 1,1 0,1</coordinates></LinearRing>
	      </outerBoundaryIs>
	      <innerBoundaryIs>
	        <LinearRing><coordinates></coordinates></LinearRing>
	      </innerBoundaryIs>
	    </Polygon>
	  </Placemark>
	</kml>`

	polygons, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, polygons, 1)
	assert.Empty(t, polygons[0].Holes)
}
