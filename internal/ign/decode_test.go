package ign

import (
	"errors"
	"testing"
)

const buildingsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "batiment.1",
      "geometry": {"type": "Polygon", "coordinates": [[[2.35,48.85],[2.351,48.85],[2.351,48.851],[2.35,48.851],[2.35,48.85]]]},
      "properties": {"hauteur": 12.5, "nombre_d_etages": 4, "code_insee": "75104"}
    },
    {
      "type": "Feature",
      "id": "batiment.2",
      "geometry": {"type": "Polygon", "coordinates": [[[2.36,48.85],[2.361,48.85],[2.361,48.851],[2.36,48.851],[2.36,48.85]]]},
      "properties": {"hauteur": "7.2", "hauteur_2": "8.0", "code_insee": "75104"}
    },
    {
      "type": "Feature",
      "id": "batiment.3",
      "geometry": {"type": "Polygon", "coordinates": [[[2.37,48.85],[2.371,48.85],[2.371,48.851],[2.37,48.851],[2.37,48.85]]]},
      "properties": {"hauteur": null, "nombre_d_etages": "", "code_insee": "75104"}
    },
    {
      "type": "Feature",
      "id": "not-a-building",
      "geometry": {"type": "Point", "coordinates": [2.35, 48.85]},
      "properties": {"hauteur": 99}
    }
  ]
}`

func TestDecodeBuildings_AttributesAndTypes(t *testing.T) {
	feats, err := DecodeBuildings([]byte(buildingsFixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(feats) != 3 {
		t.Fatalf("features=%d want 3 (point geometry skipped)", len(feats))
	}

	b1 := feats[0]
	if b1.ID != "batiment.1" || b1.Height == nil || *b1.Height != 12.5 {
		t.Fatalf("b1=%+v", b1)
	}
	if b1.Storeys == nil || *b1.Storeys != 4 {
		t.Fatalf("b1 storeys=%v want 4", b1.Storeys)
	}
	if b1.District != "75104" {
		t.Fatalf("b1 district=%q", b1.District)
	}

	// Stringified numbers decode too.
	b2 := feats[1]
	if b2.Height == nil || *b2.Height != 7.2 {
		t.Fatalf("b2 height=%v want 7.2", b2.Height)
	}
	if b2.AltHeight == nil || *b2.AltHeight != 8.0 {
		t.Fatalf("b2 alt=%v want 8.0", b2.AltHeight)
	}

	// Null and empty-string attributes stay nil, never zero.
	b3 := feats[2]
	if b3.Height != nil || b3.Storeys != nil {
		t.Fatalf("b3 should carry no height attributes: %+v", b3)
	}
}

func TestDecodeBuildings_Garbage_TypedError(t *testing.T) {
	if _, err := DecodeBuildings([]byte(`{"type":"nope"`)); !errors.Is(err, ErrNotAFeatureCollection) {
		t.Fatalf("err=%v want ErrNotAFeatureCollection", err)
	}
}

func TestDecodeLidarTiles_URLRequired(t *testing.T) {
	const fixture = `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},
	     "properties":{"name":"LHD_FXX_0650_6865","url":"https://storage.example/LHD_FXX_0650_6865.copc.laz"}},
	    {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]},
	     "properties":{"name":"no-url-yet"}}
	  ]
	}`
	tiles, err := DecodeLidarTiles([]byte(fixture))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tiles) != 1 {
		t.Fatalf("tiles=%d want 1", len(tiles))
	}
	if tiles[0].Name != "LHD_FXX_0650_6865" || tiles[0].URL == "" {
		t.Fatalf("tile=%+v", tiles[0])
	}
}
