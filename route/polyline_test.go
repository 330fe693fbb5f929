package route

import (
	"errors"
	"math"
	"testing"
)

// Reference polyline and coordinates from the polyline encoding
// documentation.
const referenceEncoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

var referencePoints = []Point{
	{Lat: 38.5, Lng: -120.2},
	{Lat: 40.7, Lng: -120.95},
	{Lat: 43.252, Lng: -126.453},
}

func TestDecodePolyline_Reference(t *testing.T) {
	pts, err := DecodePolyline(referenceEncoded)
	if err != nil {
		t.Fatalf("DecodePolyline: %v", err)
	}
	if len(pts) != len(referencePoints) {
		t.Fatalf("decoded %d points, want %d", len(pts), len(referencePoints))
	}
	for i, want := range referencePoints {
		if math.Abs(pts[i].Lat-want.Lat) > 1e-5 || math.Abs(pts[i].Lng-want.Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, pts[i], want)
		}
	}
}

func TestEncodePolyline_Reference(t *testing.T) {
	if got := EncodePolyline(referencePoints); got != referenceEncoded {
		t.Errorf("EncodePolyline = %q, want %q", got, referenceEncoded)
	}
}

func TestPolyline_RoundTrip(t *testing.T) {
	pts := []Point{
		{Lat: 42.69751, Lng: 23.32415},
		{Lat: 42.69803, Lng: 23.32177},
		{Lat: 42.70021, Lng: 23.31954},
		{Lat: 42.70019, Lng: 23.31955}, // tiny negative deltas
	}
	decoded, err := DecodePolyline(EncodePolyline(pts))
	if err != nil {
		t.Fatalf("round trip decode: %v", err)
	}
	if len(decoded) != len(pts) {
		t.Fatalf("round trip returned %d points, want %d", len(decoded), len(pts))
	}
	for i := range pts {
		if math.Abs(decoded[i].Lat-pts[i].Lat) > 1e-5 || math.Abs(decoded[i].Lng-pts[i].Lng) > 1e-5 {
			t.Errorf("point %d = %+v, want %+v", i, decoded[i], pts[i])
		}
	}
}

func TestDecodePolyline_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"truncated continuation", "_p~iF~ps|U_"},
		{"byte below alphabet", "_p~iF\x1fps|U"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodePolyline(tt.encoded); !errors.Is(err, ErrMalformedPolyline) {
				t.Errorf("expected ErrMalformedPolyline, got %v", err)
			}
		})
	}
}

func TestDecodePolyline_Empty(t *testing.T) {
	pts, err := DecodePolyline("")
	if err != nil {
		t.Fatalf("DecodePolyline(\"\"): %v", err)
	}
	if len(pts) != 0 {
		t.Errorf("expected no points, got %d", len(pts))
	}
}
