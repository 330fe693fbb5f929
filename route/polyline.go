package route

import (
	"errors"
	"math"
	"strings"
)

// ErrMalformedPolyline is returned when an encoded polyline is truncated
// or contains bytes outside the encoding alphabet.
var ErrMalformedPolyline = errors.New("route: malformed polyline")

// Point is one decoded route vertex.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DecodePolyline decodes a precision-5 encoded polyline: each coordinate
// is a signed delta from the previous one, zigzag-encoded and split into
// 5-bit chunks offset by 63.
func DecodePolyline(encoded string) ([]Point, error) {
	var points []Point
	var lat, lng int64

	i := 0
	for i < len(encoded) {
		dLat, next, err := decodeSigned(encoded, i)
		if err != nil {
			return nil, err
		}
		dLng, next, err := decodeSigned(encoded, next)
		if err != nil {
			return nil, err
		}
		lat += dLat
		lng += dLng
		points = append(points, Point{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
		i = next
	}
	return points, nil
}

func decodeSigned(s string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(s) {
			return 0, 0, ErrMalformedPolyline
		}
		b := int64(s[i]) - 63
		if b < 0 || b > 63 {
			return 0, 0, ErrMalformedPolyline
		}
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 == 1 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// EncodePolyline is the inverse of DecodePolyline.
func EncodePolyline(points []Point) string {
	var b strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * 1e5))
		lng := int64(math.Round(p.Lng * 1e5))
		encodeSigned(lat-prevLat, &b)
		encodeSigned(lng-prevLng, &b)
		prevLat, prevLng = lat, lng
	}
	return b.String()
}

func encodeSigned(v int64, b *strings.Builder) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= 0x20 {
		b.WriteByte(byte(0x20|(u&0x1f)) + 63)
		u >>= 5
	}
	b.WriteByte(byte(u) + 63)
}
