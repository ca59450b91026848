package geo

import (
	"errors"
	"math"
	"strings"

	"campusnav/internal/types"
)

// Encoded polyline format: coordinates are scaled to 1e5 fixed point, each
// value is stored as a zig-zag encoded delta from the previous point and
// emitted as 5-bit chunks (low bits first) offset by ASCII 63. Every chunk
// except the last carries the 0x20 continuation bit.
const (
	polylinePrecision = 1e5
	polylineOffset    = 63
	polylineChunkMask = 0x1f
	polylineContinue  = 0x20
)

var ErrMalformedPolyline = errors.New("malformed polyline")

// DecodePolyline expands an encoded polyline into its coordinate sequence.
// An empty string decodes to an empty slice.
func DecodePolyline(encoded string) ([]types.Point, error) {
	points := make([]types.Point, 0, len(encoded)/4)
	var lat, lng int64
	for i := 0; i < len(encoded); {
		dLat, next, err := decodeValue(encoded, i)
		if err != nil {
			return nil, err
		}
		dLng, next, err := decodeValue(encoded, next)
		if err != nil {
			return nil, err
		}
		i = next
		lat += dLat
		lng += dLng
		points = append(points, types.Point{
			Lat: float64(lat) / polylinePrecision,
			Lng: float64(lng) / polylinePrecision,
		})
	}
	return points, nil
}

func decodeValue(encoded string, i int) (int64, int, error) {
	var result int64
	var shift uint
	for {
		if i >= len(encoded) {
			return 0, i, ErrMalformedPolyline
		}
		b := int64(encoded[i]) - polylineOffset
		i++
		if b < 0 || b > 0x3f {
			return 0, i, ErrMalformedPolyline
		}
		if shift > 60 {
			return 0, i, ErrMalformedPolyline
		}
		result |= (b & polylineChunkMask) << shift
		shift += 5
		if b < polylineContinue {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i, nil
	}
	return result >> 1, i, nil
}

// EncodePolyline is the inverse of DecodePolyline. Coordinates are rounded to
// five decimal places.
func EncodePolyline(points []types.Point) string {
	var sb strings.Builder
	var prevLat, prevLng int64
	for _, p := range points {
		lat := int64(math.Round(p.Lat * polylinePrecision))
		lng := int64(math.Round(p.Lng * polylinePrecision))
		encodeValue(&sb, lat-prevLat)
		encodeValue(&sb, lng-prevLng)
		prevLat, prevLng = lat, lng
	}
	return sb.String()
}

func encodeValue(sb *strings.Builder, v int64) {
	u := v << 1
	if v < 0 {
		u = ^u
	}
	for u >= polylineContinue {
		sb.WriteByte(byte((polylineContinue | (u & polylineChunkMask)) + polylineOffset))
		u >>= 5
	}
	sb.WriteByte(byte(u + polylineOffset))
}
