// Package commute turns two map points and a weekly frequency into the
// commute distances that feed a carbon calculation.
package commute

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// EarthRadiusKM is the mean Earth radius used for great-circle distances.
const EarthRadiusKM = 6371.0

var (
	// ErrInvalidPoint is returned when a coordinate is outside its valid range.
	ErrInvalidPoint = errors.New("invalid point")

	validate = validator.New()
)

// GeoPoint is a latitude/longitude pair in decimal degrees.
type GeoPoint struct {
	Latitude  float64 `json:"lat" yaml:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lng" yaml:"lng" validate:"gte=-180,lte=180"`
}

func (p GeoPoint) String() string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

// Validate checks that latitude is within [-90,90] and longitude within [-180,180].
func Validate(p GeoPoint) error {
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s %v out of range", strings.ToLower(fe.Field()), fe.Value()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidPoint, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return nil
}

// ParsePoint parses "lat,lng" into a validated GeoPoint.
func ParsePoint(s string) (GeoPoint, error) {
	latStr, lngStr, ok := strings.Cut(s, ",")
	if !ok {
		return GeoPoint{}, fmt.Errorf("%w: expected \"lat,lng\", got %q", ErrInvalidPoint, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: latitude: %v", ErrInvalidPoint, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: longitude: %v", ErrInvalidPoint, err)
	}

	p := GeoPoint{Latitude: lat, Longitude: lng}
	if err := Validate(p); err != nil {
		return GeoPoint{}, err
	}
	return p, nil
}

// Haversine returns the great-circle distance in kilometres between two points.
//
//	a = sin²(Δφ/2) + cos φ1 ⋅ cos φ2 ⋅ sin²(Δλ/2)
//	c = 2 ⋅ atan2(√a, √(1−a))
//	d = R ⋅ c
func Haversine(start, end GeoPoint) float64 {
	lat1 := degreesToRadians(start.Latitude)
	lat2 := degreesToRadians(end.Latitude)
	deltaLat := degreesToRadians(end.Latitude - start.Latitude)
	deltaLon := degreesToRadians(end.Longitude - start.Longitude)

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// rounding can push a fractionally past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// Distance returns the one-way distance between start and end rounded to
// the nearest kilometre.
func Distance(start, end GeoPoint) int {
	return int(math.Round(Haversine(start, end)))
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
