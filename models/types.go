// File: /models/types.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringSlice is a custom type for handling JSON arrays of strings in database
type StringSlice []string

// Value implements driver.Valuer interface for database storage
func (ss StringSlice) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}

// Scan implements sql.Scanner interface for database retrieval
func (ss *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSlice", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSlice) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler interface
func (ss StringSlice) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}

// UnmarshalJSON implements json.Unmarshaler interface
func (ss *StringSlice) UnmarshalJSON(data []byte) error {
	var slice []string
	if err := json.Unmarshal(data, &slice); err != nil {
		return err
	}
	*ss = StringSlice(slice)
	return nil
}

// Coordinate is a [longitude, latitude] pair. Longitude-first matches the
// storage convention used for path geometry.
type Coordinate [2]float64

// Lng returns the longitude component
func (c Coordinate) Lng() float64 { return c[0] }

// Lat returns the latitude component
func (c Coordinate) Lat() float64 { return c[1] }

// CoordPath is an ordered path of coordinates stored as a JSON column
type CoordPath []Coordinate

// Value implements driver.Valuer interface for database storage
func (cp CoordPath) Value() (driver.Value, error) {
	if cp == nil {
		return nil, nil
	}
	return json.Marshal(cp)
}

// Scan implements sql.Scanner interface for database retrieval
func (cp *CoordPath) Scan(value interface{}) error {
	if value == nil {
		*cp = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, cp)
	case string:
		return json.Unmarshal([]byte(v), cp)
	default:
		return fmt.Errorf("cannot scan %T into CoordPath", value)
	}
}

// GormDataType returns the data type for GORM
func (CoordPath) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler interface
func (cp CoordPath) MarshalJSON() ([]byte, error) {
	if cp == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Coordinate(cp))
}

// TrackPoint is one raw GPS sample retained for replay/analysis
type TrackPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Altitude  *float64  `json:"altitude,omitempty"`
	Speed     *float64  `json:"speed,omitempty"`
	HeartRate *int      `json:"heart_rate,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// TrackPointList is an ordered location history stored as a JSON column
type TrackPointList []TrackPoint

// Value implements driver.Valuer interface for database storage
func (tl TrackPointList) Value() (driver.Value, error) {
	if tl == nil {
		return nil, nil
	}
	return json.Marshal(tl)
}

// Scan implements sql.Scanner interface for database retrieval
func (tl *TrackPointList) Scan(value interface{}) error {
	if value == nil {
		*tl = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, tl)
	case string:
		return json.Unmarshal([]byte(v), tl)
	default:
		return fmt.Errorf("cannot scan %T into TrackPointList", value)
	}
}

// GormDataType returns the data type for GORM
func (TrackPointList) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler interface
func (tl TrackPointList) MarshalJSON() ([]byte, error) {
	if tl == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]TrackPoint(tl))
}
