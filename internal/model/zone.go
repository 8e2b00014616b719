package model

import (
	"encoding/json"
	"fmt"
	"time"

	// Trips name arbitrary IANA zones; embed the database so lookups do
	// not depend on the host having zoneinfo installed.
	_ "time/tzdata"
)

// Zone is a time zone serialized by its IANA name.
type Zone struct {
	loc *time.Location
}

// NewZone wraps an existing location.
func NewZone(loc *time.Location) Zone {
	return Zone{loc: loc}
}

// LoadZone resolves an IANA name such as "Asia/Tokyo".
func LoadZone(name string) (Zone, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, fmt.Errorf("loading time zone %q: %w", name, err)
	}
	return Zone{loc: loc}, nil
}

// ZoneOrLocal resolves name, falling back to the local zone when the name
// is empty or unknown.
func ZoneOrLocal(name string) Zone {
	if name == "" {
		return LocalZone()
	}
	z, err := LoadZone(name)
	if err != nil {
		return LocalZone()
	}
	return z
}

// LocalZone returns the process-local time zone.
func LocalZone() Zone {
	return Zone{loc: time.Local}
}

// Location returns the wrapped location, or nil for the zero Zone.
func (z Zone) Location() *time.Location {
	return z.loc
}

// Name returns the IANA name, or "" for the zero Zone.
func (z Zone) Name() string {
	if z.loc == nil {
		return ""
	}
	return z.loc.String()
}

// Equal reports whether both zones have the same name.
func (z Zone) Equal(other Zone) bool {
	return z.Name() == other.Name()
}

// In converts t to this zone. The zero Zone leaves t unchanged.
func (z Zone) In(t time.Time) time.Time {
	if z.loc == nil {
		return t
	}
	return t.In(z.loc)
}

func (z Zone) String() string {
	return z.Name()
}

// MarshalJSON encodes the zone as its name.
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.Name())
}

// UnmarshalJSON decodes a zone name. Unknown names are an error.
func (z *Zone) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("decoding time zone: %w", err)
	}
	if name == "" {
		z.loc = nil
		return nil
	}
	loaded, err := LoadZone(name)
	if err != nil {
		return err
	}
	*z = loaded
	return nil
}
