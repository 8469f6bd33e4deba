package station

// Filters holds one value list per dimension. An empty list means no
// restriction on that dimension.
type Filters struct {
	Cities       []string `yaml:"cities,omitempty"`
	StationTypes []string `yaml:"station_types,omitempty"`
	ChargeTypes  []string `yaml:"charge_types,omitempty"`
}

// Values returns the filter set for d.
func (f Filters) Values(d Dimension) []string {
	switch d {
	case City:
		return f.Cities
	case StationType:
		return f.StationTypes
	case ChargeType:
		return f.ChargeTypes
	}
	return nil
}

// Set replaces the filter set for d.
func (f *Filters) Set(d Dimension, values []string) {
	switch d {
	case City:
		f.Cities = values
	case StationType:
		f.StationTypes = values
	case ChargeType:
		f.ChargeTypes = values
	}
}

// IsZero reports whether no dimension is restricted.
func (f Filters) IsZero() bool {
	return len(f.Cities) == 0 && len(f.StationTypes) == 0 && len(f.ChargeTypes) == 0
}

// Apply returns the stations matching every non-empty filter set: values
// within one set are alternatives, sets across dimensions must all match.
// The input slice is not modified and input order is kept.
func Apply(stations []Station, f Filters) []Station {
	type active struct {
		dim     Dimension
		allowed map[string]struct{}
	}
	var checks []active
	for _, d := range Dimensions {
		values := f.Values(d)
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		checks = append(checks, active{dim: d, allowed: set})
	}

	out := make([]Station, 0, len(stations))
	for _, s := range stations {
		keep := true
		for _, c := range checks {
			v := c.dim.Value(s)
			if v == "" {
				keep = false
				break
			}
			if _, ok := c.allowed[v]; !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, s)
		}
	}
	return out
}
