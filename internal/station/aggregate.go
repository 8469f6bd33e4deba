package station

import (
	"sort"
	"strings"
)

// Count is the number of stations sharing one dimension value.
type Count struct {
	Value string `yaml:"value"`
	Count int    `yaml:"count"`
}

// Options returns the distinct non-empty values of d, sorted.
func Options(stations []Station, d Dimension) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range stations {
		v := d.Value(s)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// CountBy groups stations by d and returns counts sorted by value. Stations
// with an absent value are left out.
func CountBy(stations []Station, d Dimension) []Count {
	counts := make(map[string]int)
	for _, s := range stations {
		v := d.Value(s)
		if v == "" {
			continue
		}
		counts[v]++
	}
	out := make([]Count, 0, len(counts))
	for v, n := range counts {
		out = append(out, Count{Value: v, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Value < out[j].Value })
	return out
}

// SortByCount orders counts largest first, ties by value.
func SortByCount(counts []Count) {
	sort.SliceStable(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return strings.ToLower(counts[i].Value) < strings.ToLower(counts[j].Value)
	})
}

// Total sums the counts.
func Total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}

// Mappable returns the stations with both coordinates valid.
func Mappable(stations []Station) []Station {
	out := make([]Station, 0, len(stations))
	for _, s := range stations {
		if s.Mappable() {
			out = append(out, s)
		}
	}
	return out
}

// Center returns the mean latitude and longitude of the mappable stations.
func Center(stations []Station) (lat, lon float64, ok bool) {
	n := 0
	for _, s := range stations {
		if !s.Mappable() {
			continue
		}
		lat += s.Latitude.Value
		lon += s.Longitude.Value
		n++
	}
	if n == 0 {
		return 0, 0, false
	}
	return lat / float64(n), lon / float64(n), true
}
