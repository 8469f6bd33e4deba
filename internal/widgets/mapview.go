package widgets

import (
	"fmt"
	"math"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/chargemap/internal/station"
)

// Viewport maps coordinates to terminal cells around a center point.
type Viewport struct {
	CenterLat, CenterLon float64
	LonPerCol, LatPerRow float64
	Width, Height        int
}

// FitZoom is the zoom level at which every station is guaranteed on screen.
const FitZoom = 10

// NewViewport centers on the mean of the given mappable stations. At FitZoom
// the scale is the tile scale (degrees of longitude across the whole width
// halve per level) widened until every station fits with a margin. Each level
// above FitZoom halves that scale and each level below doubles it; stations
// pushed off screen are clipped by Project.
// It returns false when no station has valid coordinates.
func NewViewport(stations []station.Station, width, height, zoom int) (Viewport, bool) {
	lat, lon, ok := station.Center(stations)
	if !ok || width < 1 || height < 1 {
		return Viewport{}, false
	}
	cos := math.Cos(lat * math.Pi / 180)
	if cos < 0.05 {
		cos = 0.05
	}

	base := 360 / math.Pow(2, FitZoom) / float64(width)
	var dLat, dLon float64
	for _, s := range stations {
		if !s.Mappable() {
			continue
		}
		dLat = math.Max(dLat, math.Abs(s.Latitude.Value-lat))
		dLon = math.Max(dLon, math.Abs(s.Longitude.Value-lon))
	}
	if width > 1 {
		base = math.Max(base, 2*dLon/float64(width-1)*1.1)
	}
	if height > 1 {
		// a row spans twice a column's ground distance
		base = math.Max(base, dLat/(float64(height-1)*cos)*1.1)
	}
	perCol := base / math.Pow(2, float64(zoom-FitZoom))
	return Viewport{
		CenterLat: lat,
		CenterLon: lon,
		LonPerCol: perCol,
		LatPerRow: 2 * perCol * cos,
		Width:     width,
		Height:    height,
	}, true
}

// Project returns the cell for a coordinate and whether it is on screen.
func (v Viewport) Project(lat, lon float64) (x, y int, ok bool) {
	cx := float64(v.Width-1) / 2
	cy := float64(v.Height-1) / 2
	x = int(math.Round(cx + (lon-v.CenterLon)/v.LonPerCol))
	y = int(math.Round(cy - (lat-v.CenterLat)/v.LatPerRow))
	ok = x >= 0 && x < v.Width && y >= 0 && y < v.Height
	return x, y, ok
}

var (
	markerStyle   = lipgloss.NewStyle().Foreground(ColorBrand)
	selectedStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)
	crossStyle    = lipgloss.NewStyle().Foreground(colorSurface1)
)

// RenderMap plots every mappable station as a marker. The station at index
// selected (into stations) is highlighted; pass -1 for none.
func RenderMap(stations []station.Station, selected, width, height, zoom int) string {
	vp, ok := NewViewport(stations, width, height, zoom)
	if !ok {
		return mutedStyle.Render("No valid coordinates to show on the map.")
	}
	c := canvas.New(width, height)

	cx, cy, _ := vp.Project(vp.CenterLat, vp.CenterLon)
	c.SetCell(canvas.Point{X: cx, Y: cy}, canvas.Cell{Rune: '+', Style: crossStyle})

	for i, s := range stations {
		if !s.Mappable() || i == selected {
			continue
		}
		if x, y, ok := vp.Project(s.Latitude.Value, s.Longitude.Value); ok {
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.Cell{Rune: '●', Style: markerStyle})
		}
	}
	if selected >= 0 && selected < len(stations) && stations[selected].Mappable() {
		s := stations[selected]
		if x, y, ok := vp.Project(s.Latitude.Value, s.Longitude.Value); ok {
			c.SetCell(canvas.Point{X: x, Y: y}, canvas.Cell{Rune: '◉', Style: selectedStyle})
		}
	}
	return c.View()
}

// RenderStationCard shows the details a marker hover would reveal.
func RenderStationCard(s station.Station, width int) string {
	rows := [][2]string{
		{"Station", s.Name},
		{"City", s.City},
		{"Type", s.StationType},
		{"Address", s.Address},
		{"Coords", fmt.Sprintf("%s, %s", s.Latitude, s.Longitude)},
	}
	var lines []string
	for _, r := range rows {
		line := mutedStyle.Render(fmt.Sprintf("%-8s", r[0])) + " " + truncate(r[1], width-9)
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
