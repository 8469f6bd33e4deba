package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/jask/chargemap/internal/station"
)

const brandColor = "#1DB954"

// Donut geometry: outer radius in percent of the chart, hole as a share of it.
const (
	donutOuter = 75
	donutHole  = 0.4
)

// WriteHTML renders an interactive page with the city bar chart, the charge
// type donut, the station type breakdown and a scatter map of the stations.
func WriteHTML(w io.Writer, title string, stations []station.Station) error {
	page := components.NewPage()
	page.PageTitle = title

	if len(stations) == 0 {
		page.AddCharts(emptyChart(title, "No records match the selected filters."))
		return page.Render(w)
	}

	page.AddCharts(
		cityBar(stations),
		chargeDonut(stations),
		typeBar(stations),
	)
	if len(station.Mappable(stations)) > 0 {
		page.AddCharts(stationScatter(stations))
	} else {
		page.AddCharts(emptyChart("Map", "No valid coordinates to show on the map."))
	}
	return page.Render(w)
}

func emptyChart(title, msg string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: title, Subtitle: msg}))
	return bar
}

func cityBar(stations []station.Station) *charts.Bar {
	counts := station.CountBy(stations, station.City)
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		labels[i] = c.Value
		data[i] = opts.BarData{Name: c.Value, Value: c.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Stations by city"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Name: "City"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stations"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Stations", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: brandColor})).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: true, Position: "top"}))
	return bar
}

func chargeDonut(stations []station.Station) *charts.Pie {
	counts := station.CountBy(stations, station.ChargeType)
	data := make([]opts.PieData, len(counts))
	for i, c := range counts {
		data[i] = opts.PieData{Name: c.Value, Value: c.Count}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Charge types"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}: {c} ({d}%)"}),
		charts.WithLegendOpts(opts.Legend{Show: true, Top: "bottom"}),
	)
	pie.AddSeries("Charge type", data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: []string{fmt.Sprintf("%.0f%%", donutOuter*donutHole), fmt.Sprintf("%d%%", donutOuter)}}),
			charts.WithLabelOpts(opts.Label{Show: true, Formatter: "{b}: {d}%"}),
		)
	return pie
}

func typeBar(stations []station.Station) *charts.Bar {
	counts := station.CountBy(stations, station.StationType)
	station.SortByCount(counts)
	// horizontal bars draw bottom-up; reverse so the largest is on top
	labels := make([]string, len(counts))
	data := make([]opts.BarData, len(counts))
	for i, c := range counts {
		j := len(counts) - 1 - i
		labels[j] = c.Value
		data[j] = opts.BarData{Name: c.Value, Value: c.Count}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Station types"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	bar.SetXAxis(labels).
		AddSeries("Stations", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: "#89b4fa"})).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: true, Position: "right"}))
	bar.XYReversal()
	return bar
}

func stationScatter(stations []station.Station) *charts.Scatter {
	mappable := station.Mappable(stations)
	data := make([]opts.ScatterData, len(mappable))
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLon, maxLon := math.Inf(1), math.Inf(-1)
	for i, s := range mappable {
		lat, lon := s.Latitude.Value, s.Longitude.Value
		minLat, maxLat = math.Min(minLat, lat), math.Max(maxLat, lat)
		minLon, maxLon = math.Min(minLon, lon), math.Max(maxLon, lon)
		data[i] = opts.ScatterData{
			Name:       hoverText(s),
			Value:      []float64{lon, lat},
			SymbolSize: 12,
		}
	}
	padLat := math.Max((maxLat-minLat)*0.1, 0.01)
	padLon := math.Max((maxLon-minLon)*0.1, 0.01)

	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Station map", Subtitle: fmt.Sprintf("%d stations with coordinates", len(mappable))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Formatter: "{b}"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude", Type: "value", Min: minLon - padLon, Max: maxLon + padLon}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude", Type: "value", Min: minLat - padLat, Max: maxLat + padLat}),
	)
	sc.AddSeries("Stations", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: brandColor}))
	return sc
}

// hoverText is the tooltip for a station marker.
func hoverText(s station.Station) string {
	parts := []string{s.Name, s.City, s.StationType, s.Address}
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "<br/>")
}
