package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/chargemap/internal/station"
)

// filterPanel is the sidebar of multi-select lists, one per dimension.
type filterPanel struct {
	focus   int
	cursor  [3]int
	options [3][]string
}

func (p *filterPanel) setOptions(stations []station.Station) {
	for i, d := range station.Dimensions {
		p.options[i] = station.Options(stations, d)
		if p.cursor[i] >= len(p.options[i]) {
			p.cursor[i] = max(len(p.options[i])-1, 0)
		}
	}
}

func (p *filterPanel) dimension() station.Dimension {
	return station.Dimensions[p.focus]
}

func (p *filterPanel) next() { p.focus = (p.focus + 1) % len(station.Dimensions) }

func (p *filterPanel) prev() {
	p.focus = (p.focus + len(station.Dimensions) - 1) % len(station.Dimensions)
}

func (p *filterPanel) move(delta int) {
	n := len(p.options[p.focus])
	if n == 0 {
		return
	}
	c := p.cursor[p.focus] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	p.cursor[p.focus] = c
}

// current returns the option under the cursor of the focused list.
func (p *filterPanel) current() (string, bool) {
	opts := p.options[p.focus]
	if len(opts) == 0 {
		return "", false
	}
	return opts[p.cursor[p.focus]], true
}

// toggle adds or removes value from the filter set of d, keeping the set in
// option order.
func toggle(f *station.Filters, d station.Dimension, value string, options []string) {
	selected := make(map[string]bool)
	for _, v := range f.Values(d) {
		selected[v] = true
	}
	selected[value] = !selected[value]
	var out []string
	for _, o := range options {
		if selected[o] {
			out = append(out, o)
		}
	}
	f.Set(d, out)
}

func isSelected(f station.Filters, d station.Dimension, value string) bool {
	for _, v := range f.Values(d) {
		if v == value {
			return true
		}
	}
	return false
}

var (
	sectionStyle        = lipgloss.NewStyle().Bold(true)
	sectionFocusedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)
	cursorStyle         = lipgloss.NewStyle().Reverse(true)
	checkedStyle        = lipgloss.NewStyle().Foreground(colorBrand)
)

// view renders the three lists in height lines, each list scrolled so its
// cursor stays visible.
func (p *filterPanel) view(f station.Filters, width, height int) string {
	per := (height - 2*len(station.Dimensions)) / len(station.Dimensions)
	if per < 1 {
		per = 1
	}
	var lines []string
	for i, d := range station.Dimensions {
		heading := fmt.Sprintf("%s (%d/%d)", d.Label(), len(f.Values(d)), len(p.options[i]))
		if i == p.focus {
			lines = append(lines, sectionFocusedStyle.Render("▸ "+heading))
		} else {
			lines = append(lines, sectionStyle.Render("  "+heading))
		}

		opts := p.options[i]
		if len(opts) == 0 {
			lines = append(lines, mutedStyle.Render("  (no values)"))
		}
		start, end := window(len(opts), p.cursor[i], per)
		for j := start; j < end; j++ {
			mark := "[ ]"
			if isSelected(f, d, opts[j]) {
				mark = checkedStyle.Render("[x]")
			}
			label := truncate(opts[j], width-6)
			if i == p.focus && j == p.cursor[i] {
				label = cursorStyle.Render(label)
			}
			lines = append(lines, "  "+mark+" "+label)
		}
		if i < len(station.Dimensions)-1 {
			lines = append(lines, "")
		}
	}
	return strings.Join(lines, "\n")
}

// window returns the [start, end) slice of n items of size at most size that
// contains cursor.
func window(n, cursor, size int) (int, int) {
	if n <= size {
		return 0, n
	}
	start := cursor - size/2
	if start < 0 {
		start = 0
	}
	if start+size > n {
		start = n - size
	}
	return start, start + size
}
