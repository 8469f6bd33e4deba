package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// newEnv points HOME at a temp dir and copies the stations fixture into it.
// It returns the path of the copy.
func newEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("CHARGEMAP_CONFIG", "")

	raw, err := os.ReadFile(filepath.Join("..", "..", "internal", "station", "testdata", "stations.csv"))
	require.NoError(t, err)
	data := filepath.Join(home, "estaciones.csv")
	require.NoError(t, os.WriteFile(data, raw, 0o644))
	return data
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()
	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	require.Equal(t, code, ece.ExitCode())
}

func TestGlobalFlags(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"config", "data", "layout", "db", "verbose", "quiet", "no-color"} {
		require.NotNil(t, root.PersistentFlags().Lookup(name), name)
	}
	require.Equal(t, "verbose", root.PersistentFlags().ShorthandLookup("v").Name)
	require.Equal(t, "quiet", root.PersistentFlags().ShorthandLookup("q").Name)

	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	require.Subset(t, names, []string{"dash", "list", "summary", "report", "preset", "config", "sample"})
}

func TestListFiltersCaseInsensitively(t *testing.T) {
	data := newEnv(t)
	out, _, err := run(t, "--data", data, "list", "--city", "medellín", "--charge", "dc")
	require.NoError(t, err)
	require.Contains(t, out, "EDS Centro")
	require.NotContains(t, out, "EDS Envigado")
	require.NotContains(t, out, "EDS Los Colores")
	require.Contains(t, out, "Records found: 1")
}

func TestListWithoutFiltersShowsEveryRow(t *testing.T) {
	data := newEnv(t)
	out, stderr, err := run(t, "--data", data, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Records found: 6")
	require.Contains(t, out, "Tipo de estacion")
	require.Contains(t, stderr, "skipped malformed lines")
}

func TestListUnknownValueSuggests(t *testing.T) {
	data := newEnv(t)
	_, _, err := run(t, "--data", data, "list", "--city", "Medelin")
	requireExitCode(t, err, ExitInvalidArgs)
	require.Contains(t, err.Error(), `did you mean "Medellín"`)
}

func TestMissingDataFileIsDataError(t *testing.T) {
	newEnv(t)
	missing := filepath.Join(t.TempDir(), "nope.csv")

	_, _, err := run(t, "--data", missing, "list")
	requireExitCode(t, err, ExitDataError)

	// the dashboard checks the data before taking over the terminal
	_, _, err = run(t, "--data", missing)
	requireExitCode(t, err, ExitDataError)
}

func TestUnknownLayoutIsInvalidArgs(t *testing.T) {
	data := newEnv(t)
	_, _, err := run(t, "--data", data, "--layout", "opendata", "list")
	requireExitCode(t, err, ExitInvalidArgs)
	require.Contains(t, err.Error(), `unknown layout "opendata"`)
}

func TestSummaryText(t *testing.T) {
	data := newEnv(t)
	out, _, err := run(t, "--data", data, "summary", "--type", "gas")
	require.NoError(t, err)
	require.Contains(t, out, "loaded:   6 (1 skipped)")
	require.Contains(t, out, "matched:  1")
	require.Contains(t, out, "GNV")
}

func TestSummaryYAML(t *testing.T) {
	data := newEnv(t)
	out, _, err := run(t, "--data", data, "summary", "--format", "yaml")
	require.NoError(t, err)
	require.Contains(t, out, "matched: 6")
	require.Contains(t, out, "mappable: 4")
	require.Contains(t, out, "station_types:")
}

func TestSummaryRejectsUnknownFormat(t *testing.T) {
	data := newEnv(t)
	_, _, err := run(t, "--data", data, "summary", "--format", "json")
	requireExitCode(t, err, ExitInvalidArgs)
}

func TestReportWritesHTMLAndPNG(t *testing.T) {
	data := newEnv(t)
	dir := t.TempDir()
	html := filepath.Join(dir, "out", "estaciones.html")
	pngDir := filepath.Join(dir, "png")

	out, _, err := run(t, "--data", data, "report", "--out", html, "--png", pngDir)
	require.NoError(t, err)
	require.Contains(t, out, "wrote "+html)

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	require.Contains(t, string(page), "Dashboard de Estaciones de Carga EPM")

	for _, name := range []string{"cities.png", "charge_types.png"} {
		raw, err := os.ReadFile(filepath.Join(pngDir, name))
		require.NoError(t, err, name)
		require.True(t, bytes.HasPrefix(raw, []byte("\x89PNG")), name)
	}
}

func TestReportSkipsPNGForEmptySelection(t *testing.T) {
	data := newEnv(t)
	dir := t.TempDir()
	pngDir := filepath.Join(dir, "png")

	_, _, err := run(t, "--data", data, "report", "--city", "Bello", "--charge", "AC",
		"--out", filepath.Join(dir, "r.html"), "--png", pngDir)
	require.NoError(t, err)

	entries, err := os.ReadDir(pngDir)
	require.NoError(t, err)
	require.Empty(t, entries)

	page, err := os.ReadFile(filepath.Join(dir, "r.html"))
	require.NoError(t, err)
	require.Contains(t, string(page), "No records match the selected filters.")
}

func TestReportToStdout(t *testing.T) {
	data := newEnv(t)
	out, _, err := run(t, "--data", data, "report", "--out", "-", "--title", "Estaciones")
	require.NoError(t, err)
	require.Contains(t, out, "Estaciones")
	require.NotContains(t, out, "wrote ")
}

func TestPresetLifecycle(t *testing.T) {
	data := newEnv(t)

	out, _, err := run(t, "--data", data, "preset", "save", "centro", "--city", "Medellín", "--charge", "DC")
	require.NoError(t, err)
	require.Equal(t, "saved preset \"centro\" (1 stations match)\n", out)

	out, _, err = run(t, "preset", "list")
	require.NoError(t, err)
	require.Contains(t, out, "centro")
	require.Contains(t, out, "Medellín")
	require.Contains(t, out, "(any)")

	out, _, err = run(t, "preset", "show", "CENTRO")
	require.NoError(t, err)
	require.Contains(t, out, "centro")
	require.Contains(t, out, "DC")

	out, _, err = run(t, "--data", data, "list", "--preset", "centro")
	require.NoError(t, err)
	require.Contains(t, out, "EDS Centro")
	require.Contains(t, out, "Records found: 1")

	// a flag replaces the preset's values for its dimension only
	out, _, err = run(t, "--data", data, "list", "--preset", "centro", "--charge", "AC")
	require.NoError(t, err)
	require.Contains(t, out, "EDS Los Colores")
	require.NotContains(t, out, "EDS Rionegro")
	require.Contains(t, out, "Records found: 1")

	out, _, err = run(t, "preset", "delete", "centro")
	require.NoError(t, err)
	require.Equal(t, "deleted preset \"centro\"\n", out)

	_, _, err = run(t, "preset", "delete", "centro")
	requireExitCode(t, err, ExitInvalidArgs)
	_, _, err = run(t, "--data", data, "list", "--preset", "centro")
	requireExitCode(t, err, ExitInvalidArgs)
	_, _, err = run(t, "preset", "show", "centro")
	requireExitCode(t, err, ExitInvalidArgs)
}

func TestPresetListEmpty(t *testing.T) {
	newEnv(t)
	out, _, err := run(t, "preset", "list")
	require.NoError(t, err)
	require.Equal(t, "No presets saved.\n", out)
}

func TestPresetUsesDBFlag(t *testing.T) {
	data := newEnv(t)
	db := filepath.Join(t.TempDir(), "custom", "presets.db")
	_, _, err := run(t, "--data", data, "--db", db, "preset", "save", "gas", "--type", "Gas")
	require.NoError(t, err)
	require.FileExists(t, db)

	out, _, err := run(t, "preset", "list")
	require.NoError(t, err)
	require.Equal(t, "No presets saved.\n", out)
}

func TestPresetSaveRejectsBadName(t *testing.T) {
	data := newEnv(t)
	_, _, err := run(t, "--data", data, "preset", "save", "   ")
	requireExitCode(t, err, ExitInvalidArgs)
	_, _, err = run(t, "--data", data, "preset", "save", strings.Repeat("x", 65))
	requireExitCode(t, err, ExitInvalidArgs)
}

func TestStalePresetValuesAreReported(t *testing.T) {
	data := newEnv(t)
	_, _, err := run(t, "--data", data, "preset", "save", "oriente", "--city", "Rionegro")
	require.NoError(t, err)

	other := filepath.Join(t.TempDir(), "sin_rionegro.csv")
	require.NoError(t, os.WriteFile(other, []byte(
		"Estacion;Ciudad;Tipo de estacion;Tipo de carga;Direccion;Latitud;Longitud\n"+
			"EDS Bello;Bello;Electrica;AC;Diagonal 55;6,33;-75,55\n"+
			"EDS Envigado;Envigado;Electrica;DC;Calle 40 Sur;6,1695;-75,5836\n"), 0o644))

	out, stderr, err := run(t, "--data", other, "list", "--preset", "oriente")
	require.NoError(t, err)
	require.Contains(t, stderr, "city=Rionegro no longer in the data")
	require.Contains(t, out, "Records found: 2")
}

func TestConfigInitAndShow(t *testing.T) {
	newEnv(t)
	out, _, err := run(t, "--data", "/srv/estaciones.csv", "config", "init")
	require.NoError(t, err)
	path := filepath.Join(os.Getenv("HOME"), ".config", "chargemap", "config.toml")
	require.Equal(t, "wrote "+path+"\n", out)

	_, _, err = run(t, "config", "init")
	requireExitCode(t, err, ExitInvalidArgs)

	out, _, err = run(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "data:\n  path: /srv/estaciones.csv\n  layout: epm\n")
	require.Contains(t, out, "map_zoom: 10")

	_, _, err = run(t, "--layout", "otro", "config", "init", "--force")
	require.NoError(t, err)
	out, _, err = run(t, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "layout: otro")
}

func TestRememberStoresDataPath(t *testing.T) {
	data := newEnv(t)
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	o := &options{configPath: filepath.Join(t.TempDir(), "config.toml")}
	cmd := newRootCmd()
	cmd.SetErr(new(bytes.Buffer))
	require.NoError(t, o.load(cmd))
	o.cfg.Data.Path = data

	require.NoError(t, remember(o))

	o2 := &options{configPath: o.configPath}
	require.NoError(t, o2.load(cmd))
	require.Equal(t, data, o2.cfg.Data.Path)
	require.Equal(t, "epm", o2.cfg.Data.Layout)
}

func TestSampleFeedsList(t *testing.T) {
	newEnv(t)
	demo := filepath.Join(t.TempDir(), "demo.csv")
	out, _, err := run(t, "sample", "--out", demo, "--rows", "40", "--seed", "9")
	require.NoError(t, err)
	require.Equal(t, "wrote 40 stations to "+demo+"\n", out)

	out, _, err = run(t, "--data", demo, "list")
	require.NoError(t, err)
	require.Contains(t, out, "Records found: 40")

	_, _, err = run(t, "sample", "--rows", "-3")
	requireExitCode(t, err, ExitInvalidArgs)
}
