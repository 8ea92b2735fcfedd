package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teamgen/config"
	"github.com/kilianp07/teamgen/pkg/export"
)

const playersCSV = `fName,lName,gender,rating,attending,team,positions
Alex,Lee,M,5,y,,mid
Bo,Kim,F,5,y,A,gk
Cy,Ng,M,5,y,,df
Di,Ray,F,5,y,,
Ed,Fox,M,5,n,,
Fi,Oak,F,5,y,B,gk
bad,row
`

type fixture struct {
	dir    string
	cfg    string
	roster string
	prefs  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	f := fixture{
		dir:    dir,
		cfg:    filepath.Join(dir, "teamgen.yaml"),
		roster: filepath.Join(dir, "players.csv"),
		prefs:  filepath.Join(dir, "preferences.json"),
	}
	require.NoError(t, os.WriteFile(f.roster, []byte(playersCSV), 0o600))
	yaml := fmt.Sprintf(`roster:
  source: %q
history:
  backend: jsonl
  path: %q
preferences:
  path: %q
display:
  team_a_name: Reds
  team_b_name: Blues
`, f.roster, filepath.Join(dir, "history.jsonl"), f.prefs)
	require.NoError(t, os.WriteFile(f.cfg, []byte(yaml), 0o600))
	return f
}

func (f fixture) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--config", f.cfg}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestGenerateTable(t *testing.T) {
	f := newFixture(t)
	out, errOut, err := f.run(t, "generate", "--seed", "7", "--min", "gk=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reds")
	assert.Contains(t, out, "Blues")
	assert.Contains(t, out, "Bo Kim")
	assert.Contains(t, errOut, "skipped line 8")
}

func TestGenerateExportJSON(t *testing.T) {
	f := newFixture(t)
	dest := filepath.Join(f.dir, "teams.json")
	_, _, err := f.run(t, "generate", "--seed", "7", "--min", "gk=1", "--export", "json", "-o", dest, "--color-a", "#ff0000")
	require.NoError(t, err)

	b, err := os.ReadFile(dest)
	require.NoError(t, err)
	var teams export.Teams
	require.NoError(t, json.Unmarshal(b, &teams))
	assert.Equal(t, "Reds", teams.A.Name)
	assert.Equal(t, "#ff0000", teams.A.Color)
	assert.NotEmpty(t, teams.ID)

	names := func(tm export.Team) []string {
		out := make([]string, len(tm.Players))
		for i, p := range tm.Players {
			out[i] = p.Name
		}
		return out
	}
	assert.Contains(t, names(teams.A), "Bo Kim")
	assert.Contains(t, names(teams.B), "Fi Oak")
	assert.Len(t, teams.A.Players, 3)
	assert.Len(t, teams.B.Players, 3)
}

func TestGenerateRemember(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run(t, "generate", "--seed", "1", "--delta", "2.5", "--color-b", "rgb(0, 0, 255)", "--remember")
	require.NoError(t, err)

	prefs, err := config.OpenPreferences(f.prefs)
	require.NoError(t, err)
	var delta float64
	ok, err := prefs.Get(config.PrefMaxRatingDelta, &delta)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2.5, delta)

	var color string
	_, err = prefs.Get(config.PrefColorB, &color)
	require.NoError(t, err)
	assert.Equal(t, "rgb(0, 0, 255)", color)
}

func TestGenerateErrors(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.run(t, "generate", "--min", "gk=2")
	assert.ErrorContains(t, err, "gk")

	_, _, err = f.run(t, "generate", "--delta", "0")
	assert.ErrorContains(t, err, "max rating delta of 0")

	_, _, err = f.run(t, "generate", "--export", "xml")
	assert.Error(t, err)

	_, _, err = f.run(t, "generate", "--source", filepath.Join(f.dir, "missing.csv"))
	assert.Error(t, err)
}

func TestRosterCommand(t *testing.T) {
	f := newFixture(t)
	out, errOut, err := f.run(t, "roster")
	require.NoError(t, err)
	assert.Contains(t, out, "Fi Oak")
	assert.Contains(t, out, "5 attending, 1 absent, 1 skipped")
	assert.Contains(t, errOut, `"bad,row"`)
}

func TestHistoryCommand(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, _, err := f.run(t, "generate", "--seed", "3")
		require.NoError(t, err)
	}
	_, _, err := f.run(t, "generate", "--min", "gk=2")
	require.Error(t, err)

	out, _, err := f.run(t, "history", "--limit", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "OUTCOME")

	out, _, err = f.run(t, "history", "--json", "--outcome", "accepted", "--player", "Bo Kim")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	var cfg *config.Config
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err = loadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}
