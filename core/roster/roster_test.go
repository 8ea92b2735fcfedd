package roster

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/teamgen/core/model"
)

func TestParseRow(t *testing.T) {
	p, attending, err := ParseRow("Alex,Lee,M,6.0,y,,mid")
	require.NoError(t, err)
	require.True(t, attending)
	assert.Equal(t, model.Player{Name: "Alex Lee", Rating: 6.0, Positions: []string{"mid"}}, p)

	_, attending, err = ParseRow("Sam,Ng,F,8.0,n")
	require.NoError(t, err)
	assert.False(t, attending)

	p, attending, err = ParseRow("Jane,Doe,F,7.5,y,A,GK/df")
	require.NoError(t, err)
	require.True(t, attending)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.True(t, p.Female)
	require.NotNil(t, p.FixedSide)
	assert.Equal(t, model.SideA, *p.FixedSide)
	assert.Equal(t, []string{"gk", "df"}, p.Positions)
}

func TestParseRowSideTokens(t *testing.T) {
	cases := map[string]*model.Side{"A": model.SideFromToken("A"), "B": model.SideFromToken("B"), "C": nil, "": nil, "a": nil}
	for tok, want := range cases {
		p, _, err := ParseRow("Kim,Park,M,5," + "y," + tok)
		require.NoError(t, err, tok)
		assert.Equal(t, want, p.FixedSide, tok)
	}
}

func TestParseRowErrors(t *testing.T) {
	for _, line := range []string{
		"Kim,Park,M,5",
		"Kim,Park,M,five,y",
		"Kim,Park,M,NaN,y",
		",,M,5,y",
	} {
		_, _, err := ParseRow(line)
		assert.Error(t, err, line)
	}
}

func TestParseSkipsHeaderAndReportsBadRows(t *testing.T) {
	input := strings.Join([]string{
		"Session roster,,,,",
		"fName,lName,gender,rating,attending,team,positions",
		"Alex,Lee,M,6.0,y,,mid",
		"Sam,Ng,F,8.0,n",
		"Broken,Row,M,abc,y",
		"",
		",,,,,,",
		"\"Mary, Jr\",Ann,F,7,y,B,fw",
		"Short,Row",
	}, "\n")
	r, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	require.Len(t, r.Players, 2)
	assert.Equal(t, "Alex Lee", r.Players[0].Name)
	assert.Equal(t, "Mary, Jr Ann", r.Players[1].Name)
	assert.Equal(t, 1, r.Absent)

	require.Len(t, r.Skipped, 2)
	assert.Equal(t, 5, r.Skipped[0].Line)
	assert.Equal(t, "Broken,Row,M,abc,y", r.Skipped[0].Raw)
	assert.True(t, errors.Is(r.Skipped[0], ErrMalformedRow))
	assert.Equal(t, 9, r.Skipped[1].Line)

	b, err := json.Marshal(r.Skipped[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"line":5,"raw":"Broken,Row,M,abc,y","error":"invalid rating \"abc\""}`, string(b))
}

func TestParseWithoutHeader(t *testing.T) {
	r, err := Parse(strings.NewReader("Alex,Lee,M,6.0,y\r\nKim,Park,F,5.5,y,B\r\n"))
	require.NoError(t, err)
	require.Len(t, r.Players, 2)
	assert.Equal(t, 5.5, r.Players[1].Rating)
	assert.Empty(t, r.Skipped)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roster.csv")
	require.NoError(t, os.WriteFile(path, []byte("fName,lName\nAlex,Lee,M,6.0,y\n"), 0o644))
	r, err := ParseFile(path)
	require.NoError(t, err)
	assert.Len(t, r.Players, 1)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
