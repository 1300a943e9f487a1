package counts

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, f := range Formats {
		got, err := ParseFormat(string(f))
		require.NoError(t, err)
		assert.Equal(t, f, got)
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestReportWrite_Text(t *testing.T) {
	t.Parallel()

	r := Compare(Counts{"0x1": 5, "0x2": 3, "0x9": 1}, Counts{"0x1": 5, "0x2": 4, "0x8": 2})

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, Text, false))
	assert.Equal(t, "BB: 0x2 has different counts:\n"+
		"instr:3 vs proxy:4\n"+
		"Total different basic blocks: 1\n", buf.String())

	buf.Reset()
	require.NoError(t, r.Write(&buf, Text, true))
	assert.Contains(t, buf.String(), "BB: 0x9 only in instr (count 1)\n")
	assert.Contains(t, buf.String(), "BB: 0x8 only in proxy (count 2)\n")
	assert.Contains(t, buf.String(), "Total different basic blocks: 1\n")
}

func TestReportWrite_NoDifferences(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Compare(Counts{"0x1": 5}, Counts{"0x2": 5}).Write(&buf, Text, false))
	assert.Equal(t, "Total different basic blocks: 0\n", buf.String())
}

func TestReportWrite_JSON(t *testing.T) {
	t.Parallel()

	r := Compare(Counts{"0x1": 5, "0x2": 3}, Counts{"0x1": 5, "0x2": 4, "0x3": 1})

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, JSON, false))

	var doc reportDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Total)
	assert.Equal(t, []Mismatch{{Block: "0x2", Instr: 3, Proxy: 4}}, doc.Mismatches)
	assert.Empty(t, doc.ProxyOnly)

	buf.Reset()
	require.NoError(t, r.Write(&buf, JSON, true))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []Entry{{Block: "0x3", Count: 1}}, doc.ProxyOnly)
}

func TestReportWrite_EmptyJSONHasMismatchList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Compare(Counts{}, Counts{}).Write(&buf, JSON, false))
	assert.JSONEq(t, `{"mismatches": [], "total": 0}`, buf.String())
}

func TestReportWrite_YAML(t *testing.T) {
	t.Parallel()

	r := Compare(Counts{"a": 1}, Counts{"a": 2})

	var buf bytes.Buffer
	require.NoError(t, r.Write(&buf, YAML, false))

	var doc reportDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 1, doc.Total)
	assert.Equal(t, []Mismatch{{Block: "a", Instr: 1, Proxy: 2}}, doc.Mismatches)
}

func TestCountsWrite(t *testing.T) {
	t.Parallel()

	c := Counts{"b": 2, "a": 1}

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, Text))
	assert.Equal(t, "a 1\nb 2\n", buf.String())

	buf.Reset()
	require.NoError(t, c.Write(&buf, JSON))
	assert.JSONEq(t, `{"a": 1, "b": 2}`, buf.String())

	buf.Reset()
	require.NoError(t, c.Write(&buf, YAML))
	assert.Equal(t, "a: 1\nb: 2\n", buf.String())
}
