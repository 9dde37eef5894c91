package traits

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/trait-trainer/internal/model"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestLoad_SingleType(t *testing.T) {
	m, err := ParseMapping([]byte(`{"Background": ["Red", "Blue"]}`))
	require.NoError(t, err)

	got := Load(m, quietLogger())
	want := []model.TraitUnit{
		{Type: "Background", Value: "Red", Key: "Background:Red"},
		{Type: "Background", Value: "Blue", Key: "Background:Blue"},
	}
	assert.Equal(t, want, got)
}

func TestLoad_PreservesSourceOrder(t *testing.T) {
	doc := `{"Zeta": ["b", "a"], "Alpha": ["z"], "Mid": ["x", "y", "w"]}`
	m, err := ParseMapping([]byte(doc))
	require.NoError(t, err)

	var keys []string
	for _, u := range Load(m, quietLogger()) {
		keys = append(keys, u.Key)
	}
	assert.Equal(t, []string{"Zeta:b", "Zeta:a", "Alpha:z", "Mid:x", "Mid:y", "Mid:w"}, keys)

	// Same input, same order.
	again, _ := ParseMapping([]byte(doc))
	assert.Equal(t, Load(m, quietLogger()), Load(again, quietLogger()))
}

func TestLoad_CountMatchesValues(t *testing.T) {
	m, err := ParseMapping([]byte(`{"A": ["1", "2", "3"], "B": [], "C": ["x"]}`))
	require.NoError(t, err)
	assert.Len(t, Load(m, quietLogger()), 4)
}

func TestLoad_EmptyMapping(t *testing.T) {
	m, err := ParseMapping([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, Load(m, quietLogger()))
}

func TestLoad_SkipsNonArrayWithDiagnostic(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m, err := ParseMapping([]byte(`{"Eyes": "Blue", "Hat": ["Cap", 7, "Crown"]}`))
	require.NoError(t, err)

	got := Load(m, logger)
	require.Len(t, got, 2)
	assert.Equal(t, "Hat:Cap", got[0].Key)
	assert.Equal(t, "Hat:Crown", got[1].Key)
	assert.True(t, strings.Contains(buf.String(), "type=Eyes"), buf.String())
}

func TestLoad_DropsRepeatedValues(t *testing.T) {
	m, err := ParseMapping([]byte(`{"Hat": ["Cap", "Cap", "Crown"]}`))
	require.NoError(t, err)
	assert.Len(t, Load(m, quietLogger()), 2)
}

func TestParseMapping_DuplicateKeyKeepsFirstPosition(t *testing.T) {
	m, err := ParseMapping([]byte(`{"A": ["1"], "B": ["2"], "A": ["3"]}`))
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Equal(t, "A", m[0].Type)
	assert.Equal(t, `["3"]`, m[0].Value.Raw)
}

func TestParseMapping_Rejects(t *testing.T) {
	for _, doc := range []string{``, `{`, `[]`, `null`, `"x"`} {
		_, err := ParseMapping([]byte(doc))
		assert.Error(t, err, "doc %q", doc)
	}
}
