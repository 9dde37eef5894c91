package corpus

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data)}
}

func TestBuild_FiltersAndSorts(t *testing.T) {
	fsys := fstest.MapFS{
		"3.png":     file("three"),
		"1.jpg":     file("one"),
		"x.png":     file("x"),
		"2.gif":     file("two"),
		"4.txt":     file("not an image"),
		"sub/5.png": file("nested"),
	}

	idx, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)
	defer idx.Close()

	assert.Equal(t, []int{1, 2, 3}, idx.TokenIDs())
	assert.False(t, idx.Has(5))

	recs := idx.Records()
	require.Len(t, recs, 3)
	assert.Equal(t, "1.jpg", recs[0].Name)
	assert.Equal(t, int64(3), recs[0].Size)
}

func TestBuild_ExtensionIsCaseInsensitive(t *testing.T) {
	fsys := fstest.MapFS{
		"10.PNG":  file("a"),
		"11.JpEg": file("b"),
		"12.WEBP": file("c"),
	}
	idx, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, idx.TokenIDs())
}

func TestBuild_DuplicateTokenLastWins(t *testing.T) {
	// fs.ReadDir returns entries sorted by name, so "7.png" follows "7.jpg".
	fsys := fstest.MapFS{
		"7.jpg": file("first"),
		"7.png": file("second"),
	}
	idx, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)

	r, ok := idx.Lookup(7)
	require.True(t, ok)
	assert.Equal(t, "7.png", r.Name)
	assert.Equal(t, 1, idx.Outstanding(), "replaced record's handle should be released")
}

func TestBuild_MissingDir(t *testing.T) {
	_, err := Build(fstest.MapFS{}, "nope", quietLogger())
	assert.Error(t, err)
}

func TestParseTokenID(t *testing.T) {
	tests := []struct {
		name string
		id   int
		ok   bool
	}{
		{"1.png", 1, true},
		{"0042.jpg", 42, true},
		{"12.final.png", 12, true},
		{"12a.png", 0, false},
		{"a12.png", 0, false},
		{".png", 0, false},
		{"12", 0, false},
		{"99999999999999999999999.png", 0, false},
	}
	for _, tt := range tests {
		id, ok := ParseTokenID(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		assert.Equal(t, tt.id, id, tt.name)
	}
}

func TestDisplayHandles_ReleasedOnClose(t *testing.T) {
	fsys := fstest.MapFS{"1.png": file("a"), "2.png": file("b")}
	idx, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)

	r, _ := idx.Lookup(1)
	require.NotEmpty(t, r.DisplayURL)
	assert.True(t, idx.Live(r.DisplayURL))
	assert.Equal(t, 2, idx.Outstanding())

	other, _ := idx.Lookup(2)
	assert.NotEqual(t, r.DisplayURL, other.DisplayURL)

	require.NoError(t, idx.Close())
	require.NoError(t, idx.Close())
	assert.Equal(t, 0, idx.Outstanding())
	assert.False(t, idx.Live(r.DisplayURL))

	after, ok := idx.Lookup(1)
	assert.True(t, ok)
	assert.Empty(t, after.DisplayURL)
}

func TestReplace_ClosesPrevious(t *testing.T) {
	fsys := fstest.MapFS{"1.png": file("a")}
	first, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)
	second, err := Build(fsys, ".", quietLogger())
	require.NoError(t, err)

	cur := Replace(nil, first)
	cur = Replace(cur, second)

	assert.Same(t, second, cur)
	assert.Equal(t, 0, first.Outstanding())
	assert.Equal(t, 1, second.Outstanding())
}

func TestOpen(t *testing.T) {
	fsys := fstest.MapFS{"imgs/5.png": file("pixels")}
	idx, err := Build(fsys, "imgs", quietLogger())
	require.NoError(t, err)

	f, err := idx.Open(5)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(b))

	_, err = idx.Open(6)
	assert.Error(t, err)
}

func TestReadMetadata(t *testing.T) {
	fsys := fstest.MapFS{
		"meta/1.json":     file(`{"name": "One"}`),
		"meta/2.json":     file(`{broken`),
		"meta/x.json":     file(`{}`),
		"meta/3.json.bak": file(`{}`),
	}
	md, err := ReadMetadata(fsys, "meta", quietLogger())
	require.NoError(t, err)
	require.Len(t, md, 1)
	assert.JSONEq(t, `{"name": "One"}`, string(md[1]))
}
