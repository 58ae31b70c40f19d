package palette

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{name: "empty", table: Table{}},
		{name: "bad name", table: Table{{Name: "Parrot Blue", Hex: "#1da7e0", RGB: "29, 167, 224"}}},
		{name: "duplicate name", table: Table{
			{Name: "teal", Hex: "#009485", RGB: "0, 148, 133"},
			{Name: "teal", Hex: "#009485", RGB: "0, 148, 133"},
		}},
		{name: "short hex", table: Table{{Name: "teal", Hex: "#098", RGB: "0, 153, 136"}}},
		{name: "missing hash", table: Table{{Name: "teal", Hex: "009485", RGB: "0, 148, 133"}}},
		{name: "two channels", table: Table{{Name: "teal", Hex: "#009485", RGB: "0, 148"}}},
		{name: "channel overflow", table: Table{{Name: "teal", Hex: "#009485", RGB: "0, 148, 256"}}},
		{name: "hex and rgb disagree", table: Table{{Name: "teal", Hex: "#009485", RGB: "0, 148, 134"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.table)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
		})
	}
}

func TestChannels(t *testing.T) {
	r, g, b, err := Entry{RGB: "29, 167, 224"}.Channels()
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{29, 167, 224}, [3]uint8{r, g, b})

	r, g, b, err = Entry{RGB: "1,2,3"}.Channels()
	require.NoError(t, err)
	assert.Equal(t, [3]uint8{1, 2, 3}, [3]uint8{r, g, b})
}

func TestTextColor(t *testing.T) {
	assert.Equal(t, "#1a1a1a", Entry{Hex: "#ffffff"}.TextColor())
	assert.Equal(t, "#ffffff", Entry{Hex: "#000000"}.TextColor())
	assert.Equal(t, "#ffffff", Entry{Hex: "nope"}.TextColor())
}

func TestParse(t *testing.T) {
	table, err := Parse([]byte(`
themes:
  - name: teal
    hex: "#009485"
    rgb: "0, 148, 133"
  - name: parrot-blue
    hex: "#1da7e0"
    rgb: "29, 167, 224"
`))
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, Entry{Name: "teal", Hex: "#009485", RGB: "0, 148, 133"}, table[0])
	assert.Equal(t, "parrot-blue", table[1].Name)
}

func TestParseRejectsEmptyAndMalformed(t *testing.T) {
	_, err := Parse([]byte("themes: []\n"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = Parse([]byte("themes: [\n"))
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestLoadFile(t *testing.T) {
	table, err := LoadFile("")
	require.NoError(t, err)
	assert.Equal(t, Default(), table)

	path := filepath.Join(t.TempDir(), "themes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("themes:\n  - name: black\n    hex: \"#000000\"\n    rgb: \"0, 0, 0\"\n"), 0o644))

	table, err = LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Table{{Name: "black", Hex: "#000000", RGB: "0, 0, 0"}}, table)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
