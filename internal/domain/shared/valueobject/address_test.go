package valueobject

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	t.Run("trims and upper-cases country", func(t *testing.T) {
		addr, err := NewAddress("  Rue du Lac 12 ", "1003", " Lausanne", "ch")
		require.NoError(t, err)
		assert.Equal(t, "Rue du Lac 12", addr.Street())
		assert.Equal(t, "1003", addr.Zip())
		assert.Equal(t, "Lausanne", addr.City())
		assert.Equal(t, "CH", addr.CountryCode())
	})

	t.Run("rejects malformed country code", func(t *testing.T) {
		_, err := NewAddress("Bahnhofstrasse 1", "8001", "Zürich", "CHE")
		assert.Error(t, err)
	})

	t.Run("street2 option", func(t *testing.T) {
		addr := MustNewAddress("Bahnhofstrasse 1", "8001", "Zürich", "CH", WithStreet2("Postfach"))
		assert.Equal(t, "Postfach", addr.Street2())
	})
}

func TestAddress_IsComplete(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want bool
	}{
		{"complete", MustNewAddress("Bahnhofstrasse 1", "8001", "Zürich", "CH"), true},
		{"street2 only", MustNewAddress("", "8001", "Zürich", "CH", WithStreet2("Postfach 12")), true},
		{"missing zip", MustNewAddress("Bahnhofstrasse 1", "", "Zürich", "CH"), false},
		{"missing city", MustNewAddress("Bahnhofstrasse 1", "8001", "", "CH"), false},
		{"missing country", MustNewAddress("Bahnhofstrasse 1", "8001", "Zürich", ""), false},
		{"missing street", MustNewAddress("", "8001", "Zürich", "CH"), false},
		{"empty", Address{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.IsComplete())
		})
	}
}

func TestAddress_Lines(t *testing.T) {
	t.Run("joins streets and zip city", func(t *testing.T) {
		addr := MustNewAddress("Bahnhofstrasse 1", "8001", "Zürich", "CH", WithStreet2("Postfach"))
		line1, line2 := addr.Lines()
		assert.Equal(t, "Bahnhofstrasse 1 Postfach", line1)
		assert.Equal(t, "8001 Zürich", line2)
	})

	t.Run("limits each line to 70 characters", func(t *testing.T) {
		addr := MustNewAddress(strings.Repeat("é", 80), "8001", strings.Repeat("z", 80), "CH")
		line1, line2 := addr.Lines()
		assert.Equal(t, 70, len([]rune(line1)))
		assert.Equal(t, 70, len([]rune(line2)))
		assert.True(t, strings.HasPrefix(line2, "8001 z"))
	})

	t.Run("empty address", func(t *testing.T) {
		line1, line2 := Address{}.Lines()
		assert.Empty(t, line1)
		assert.Empty(t, line2)
	})
}

func TestAddress_JSON(t *testing.T) {
	addr := MustNewAddress("Bahnhofstrasse 1", "8001", "Zürich", "CH")
	data, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, addr.Equals(decoded))

	err = json.Unmarshal([]byte(`{"country_code":"CHE"}`), &decoded)
	assert.Error(t, err)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "ab", TruncateRunes("abc", 2))
	assert.Equal(t, "üö", TruncateRunes("üöä", 2))
}
