package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRoom(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedRoom
		expectErr bool
	}{
		{
			name:     "Standard Case",
			raw:      "Sala 101",
			expected: ParsedRoom{Name: "Sala 101", Floor: 1, Number: 101},
		},
		{
			name:     "Third Floor",
			raw:      "Sala 315",
			expected: ParsedRoom{Name: "Sala 315", Floor: 3, Number: 315},
		},
		{
			name:     "Lowercase and extra spaces",
			raw:      "  sala   204 ",
			expected: ParsedRoom{Name: "Sala 204", Floor: 2, Number: 204},
		},
		{
			name:     "No space",
			raw:      "Sala207",
			expected: ParsedRoom{Name: "Sala 207", Floor: 2, Number: 207},
		},
		{
			name:      "Not a room",
			raw:       "Auditório",
			expectErr: true,
		},
		{
			name:      "Two digit number",
			raw:       "Sala 12",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseRoom(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestRooms(t *testing.T) {
	rooms := Rooms()
	assert.Len(t, rooms, 45)
	assert.Equal(t, "Sala 101", rooms[0])
	assert.Equal(t, "Sala 115", rooms[14])
	assert.Equal(t, "Sala 201", rooms[15])
	assert.Equal(t, "Sala 315", rooms[44])
}

func TestInCatalog(t *testing.T) {
	assert.True(t, InCatalog("Sala 101"))
	assert.True(t, InCatalog("Sala 315"))
	assert.False(t, InCatalog("Sala 116"))
	assert.False(t, InCatalog("Sala 401"))
	assert.False(t, InCatalog("sala 101"), "catalog names are exact")
	assert.False(t, InCatalog("Laboratório"))
}

func TestCatalog(t *testing.T) {
	all := Catalog("")
	assert.Len(t, all, 3)
	assert.Equal(t, "1º Pavimento", all[0].Label)
	assert.Len(t, all[0].Rooms, 15)

	filtered := Catalog("SALA 2")
	assert.Empty(t, filtered[0].Rooms)
	assert.Len(t, filtered[1].Rooms, 15)
	assert.Empty(t, filtered[2].Rooms)

	single := Catalog("310")
	assert.Equal(t, []string{"Sala 310"}, single[2].Rooms)
}
