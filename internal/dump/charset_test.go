package dump

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUTF8Reader(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string
	}

	tests := []testCase{
		{
			name:        "utf-8 passes through",
			input:       []byte("Descrição;Café\n"),
			want:        "Descrição;Café\n",
			wantCharset: "UTF-8",
		},
		{
			name:        "utf-8 bom is stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, "Café\n"...),
			want:        "Café\n",
			wantCharset: "UTF-8",
		},
		{
			name:        "utf-16le is decoded",
			input:       []byte{0xFF, 0xFE, 'C', 0, 'a', 0, 'f', 0, 0xE9, 0, '\n', 0},
			want:        "Café\n",
			wantCharset: "UTF-16LE",
		},
		{
			name:        "utf-16be is decoded",
			input:       []byte{0xFE, 0xFF, 0, 'C', 0, 'a', 0, 'f', 0, 0xE9, 0, '\n'},
			want:        "Café\n",
			wantCharset: "UTF-16BE",
		},
		{
			name:        "utf-8 rune cut by the sniff buffer",
			input:       []byte(strings.Repeat("a", sniffSize-1) + "é\n"),
			want:        strings.Repeat("a", sniffSize-1) + "é\n",
			wantCharset: "UTF-8",
		},
		{
			// ç = 0xE7, ã = 0xE3 in Windows-1252.
			name:  "latin-1 is decoded",
			input: []byte{'D', 'e', 's', 'c', 'r', 'i', 0xE7, 0xE3, 'o', ';', 'C', 'a', 'f', 0xE9, '\n'},
			want:  "Descrição;Café\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, charset, err := utf8Reader(bytes.NewReader(tc.input))
			require.NoError(t, err)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tc.want, string(got))

			if tc.wantCharset != "" {
				assert.Equal(t, tc.wantCharset, charset)
			}
		})
	}
}

func TestCompleteRunes(t *testing.T) {
	full := []byte(strings.Repeat("a", sniffSize))

	cut := append([]byte(strings.Repeat("a", sniffSize-2)), 0xE2, 0x82) // "€" is E2 82 AC
	assert.Equal(t, cut[:sniffSize-2], completeRunes(cut))

	assert.Equal(t, full, completeRunes(full))
	assert.Equal(t, []byte{0xE2, 0x82}, completeRunes([]byte{0xE2, 0x82}))
}
