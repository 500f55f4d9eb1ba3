package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidPhone(t *testing.T) {
	require.True(t, ValidPhone("01712345678"))
	require.True(t, ValidPhone("01912345678"))

	require.False(t, ValidPhone("01112345678"), "013-019 operator prefixes only")
	require.False(t, ValidPhone("0171234567"))
	require.False(t, ValidPhone("017123456789"))
	require.False(t, ValidPhone("+8801712345678"))
	require.False(t, ValidPhone(""))
}

func TestValidPIN(t *testing.T) {
	require.True(t, ValidPIN("123456"))
	require.True(t, ValidPIN("000000"))

	require.False(t, ValidPIN("12345"))
	require.False(t, ValidPIN("1234567"))
	require.False(t, ValidPIN("12345a"))
	require.False(t, ValidPIN(""))
}

func TestExtractYouTubeID(t *testing.T) {
	require.Equal(t, "dQw4w9WgXcQ", ExtractYouTubeID("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	require.Equal(t, "dQw4w9WgXcQ", ExtractYouTubeID("https://youtu.be/dQw4w9WgXcQ"))
	require.Equal(t, "dQw4w9WgXcQ", ExtractYouTubeID("https://www.youtube.com/embed/dQw4w9WgXcQ"))
	require.Equal(t, "dQw4w9WgXcQ", ExtractYouTubeID("https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=10s"))
	require.Equal(t, "", ExtractYouTubeID("https://example.com/video"))
}

func TestGeneratePIN(t *testing.T) {
	for i := 0; i < 20; i++ {
		pin, err := GeneratePIN()
		require.NoError(t, err)
		require.True(t, ValidPIN(pin), "generated %q", pin)
	}
}
