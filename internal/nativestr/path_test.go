package nativestr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/buffer"
)

func TestIsRooted(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{`C:\dotnet`, true},
		{`c:/dotnet`, true},
		{`\dotnet`, true},
		{`/usr/share/dotnet`, true},
		{`dotnet\host`, false},
		{`1:\x`, false},
		{``, false},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, IsRooted([]byte(tt.path)), tt.path)
	}
}

func TestLongPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`C:\Program Files\dotnet`, `\\?\C:\Program Files\dotnet`},
		{`C:/Program Files/dotnet`, `\\?\C:\Program Files\dotnet`},
		{`\\?\C:\already`, `\\?\C:\already`},
		{`\\server\share\dotnet`, `\\?\UNC\server\share\dotnet`},
		{`relative\host.dll`, `relative\host.dll`},
		{`\rooted\no\drive`, `\rooted\no\drive`},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, string(LongPath([]byte(tt.in))), tt.in)
	}
}

func TestAppendWidePath(t *testing.T) {
	var b buffer.Buffer
	require.NoError(t, AppendWidePath(&b, []byte(`D:\x`)))
	decoded, err := DecodeWide(CutWide(b.Bytes()))
	require.NoError(t, err)
	require.Equal(t, `\\?\D:\x`, string(decoded))
}
