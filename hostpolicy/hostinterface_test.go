package hostpolicy

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/hostkit/internal/native/nativetest"
)

func TestHostInterface_Layout(t *testing.T) {
	word := unsafe.Sizeof(uintptr(0))
	require.Equal(t, 31*word, unsafe.Sizeof(HostInterface{}))
	require.Equal(t, 4*word, unsafe.Offsetof(HostInterface{}.ConfigValues))
	require.Equal(t, 10*word, unsafe.Offsetof(HostInterface{}.PathsForProbing))
	require.Equal(t, 30*word, unsafe.Offsetof(HostInterface{}.SingleFileBundleHeaderOffset))
}

func TestInterface_InitDefaults(t *testing.T) {
	i := NewInterface()
	t.Cleanup(i.Release)
	raw := i.Raw()

	require.Equal(t, unsafe.Sizeof(HostInterface{}), raw.VersionLow)
	require.Zero(t, raw.VersionHigh)
	require.Equal(t, uintptr(1), raw.PatchRollForward)
	require.NotZero(t, raw.HostPath)
	require.Equal(t, raw.HostPath, raw.FrameworkName)
	require.Equal(t, "", nativetest.ReadString(raw.DotnetRoot))
	require.Equal(t, StringArguments{}, raw.ConfigKeys)

	require.NoError(t, i.SetText(FieldHostPath, []byte("/usr/bin/dotnet")))
	require.NoError(t, i.SetList(FieldConfigKeys, [][]byte{[]byte("a")}))
	require.NoError(t, i.SetNumber(FieldPatchRollForward, 0))
	i.Init(0x7)
	require.Equal(t, uintptr(0x7), raw.VersionHigh)
	require.Equal(t, uintptr(1), raw.PatchRollForward)
	require.Equal(t, "", nativetest.ReadString(raw.HostPath))
	require.Equal(t, StringArguments{}, raw.ConfigKeys)
}

func TestInterface_Setters(t *testing.T) {
	i := NewInterface()
	t.Cleanup(i.Release)
	raw := i.Raw()

	require.NoError(t, i.SetText(FieldFrameworkName, []byte("Microsoft.NETCore.App")))
	require.NoError(t, i.SetText(FieldApplicationPath, []byte("/srv/app/app.dll")))
	require.Equal(t, "Microsoft.NETCore.App", nativetest.ReadString(raw.FrameworkName))
	require.Equal(t, "/srv/app/app.dll", nativetest.ReadString(raw.ApplicationPath))

	require.NoError(t, i.SetText(FieldFrameworkName, []byte("Microsoft.AspNetCore.App")))
	require.Equal(t, "Microsoft.AspNetCore.App", nativetest.ReadString(raw.FrameworkName))

	require.NoError(t, i.SetList(FieldFrameworkFoundVersions, [][]byte{[]byte("8.0.0"), []byte("8.0.1")}))
	v := raw.FrameworkFoundVersions
	require.Equal(t, []string{"8.0.0", "8.0.1"}, nativetest.Strings(int32(v.Length), v.Arguments))

	require.NoError(t, i.SetList(FieldFrameworkFoundVersions, nil))
	require.Equal(t, StringArguments{}, raw.FrameworkFoundVersions)

	require.NoError(t, i.SetNumber(FieldHostMode, HostModeAppHost))
	require.NoError(t, i.SetNumber(FieldSingleFileBundleHeaderOffset, 0x1000))
	require.Equal(t, HostModeAppHost, raw.HostMode)
	require.Equal(t, uintptr(0x1000), raw.SingleFileBundleHeaderOffset)

	require.Error(t, i.SetText(textFieldCount, nil))
	require.Error(t, i.SetList(listFieldCount, nil))
	require.Error(t, i.SetNumber(NumberField(99), 0))
}

func TestParseHostMode(t *testing.T) {
	tests := []struct {
		in      string
		want    uintptr
		wantErr bool
	}{
		{"invalid", HostModeInvalid, false},
		{"muxer", HostModeMuxer, false},
		{"apphost", HostModeAppHost, false},
		{"split_fx", HostModeSplitFx, false},
		{"libhost", HostModeLibHost, false},
		{"3", HostModeSplitFx, false},
		{"0x10", 0x10, false},
		{"AppHost", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseHostMode(tt.in)
		if tt.wantErr {
			require.ErrorIs(t, err, ErrUnknownHostMode, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}
