package hostfxr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatus_Values(t *testing.T) {
	tests := []struct {
		status Status
		want   uint32
	}{
		{InvalidArgFailure, 0x80008081},
		{CoreHostCurHostFindFailure, 0x80008085},
		{CoreClrResolveFailure, 0x80008087},
		{LibHostInitFailure, 0x8000808e},
		{LibHostSdkFindFailure, 0x80008091},
		{HostApiBufferTooSmall, 0x80008098},
		{HostApiUnsupportedScenario, 0x800080a6},
		{WinInvalidArg, 0x80070057},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, uint32(tt.status), tt.status.String())
	}
}

func TestStatus_Failed(t *testing.T) {
	require.False(t, Success.Failed())
	require.False(t, SuccessHostAlreadyInitialized.Failed())
	require.False(t, SuccessDifferentRuntimeProperties.Failed())
	require.True(t, Status(3).Failed())
	require.True(t, Missing.Failed())
	require.True(t, HostApiBufferTooSmall.Failed())
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Success, "[net]::Success (0x0 0 0)"},
		{HostApiBufferTooSmall, "[net]::HostApiBufferTooSmall (0x80008098 -2147450728 152)"},
		{WinInvalidArg, "[win]::E_INVALIDARG (0x80070057 -2147024809 87)"},
		{InvalidArgFailure, "[net]::InvalidArgFailure (0x80008081 -2147450751 129)"},
		{Status(0x80008086 - 0x100000000), "0x80008086 -2147450746 134"},
		{Missing, "0xffffffff -1 255"},
		{Status(42), "0x2a 42 42"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.status.String())
	}
}

func TestFromRaw(t *testing.T) {
	require.Equal(t, HostApiBufferTooSmall, FromRaw(uintptr(0x80008098)))
	require.Equal(t, Status(7), FromRaw(7))
}

func TestParseDelegateType(t *testing.T) {
	d, err := ParseDelegateType("host_fxr_hdt_load_assembly_and_get_function_pointer")
	require.NoError(t, err)
	require.Equal(t, LoadAssemblyAndGetFunctionPointer, d)

	d, err = ParseDelegateType("net_hdt_com_register")
	require.NoError(t, err)
	require.Equal(t, ComRegister, d)

	d, err = ParseDelegateType("6")
	require.NoError(t, err)
	require.Equal(t, GetFunctionPointer, d)
	require.Equal(t, "host_fxr_hdt_get_function_pointer", d.String())

	d, err = ParseDelegateType("12")
	require.NoError(t, err)
	require.Equal(t, "DelegateType(12)", d.String())

	_, err = ParseDelegateType("hdt_unknown")
	require.Error(t, err)
	require.Len(t, DelegateTypes(), 7)
}
