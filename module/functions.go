package module

import (
	"strconv"

	"github.com/joshuapare/hostkit/netcall"
)

// FunctionID identifies one exported function. The zero value is never a
// valid id.
type FunctionID int

const (
	invalidFunction FunctionID = iota

	NetResultToString

	NetHostGetHostFxrPath

	HostFxrFunctions
	HostFxrInitialize
	HostFxrIsFunctionExists
	HostFxrClose
	HostFxrGetAvailableSDKs
	HostFxrGetDotnetEnvironmentInfo
	HostFxrGetNativeSearchDirectories
	HostFxrGetRuntimeDelegate
	HostFxrGetRuntimeProperties
	HostFxrGetRuntimePropertyValue
	HostFxrInitializeForDotnetCommandLine
	HostFxrInitializeForRuntimeConfig
	HostFxrMain
	HostFxrMainBundleStartupInfo
	HostFxrMainStartupInfo
	HostFxrResolveSDK
	HostFxrResolveSDK2
	HostFxrRunApp
	HostFxrSetErrorWriter
	HostFxrSetRuntimePropertyValue

	HostPolicyInitialize

	HostInterfaceInitialize
	HostInterfaceSetAdditionalDependencySerialized
	HostInterfaceSetApplicationPath
	HostInterfaceSetConfigKeys
	HostInterfaceSetConfigValues
	HostInterfaceSetDependencyFile
	HostInterfaceSetDotnetRoot
	HostInterfaceSetFileBundleHeaderOffset
	HostInterfaceSetFrameworkDependent
	HostInterfaceSetFrameworkDirectories
	HostInterfaceSetFrameworkDirectory
	HostInterfaceSetFrameworkFoundVersions
	HostInterfaceSetFrameworkName
	HostInterfaceSetFrameworkNames
	HostInterfaceSetFrameworkRequestedVersions
	HostInterfaceSetFrameworkVersion
	HostInterfaceSetHostCommand
	HostInterfaceSetHostMode
	HostInterfaceSetHostPath
	HostInterfaceSetPatchRollForward
	HostInterfaceSetPathsForProbing
	HostInterfaceSetPrereleaseRollForward
	HostInterfaceSetTargetFrameworkMoniker

	CoreHostFunctions
	CoreHostIsFunctionExists
	CoreHostInitialize
	CoreHostLoad
	CoreHostMain
	CoreHostMainWithOutputBuffer
	CoreHostResolveComponentDependencies
	CoreHostSetErrorWriter
	CoreHostUnload

	ContractInitialize
	ContractGetPropertyValue
	ContractSetPropertyValue
	ContractGetProperties
	ContractLoadRuntime
	ContractRunApp
	ContractGetRuntimeDelegate

	RequestInitialize
	RequestSetConfigKeys
	RequestSetConfigValues

	FileIsAssembly

	functionCount
)

// Namespace names.
const (
	NamespaceNet           = "net"
	NamespaceNetHost       = "nethost"
	NamespaceHostFxr       = "hostfxr"
	NamespaceHostPolicy    = "hostpolicy"
	NamespaceHostInterface = "hostinterface"
	NamespaceCoreHost      = "corehost"
	NamespaceContract      = "corehost-context-contract"
	NamespaceRequest       = "corehost-initialize-request"
	NamespaceFile          = "file"
)

// namespaces is the enumeration order.
var namespaces = []string{
	NamespaceNet,
	NamespaceNetHost,
	NamespaceHostFxr,
	NamespaceHostPolicy,
	NamespaceHostInterface,
	NamespaceCoreHost,
	NamespaceContract,
	NamespaceRequest,
	NamespaceFile,
}

type entry struct {
	namespace string
	name      string
	call      netcall.Func
}

// functions is indexed by FunctionID. Within a namespace, entries appear
// in enumeration order.
var functions = [functionCount]entry{
	NetResultToString: {NamespaceNet, "result-to-string", netcall.ResultToString},

	NetHostGetHostFxrPath: {NamespaceNetHost, "get-hostfxr-path", netcall.GetHostFxrPath},

	HostFxrFunctions:                      {NamespaceHostFxr, "functions", netcall.HostFxrFunctions},
	HostFxrInitialize:                     {NamespaceHostFxr, "initialize", netcall.HostFxrInitialize},
	HostFxrIsFunctionExists:               {NamespaceHostFxr, "is-function-exists", netcall.HostFxrIsFunctionExists},
	HostFxrClose:                          {NamespaceHostFxr, "close", netcall.Close},
	HostFxrGetAvailableSDKs:               {NamespaceHostFxr, "get-available-sdks", netcall.GetAvailableSDKs},
	HostFxrGetDotnetEnvironmentInfo:       {NamespaceHostFxr, "get-dotnet-environment-info", netcall.GetDotnetEnvironmentInfo},
	HostFxrGetNativeSearchDirectories:     {NamespaceHostFxr, "get-native-search-directories", netcall.GetNativeSearchDirectories},
	HostFxrGetRuntimeDelegate:             {NamespaceHostFxr, "get-runtime-delegate", netcall.GetRuntimeDelegate},
	HostFxrGetRuntimeProperties:           {NamespaceHostFxr, "get-runtime-properties", netcall.GetRuntimeProperties},
	HostFxrGetRuntimePropertyValue:        {NamespaceHostFxr, "get-runtime-property-value", netcall.GetRuntimePropertyValue},
	HostFxrInitializeForDotnetCommandLine: {NamespaceHostFxr, "initialize-for-dotnet-command-line", netcall.InitializeForDotnetCommandLine},
	HostFxrInitializeForRuntimeConfig:     {NamespaceHostFxr, "initialize-for-runtime-config", netcall.InitializeForRuntimeConfig},
	HostFxrMain:                           {NamespaceHostFxr, "main", netcall.Main},
	HostFxrMainBundleStartupInfo:          {NamespaceHostFxr, "main-bundle-startupinfo", netcall.MainBundleStartupInfo},
	HostFxrMainStartupInfo:                {NamespaceHostFxr, "main-startupinfo", netcall.MainStartupInfo},
	HostFxrResolveSDK:                     {NamespaceHostFxr, "resolve-sdk", netcall.ResolveSDK},
	HostFxrResolveSDK2:                    {NamespaceHostFxr, "resolve-sdk2", netcall.ResolveSDK2},
	HostFxrRunApp:                         {NamespaceHostFxr, "run-app", netcall.RunApp},
	HostFxrSetErrorWriter:                 {NamespaceHostFxr, "set-error-writer", netcall.HostFxrSetErrorWriter},
	HostFxrSetRuntimePropertyValue:        {NamespaceHostFxr, "set-runtime-property-value", netcall.SetRuntimePropertyValue},

	HostPolicyInitialize: {NamespaceHostPolicy, "initialize", netcall.HostPolicyInitialize},

	HostInterfaceInitialize:                        {NamespaceHostInterface, "initialize", netcall.HostInterfaceInitialize},
	HostInterfaceSetAdditionalDependencySerialized: {NamespaceHostInterface, "set-additional-dependency-serialized", netcall.HostInterfaceSetAdditionalDependencySerialized},
	HostInterfaceSetApplicationPath:                {NamespaceHostInterface, "set-application-path", netcall.HostInterfaceSetApplicationPath},
	HostInterfaceSetConfigKeys:                     {NamespaceHostInterface, "set-config-keys", netcall.HostInterfaceSetConfigKeys},
	HostInterfaceSetConfigValues:                   {NamespaceHostInterface, "set-config-values", netcall.HostInterfaceSetConfigValues},
	HostInterfaceSetDependencyFile:                 {NamespaceHostInterface, "set-dependency-file", netcall.HostInterfaceSetDependencyFile},
	HostInterfaceSetDotnetRoot:                     {NamespaceHostInterface, "set-dotnet-root", netcall.HostInterfaceSetDotnetRoot},
	HostInterfaceSetFileBundleHeaderOffset:         {NamespaceHostInterface, "set-file-bundle-header-offset", netcall.HostInterfaceSetFileBundleHeaderOffset},
	HostInterfaceSetFrameworkDependent:             {NamespaceHostInterface, "set-framework-dependent", netcall.HostInterfaceSetFrameworkDependent},
	HostInterfaceSetFrameworkDirectories:           {NamespaceHostInterface, "set-framework-directories", netcall.HostInterfaceSetFrameworkDirectories},
	HostInterfaceSetFrameworkDirectory:             {NamespaceHostInterface, "set-framework-directory", netcall.HostInterfaceSetFrameworkDirectory},
	HostInterfaceSetFrameworkFoundVersions:         {NamespaceHostInterface, "set-framework-found-versions", netcall.HostInterfaceSetFrameworkFoundVersions},
	HostInterfaceSetFrameworkName:                  {NamespaceHostInterface, "set-framework-name", netcall.HostInterfaceSetFrameworkName},
	HostInterfaceSetFrameworkNames:                 {NamespaceHostInterface, "set-framework-names", netcall.HostInterfaceSetFrameworkNames},
	HostInterfaceSetFrameworkRequestedVersions:     {NamespaceHostInterface, "set-framework-requested-versions", netcall.HostInterfaceSetFrameworkRequestedVersions},
	HostInterfaceSetFrameworkVersion:               {NamespaceHostInterface, "set-framework-version", netcall.HostInterfaceSetFrameworkVersion},
	HostInterfaceSetHostCommand:                    {NamespaceHostInterface, "set-host-command", netcall.HostInterfaceSetHostCommand},
	HostInterfaceSetHostMode:                       {NamespaceHostInterface, "set-host-mode", netcall.HostInterfaceSetHostMode},
	HostInterfaceSetHostPath:                       {NamespaceHostInterface, "set-host-path", netcall.HostInterfaceSetHostPath},
	HostInterfaceSetPatchRollForward:               {NamespaceHostInterface, "set-patch-roll-forward", netcall.HostInterfaceSetPatchRollForward},
	HostInterfaceSetPathsForProbing:                {NamespaceHostInterface, "set-paths-for-probing", netcall.HostInterfaceSetPathsForProbing},
	HostInterfaceSetPrereleaseRollForward:          {NamespaceHostInterface, "set-prerelease-roll-forward", netcall.HostInterfaceSetPrereleaseRollForward},
	HostInterfaceSetTargetFrameworkMoniker:         {NamespaceHostInterface, "set-target-framework-moniker", netcall.HostInterfaceSetTargetFrameworkMoniker},

	CoreHostFunctions:                    {NamespaceCoreHost, "functions", netcall.CoreHostFunctions},
	CoreHostIsFunctionExists:             {NamespaceCoreHost, "is-function-exists", netcall.CoreHostIsFunctionExists},
	CoreHostInitialize:                   {NamespaceCoreHost, "initialize", netcall.CoreHostInitialize},
	CoreHostLoad:                         {NamespaceCoreHost, "load", netcall.CoreHostLoad},
	CoreHostMain:                         {NamespaceCoreHost, "main", netcall.CoreHostMain},
	CoreHostMainWithOutputBuffer:         {NamespaceCoreHost, "main-with-output-buffer", netcall.CoreHostMainWithOutputBuffer},
	CoreHostResolveComponentDependencies: {NamespaceCoreHost, "resolve-component-dependencies", netcall.CoreHostResolveComponentDependencies},
	CoreHostSetErrorWriter:               {NamespaceCoreHost, "set-error-writer", netcall.CoreHostSetErrorWriter},
	CoreHostUnload:                       {NamespaceCoreHost, "unload", netcall.CoreHostUnload},

	ContractInitialize:         {NamespaceContract, "initialize", netcall.ContractInitialize},
	ContractGetPropertyValue:   {NamespaceContract, "get-property-value", netcall.ContractGetPropertyValue},
	ContractSetPropertyValue:   {NamespaceContract, "set-property-value", netcall.ContractSetPropertyValue},
	ContractGetProperties:      {NamespaceContract, "get-properties", netcall.ContractGetProperties},
	ContractLoadRuntime:        {NamespaceContract, "load-runtime", netcall.ContractLoadRuntime},
	ContractRunApp:             {NamespaceContract, "run-app", netcall.ContractRunApp},
	ContractGetRuntimeDelegate: {NamespaceContract, "get-runtime-delegate", netcall.ContractGetRuntimeDelegate},

	RequestInitialize:      {NamespaceRequest, "initialize", netcall.RequestInitialize},
	RequestSetConfigKeys:   {NamespaceRequest, "set-config-keys", netcall.RequestSetConfigKeys},
	RequestSetConfigValues: {NamespaceRequest, "set-config-values", netcall.RequestSetConfigValues},

	FileIsAssembly: {NamespaceFile, "is-assembly", netcall.FileIsAssembly},
}

// byNamespace holds the ids of each namespace in enumeration order.
var byNamespace = func() map[string][]FunctionID {
	m := make(map[string][]FunctionID, len(namespaces))
	for id := invalidFunction + 1; id < functionCount; id++ {
		ns := functions[id].namespace
		m[ns] = append(m[ns], id)
	}
	return m
}()

// Valid reports whether id names a function.
func (id FunctionID) Valid() bool {
	return id > invalidFunction && id < functionCount
}

// Namespace returns the namespace of id, or "" for an invalid id.
func (id FunctionID) Namespace() string {
	if !id.Valid() {
		return ""
	}
	return functions[id].namespace
}

// Name returns the function name of id without its namespace.
func (id FunctionID) Name() string {
	if !id.Valid() {
		return ""
	}
	return functions[id].name
}

// String returns "namespace::name".
func (id FunctionID) String() string {
	if !id.Valid() {
		return "FunctionID(" + strconv.Itoa(int(id)) + ")"
	}
	return functions[id].namespace + "::" + functions[id].name
}

// EnumerateNameSpaces returns the namespace at index i. ok is false past
// the end.
func EnumerateNameSpaces(i int) (name string, ok bool) {
	if i < 0 || i >= len(namespaces) {
		return "", false
	}
	return namespaces[i], true
}

// EnumerateFunctions returns the name of function i within namespace ns.
// ok is false past the end or for an unknown namespace.
func EnumerateFunctions(ns string, i int) (name string, ok bool) {
	ids := byNamespace[ns]
	if i < 0 || i >= len(ids) {
		return "", false
	}
	return functions[ids[i]].name, true
}

// Lookup resolves a namespace and function name to its id.
func Lookup(ns, name string) (FunctionID, bool) {
	for _, id := range byNamespace[ns] {
		if functions[id].name == name {
			return id, true
		}
	}
	return invalidFunction, false
}

// LookupQualified resolves "namespace::name".
func LookupQualified(qualified string) (FunctionID, bool) {
	ns, name, ok := cutQualified(qualified)
	if !ok {
		return invalidFunction, false
	}
	return Lookup(ns, name)
}

// NameSpaces returns the namespace names in enumeration order.
func NameSpaces() []string {
	return append([]string(nil), namespaces...)
}

// Functions returns every function id in enumeration order.
func Functions() []FunctionID {
	out := make([]FunctionID, 0, functionCount-1)
	for _, ns := range namespaces {
		out = append(out, byNamespace[ns]...)
	}
	return out
}
