// Package hostpolicy loads the .NET host policy library (libhostpolicy /
// hostpolicy.dll) and drives it directly, bypassing the resolver.
//
// Besides the exported corehost_* functions, the package models the two
// structures the policy exchanges with its host: the context contract it
// fills during corehost_initialize, and the initialize request carrying
// runtime configuration keys and values.
package hostpolicy
