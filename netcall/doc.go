// Package netcall marshals textual arguments into native hosting calls and
// renders their results back as bytes.
//
// Every exported function has the Func signature: it receives the Host that
// owns the loaded libraries, the raw UTF-8 arguments, and the buffer the
// result is written into. Two kinds of failure are kept apart:
//
//   - A hosting status, including failures such as
//     HostApiBufferTooSmall, is data. It is written into the output in the
//     framing each function documents and the function returns nil.
//   - A marshaling failure (wrong argument count, a null context handle, an
//     unloaded library, an allocation error) is returned as an error
//     wrapping one of the package sentinels. The output is then undefined.
//
// # Framing
//
// Unless a function says otherwise, "code" below means the decimal status,
// e.g. "0" or "-2147450728". Context handles travel as pointer strings
// ("0x7f3a5c001e20") produced by one call and parsed by the next.
//
// Buffer-too-small retries are bounded: a function that sizes its output
// from a first call retries at most once.
package netcall
