package nativestr

import (
	"bytes"

	"github.com/joshuapare/hostkit/buffer"
)

const longPathPrefix = `\\?\`

// IsRooted reports whether a Windows-style path starts at a root: a leading
// separator or a drive letter.
func IsRooted(path []byte) bool {
	if len(path) == 0 {
		return false
	}
	if path[0] == '\\' || path[0] == '/' {
		return true
	}
	return len(path) > 1 && path[1] == ':' && isLetter(path[0])
}

// LongPath returns path with the \\?\ prefix applied when it is rooted and not
// already prefixed. UNC paths become \\?\UNC\server\share. Separators are
// normalized to backslashes since the prefix disables that translation.
func LongPath(path []byte) []byte {
	if !IsRooted(path) || bytes.HasPrefix(path, []byte(longPathPrefix)) {
		return path
	}
	out := make([]byte, 0, len(path)+len(longPathPrefix)+4)
	out = append(out, longPathPrefix...)
	switch {
	case len(path) > 2 && isSeparator(path[0]) && isSeparator(path[1]):
		out = append(out, `UNC\`...)
		path = path[2:]
	case isSeparator(path[0]):
		// A root-relative path has no drive to anchor the prefix; keep it as is.
		return path
	}
	for _, c := range path {
		if c == '/' {
			c = '\\'
		}
		out = append(out, c)
	}
	return out
}

// AppendWidePath appends the long-path form of path as UTF-16LE plus NUL.
func AppendWidePath(dst *buffer.Buffer, path []byte) error {
	return AppendWide(dst, LongPath(path))
}

func isSeparator(c byte) bool {
	return c == '\\' || c == '/'
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
