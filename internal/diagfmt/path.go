package diagfmt

import (
	"path/filepath"

	"annocheck/internal/source"
)

// builtinPath names spans that point into no file: the declarations of
// the builtin java.lang types.
const builtinPath = "<builtin>"

func formatPath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	if fs == nil || id == source.NoFileID {
		return builtinPath
	}
	f := fs.Get(id)
	if f == nil {
		return builtinPath
	}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// uriPath renders a path for SARIF: relative to the base directory when
// possible, always with forward slashes.
func uriPath(fs *source.FileSet, id source.FileID) string {
	p := formatPath(fs, id, PathModeRelative)
	return filepath.ToSlash(p)
}
