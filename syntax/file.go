package syntax

import "github.com/speakeasy-api/swiftlint/internal/version"

// File is a parsed source file handed to rules.
type File struct {
	Path    string
	Source  []byte
	Root    *Node
	Version *version.Version

	converter *LocationConverter
}

// NewFile bundles a parsed tree with its source. ver may be nil when the
// language version is unknown.
func NewFile(path string, src []byte, root *Node, ver *version.Version) *File {
	return &File{
		Path:      path,
		Source:    src,
		Root:      root,
		Version:   ver,
		converter: NewLocationConverter(src),
	}
}

func (f *File) Converter() *LocationConverter { return f.converter }

// Location converts a byte offset in Source.
func (f *File) Location(offset int) Location { return f.converter.Location(offset) }

// Lines returns every line without terminators.
func (f *File) Lines() []string {
	out := make([]string, 0, f.converter.LineCount())
	for i := 1; i <= f.converter.LineCount(); i++ {
		out = append(out, f.converter.LineText(i))
	}
	return out
}
