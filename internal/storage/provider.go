// Package storage defines the vault file-system abstraction.
package storage

// FileInfo is a lightweight listing entry for one vault file.
type FileInfo struct {
	Path     string // relative to vault root
	Checksum string
}

// Provider is the interface for vault file operations. All paths are
// relative to the vault root.
type Provider interface {
	// List returns every .md file under the root, skipping any path with a
	// segment starting with ".", in lexical walk order.
	List() ([]FileInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// ReadText returns the file content as normalized text: UTF-8 BOM
	// stripped, CRLF converted to LF.
	ReadText(path string) (string, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) bool
	// Move renames oldPath to newPath.
	Move(oldPath, newPath string) error
	// Trash moves the file at path into the trash subdirectory and returns
	// the trash-relative destination path.
	Trash(path string) (string, error)
	// Root returns the absolute vault root directory.
	Root() string
}
