package port

import "context"

type Archiver interface {
	// ZipDir packages the directory tree rooted at dir into a zip archive
	// at outputPath, with entry names relative to dir.
	ZipDir(ctx context.Context, dir string, outputPath string) error
}
