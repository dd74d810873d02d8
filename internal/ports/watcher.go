package ports

// Watcher reports changes to a single file, such as the catalog export being
// replaced on disk. Editors and export scripts often write via a temp file and
// rename, so adapters must observe the containing directory rather than the
// file's inode.
type Watcher interface {
	// Watch starts monitoring path. onChange is called with path after each
	// write, create or rename that lands on it. The callback may be invoked
	// from any goroutine. Returns an error if the parent directory cannot
	// be watched.
	Watch(path string, onChange func(path string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
