package config

import (
	"os"
	"path/filepath"
)

// DirName is the per-project state directory.
const DirName = ".acnh"

// Paths holds all resolved filesystem paths for the .acnh/ directory.
type Paths struct {
	Root   string // .acnh/
	Config string // .acnh/config.yml

	BoltDB   string // .acnh/acnh.db
	SQLiteDB string // .acnh/acnh.sqlite

	LogDir   string // .acnh/log/
	ServeLog string // .acnh/log/serve.log

	RunDir   string // .acnh/run/
	PortFile string // .acnh/run/http.addr
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, DirName)
	return &Paths{
		Root:   root,
		Config: filepath.Join(root, "config.yml"),

		BoltDB:   filepath.Join(root, "acnh.db"),
		SQLiteDB: filepath.Join(root, "acnh.sqlite"),

		LogDir:   filepath.Join(root, "log"),
		ServeLog: filepath.Join(root, "log", "serve.log"),

		RunDir:   filepath.Join(root, "run"),
		PortFile: filepath.Join(root, "run", "http.addr"),
	}
}

// EnsureDirs creates all subdirectories under .acnh/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files left by serve. Called on clean shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PortFile)
}
