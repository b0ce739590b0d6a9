package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	"wikibook/internal/config"
	"wikibook/internal/errors"
	"wikibook/internal/logfields"
)

// Manager prepares the build directories: the LaTeX output directory (with
// its chapters/ subdirectory) and the data directory that caches the raw
// export download.
type Manager struct {
	outputDir string
	dataDir   string
	clean     bool
	keep      []string
}

func NewManager(cfg config.OutputConfig) *Manager {
	return &Manager{
		outputDir: cfg.Directory,
		dataDir:   cfg.DataDirectory,
		clean:     cfg.Clean,
		keep:      cfg.Keep,
	}
}

// Prepare sets up the directories for a build. When cleaning is enabled the
// output directory is recreated from scratch, except for the configured keep
// files (typically the document class) which are carried across.
func (m *Manager) Prepare() error {
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return errors.WorkspaceError("create data directory", err)
	}

	if m.clean {
		if err := m.cleanOutput(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Join(m.outputDir, "chapters"), 0o755); err != nil {
		return errors.WorkspaceError("create chapters directory", err)
	}
	return nil
}

func (m *Manager) cleanOutput() error {
	if _, err := os.Stat(m.outputDir); os.IsNotExist(err) {
		return nil
	}

	preserved := make(map[string][]byte)
	for _, name := range m.keep {
		data, err := os.ReadFile(filepath.Join(m.outputDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.WorkspaceError("read keep file "+name, err)
		}
		preserved[name] = data
	}

	if err := os.RemoveAll(m.outputDir); err != nil {
		return errors.WorkspaceError("remove output directory", err)
	}
	if err := os.MkdirAll(m.outputDir, 0o755); err != nil {
		return errors.WorkspaceError("recreate output directory", err)
	}

	for name, data := range preserved {
		if err := os.WriteFile(filepath.Join(m.outputDir, name), data, 0o644); err != nil {
			return errors.WorkspaceError("restore keep file "+name, err)
		}
	}

	slog.Info("Cleaned output directory", logfields.Path(m.outputDir), "kept", len(preserved))
	return nil
}

// OutputDir returns the LaTeX output directory.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// DataDir returns the directory holding downloaded export data.
func (m *Manager) DataDir() string {
	return m.dataDir
}

// ExportPath returns the on-disk location of the downloaded export bundle.
func (m *Manager) ExportPath() string {
	return filepath.Join(m.dataDir, "export.xml")
}
