package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"igprofile/pkg/logger"
)

const reportExt = ".json"

// Manager writes JSON reports into an output directory and tracks which
// report names already exist there
type Manager struct {
	outputDir string
	saved     map[string]bool
	mu        sync.RWMutex
	logger    logger.Logger
}

// NewManager creates a new storage manager
func NewManager(outputDir string, log logger.Logger) (*Manager, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if log == nil {
		log = logger.GetLogger()
	}

	manager := &Manager{
		outputDir: outputDir,
		saved:     make(map[string]bool),
		logger:    log,
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing files: %w", err)
	}

	return manager, nil
}

func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == reportExt {
			m.saved[strings.TrimSuffix(entry.Name(), reportExt)] = true
		}
	}

	return nil
}

// Path returns the file a report with the given name is written to.
// A missing .json extension is added.
func (m *Manager) Path(name string) string {
	base := filepath.Base(name)
	if filepath.Ext(base) != reportExt {
		base += reportExt
	}
	return filepath.Join(m.outputDir, base)
}

// Exists reports whether a report with the given name is present
func (m *Manager) Exists(name string) bool {
	key := reportKey(name)

	m.mu.RLock()
	cached := m.saved[key]
	m.mu.RUnlock()
	if cached {
		return true
	}

	if _, err := os.Stat(m.Path(name)); err != nil {
		return false
	}
	m.mu.Lock()
	m.saved[key] = true
	m.mu.Unlock()
	return true
}

// SaveJSON encodes v as indented JSON and writes it under name. The file is
// written to a temporary sibling first and renamed into place.
func (m *Manager) SaveJSON(name string, v any) (string, error) {
	if key := reportKey(name); key == "" || key == "." || key == string(filepath.Separator) {
		return "", fmt.Errorf("report name is empty")
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	filename := m.Path(name)
	if err := writeAtomic(filename, data); err != nil {
		return "", err
	}

	m.mu.Lock()
	m.saved[reportKey(name)] = true
	m.mu.Unlock()

	m.logger.DebugWithFields("Report saved", map[string]interface{}{
		"path":  filename,
		"bytes": len(data),
	})
	return filename, nil
}

// GetOutputDir returns the output directory path
func (m *Manager) GetOutputDir() string {
	return m.outputDir
}

// GetSavedCount returns the number of reports in the output directory
func (m *Manager) GetSavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}

func writeAtomic(filename string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(filename), filepath.Base(filename)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tempFile := tmp.Name()

	_, err = tmp.Write(data)
	closeErr := tmp.Close()

	if err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to write report data: %w", err)
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err := os.Chmod(tempFile, 0644); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to set file mode: %w", err)
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}

func reportKey(name string) string {
	return strings.TrimSuffix(filepath.Base(name), reportExt)
}
