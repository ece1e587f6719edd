package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/fleetreach/game/engine"
	"github.com/wricardo/fleetreach/game/service"
)

// BuiltinMapID names the catalog compiled into the engine
const BuiltinMapID = "standard"

var (
	ErrMapNotFound = service.ErrMapNotFound
	ErrInvalidMap  = errors.New("invalid map")
	ErrReadOnlyMap = errors.New("map is read-only")
)

// mapExtensions are tried in order when resolving a map id to a file
var mapExtensions = []string{".yaml", ".yml", ".json"}

// Manager handles map loading and caching
type Manager struct {
	mapsDir   string
	defaultID string
	maps      map[string]*engine.MapConfig
	catalogs  map[string]*engine.Catalog
	mu        sync.RWMutex
}

// NewManager creates a new map manager
func NewManager(mapsDir string) (*Manager, error) {
	// Ensure maps directory exists
	if _, err := os.Stat(mapsDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("maps directory does not exist: %s", mapsDir)
	}

	return &Manager{
		mapsDir:   mapsDir,
		defaultID: BuiltinMapID,
		maps:      make(map[string]*engine.MapConfig),
		catalogs:  make(map[string]*engine.Catalog),
	}, nil
}

// LoadMap loads a map configuration by id
func (m *Manager) LoadMap(id string) (*engine.MapConfig, error) {
	id = mapID(id)
	if id == BuiltinMapID {
		return engine.DefaultMapConfig(), nil
	}

	m.mu.RLock()
	// Check cache first
	if config, exists := m.maps[id]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	// Load from file
	m.mu.Lock()
	defer m.mu.Unlock()

	// Double-check after acquiring write lock
	if config, exists := m.maps[id]; exists {
		return config, nil
	}

	path, err := m.findMapFile(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}

	config, err := engine.ParseMapConfig(path, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	// Validate once and keep the catalog alongside the config
	catalog, err := config.Catalog()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	m.maps[id] = config
	m.catalogs[id] = catalog
	return config, nil
}

// Catalog returns the catalog of a map
func (m *Manager) Catalog(id string) (*engine.Catalog, error) {
	id = mapID(id)
	if id == BuiltinMapID {
		return engine.Default(), nil
	}

	if _, err := m.LoadMap(id); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.catalogs[id], nil
}

// ListMaps returns information about all available maps, the built-in map first
func (m *Manager) ListMaps() ([]*service.MapInfo, error) {
	entries, err := os.ReadDir(m.mapsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read maps directory: %w", err)
	}

	builtin := engine.DefaultMapConfig()
	maps := []*service.MapInfo{{
		MapID:       BuiltinMapID,
		Name:        builtin.Name,
		Description: builtin.Description,
		Locations:   len(builtin.Locations),
		Builtin:     true,
	}}

	seen := map[string]bool{BuiltinMapID: true}
	var files []*service.MapInfo
	for _, entry := range entries {
		if entry.IsDir() || !isMapFile(entry.Name()) {
			continue
		}

		id := mapID(entry.Name())
		if seen[id] {
			continue
		}
		seen[id] = true

		// Try to load the map to get details
		config, err := m.LoadMap(id)
		if err != nil {
			// Skip invalid maps
			continue
		}

		files = append(files, &service.MapInfo{
			Filename:    entry.Name(),
			MapID:       id, // This is the identifier to use for session creation
			Name:        config.Name,
			Description: config.Description,
			Locations:   len(config.Locations),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].MapID < files[j].MapID })
	return append(maps, files...), nil
}

// DefaultID returns the id used when a session names no map
func (m *Manager) DefaultID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultID
}

// SetDefault sets the default map by id
func (m *Manager) SetDefault(id string) error {
	if _, err := m.Catalog(id); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultID = mapID(id)
	return nil
}

// RefreshCache drops all cached maps so they are reread from disk
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.maps = make(map[string]*engine.MapConfig)
	m.catalogs = make(map[string]*engine.Catalog)
}

// SaveMap saves a map to disk. The id may carry a .json, .yaml or .yml
// extension to pick the format; YAML is the default.
func (m *Manager) SaveMap(id string, config *engine.MapConfig) error {
	filename := id
	if !isMapFile(filename) {
		filename = id + ".yaml"
	}
	id = mapID(id)

	if id == "" || strings.ContainsAny(id, `/\`) || id == ".." {
		return fmt.Errorf("%w: bad map id %q", ErrInvalidMap, id)
	}
	if id == BuiltinMapID {
		return fmt.Errorf("%w: %s", ErrReadOnlyMap, id)
	}

	// Validate map before saving
	catalog, err := config.Catalog()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMap, err)
	}

	data, err := engine.MarshalMapConfig(filename, config)
	if err != nil {
		return fmt.Errorf("failed to marshal map: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Only one file per id, so drop any copy in another format
	for _, ext := range mapExtensions {
		other := filepath.Join(m.mapsDir, id+ext)
		if id+ext != filename {
			if err := os.Remove(other); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to replace map file: %w", err)
			}
		}
	}

	if err := os.WriteFile(filepath.Join(m.mapsDir, filename), data, 0644); err != nil {
		return fmt.Errorf("failed to write map file: %w", err)
	}

	// Update cache
	m.maps[id] = config
	m.catalogs[id] = catalog

	return nil
}

// findMapFile resolves an id to the first existing file in the maps directory
func (m *Manager) findMapFile(id string) (string, error) {
	for _, ext := range mapExtensions {
		path := filepath.Join(m.mapsDir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrMapNotFound, id)
}

func isMapFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range mapExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// mapID strips a known map file extension
func mapID(name string) string {
	if isMapFile(name) {
		return strings.TrimSuffix(name, filepath.Ext(name))
	}
	return name
}
