package save

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/Outspending/go-ferrumc/nbt"
	"github.com/Outspending/go-ferrumc/region"
)

// RegionPos identifies a region file by its region coordinates (world chunk
// coordinates divided by 32).
type RegionPos struct {
	X int
	Z int
}

// worldEntry caches everything read so far from a single world directory.
type worldEntry struct {
	worldDir string

	level *Level

	// playerdata file paths keyed by player id, found by scanning, and the
	// parsed documents for those read so far
	playerPaths map[uuid.UUID]string
	players     map[uuid.UUID]*Player

	// region file paths keyed by region coordinates, and the opened readers
	regionPaths map[RegionPos]string
	regions     map[RegionPos]*region.Region
}

func newWorldEntry(worldDir string) *worldEntry {
	return &worldEntry{
		worldDir:    worldDir,
		playerPaths: make(map[uuid.UUID]string),
		players:     make(map[uuid.UUID]*Player),
		regionPaths: make(map[RegionPos]string),
		regions:     make(map[RegionPos]*region.Region),
	}
}

// DirCache reads world saves from local directories and caches the parsed
// results. A cache may, and should, be shared between readers of the same
// worlds, however note that the implementation assumes single threaded
// access. It is not go routine safe.
type DirCache struct {
	log     logger.Logger
	opts    Options
	entries map[string]*worldEntry
}

func NewDirCache(log logger.Logger, opts ...Option) *DirCache {
	c := &DirCache{
		log:     log,
		entries: make(map[string]*worldEntry),
	}
	for _, o := range opts {
		o(&c.opts)
	}
	if c.opts.dirLister == nil {
		c.opts.dirLister = StdDirLister{}
	}
	if c.opts.opener == nil {
		c.opts.opener = StdOpener{}
	}
	return c
}

// Options returns the configured options.
func (c *DirCache) Options() Options {
	return c.opts
}

// DeleteEntry removes the cached results for a single world directory.
func (c *DirCache) DeleteEntry(worldDir string) {
	delete(c.entries, worldDir)
}

// getEntry returns the entry for worldDir, creating and establishing a new
// one if needed.
func (c *DirCache) getEntry(worldDir string) *worldEntry {
	e, ok := c.entries[worldDir]
	if !ok {
		e = newWorldEntry(worldDir)
		c.entries[worldDir] = e
	}
	return e
}

func (c *DirCache) readFile(path string) ([]byte, error) {
	r, err := c.opts.opener.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// ReadLevel reads and parses worldDir/level.dat, or returns the previously
// parsed result.
func (c *DirCache) ReadLevel(worldDir string) (*Level, error) {
	e := c.getEntry(worldDir)
	if e.level != nil {
		return e.level, nil
	}
	path := filepath.Join(worldDir, "level.dat")
	data, err := c.readFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLevelNotFound, err)
	}
	level, err := ParseLevel(data, c.opts.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.log.Debugf("parsed level.dat for %s", worldDir)
	e.level = level
	return level, nil
}

// FindPlayerFiles scans worldDir/playerdata and records the player ids found
// there. Files whose names are not uuids are skipped with a log line, the
// directory can legitimately hold .dat_old backups.
func (c *DirCache) FindPlayerFiles(worldDir string) error {
	e := c.getEntry(worldDir)
	files, err := c.opts.dirLister.ListFiles(filepath.Join(worldDir, "playerdata"))
	if err != nil {
		return err
	}
	for _, path := range files {
		name := filepath.Base(path)
		if !strings.HasSuffix(name, ".dat") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(name, ".dat"))
		if err != nil {
			c.log.Debugf("skipping %s: %v", path, err)
			continue
		}
		e.playerPaths[id] = path
	}
	return nil
}

// Players returns the ids of every player with a playerdata entry, scanning
// the directory if it has not been scanned before.
func (c *DirCache) Players(worldDir string) ([]uuid.UUID, error) {
	e := c.getEntry(worldDir)
	if len(e.playerPaths) == 0 {
		if err := c.FindPlayerFiles(worldDir); err != nil {
			return nil, err
		}
	}
	ids := make([]uuid.UUID, 0, len(e.playerPaths))
	for id := range e.playerPaths {
		ids = append(ids, id)
	}
	return ids, nil
}

// ReadPlayer reads and parses the playerdata entry for id, or returns the
// previously parsed result.
func (c *DirCache) ReadPlayer(worldDir string, id uuid.UUID) (*Player, error) {
	e := c.getEntry(worldDir)
	if p, ok := e.players[id]; ok {
		return p, nil
	}
	if len(e.playerPaths) == 0 {
		if err := c.FindPlayerFiles(worldDir); err != nil {
			return nil, err
		}
	}
	path, ok := e.playerPaths[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	data, err := c.readFile(path)
	if err != nil {
		return nil, err
	}
	p, err := ParsePlayer(data, c.opts.parseOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.players[id] = p
	return p, nil
}

// FindRegionFiles scans worldDir/region and records the region coordinates
// found there. Files that do not follow the r.X.Z.mca form are skipped.
func (c *DirCache) FindRegionFiles(worldDir string) error {
	e := c.getEntry(worldDir)
	files, err := c.opts.dirLister.ListFiles(filepath.Join(worldDir, "region"))
	if err != nil {
		return err
	}
	for _, path := range files {
		x, z, err := region.ParseFileName(filepath.Base(path))
		if err != nil {
			c.log.Debugf("skipping %s: %v", path, err)
			continue
		}
		e.regionPaths[RegionPos{X: x, Z: z}] = path
	}
	return nil
}

// Regions returns the coordinates of every region file in the world,
// scanning the directory if it has not been scanned before.
func (c *DirCache) Regions(worldDir string) ([]RegionPos, error) {
	e := c.getEntry(worldDir)
	if len(e.regionPaths) == 0 {
		if err := c.FindRegionFiles(worldDir); err != nil {
			return nil, err
		}
	}
	positions := make([]RegionPos, 0, len(e.regionPaths))
	for pos := range e.regionPaths {
		positions = append(positions, pos)
	}
	return positions, nil
}

// ReadRegion reads the region file at region coordinates rx, rz, or returns
// the previously opened reader.
func (c *DirCache) ReadRegion(worldDir string, rx, rz int) (*region.Region, error) {
	e := c.getEntry(worldDir)
	pos := RegionPos{X: rx, Z: rz}
	if r, ok := e.regions[pos]; ok {
		return r, nil
	}
	if len(e.regionPaths) == 0 {
		if err := c.FindRegionFiles(worldDir); err != nil {
			return nil, err
		}
	}
	path, ok := e.regionPaths[pos]
	if !ok {
		return nil, fmt.Errorf("%w: region %d,%d", ErrRegionNotFound, rx, rz)
	}
	data, err := c.readFile(path)
	if err != nil {
		return nil, err
	}
	r, err := region.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	c.log.Debugf("opened region %d,%d for %s", rx, rz, worldDir)
	e.regions[pos] = r
	return r, nil
}

// ReadChunk resolves world chunk coordinates cx, cz to their region file and
// returns the parsed chunk document.
func (c *DirCache) ReadChunk(worldDir string, cx, cz int) (string, nbt.Tag, error) {
	r, err := c.ReadRegion(worldDir, cx>>5, cz>>5)
	if err != nil {
		return "", nbt.Tag{}, err
	}
	return r.Chunk(cx, cz, c.opts.parseOpts...)
}
