package memhost

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"irx/internal/host"
	"irx/internal/source"
)

// Current schema version - increment when the snapshot format changes
const snapshotSchemaVersion uint16 = 1

// ErrSchema is returned for snapshots written by an incompatible version.
var ErrSchema = errors.New("memhost: unsupported snapshot schema")

// Snapshot is the on-disk form of a Session.
type Snapshot struct {
	// Schema version for safe invalidation when format changes
	Schema uint16 `msgpack:"schema"`
	Name   string `msgpack:"name"`

	Files   []SnapshotFile `msgpack:"files"`
	Symbols []string       `msgpack:"symbols"`

	// Tables start at ID 1; slot 0 is implicit.
	Types []host.Ty       `msgpack:"types"`
	Defs  []Definition       `msgpack:"defs"`
	Expns []host.ExpnData `msgpack:"expns"`

	Units []*host.Unit `msgpack:"units"`
}

// SnapshotFile is one source file. Content is stored already normalised.
type SnapshotFile struct {
	Path    string           `msgpack:"path"`
	Content []byte           `msgpack:"content"`
	Flags   source.FileFlags `msgpack:"flags"`
}

// Snapshot captures the session.
func (s *Session) Snapshot() *Snapshot {
	snap := &Snapshot{
		Schema:  snapshotSchemaVersion,
		Name:    s.name,
		Symbols: s.syms.Snapshot(),
		Types:   s.types[1:],
		Defs:    s.defs[1:],
		Expns:   s.expns[1:],
		Units:   s.units,
	}
	for i := range s.files.Len() {
		f := s.files.Get(source.FileID(i)) // #nosec G115 -- bounded by Len
		snap.Files = append(snap.Files, SnapshotFile{Path: f.Path, Content: f.Content, Flags: f.Flags})
	}
	return snap
}

// FromSnapshot rebuilds a session.
func FromSnapshot(snap *Snapshot) (*Session, error) {
	if snap.Schema != snapshotSchemaVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrSchema, snap.Schema, snapshotSchemaVersion)
	}
	s := newSession(snap.Name)
	for _, f := range snap.Files {
		s.files.Add(f.Path, f.Content, f.Flags)
	}
	s.syms = source.NewInternerFrom(snap.Symbols)
	for _, t := range snap.Types {
		if t.Data == nil {
			return nil, fmt.Errorf("memhost: snapshot type of kind %d has no payload", t.Kind)
		}
		if _, err := s.intern(t.Data); err != nil {
			return nil, err
		}
	}
	if len(s.types) != len(snap.Types)+1 {
		return nil, fmt.Errorf("memhost: snapshot has duplicate types")
	}
	s.defs = append(s.defs, snap.Defs...)
	s.expns = append(s.expns, snap.Expns...)
	s.units = snap.Units
	return s, nil
}

// Save writes the session as msgpack.
func (s *Session) Save(w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(s.Snapshot())
}

// Load reads a session written by Save.
func Load(r io.Reader) (*Session, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("memhost: decode snapshot: %w", err)
	}
	return FromSnapshot(&snap)
}

// SaveFile writes the session to path atomically.
func (s *Session) SaveFile(path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = s.Save(f); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// LoadFile reads a snapshot file.
func LoadFile(path string) (*Session, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
