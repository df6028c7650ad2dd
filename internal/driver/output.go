package driver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"irx/internal/exported"
)

// Format selects the serialization of exported units.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat accepts the names used by irx.toml and --format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatMsgpack, "mp":
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected json|msgpack)", s)
}

// Ext is the file extension written for f.
func (f Format) Ext() string {
	if f == FormatMsgpack {
		return ".irx.mp"
	}
	return ".irx.json"
}

// Encode writes unit to w. Both encodings use the json field names, so a
// msgpack file and a JSON file of the same unit carry the same keys.
func Encode(w io.Writer, unit *exported.Unit, format Format) error {
	switch format {
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		enc.SetSortMapKeys(true)
		return enc.Encode(unit)
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(unit)
	}
	return fmt.Errorf("unknown output format %q", format)
}

// Decode reads a unit written by Encode.
func Decode(r io.Reader, format Format) (*exported.Unit, error) {
	var unit exported.Unit
	switch format {
	case FormatMsgpack:
		dec := msgpack.NewDecoder(r)
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&unit); err != nil {
			return nil, err
		}
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&unit); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
	return &unit, nil
}

// Marshal is Encode into a fresh buffer.
func Marshal(unit *exported.Unit, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, unit, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutputPath is <dir>/<session>.<unit><ext>. Path separators in either name
// are replaced so the file always lands directly in dir.
func OutputPath(dir, session, unit string, format Format) string {
	clean := strings.NewReplacer("/", "_", "\\", "_", ":", "_")
	return filepath.Join(dir, clean.Replace(session)+"."+clean.Replace(unit)+format.Ext())
}

// WriteUnit encodes unit into OutputPath atomically and returns the path.
func WriteUnit(dir, session string, unit *exported.Unit, format Format) (path string, err error) {
	if unit == nil {
		return "", errors.New("driver: nil unit")
	}
	path = OutputPath(dir, session, unit.Name, format)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, ".irx-*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()
	if err = Encode(f, unit, format); err != nil {
		_ = f.Close()
		return "", err
	}
	if err = f.Close(); err != nil {
		return "", err
	}
	// Атомарная замена
	if err = os.Rename(f.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}
