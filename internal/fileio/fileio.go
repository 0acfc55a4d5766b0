// Package fileio implements the engine's sole persistence discipline:
// crash-safe atomic writes (temp file + advisory lock + fsync + rename) and
// plain reads that treat a missing file as "empty", matching the workspace's
// "all files are created on first write; missing files read as
// empty/defaults" contract.
package fileio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dayplan/planner/internal/apierr"
)

// ReadText returns the file's contents, or "" if it does not exist.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", apierr.New(apierr.KindIO, "fileio.ReadText", err)
	}
	return string(b), nil
}

// WriteText atomically writes s to path.
func WriteText(path, s string) error {
	return atomicWrite(path, []byte(s))
}

// ReadYAML decodes path (YAML) into out. A missing file leaves out
// untouched so the caller's zero-value default applies.
func ReadYAML(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apierr.New(apierr.KindIO, "fileio.ReadYAML", err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return apierr.New(apierr.KindParse, "fileio.ReadYAML", err)
	}
	return nil
}

// WriteYAML atomically encodes v as YAML to path.
func WriteYAML(path string, v interface{}) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return apierr.New(apierr.KindIO, "fileio.WriteYAML", err)
	}
	return atomicWrite(path, b)
}

// ReadJSON decodes path (JSON) into out. A missing file leaves out
// untouched so the caller's zero-value default applies.
func ReadJSON(path string, out interface{}) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apierr.New(apierr.KindIO, "fileio.ReadJSON", err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return apierr.New(apierr.KindParse, "fileio.ReadJSON", err)
	}
	return nil
}

// WriteJSON atomically encodes v as indented JSON to path.
func WriteJSON(path string, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return apierr.New(apierr.KindIO, "fileio.WriteJSON", err)
	}
	return atomicWrite(path, b)
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// atomicWrite is the shared crash-safe write primitive: write to a sibling
// temp file, lock it exclusively, write+flush+fsync, unlock, rename over
// the destination. The temp file is removed on any failure.
func atomicWrite(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = lockExclusive(tmp); err != nil {
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("lock: %w", err))
	}

	if _, werr := tmp.Write(data); werr != nil {
		err = werr
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("write: %w", werr))
	}
	if ferr := tmp.Sync(); ferr != nil {
		err = ferr
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("fsync: %w", ferr))
	}
	if uerr := unlock(tmp); uerr != nil {
		err = uerr
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("unlock: %w", uerr))
	}
	if cerr := tmp.Close(); cerr != nil {
		err = cerr
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("close: %w", cerr))
	}
	if rerr := os.Rename(tmpPath, path); rerr != nil {
		err = rerr
		return apierr.New(apierr.KindIO, "fileio.atomicWrite", fmt.Errorf("rename: %w", rerr))
	}
	return nil
}
