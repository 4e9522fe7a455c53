package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/klauern/skilllint/internal/logging"
)

// ErrLocked is returned when another process is writing the same report.
var ErrLocked = errors.New("report file is locked by another skilllint process")

// LockPath returns the advisory lock file guarding a report path.
func LockPath(path string) string {
	return path + ".lock"
}

// WriteFile renders the report and replaces path with it. The write holds an
// advisory lock on path.lock and goes through a temp file in the same
// directory, so readers never see a partial report.
func WriteFile(path string, r Report, opts Options) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	lock := flock.New(LockPath(path))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring report lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Warn("failed to release report lock", logging.Path(lock.Path()), logging.Err(err))
		}
	}()

	var buf bytes.Buffer
	if err := New(opts).Export(r, &buf); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp report: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	// #nosec G302 - reports are meant to be read by other tools
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set report permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}

	logging.Info("report written", logging.Path(path), logging.Format(opts.Format.String()))
	return nil
}
