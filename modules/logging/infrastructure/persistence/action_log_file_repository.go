package persistence

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/robocore-nitk/club-admin/modules/logging/domain/entities/actionlog"
)

// FileActionLogRepository keeps the action log in a JSON-lines file so it
// survives between runs. Reads are served from the in-memory window; the file
// is trimmed to the same window when it is opened.
type FileActionLogRepository struct {
	*ActionLogRepository
	path    string
	writeMu sync.Mutex
}

func NewFileActionLogRepository(path string, capacity int) (*FileActionLogRepository, error) {
	r := &FileActionLogRepository{
		ActionLogRepository: newActionLogRepository(capacity),
		path:                path,
	}
	n, err := r.load()
	if err != nil {
		return nil, err
	}
	if n > r.capacity {
		if err := r.compact(); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *FileActionLogRepository) load() (int, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "open action log")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var l actionlog.ActionLog
		if err := json.Unmarshal(line, &l); err != nil {
			return 0, errors.Wrapf(err, "action log line %d", n+1)
		}
		r.push(l)
		n++
	}
	if err := sc.Err(); err != nil {
		return 0, errors.Wrap(err, "read action log")
	}
	return n, nil
}

func (r *FileActionLogRepository) compact() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, l := range r.snapshot() {
		if err := enc.Encode(l); err != nil {
			return errors.Wrap(err, "encode action log")
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return errors.Wrap(err, "write action log")
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return errors.Wrap(err, "replace action log")
	}
	return nil
}

func (r *FileActionLogRepository) Create(ctx context.Context, log *actionlog.ActionLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}
	line, err := json.Marshal(log)
	if err != nil {
		return errors.Wrap(err, "encode action log")
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return errors.Wrap(err, "create action log dir")
	}
	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrap(err, "open action log")
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		_ = f.Close()
		return errors.Wrap(err, "append action log")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close action log")
	}
	r.push(*log)
	return nil
}
