package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rl1809/techmart/internal/core/domain"
)

// FileAdapter keeps carts, idempotency keys and submissions in one
// human-readable JSON file. It is meant for a single local process.
type FileAdapter struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

type fileData struct {
	Carts       map[string]json.RawMessage `json:"carts"`
	Idempotency map[string]time.Time       `json:"idempotency"`
	Submissions []fileSubmission           `json:"submissions"`
}

type fileSubmission struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	SessionID string            `json:"session_id"`
	Email     string            `json:"email,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

func NewFileAdapter(path string) *FileAdapter {
	return &FileAdapter{path: path, now: time.Now}
}

func (f *FileAdapter) read() (*fileData, error) {
	data := &fileData{}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read file: %w", err)
		}
	} else if len(b) > 0 {
		if err := json.Unmarshal(b, data); err != nil {
			return nil, fmt.Errorf("json unmarshal: %w", err)
		}
	}
	if data.Carts == nil {
		data.Carts = make(map[string]json.RawMessage)
	}
	if data.Idempotency == nil {
		data.Idempotency = make(map[string]time.Time)
	}
	return data, nil
}

func (f *FileAdapter) write(data *fileData) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dir: %w", err)
		}
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

func (f *FileAdapter) LoadCart(_ context.Context, sessionID string) ([]domain.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	raw, ok := data.Carts[CartKey(sessionID)]
	if !ok {
		return []domain.CartItem{}, nil
	}
	return decodeCart(raw)
}

func (f *FileAdapter) SaveCart(_ context.Context, sessionID string, items []domain.CartItem) error {
	raw, err := encodeCart(items)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	data.Carts[CartKey(sessionID)] = raw
	return f.write(data)
}

func (f *FileAdapter) SetIdempotency(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return false, err
	}
	now := f.now()
	for k, at := range data.Idempotency {
		if now.Sub(at) >= idempotencyKeyTTL {
			delete(data.Idempotency, k)
		}
	}
	if _, exists := data.Idempotency[key]; exists {
		return false, nil
	}
	data.Idempotency[key] = now
	return true, f.write(data)
}

func (f *FileAdapter) SaveSubmission(_ context.Context, sub domain.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	data.Submissions = append(data.Submissions, fileSubmission{
		ID:        sub.ID,
		Kind:      string(sub.Kind),
		SessionID: sub.SessionID,
		Email:     sub.Email,
		Fields:    sub.Fields,
		CreatedAt: sub.CreatedAt,
	})
	return f.write(data)
}

// Submissions lists what was persisted, oldest first.
func (f *FileAdapter) Submissions() ([]domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	out := make([]domain.Submission, 0, len(data.Submissions))
	for _, s := range data.Submissions {
		out = append(out, domain.Submission{
			ID:        s.ID,
			Kind:      domain.SubmissionKind(s.Kind),
			SessionID: s.SessionID,
			Email:     s.Email,
			Fields:    s.Fields,
			CreatedAt: s.CreatedAt,
		})
	}
	return out, nil
}
