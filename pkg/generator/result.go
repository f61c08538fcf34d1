package generator

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Result describes one generation run.
type Result struct {
	RunID     string        `json:"runId" yaml:"runId"`
	Version   string        `json:"version" yaml:"version"`
	Files     []string      `json:"files" yaml:"files"`
	Size      int64         `json:"size" yaml:"size"`
	Families  []string      `json:"families" yaml:"families"`
	Tables    int           `json:"tables" yaml:"tables"`
	Fallbacks []string      `json:"fallbacks,omitempty" yaml:"fallbacks,omitempty"`
	Success   bool          `json:"success" yaml:"success"`
	Duration  time.Duration `json:"duration" yaml:"duration"`

	mu          sync.Mutex
	generatedAt time.Time
}

// NewResult returns an empty Result with a fresh run id.
func NewResult() *Result {
	return &Result{
		RunID:       uuid.NewString(),
		Files:       []string{},
		generatedAt: time.Now().UTC(),
	}
}

// AddFile records a written file.
func (r *Result) AddFile(path string, size int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Files = append(r.Files, path)
	r.Size += size
}

// AddTable records a generated table. key is "<family>:<code>".
func (r *Result) AddTable(key string, fallback bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Tables++
	if fallback {
		r.Fallbacks = append(r.Fallbacks, key)
	}
}

// MarkSuccess marks the run as complete.
func (r *Result) MarkSuccess() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Success = true
	r.Duration = time.Since(r.generatedAt)
}

// GeneratedAt returns the run start time formatted as RFC 3339.
func (r *Result) GeneratedAt() string {
	return r.generatedAt.Format(time.RFC3339)
}
