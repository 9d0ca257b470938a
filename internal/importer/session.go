package importer

import (
	"context"
	"sync"

	"github.com/datsun80zx/stockdesk/internal/schema"
)

// Session is the state of one import panel: the selected file, the chosen
// entity kind and the outcome of the last run
type Session struct {
	importer *Importer

	mu   sync.Mutex
	file *File
	kind schema.Kind
	last *Result
}

// NewSession starts a panel importing products by default
func NewSession(imp *Importer) *Session {
	return &Session{importer: imp, kind: schema.KindProducts}
}

// Select validates f and makes it the current file. A rejected file leaves
// the previous selection and result untouched; an accepted one clears the
// last result.
func (s *Session) Select(f *File) error {
	if err := SelectFile(f); err != nil {
		return err
	}

	s.mu.Lock()
	s.file = f
	s.last = nil
	s.mu.Unlock()
	return nil
}

// SetKind chooses the entity schema for the next run
func (s *Session) SetKind(kind schema.Kind) error {
	if _, err := schema.For(kind); err != nil {
		return err
	}
	s.mu.Lock()
	s.kind = kind
	s.mu.Unlock()
	return nil
}

// Selected returns the current file, or nil
func (s *Session) Selected() *File {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file
}

// Run imports the selected file
func (s *Session) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	s.mu.Lock()
	file, kind := s.file, s.kind
	s.mu.Unlock()

	if file == nil {
		return nil, ErrNoFile
	}

	result, err := s.importer.Run(ctx, file, kind, progress)
	if result != nil {
		s.mu.Lock()
		s.last = result
		s.mu.Unlock()
	}
	return result, err
}

// Last returns the outcome of the most recent run, or nil
func (s *Session) Last() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}
