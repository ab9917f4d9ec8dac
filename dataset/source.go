package dataset

import (
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Source hands out the Dataset at a fixed path, loading it on first use and
// caching it for the rest of the process. Failed loads are not cached.
type Source struct {
	path     string
	load     Loader
	observer func(time.Duration, int)

	group singleflight.Group
	mu    sync.RWMutex
	ds    *Dataset
}

// SourceOption configures a Source.
type SourceOption func(*Source)

// WithLoader replaces the extension-based Load.
func WithLoader(l Loader) SourceOption {
	return func(s *Source) { s.load = l }
}

// WithLoadObserver registers a callback receiving the duration and record
// count of every successful load.
func WithLoadObserver(fn func(time.Duration, int)) SourceOption {
	return func(s *Source) { s.observer = fn }
}

func NewSource(path string, opts ...SourceOption) *Source {
	s := &Source{path: path, load: Load}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the file this Source reads.
func (s *Source) Path() string { return s.path }

// Dataset returns the cached Dataset, loading it if needed. Concurrent first
// calls share a single load.
func (s *Source) Dataset() (*Dataset, error) {
	s.mu.RLock()
	ds := s.ds
	s.mu.RUnlock()
	if ds != nil {
		return ds, nil
	}

	v, err, _ := s.group.Do(s.path, func() (any, error) {
		s.mu.RLock()
		cached := s.ds
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}

		start := time.Now()
		loaded, err := s.load(s.path)
		if err != nil {
			return nil, err
		}
		if s.observer != nil {
			s.observer(time.Since(start), loaded.Len())
		}
		s.mu.Lock()
		s.ds = loaded
		s.mu.Unlock()
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Dataset), nil
}
