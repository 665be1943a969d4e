package cache

import "sync"

// VersionMemo is the process-wide "compiler-version memo" named in
// spec.md §5's shared-resource policy: a read-mostly map guarded by a
// single mutex with double-checked initialization, so two workers racing
// to probe the same compiler's version only pay the process-spawn cost
// once.
type VersionMemo struct {
	mu       sync.RWMutex
	versions map[string]string
}

// NewVersionMemo returns an empty memo ready to use.
func NewVersionMemo() *VersionMemo {
	return &VersionMemo{versions: make(map[string]string)}
}

// Get returns the memoized version string for compilerPath, probing via
// probe() on first request and caching a successful result. Probe errors
// are not cached, so a transient failure is retried on the next request.
func (m *VersionMemo) Get(compilerPath string, probe func() (string, error)) (string, error) {
	m.mu.RLock()
	if v, ok := m.versions[compilerPath]; ok {
		m.mu.RUnlock()
		return v, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.versions[compilerPath]; ok {
		return v, nil
	}
	v, err := probe()
	if err != nil {
		return "", err
	}
	m.versions[compilerPath] = v
	return v, nil
}
