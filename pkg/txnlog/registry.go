package txnlog

import "sync"

// The process-wide sink registry maps a resolved destination path to
// its one rotating file sink. Loggers constructed against the same
// path share the sink, so their lines never interleave mid-record and
// the file is backed by a single descriptor. The sink lives until the
// last logger referencing it closes.
var (
	registryMu sync.Mutex
	registry   = make(map[string]*fileSink)
)

// acquireFileSink returns the shared sink for path, creating it on
// first use. Rotation settings are fixed by whichever logger opened
// the path first.
func acquireFileSink(path string, maxBytes int64, backups int) (*fileSink, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if s, ok := registry[path]; ok {
		s.refs++
		return s, nil
	}
	s, err := openFileSink(path, maxBytes, backups)
	if err != nil {
		return nil, err
	}
	s.refs = 1
	registry[path] = s
	return s, nil
}

// releaseFileSink drops one reference, closing the sink and removing
// it from the registry when no logger uses it anymore.
func releaseFileSink(s *fileSink) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	s.refs--
	if s.refs > 0 {
		return nil
	}
	delete(registry, s.path)
	return s.close()
}
