// Package reportstore archives raw accrual report blobs content-addressed
// by their commitment digest. The settlement engine itself only ever sees
// digests; the archive exists so an auditor can retrieve the exact bytes a
// commitment was anchored over.
package reportstore

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sunyield-coop/libsunyield-go/commitment"
)

// Store is a filesystem-backed report archive.
// Files are stored at: {baseDir}/{hex(digest[:1])}/{hex(digest)}
// The first byte (2 hex chars) is used as a subdirectory for sharding.
type Store struct {
	baseDir string
	mu      sync.RWMutex
}

// NewStore creates a report archive rooted at baseDir, creating the
// directory if it does not exist.
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		return nil, ErrInvalidBaseDir
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Put archives a report and returns its commitment digest. Re-archiving
// identical bytes is a no-op landing on the same path.
func (s *Store) Put(report []byte) (commitment.Commitment, error) {
	if len(report) == 0 {
		return commitment.Commitment{}, ErrEmptyReport
	}

	digest := commitment.New(report)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.shardDir(digest), 0700); err != nil {
		return commitment.Commitment{}, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if err := os.WriteFile(s.filePath(digest), report, 0600); err != nil {
		return commitment.Commitment{}, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return digest, nil
}

// Get retrieves a report by digest, verifying the bytes still match it.
func (s *Store) Get(digest commitment.Commitment) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.filePath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, digest.Hex())
		}
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	if !commitment.New(data).Equal(digest) {
		return nil, fmt.Errorf("%w: %s", ErrDigestMismatch, digest.Hex())
	}
	return data, nil
}

// Has checks whether a report is archived under the digest.
func (s *Store) Has(digest commitment.Commitment) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.filePath(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return true, nil
}

// List returns the digests of all archived reports.
func (s *Store) List() ([]commitment.Commitment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var digests []commitment.Commitment
	err := filepath.WalkDir(s.baseDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		digest, err := commitment.FromHex(d.Name())
		if err != nil {
			return nil // foreign file, skip
		}
		digests = append(digests, digest)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFailure, err)
	}
	return digests, nil
}

// shardDir returns the shard directory path for a digest.
func (s *Store) shardDir(digest commitment.Commitment) string {
	return filepath.Join(s.baseDir, hex.EncodeToString(digest[:1]))
}

// filePath returns the full file path for a digest.
func (s *Store) filePath(digest commitment.Commitment) string {
	return filepath.Join(s.shardDir(digest), digest.Hex())
}
