// Package usecase contains the application use cases.
package usecase

import (
	"github.com/yonekura-dev/docmark/internal/domain"
	"github.com/yonekura-dev/docmark/internal/hashing"
)

// ChangeDetector answers whether content behind a subject has changed
// since it was last recorded. Recording is deliberately separate from
// checking: a fingerprint is written only after the work the check
// triggered has been durably produced.
type ChangeDetector struct {
	fingerprints domain.FingerprintRepository
}

// NewChangeDetector creates a new ChangeDetector.
func NewChangeDetector(fingerprints domain.FingerprintRepository) *ChangeDetector {
	return &ChangeDetector{fingerprints: fingerprints}
}

// Check compares content against the stored fingerprint for subject.
// A subject never seen before reports changed with no prior record.
func (d *ChangeDetector) Check(subject, content string) (changed bool, prior *domain.Fingerprint, err error) {
	fp, err := d.fingerprints.Get(subject)
	if err != nil {
		return false, nil, err
	}
	if fp == nil {
		return true, nil, nil
	}
	return fp.Hash != hashing.String(content), fp, nil
}

// Record stores the fingerprint for subject at the given anchor line.
func (d *ChangeDetector) Record(subject, content string, line int) error {
	return d.fingerprints.Put(domain.Fingerprint{
		Subject: subject,
		Hash:    hashing.String(content),
		Line:    line,
	})
}

// FileSetHash derives an order-independent digest for a set of per-file
// hashes. Two scans over the same content agree regardless of walk order.
func (d *ChangeDetector) FileSetHash(fileHashes []string) string {
	return hashing.Aggregate(fileHashes)
}

// NeedsRegeneration reports whether the artifact keyed by subject is stale
// relative to its source files. Sources are compared by content, not mtime,
// and their order does not matter. A subject never committed reports stale.
func (d *ChangeDetector) NeedsRegeneration(subject string, sources ...string) (bool, error) {
	current, err := d.sourceSetHash(sources)
	if err != nil {
		return false, err
	}
	fp, err := d.fingerprints.Get(subject)
	if err != nil {
		return false, err
	}
	if fp == nil {
		return true, nil
	}
	return fp.Hash != current, nil
}

// Commit stores the aggregate fingerprint for subject. Call it only after
// the artifact derived from sources has been durably produced.
func (d *ChangeDetector) Commit(subject string, sources ...string) error {
	current, err := d.sourceSetHash(sources)
	if err != nil {
		return err
	}
	return d.fingerprints.Put(domain.Fingerprint{
		Subject: subject,
		Hash:    current,
	})
}

func (d *ChangeDetector) sourceSetHash(sources []string) (string, error) {
	digests := make([]string, 0, len(sources))
	for _, src := range sources {
		h, err := hashing.File(src)
		if err != nil {
			return "", err
		}
		digests = append(digests, h)
	}
	return hashing.Aggregate(digests), nil
}
