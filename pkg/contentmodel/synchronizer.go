package contentmodel

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// BuildResult reports what a Build applied to the store, by content type id.
type BuildResult struct {
	Inserted  []string `json:"inserted"`
	Updated   []string `json:"updated"`
	Unchanged []string `json:"unchanged"`
	DryRun    bool     `json:"dryRun"`
}

// Changed reports whether the build inserted or updated anything.
func (r *BuildResult) Changed() bool {
	return len(r.Inserted) > 0 || len(r.Updated) > 0
}

// Synchronizer reconciles extracted descriptors against a Store.
//
// A Build is not transactional: when the store fails part way through, the
// inserts and updates already applied remain and the returned result lists
// them. A single writer is assumed.
type Synchronizer struct {
	store  Store
	events EventSink
	logger *slog.Logger
	dryRun bool
	now    func() time.Time

	mu      sync.Mutex
	built   bool
	touched map[string]struct{}
}

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithSyncEventSink sets the sink notified of every store mutation.
func WithSyncEventSink(sink EventSink) SyncOption {
	return func(s *Synchronizer) {
		s.events = sink
	}
}

// WithSyncLogger sets the logger used by the synchronizer.
func WithSyncLogger(logger *slog.Logger) SyncOption {
	return func(s *Synchronizer) {
		s.logger = logger
	}
}

// WithDryRun makes Build and DeleteOrphans report their plan without
// writing to the store.
func WithDryRun(dryRun bool) SyncOption {
	return func(s *Synchronizer) {
		s.dryRun = dryRun
	}
}

// NewSynchronizer creates a synchronizer writing to store.
func NewSynchronizer(store Store, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		store:  store,
		events: NewNoopEventSink(),
		logger: slog.Default(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Build inserts absent descriptors, replaces changed ones and leaves
// identical ones alone. Every id passed in is recorded as touched for the
// next DeleteOrphans call, even when the store fails part way.
func (s *Synchronizer) Build(ctx context.Context, types ...*ContentType) (*BuildResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := &BuildResult{DryRun: s.dryRun}

	// A rejected build leaves no touched set behind.
	s.built = false
	s.touched = nil

	seen := make(map[string]struct{}, len(types))
	for _, t := range types {
		if t == nil {
			return result, &SchemaValidationError{Reason: "nil content type"}
		}
		if err := t.Validate(); err != nil {
			return result, err
		}
		if _, dup := seen[t.ID]; dup {
			return result, &SchemaValidationError{TypeID: t.ID, ID: t.ID, Reason: "duplicate content type id"}
		}
		seen[t.ID] = struct{}{}
	}
	s.touched = seen
	s.built = true

	for _, t := range types {
		stored, err := s.store.GetByID(ctx, t.ID)
		switch {
		case errors.Is(err, ErrContentTypeNotFound):
			if err := s.insert(ctx, t); err != nil {
				return result, err
			}
			result.Inserted = append(result.Inserted, t.ID)

		case err != nil:
			return result, err

		case Equal(stored, t):
			result.Unchanged = append(result.Unchanged, t.ID)

		default:
			s.logger.DebugContext(ctx, "Content type changed", "type_id", t.ID, "diff", Diff(stored, t))
			if err := s.update(ctx, stored, t); err != nil {
				return result, err
			}
			result.Updated = append(result.Updated, t.ID)
		}
	}

	s.logger.InfoContext(ctx, "Content types synchronized",
		"inserted", len(result.Inserted),
		"updated", len(result.Updated),
		"unchanged", len(result.Unchanged),
		"dry_run", s.dryRun)
	return result, nil
}

func (s *Synchronizer) insert(ctx context.Context, t *ContentType) error {
	record := t.Clone()
	now := s.now()
	record.Created = now
	record.LastModified = now
	if s.dryRun {
		return nil
	}
	if err := s.store.Save(ctx, record); err != nil {
		return err
	}
	if err := s.events.ContentTypeCreated(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "type_id", t.ID, "error", err)
	}
	return nil
}

func (s *Synchronizer) update(ctx context.Context, stored, t *ContentType) error {
	record := t.Clone()
	record.Created = stored.Created
	record.LastModified = s.now()
	if s.dryRun {
		return nil
	}
	if err := s.store.Save(ctx, record); err != nil {
		return err
	}
	if err := s.events.ContentTypeUpdated(ctx, record); err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "type_id", t.ID, "error", err)
	}
	return nil
}

// DeleteOrphans removes every stored descriptor whose id was not passed to
// the preceding Build and returns the removed ids. It returns ErrNoBuild when
// no Build has run on this synchronizer or the most recent one was rejected
// by validation.
func (s *Synchronizer) DeleteOrphans(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.built {
		return nil, ErrNoBuild
	}

	stored, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	var deleted []string
	for _, t := range stored {
		if _, ok := s.touched[t.ID]; ok {
			continue
		}
		if !s.dryRun {
			if err := s.store.Delete(ctx, t.ID); err != nil {
				return deleted, err
			}
			if err := s.events.ContentTypeDeleted(ctx, t.ID); err != nil {
				s.logger.WarnContext(ctx, "Event sink failed", "type_id", t.ID, "error", err)
			}
		}
		deleted = append(deleted, t.ID)
	}

	if len(deleted) > 0 {
		s.logger.InfoContext(ctx, "Orphan content types removed", "count", len(deleted), "type_ids", deleted, "dry_run", s.dryRun)
	}
	return deleted, nil
}
