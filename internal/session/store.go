package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sekolahku/pelajar-gateway/internal/model"
)

var (
	ErrNotFound       = errors.New("import session not found")
	ErrSubmitInFlight = errors.New("submission already in flight")
	ErrRowNotFound    = errors.New("row not found")
)

// Store keeps import sessions in memory, keyed by session ID. Expired
// sessions are evicted lazily on access and periodically via Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewStore creates a Store whose sessions live for ttl after creation.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

// Create registers a new session holding the given reference data
// snapshot. refErr records why the snapshot is missing when ref is nil.
func (st *Store) Create(ref *model.ReferenceData, refErr string) Session {
	now := time.Now()
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(st.ttl),
		Reference: ref,
		RefError:  refErr,
	}

	st.mu.Lock()
	st.sessions[sess.ID] = sess
	st.mu.Unlock()

	return *sess
}

// Get returns the session with the given ID, evicting it first if it
// has expired.
func (st *Store) Get(id string) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.lookup(id)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// Delete removes the session with the given ID.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, err := st.lookup(id); err != nil {
		return err
	}
	delete(st.sessions, id)
	return nil
}

// SetRows replaces the session's rows with a freshly parsed set and
// clears any previous submission result.
func (st *Store) SetRows(id string, rows []model.ImportRow) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.lookup(id)
	if err != nil {
		return Session{}, err
	}

	sess.Rows = rows
	sess.Result = nil
	return *sess, nil
}

// RemoveRow deletes the row with the given sheet row number.
func (st *Store) RemoveRow(id string, rowNumber int) (Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.lookup(id)
	if err != nil {
		return Session{}, err
	}

	kept := make([]model.ImportRow, 0, len(sess.Rows))
	found := false
	for _, row := range sess.Rows {
		if row.RowNumber == rowNumber {
			found = true
			continue
		}
		kept = append(kept, row)
	}
	if !found {
		return Session{}, ErrRowNotFound
	}

	sess.Rows = kept
	return *sess, nil
}

// RemoveRows deletes every row whose sheet row number appears in
// rowNumbers and reports how many were removed. Numbers with no
// matching row are ignored.
func (st *Store) RemoveRows(id string, rowNumbers []int) (Session, int, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.lookup(id)
	if err != nil {
		return Session{}, 0, err
	}

	drop := make(map[int]bool, len(rowNumbers))
	for _, n := range rowNumbers {
		drop[n] = true
	}

	kept := make([]model.ImportRow, 0, len(sess.Rows))
	removed := 0
	for _, row := range sess.Rows {
		if drop[row.RowNumber] {
			removed++
			continue
		}
		kept = append(kept, row)
	}

	sess.Rows = kept
	return *sess, removed, nil
}

// BeginSubmit marks the session as submitting and returns a snapshot of
// its rows. Callers must pair it with EndSubmit.
func (st *Store) BeginSubmit(id string) ([]model.ImportRow, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, err := st.lookup(id)
	if err != nil {
		return nil, err
	}
	if sess.Submitting {
		return nil, ErrSubmitInFlight
	}

	sess.Submitting = true
	snapshot := make([]model.ImportRow, len(sess.Rows))
	copy(snapshot, sess.Rows)
	return snapshot, nil
}

// EndSubmit clears the submitting flag and, when result is non-nil,
// records the upstream outcome. A nil result leaves the rows available
// for a retry.
func (st *Store) EndSubmit(id string, result *model.ImportResult) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[id]
	if !ok {
		return
	}

	sess.Submitting = false
	if result != nil {
		sess.Result = result
	}
}

// Sweep evicts every expired session and returns how many were removed.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := time.Now()
	removed := 0
	for id, sess := range st.sessions {
		if sess.expired(now) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

// lookup must be called with st.mu held.
func (st *Store) lookup(id string) (*Session, error) {
	sess, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if sess.expired(time.Now()) {
		delete(st.sessions, id)
		return nil, ErrNotFound
	}
	return sess, nil
}
