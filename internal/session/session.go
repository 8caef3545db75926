// Package session holds per-user conversation state: the pending step
// continuation, the data bag collected across chat turns, and the set of
// transient messages to delete once a flow concludes.
package session

import (
	"sort"
	"sync"
	"time"

	"github.com/dkotenko/budgetbot/internal/errs"
)

// Step identifies a flow step continuation. Continuations are stored as
// tags rather than function references so state can be logged and the
// dispatcher can validate them against the step registry.
type Step string

// StepNone means no flow is in progress for the user.
const StepNone Step = ""

// Session keeps one user's conversation state. The same instance is
// returned for a user id for the whole process lifetime, so mutations
// made by a step are visible to the next dispatch.
type Session struct {
	userID int64

	// dispatchMu serializes event handling for the user: a second
	// concurrent update must not observe a half-advanced flow.
	dispatchMu sync.Mutex

	mu        sync.Mutex
	next      Step
	data      map[string]any
	ops       map[string]struct{}
	deletions map[int]struct{}
	touched   time.Time
}

func newSession(userID int64) *Session {
	return &Session{
		userID:    userID,
		data:      make(map[string]any),
		ops:       make(map[string]struct{}),
		deletions: make(map[int]struct{}),
		touched:   time.Now(),
	}
}

// UserID returns the owning ledger user id.
func (s *Session) UserID() int64 { return s.userID }

// Acquire blocks until the session is free for dispatching. Release must
// be called once handling finished.
func (s *Session) Acquire() { s.dispatchMu.Lock() }

// Release unlocks the session after dispatching.
func (s *Session) Release() { s.dispatchMu.Unlock() }

// SetNext registers the continuation to invoke on the user's next event.
func (s *Session) SetNext(step Step) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next = step
	s.touched = time.Now()
}

// TakeNext reads and clears the pending continuation in one step,
// preserving the at-most-one-in-flight guarantee.
func (s *Session) TakeNext() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.next
	s.next = StepNone
	s.touched = time.Now()
	return step
}

// Next reports the pending continuation without consuming it.
func (s *Session) Next() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next
}

// Populate merges the given fields into the data bag.
func (s *Session) Populate(fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range fields {
		s.data[k] = v
	}
	s.touched = time.Now()
}

// Set stores a single field.
func (s *Session) Set(key string, value any) {
	s.Populate(map[string]any{key: value})
}

// Require fails with StaleFlow unless every named field is present in
// the data bag. Continuation steps call it before trusting prior input.
func (s *Session) Require(fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var missing []string
	for _, f := range fields {
		if _, ok := s.data[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return errs.NewStaleFlow(missing...)
	}
	return nil
}

// Value returns a raw field from the data bag.
func (s *Session) Value(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

// String returns a string field, or "" when absent or mistyped.
func (s *Session) String(key string) string {
	v, ok := s.Value(key)
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// Int64 returns an int64 field, or 0 when absent or mistyped.
func (s *Session) Int64(key string) int64 {
	v, ok := s.Value(key)
	if !ok {
		return 0
	}
	n, _ := v.(int64)
	return n
}

// Time returns a time.Time field, or the zero time when absent.
func (s *Session) Time(key string) time.Time {
	v, ok := s.Value(key)
	if !ok {
		return time.Time{}
	}
	t, _ := v.(time.Time)
	return t
}

// ExpectOps replaces the set of callback operations the latest prompt
// offers. An empty set means no button press is currently routable.
func (s *Session) ExpectOps(ops []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = make(map[string]struct{}, len(ops))
	for _, op := range ops {
		s.ops[op] = struct{}{}
	}
	s.touched = time.Now()
}

// AllowsOp reports whether the latest prompt offered the operation.
// Buttons on older messages stay visible in the chat but are stale.
func (s *Session) AllowsOp(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ops[op]
	return ok
}

// Clear empties the data bag and the expected operations. The pending
// continuation is untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]any)
	s.ops = make(map[string]struct{})
	s.touched = time.Now()
}

// MarkDelete records chat message ids to remove when the flow concludes.
func (s *Session) MarkDelete(messageIDs ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range messageIDs {
		if id != 0 {
			s.deletions[id] = struct{}{}
		}
	}
}

// TakeDeletions returns and clears the recorded transient message ids.
func (s *Session) TakeDeletions() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]int, 0, len(s.deletions))
	for id := range s.deletions {
		out = append(out, id)
	}
	s.deletions = make(map[int]struct{})
	sort.Ints(out)
	return out
}

// idleSince reports the last mutation time for eviction decisions.
func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}
