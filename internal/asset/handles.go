package asset

import (
	"log"
	"sync"
)

// AcquireStatus classifies the result of HandleTable.Acquire.
type AcquireStatus int

const (
	// AcquireMiss means no record exists; the caller must BeginLoad.
	AcquireMiss AcquireStatus = iota
	// AcquireCached means the record is resolved; Value/Err carry the result.
	AcquireCached
	// AcquireJoining means a load is in flight; wait on Done, then Result.
	AcquireJoining
)

// Acquisition is the outcome of an Acquire call. On Cached and Joining the
// caller now holds one reference and must balance it with Release.
type Acquisition struct {
	Status AcquireStatus
	Value  Value
	Err    error
	Done   <-chan struct{}
}

// ReleaseAction tells the caller what a Release decided.
type ReleaseAction int

const (
	// ReleaseNone: references remain, or there was nothing to release.
	ReleaseNone ReleaseAction = iota
	// ReleaseImmediate: last reference dropped on a resolved record; the
	// caller must hand the returned value to Backend.ReleaseNow.
	ReleaseImmediate
	// ReleaseDeferred: last reference dropped while the load is still in
	// flight; the completion continuation performs the release.
	ReleaseDeferred
)

// Released pairs a key with its value for backend release.
type Released struct {
	Key   string
	Value Value
}

type record struct {
	refs              int
	resolved          bool // done closed, value/err final
	value             Value
	err               error
	done              chan struct{}
	progress          []ProgressFunc
	releaseWhenLoaded bool
}

// HandleTable is the single source of truth for per-key reference counts and
// in-flight load state. One mutex guards the whole table so the
// check-and-create sequence in Acquire/BeginLoad stays atomic. A record
// exists iff its refcount is positive or a load is still registered for it.
type HandleTable struct {
	mu      sync.Mutex
	records map[string]*record
}

// NewHandleTable creates an empty table.
func NewHandleTable() *HandleTable {
	return &HandleTable{records: make(map[string]*record)}
}

// Acquire takes one reference on key if a record exists. On a miss nothing is
// taken and the caller is expected to BeginLoad (re-checking via Acquire on
// ErrAlreadyInFlight, which closes the create-or-join race).
func (t *HandleTable) Acquire(key string) Acquisition {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[key]
	if !ok {
		return Acquisition{Status: AcquireMiss}
	}
	rec.refs++
	rec.releaseWhenLoaded = false
	if !rec.resolved {
		return Acquisition{Status: AcquireJoining, Done: rec.done}
	}
	return Acquisition{Status: AcquireCached, Value: rec.value, Err: rec.err}
}

// BeginLoad registers a fresh in-flight load for key with refcount 1 and
// returns the channel CompleteLoad will close. Fails with ErrAlreadyInFlight
// if any record already exists.
func (t *HandleTable) BeginLoad(key string) (<-chan struct{}, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.records[key]; ok {
		return nil, ErrAlreadyInFlight
	}
	rec := &record{refs: 1, done: make(chan struct{})}
	t.records[key] = rec
	return rec.done, nil
}

// SubscribeProgress appends a progress callback to an in-flight record.
// No-op if the key is unknown or already resolved.
func (t *HandleTable) SubscribeProgress(key string, fn ProgressFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[key]
	if !ok || rec.resolved {
		return
	}
	rec.progress = append(rec.progress, fn)
}

// NotifyProgress fans fraction out to every subscriber of key. Callbacks run
// outside the table lock.
func (t *HandleTable) NotifyProgress(key string, fraction float64) {
	t.mu.Lock()
	rec, ok := t.records[key]
	var subs []ProgressFunc
	if ok && !rec.resolved {
		subs = append(subs, rec.progress...)
	}
	t.mu.Unlock()
	for _, fn := range subs {
		fn(fraction)
	}
}

// CompleteLoad resolves an in-flight record and wakes all joiners. If the
// last reference was already dropped (releaseWhenLoaded), the record is
// removed here; releaseNow reports whether the caller must invoke the
// backend release with the returned value.
func (t *HandleTable) CompleteLoad(key string, value Value, err error) (releaseNow bool, released Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[key]
	if !ok || rec.resolved {
		log.Printf("asset: CompleteLoad(%q) without a pending record", key)
		return false, nil
	}
	rec.resolved = true
	rec.value = value
	rec.err = err
	rec.progress = nil
	close(rec.done)
	if rec.releaseWhenLoaded || rec.refs <= 0 {
		delete(t.records, key)
		if err == nil {
			return true, value
		}
	}
	return false, nil
}

// Result returns the resolved value for key. Valid only after the record's
// done channel is closed and while the caller still holds a reference.
func (t *HandleTable) Result(key string) (Value, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[key]
	if !ok || !rec.resolved {
		log.Printf("asset: Result(%q) with no resolved record", key)
		return nil, ErrLoadFailed
	}
	return rec.value, rec.err
}

// Release drops one reference. On the last reference of a resolved record
// the record is removed and ReleaseImmediate tells the caller to release the
// returned value; on a still-pending record the release is deferred to the
// completion continuation. Unknown keys log a lifetime misuse and no-op.
func (t *HandleTable) Release(key string) (ReleaseAction, Value) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, ok := t.records[key]
	if !ok {
		log.Printf("asset: Release(%q) without a matching Acquire (lifetime misuse)", key)
		return ReleaseNone, nil
	}
	rec.refs--
	if rec.refs > 0 {
		return ReleaseNone, nil
	}
	if !rec.resolved {
		rec.releaseWhenLoaded = true
		return ReleaseDeferred, nil
	}
	delete(t.records, key)
	if rec.err != nil {
		return ReleaseNone, nil
	}
	return ReleaseImmediate, rec.value
}

// Sweep removes resolved records whose refcount dropped to zero or below and
// returns their values for backend release. Pending records are left alone;
// they are already flagged for release on completion. Records like these
// should not normally exist (Release removes them synchronously), so Sweep
// is a defensive backstop for ClearUnused.
func (t *HandleTable) Sweep() []Released {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []Released
	for key, rec := range t.records {
		if rec.refs > 0 || !rec.resolved {
			continue
		}
		delete(t.records, key)
		if rec.err == nil {
			out = append(out, Released{Key: key, Value: rec.value})
		}
	}
	return out
}

// Refs returns the current refcount for key (0 for unknown keys).
func (t *HandleTable) Refs(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if rec, ok := t.records[key]; ok {
		return rec.refs
	}
	return 0
}

// Len returns the number of live records.
func (t *HandleTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
