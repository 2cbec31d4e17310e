package vscroll

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/xqrs/vscroll/internal/logging"
	"github.com/xqrs/vscroll/store"
)

// PersistKeyPrefix is prepended to a list's persist key to form the store key.
const PersistKeyPrefix = "scroll_"

// PersistKey returns the store key used for a list persisted under key.
func PersistKey(key string) string {
	return PersistKeyPrefix + key
}

// ScrollPersister remembers the scroll offset of one list in a store. Reads
// happen once at mount, writes are debounced. Store failures never reach the
// caller; they are logged and the list carries on.
type ScrollPersister struct {
	store     store.Store
	key       string
	debouncer *Debouncer
	logger    *slog.Logger

	// Only the first failure is logged at warn level.
	warned atomic.Bool
}

// NewScrollPersister returns a persister for key. An empty key or a nil store
// yields a persister that never touches storage.
func NewScrollPersister(st store.Store, key string, scheduler Scheduler, logger *slog.Logger) *ScrollPersister {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ScrollPersister{
		store:     st,
		key:       key,
		debouncer: NewDebouncer(scheduler, DefaultPersistDelay),
		logger:    logging.NewComponentLogger(logger, "persistence"),
	}
}

// Enabled reports whether offsets are read and written at all.
func (p *ScrollPersister) Enabled() bool {
	return p != nil && p.store != nil && p.key != ""
}

// Key returns the store key, including the prefix.
func (p *ScrollPersister) Key() string {
	if p == nil || p.key == "" {
		return ""
	}
	return PersistKey(p.key)
}

// Restore reads the stored offset. ok is false when nothing usable is stored.
func (p *ScrollPersister) Restore() (offset int, ok bool) {
	if !p.Enabled() {
		return 0, false
	}
	var (
		value string
		found bool
	)
	err := p.guard(func() error {
		var err error
		value, found, err = p.store.Get(p.Key())
		return err
	})
	if err != nil {
		p.report("read scroll offset", "persist_read_failed", err)
		return 0, false
	}
	if !found {
		return 0, false
	}
	offset, err = strconv.Atoi(strings.TrimSpace(value))
	if err != nil || offset < 0 {
		p.logger.Debug("ignoring stored scroll offset",
			logging.String(logging.FieldKey, p.Key()),
			logging.String("value", value))
		return 0, false
	}
	p.logger.Debug("restored scroll offset",
		logging.String(logging.FieldKey, p.Key()),
		logging.Int("scroll_top", offset))
	return offset, true
}

// Schedule writes offset once no other call has been made for
// DefaultPersistDelay.
func (p *ScrollPersister) Schedule(offset int) {
	if !p.Enabled() {
		return
	}
	p.debouncer.Trigger(func() {
		p.write(offset)
	})
}

// Pending reports whether a write is waiting to run.
func (p *ScrollPersister) Pending() bool {
	return p.Enabled() && p.debouncer.Pending()
}

// Cancel discards a pending write.
func (p *ScrollPersister) Cancel() {
	if p == nil {
		return
	}
	p.debouncer.Cancel()
}

func (p *ScrollPersister) write(offset int) {
	err := p.guard(func() error {
		return p.store.Set(p.Key(), strconv.Itoa(offset))
	})
	if err != nil {
		p.report("write scroll offset", "persist_write_failed", err)
		return
	}
	p.logger.Debug("persisted scroll offset",
		logging.String(logging.FieldKey, p.Key()),
		logging.Int("scroll_top", offset))
}

// guard runs fn and converts a panic from a broken store into an error.
func (p *ScrollPersister) guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("store panicked: %v", r)
		}
	}()
	return fn()
}

func (p *ScrollPersister) report(msg, eventType string, err error) {
	attrs := []logging.Attr{
		logging.String(logging.FieldKey, p.Key()),
		logging.Error(err),
	}
	if p.warned.Swap(true) {
		p.logger.Debug(msg, logging.Args(attrs...)...)
		return
	}
	attrs = append(attrs,
		logging.String(logging.FieldErrorHint, "check the configured store backend"),
		logging.String(logging.FieldImpact, "scroll position will not survive remounts"))
	logging.WarnWithContext(p.logger, msg, eventType, attrs...)
}
