package engine

import (
	"fmt"
	"time"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/config"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/ledger"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/logstore"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/record"
	"github.com/Akash-pugazh/gg-flash-mgr/pkg/fsutil"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

// Status is a point-in-time view of the ledger counters and derived usage.
type Status struct {
	TotalEntries   uint32 `json:"totalEntries"`
	ActiveEntries  uint32 `json:"activeEntries"`
	DeletedEntries uint32 `json:"deletedEntries"`
	UsedBytes      uint32 `json:"usedBytes"`
	FreeBytes      uint32 `json:"freeBytes"`
}

// Engine composes the record store, the ledger, and the eviction policy
// behind a single lifecycle-managed handle.
//
// An Engine is a single-caller resource: it performs no internal locking, and
// concurrent use requires external synchronization (see the http server for
// an integrator-side mutex).
type Engine struct {
	cfg    config.Config
	store  *logstore.Store
	meta   ledger.Ledger
	logger logpkg.Logger
	open   bool

	// now is swappable for tests.
	now func() time.Time
}

// New validates cfg and returns an unopened Engine.
func New(cfg config.Config, logger logpkg.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	if logger == nil {
		logger = logpkg.NewNopLogger()
	}
	logger = logger.WithComponent("engine")
	return &Engine{
		cfg:    cfg,
		store:  logstore.New(cfg.DataPath(), cfg.ChunkBufferSize, logger),
		logger: logger,
		now:    time.Now,
	}, nil
}

// Open loads (or initializes) the ledger and transitions the engine to the
// open state. Opening an already-open engine is an idempotent success; the
// configuration from the first call remains in effect.
func (e *Engine) Open() error {
	if e.open {
		e.logger.Warn("engine already open")
		return nil
	}

	dir := e.cfg.DataDir
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	if err := fsutil.EnsureDir(dir); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	if e.cfg.FormatOnInit {
		e.logger.Warn("formatting storage on init")
		if err := e.wipe(); err != nil {
			return err
		}
	}

	meta, err := ledger.Load(e.cfg.MetaPath())
	if err != nil {
		return err
	}
	e.meta = meta

	// The ledger stays authoritative, but a disagreeing file length is worth
	// flagging: it means a crash landed between the two file updates.
	if size, err := e.store.SizeOnDisk(); err == nil {
		if want := int64(meta.ActiveEntries) * record.Size; size != want {
			e.logger.Warn("data file length disagrees with ledger",
				logpkg.Int64("file_bytes", size),
				logpkg.Int64("ledger_bytes", want),
			)
		}
	}

	e.open = true
	e.logger.Info("engine opened",
		logpkg.Str("data_file", e.cfg.DataPath()),
		logpkg.Uint32("active", e.meta.ActiveEntries),
		logpkg.Uint32("capacity", e.capacityEntries()),
		logpkg.Bool("auto_cleanup", e.cfg.AutoCleanup),
	)
	return nil
}

// Close persists the ledger and transitions the engine to the closed state.
// Closing a closed engine is a no-op success.
func (e *Engine) Close() error {
	if !e.open {
		return nil
	}
	err := e.meta.Save(e.cfg.MetaPath())
	e.open = false
	e.logger.Info("engine closed")
	return err
}

// IsOpen reports whether the engine is open.
func (e *Engine) IsOpen() bool { return e.open }

// Config returns the engine configuration.
func (e *Engine) Config() config.Config { return e.cfg }

// Append stores one measurement stamped with the current wall clock (or the
// next record ID as a monotonic fallback when the clock is unset) and returns
// the record as written.
func (e *Engine) Append(typ, unit uint8, valueX1000 int32) (record.Record, error) {
	return e.AppendAt(e.timestamp(), typ, unit, valueX1000)
}

// AppendAt stores one measurement with a caller-supplied timestamp. When auto
// cleanup is enabled and the append pushes usage past the threshold, eviction
// runs inline; an eviction failure is logged but does not fail the append.
func (e *Engine) AppendAt(ts uint32, typ, unit uint8, valueX1000 int32) (record.Record, error) {
	if !e.open {
		return record.Record{}, ErrInvalidState
	}

	rec := record.Record{
		Timestamp: ts,
		ID:        e.meta.NextID,
		Type:      typ,
		Unit:      unit,
		Value:     valueX1000,
	}
	if err := e.store.Append(rec); err != nil {
		return record.Record{}, err
	}
	e.meta.NextID++
	e.meta.TotalEntries++
	e.meta.ActiveEntries++

	if e.cfg.AutoCleanup && e.usageRatio() >= e.cfg.CleanupThreshold {
		e.logger.Warn("usage crossed cleanup threshold",
			logpkg.F64("ratio", e.usageRatio()),
			logpkg.Uint32("active", e.meta.ActiveEntries),
		)
		if err := e.autoCleanup(); err != nil {
			// Best-effort: the append itself has committed.
			e.logger.Error("auto cleanup failed", logpkg.Err(err))
		}
	}

	if err := e.meta.Save(e.cfg.MetaPath()); err != nil {
		return rec, err
	}
	return rec, nil
}

// ReadChunk returns up to limit records from the start of the log, oldest
// first. limit == 0 means all active records. The result is a snapshot:
// re-reading starts from the oldest record again until an eviction removes
// consumed records.
func (e *Engine) ReadChunk(limit uint32) ([]record.Record, error) {
	if !e.open {
		return nil, ErrInvalidState
	}
	if limit == 0 {
		limit = e.meta.ActiveEntries
	}
	return e.store.ReadChunk(limit, e.meta.ActiveEntries)
}

// Evict permanently removes the oldest count records, clamped to the number
// of active entries. Returns the number actually evicted. A ledger
// persistence failure after a committed eviction is surfaced, but the
// eviction itself is not rolled back.
func (e *Engine) Evict(count uint32) (uint32, error) {
	if !e.open {
		return 0, ErrInvalidState
	}
	if count > e.meta.ActiveEntries {
		count = e.meta.ActiveEntries
	}
	if count == 0 {
		return 0, nil
	}
	if err := e.store.Evict(count, e.meta.ActiveEntries); err != nil {
		return 0, err
	}
	e.meta.ActiveEntries -= count
	e.meta.DeletedFromStart += count
	e.logger.Info("evicted records",
		logpkg.Uint32("count", count),
		logpkg.Uint32("active", e.meta.ActiveEntries),
		logpkg.Uint32("deleted_total", e.meta.DeletedFromStart),
	)
	if err := e.meta.Save(e.cfg.MetaPath()); err != nil {
		return count, err
	}
	return count, nil
}

// Cleanup evicts oldest records until at most targetEntries remain. A target
// at or above the active count is a no-op.
func (e *Engine) Cleanup(targetEntries uint32) (uint32, error) {
	if !e.open {
		return 0, ErrInvalidState
	}
	if targetEntries >= e.meta.ActiveEntries {
		return 0, nil
	}
	return e.Evict(e.meta.ActiveEntries - targetEntries)
}

// Format deletes both files and resets the ledger. Irreversible.
func (e *Engine) Format() error {
	if !e.open {
		return ErrInvalidState
	}
	e.logger.Warn("formatting storage, all records will be lost")
	if err := e.wipe(); err != nil {
		return err
	}
	e.meta = ledger.Ledger{}
	return e.meta.Save(e.cfg.MetaPath())
}

// Status reports the ledger counters and derived byte usage. Pure read.
func (e *Engine) Status() (Status, error) {
	if !e.open {
		return Status{}, ErrInvalidState
	}
	used := e.meta.ActiveEntries * record.Size
	return Status{
		TotalEntries:   e.meta.TotalEntries,
		ActiveEntries:  e.meta.ActiveEntries,
		DeletedEntries: e.meta.DeletedFromStart,
		UsedBytes:      used,
		FreeBytes:      e.cfg.MaxDataSize - used,
	}, nil
}

// FSUsage reports capacity and usage of the filesystem hosting the data
// directory.
func (e *Engine) FSUsage() (fsutil.DiskUsage, error) {
	if !e.open {
		return fsutil.DiskUsage{}, ErrInvalidState
	}
	dir := e.cfg.DataDir
	if dir == "" {
		dir = config.DefaultDataDir()
	}
	return fsutil.Usage(dir)
}

func (e *Engine) wipe() error {
	if err := e.store.Remove(); err != nil {
		return err
	}
	return fsutil.RemoveIfExists(e.cfg.MetaPath())
}

func (e *Engine) timestamp() uint32 {
	if now := e.now().Unix(); now > 0 {
		return uint32(now)
	}
	// No wall clock yet; the record ID is at least monotonic.
	return e.meta.NextID
}
