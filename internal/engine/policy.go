package engine

import (
	"github.com/Akash-pugazh/gg-flash-mgr/internal/record"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

// capacityEntries is how many whole records fit under the configured byte cap.
func (e *Engine) capacityEntries() uint32 {
	return e.cfg.MaxDataSize / record.Size
}

// usageRatio is active bytes over configured capacity bytes.
func (e *Engine) usageRatio() float64 {
	return float64(e.meta.ActiveEntries) * record.Size / float64(e.cfg.MaxDataSize)
}

// autoCleanup evicts down to floor(capacity * CleanupTarget) entries. Called
// inline from the append that crossed the threshold, so that one call's
// latency absorbs the compaction cost.
func (e *Engine) autoCleanup() error {
	target := uint32(float64(e.capacityEntries()) * e.cfg.CleanupTarget)
	if e.meta.ActiveEntries <= target {
		return nil
	}
	remove := e.meta.ActiveEntries - target
	e.logger.Info("auto cleanup",
		logpkg.Uint32("remove", remove),
		logpkg.Uint32("keep", target),
	)
	_, err := e.Evict(remove)
	return err
}
