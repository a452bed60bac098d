package engine

import (
	"errors"
	"os"
	"testing"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/config"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.MaxDataSize = 1024 // capacity of 64 records
	cfg.ChunkBufferSize = 1024
	cfg.AutoCleanup = false
	return cfg
}

func openTestEngine(t *testing.T, cfg config.Config) *Engine {
	t.Helper()
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := eng.Open(); err != nil {
		t.Fatalf("open engine: %v", err)
	}
	t.Cleanup(func() { _ = eng.Close() })
	return eng
}

func appendN(t *testing.T, eng *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := eng.AppendAt(uint32(1000+i), 1, 2, int32(i)*10); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
}

func TestAppendReadEvictScenario(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	appendN(t, eng, 10)

	st, err := eng.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.ActiveEntries != 10 || st.TotalEntries != 10 {
		t.Fatalf("want 10 active / 10 total, got %+v", st)
	}

	recs, err := eng.ReadChunk(5)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(recs) != 5 || recs[0].ID != 0 || recs[4].ID != 4 {
		t.Fatalf("want ids 0..4, got %d records starting at %d", len(recs), recs[0].ID)
	}

	evicted, err := eng.Evict(5)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if evicted != 5 {
		t.Fatalf("want 5 evicted, got %d", evicted)
	}

	recs, err = eng.ReadChunk(0)
	if err != nil {
		t.Fatalf("read after evict: %v", err)
	}
	if len(recs) != 5 || recs[0].ID != 5 || recs[4].ID != 9 {
		t.Fatalf("want ids 5..9 after evict, got %d records starting at %d", len(recs), recs[0].ID)
	}

	st, _ = eng.Status()
	if st.ActiveEntries != 5 || st.DeletedEntries != 5 || st.TotalEntries != 10 {
		t.Fatalf("ledger counters off after evict: %+v", st)
	}
}

func TestReadOrderNonDecreasingIDs(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	appendN(t, eng, 20)
	if _, err := eng.Evict(7); err != nil {
		t.Fatalf("evict: %v", err)
	}
	appendN(t, eng, 5)

	recs, err := eng.ReadChunk(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].ID <= recs[i-1].ID {
			t.Fatalf("ids not strictly increasing at %d: %d then %d", i, recs[i-1].ID, recs[i].ID)
		}
	}
}

func TestEvictClampsToActive(t *testing.T) {
	cfg := testConfig(t)
	eng := openTestEngine(t, cfg)
	appendN(t, eng, 3)

	evicted, err := eng.Evict(999)
	if err != nil {
		t.Fatalf("evict: %v", err)
	}
	if evicted != 3 {
		t.Fatalf("want clamp to 3, got %d", evicted)
	}
	if _, err := os.Stat(cfg.DataPath()); !os.IsNotExist(err) {
		t.Fatalf("want data file absent after full evict, stat err = %v", err)
	}
}

func TestEvictZeroAndCleanupAtTargetAreNoops(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	appendN(t, eng, 4)
	before, _ := eng.Status()

	if n, err := eng.Evict(0); err != nil || n != 0 {
		t.Fatalf("evict(0): n=%d err=%v", n, err)
	}
	if n, err := eng.Cleanup(4); err != nil || n != 0 {
		t.Fatalf("cleanup(active): n=%d err=%v", n, err)
	}
	after, _ := eng.Status()
	if before != after {
		t.Fatalf("ledger changed by no-ops: before=%+v after=%+v", before, after)
	}
}

func TestCleanupToTarget(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	appendN(t, eng, 10)
	n, err := eng.Cleanup(4)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if n != 6 {
		t.Fatalf("want 6 evicted, got %d", n)
	}
	st, _ := eng.Status()
	if st.ActiveEntries != 4 {
		t.Fatalf("want 4 active, got %d", st.ActiveEntries)
	}
}

func TestAutoCleanupThreshold(t *testing.T) {
	cfg := testConfig(t)
	cfg.AutoCleanup = true
	cfg.CleanupThreshold = 0.9
	cfg.CleanupTarget = 0.7
	eng := openTestEngine(t, cfg)

	// Capacity is 64 records; the append that reaches ceil(0.9*64) = 58
	// crosses the threshold and cleanup evicts down to floor(0.7*64) = 44.
	appendN(t, eng, 58)

	st, err := eng.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.ActiveEntries != 44 {
		t.Fatalf("want 44 active after auto cleanup, got %d", st.ActiveEntries)
	}
	if st.TotalEntries != 58 || st.DeletedEntries != 14 {
		t.Fatalf("counters off after auto cleanup: %+v", st)
	}

	recs, err := eng.ReadChunk(1)
	if err != nil || len(recs) != 1 {
		t.Fatalf("read: %d records, err %v", len(recs), err)
	}
	if recs[0].ID != 14 {
		t.Fatalf("want oldest surviving id 14, got %d", recs[0].ID)
	}
}

func TestOpenTwiceIsIdempotent(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	if err := eng.Open(); err != nil {
		t.Fatalf("second open: %v", err)
	}
	if !eng.IsOpen() {
		t.Fatalf("engine should remain open")
	}
}

func TestOperationsFailWhenClosed(t *testing.T) {
	cfg := testConfig(t)
	eng, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	// Never opened.
	if _, err := eng.Append(1, 2, 3); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("append: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.ReadChunk(1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("read: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.Evict(1); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("evict: want ErrInvalidState, got %v", err)
	}
	if _, err := eng.Status(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("status: want ErrInvalidState, got %v", err)
	}
	if err := eng.Format(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("format: want ErrInvalidState, got %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	if err := eng.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := eng.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}

func TestCountersSurviveReopen(t *testing.T) {
	cfg := testConfig(t)
	eng := openTestEngine(t, cfg)
	appendN(t, eng, 3)
	if err := eng.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	eng2 := openTestEngine(t, cfg)
	st, err := eng2.Status()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.TotalEntries != 3 || st.ActiveEntries != 3 {
		t.Fatalf("counters lost across reopen: %+v", st)
	}
	rec, err := eng2.Append(1, 1, 1)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if rec.ID != 3 {
		t.Fatalf("want next id 3 after reopen, got %d", rec.ID)
	}
}

func TestFormatResets(t *testing.T) {
	cfg := testConfig(t)
	eng := openTestEngine(t, cfg)
	appendN(t, eng, 5)
	if err := eng.Format(); err != nil {
		t.Fatalf("format: %v", err)
	}
	st, _ := eng.Status()
	if st.TotalEntries != 0 || st.ActiveEntries != 0 || st.DeletedEntries != 0 {
		t.Fatalf("want zeroed counters after format, got %+v", st)
	}
	if _, err := os.Stat(cfg.DataPath()); !os.IsNotExist(err) {
		t.Fatalf("want data file absent after format, stat err = %v", err)
	}
}

func TestFormatOnInit(t *testing.T) {
	cfg := testConfig(t)
	eng := openTestEngine(t, cfg)
	appendN(t, eng, 5)
	if err := eng.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	cfg.FormatOnInit = true
	eng2 := openTestEngine(t, cfg)
	st, _ := eng2.Status()
	if st.TotalEntries != 0 || st.ActiveEntries != 0 {
		t.Fatalf("want wiped storage with FormatOnInit, got %+v", st)
	}
}

func TestActiveMatchesReadable(t *testing.T) {
	eng := openTestEngine(t, testConfig(t))
	appendN(t, eng, 13)
	if _, err := eng.Evict(4); err != nil {
		t.Fatalf("evict: %v", err)
	}
	st, _ := eng.Status()
	recs, err := eng.ReadChunk(0)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if uint32(len(recs)) != st.ActiveEntries {
		t.Fatalf("active=%d but %d records readable", st.ActiveEntries, len(recs))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CleanupThreshold = 0.5
	cfg.CleanupTarget = 0.6 // target above threshold
	if _, err := New(cfg, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}
