package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Akash-pugazh/gg-flash-mgr/internal/engine"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/filter"
	"github.com/Akash-pugazh/gg-flash-mgr/internal/record"
	logpkg "github.com/Akash-pugazh/gg-flash-mgr/pkg/log"
)

type recordJSON struct {
	ID         uint32  `json:"id"`
	Timestamp  uint32  `json:"timestamp"`
	Type       uint8   `json:"type"`
	Unit       uint8   `json:"unit"`
	ValueX1000 int32   `json:"value_x1000"`
	Value      float64 `json:"value"`
}

func toJSON(rec record.Record) recordJSON {
	return recordJSON{
		ID:         rec.ID,
		Timestamp:  rec.Timestamp,
		Type:       rec.Type,
		Unit:       rec.Unit,
		ValueX1000: rec.Value,
		Value:      rec.RealValue(),
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, engine.ErrInvalidState):
		code = http.StatusConflict
	}
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	open := s.eng.IsOpen()
	s.mu.Unlock()
	if !open {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "not_serving"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st, err := s.eng.Status()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(st)
}

func (s *Server) handleFS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	du, err := s.eng.FSUsage()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]uint64{
		"totalBytes": du.TotalBytes,
		"usedBytes":  du.UsedBytes,
		"freeBytes":  du.FreeBytes,
	})
}

type appendReq struct {
	Timestamp  *uint32 `json:"timestamp,omitempty"`
	Type       uint8   `json:"type"`
	Unit       uint8   `json:"unit"`
	ValueX1000 int32   `json:"value_x1000"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleRead(w, r)
	case http.MethodPost:
		s.handleAppend(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAppend(w http.ResponseWriter, r *http.Request) {
	var req appendReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	var rec record.Record
	var err error
	if req.Timestamp != nil {
		rec, err = s.eng.AppendAt(*req.Timestamp, req.Type, req.Unit, req.ValueX1000)
	} else {
		rec, err = s.eng.Append(req.Type, req.Unit, req.ValueX1000)
	}
	s.mu.Unlock()
	if err != nil {
		s.logger.Error("append failed", logpkg.Err(err))
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toJSON(rec))
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	var limit uint64
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		limit = n
	}
	flt, err := filter.New(r.URL.Query().Get("filter"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	s.mu.Lock()
	recs, err := s.eng.ReadChunk(uint32(limit))
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}

	out := make([]recordJSON, 0, len(recs))
	for _, rec := range recs {
		if flt.Match(rec) {
			out = append(out, toJSON(rec))
		}
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"records": out,
		"count":   len(out),
	})
}

type evictReq struct {
	Count uint32 `json:"count"`
}

func (s *Server) handleEvict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req evictReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	evicted, err := s.eng.Evict(req.Count)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]uint32{"evicted": evicted})
}

type cleanupReq struct {
	TargetEntries uint32 `json:"targetEntries"`
}

func (s *Server) handleCleanup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req cleanupReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	evicted, err := s.eng.Cleanup(req.TargetEntries)
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]uint32{"evicted": evicted})
}

func (s *Server) handleFormat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	err := s.eng.Format()
	s.mu.Unlock()
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
