package services

import (
	"fmt"
	"log"
	"time"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"github.com/mj8star/cn-stock-monitor/internal/provider"
	"github.com/mj8star/cn-stock-monitor/internal/store"
)

const compactDateLayout = "20060102"

type SyncStatus string

const (
	StatusCurrent SyncStatus = "current" // already up to date, nothing fetched
	StatusSynced  SyncStatus = "synced"
	StatusFailed  SyncStatus = "failed"
)

// InstrumentResult is the per-instrument outcome of one sync cycle.
// A cycle never reports a single pass/fail; each instrument stands on
// its own.
type InstrumentResult struct {
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Status SyncStatus `json:"status"`
	Rows   int        `json:"rows"`
	Error  string     `json:"error,omitempty"`
}

// SyncService drives the checkpoint/fetch/normalize/persist cycle for
// the configured instrument list. Instruments are processed strictly
// sequentially against one shared store handle; the store is
// single-writer by design and no locking is added here.
type SyncService struct {
	store        *store.Store
	provider     provider.Provider
	instruments  []models.Instrument
	lookbackDays int
	pace         time.Duration

	now func() time.Time
}

func NewSyncService(st *store.Store, p provider.Provider, instruments []models.Instrument, lookbackDays int, pace time.Duration) *SyncService {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	return &SyncService{
		store:        st,
		provider:     p,
		instruments:  instruments,
		lookbackDays: lookbackDays,
		pace:         pace,
		now:          time.Now,
	}
}

// Run executes one sync cycle and reports every instrument's outcome.
// One instrument's failure never aborts the batch. Upstream calls for
// different instruments are spaced by the pacing interval to respect
// provider rate limits; this blocks the whole cycle, deliberately.
func (s *SyncService) Run() []InstrumentResult {
	results := make([]InstrumentResult, 0, len(s.instruments))
	for i, inst := range s.instruments {
		if i > 0 && s.pace > 0 {
			time.Sleep(s.pace)
		}
		results = append(results, s.syncInstrument(inst))
	}
	return results
}

func (s *SyncService) syncInstrument(inst models.Instrument) InstrumentResult {
	res := InstrumentResult{Code: inst.Code, Name: inst.Name}

	start, end, upToDate, err := s.fetchWindow(inst.Name)
	if err != nil {
		log.Printf("[sync] ✗ %s(%s) 查询断点失败: %v", inst.Name, inst.Code, err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}
	if upToDate {
		log.Printf("[sync] ✅ %s 已经是最新", inst.Name)
		res.Status = StatusCurrent
		return res
	}

	log.Printf("[sync] 🚀 采集 %s [%s -> %s]", inst.Name, start, end)
	records, err := s.fetch(inst, start, end)
	if err != nil {
		log.Printf("[sync] ✗ %s(%s) 采集异常: %v", inst.Name, inst.Code, err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	n, err := s.store.Append(records)
	if err != nil {
		log.Printf("[sync] ✗ %s(%s) 入库失败: %v", inst.Name, inst.Code, err)
		res.Status = StatusFailed
		res.Error = err.Error()
		return res
	}

	log.Printf("[sync]    %s 已存入 %d 条", inst.Name, n)
	res.Status = StatusSynced
	res.Rows = n
	return res
}

// fetchWindow resolves the instrument's checkpoint into a compact
// [start, end] fetch range. With a checkpoint the range starts the
// day after it; without one it starts lookbackDays before today. The
// end is always today. start > end means the instrument is current.
func (s *SyncService) fetchWindow(name string) (start, end string, upToDate bool, err error) {
	last, ok, err := s.store.MaxDate(name)
	if err != nil {
		return "", "", false, err
	}

	today := s.now()
	end = today.Format(compactDateLayout)

	if ok {
		t, perr := time.Parse(canonicalDateLayout, last)
		if perr != nil {
			return "", "", false, fmt.Errorf("bad checkpoint date %q for %s: %w", last, name, perr)
		}
		start = t.AddDate(0, 0, 1).Format(compactDateLayout)
	} else {
		start = today.AddDate(0, 0, -s.lookbackDays).Format(compactDateLayout)
	}

	return start, end, start > end, nil
}

func (s *SyncService) fetch(inst models.Instrument, start, end string) ([]models.DailyRecord, error) {
	switch inst.Category {
	case models.CategoryIndex:
		rows, err := s.provider.IndexDaily(inst.Code)
		if err != nil {
			return nil, err
		}
		return NormalizeIndex(inst, rows, start, end), nil
	case models.CategoryFund:
		rows, err := s.provider.FundHist(inst.Code, start, end)
		if err != nil {
			return nil, err
		}
		return NormalizeHist(inst, rows, start, end), nil
	default:
		rows, err := s.provider.EquityHist(inst.Code, start, end)
		if err != nil {
			return nil, err
		}
		return NormalizeHist(inst, rows, start, end), nil
	}
}
