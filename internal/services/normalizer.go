package services

import (
	"math"
	"time"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"github.com/mj8star/cn-stock-monitor/internal/provider"
)

// volRatioWindow is the trailing window, current row included, used
// for the volume-ratio denominator.
const volRatioWindow = 5

// canonicalDateLayout is the stored date form; accepted upstream and
// request layouts are widened to it.
const canonicalDateLayout = "2006-01-02"

var acceptedDateLayouts = []string{"2006-01-02", "20060102"}

// NormalizeIndex converts an index batch into canonical records.
// The index feed has no change column, so pct_chg is derived
// day-over-day from close across the whole fetched batch before the
// window filter is applied; the first row has no baseline and stays
// zero. Turnover rate and amplitude are undefined for indices and are
// fixed at zero.
func NormalizeIndex(inst models.Instrument, rows []provider.IndexRow, start, end string) []models.DailyRecord {
	records := make([]models.DailyRecord, 0, len(rows))
	prevClose := 0.0
	for i, r := range rows {
		pct := 0.0
		if i > 0 && prevClose != 0 {
			pct = (r.Close - prevClose) / prevClose * 100
		}
		prevClose = r.Close

		records = append(records, models.DailyRecord{
			Date:   canonicalDate(r.Date),
			Code:   inst.Code,
			Name:   inst.Name,
			Close:  r.Close,
			PctChg: pct,
			Amount: r.Amount,
		})
	}
	return finalize(records, start, end)
}

// NormalizeHist converts a fund or equity batch into canonical
// records. These feeds already carry the full metric set, so this is
// a straight relabeling.
func NormalizeHist(inst models.Instrument, rows []provider.HistRow, start, end string) []models.DailyRecord {
	records := make([]models.DailyRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, models.DailyRecord{
			Date:         canonicalDate(r.Date),
			Code:         inst.Code,
			Name:         inst.Name,
			Close:        r.Close,
			PctChg:       r.PctChg,
			Amount:       r.Amount,
			TurnoverRate: r.TurnoverRate,
			Amplitude:    r.Amplitude,
		})
	}
	return finalize(records, start, end)
}

// finalize drops rows outside [start, end] (some feeds over-return)
// and derives vol_ratio over the surviving batch.
func finalize(records []models.DailyRecord, start, end string) []models.DailyRecord {
	start = canonicalDate(start)
	end = canonicalDate(end)

	filtered := make([]models.DailyRecord, 0, len(records))
	for _, r := range records {
		if r.Date >= start && r.Date <= end {
			filtered = append(filtered, r)
		}
	}
	applyVolRatio(filtered)
	return filtered
}

// applyVolRatio sets vol_ratio = amount / trailing 5-row mean amount,
// rounded to 2 decimals. The window only sees the current batch, so
// short incremental batches under-sample it relative to a full-history
// computation; that matches how historical values were produced and is
// kept. Rows without a full window default to the neutral 1.0.
func applyVolRatio(records []models.DailyRecord) {
	for i := range records {
		if i < volRatioWindow-1 {
			records[i].VolRatio = 1.0
			continue
		}
		sum := 0.0
		for j := i - volRatioWindow + 1; j <= i; j++ {
			sum += records[j].Amount
		}
		mean := sum / volRatioWindow
		if mean == 0 {
			records[i].VolRatio = 1.0
			continue
		}
		records[i].VolRatio = math.Round(records[i].Amount/mean*100) / 100
	}
}

func canonicalDate(s string) string {
	for _, layout := range acceptedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(canonicalDateLayout)
		}
	}
	return s
}
