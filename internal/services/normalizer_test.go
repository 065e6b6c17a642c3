package services

import (
	"fmt"
	"testing"

	"github.com/mj8star/cn-stock-monitor/internal/models"
	"github.com/mj8star/cn-stock-monitor/internal/provider"
	"github.com/stretchr/testify/require"
)

var (
	idxInst  = models.NewInstrument("sh000001", "上证指数")
	fundInst = models.NewInstrument("513100", "纳指ETF")
)

func TestNormalizeIndexDerivesPctChg(t *testing.T) {
	rows := []provider.IndexRow{
		{Date: "2024-03-11", Close: 100, Amount: 1e9},
		{Date: "2024-03-12", Close: 110, Amount: 1e9},
		{Date: "2024-03-13", Close: 99, Amount: 1e9},
	}
	records := NormalizeIndex(idxInst, rows, "20240311", "20240313")
	require.Len(t, records, 3)

	require.Equal(t, 0.0, records[0].PctChg) // no prior-day baseline
	require.InDelta(t, 10.0, records[1].PctChg, 1e-9)
	require.InDelta(t, -10.0, records[2].PctChg, 1e-9)

	for _, r := range records {
		require.Equal(t, "sh000001", r.Code)
		require.Equal(t, "上证指数", r.Name)
		require.Equal(t, 0.0, r.TurnoverRate)
		require.Equal(t, 0.0, r.Amplitude)
	}
}

func TestNormalizeIndexPctChgBaselinePrecedesWindow(t *testing.T) {
	// The change derivation runs over the whole fetched batch before
	// the window filter, so the first kept row still has a baseline.
	rows := []provider.IndexRow{
		{Date: "2024-03-11", Close: 100, Amount: 1e9},
		{Date: "2024-03-12", Close: 120, Amount: 1e9},
	}
	records := NormalizeIndex(idxInst, rows, "20240312", "20240312")
	require.Len(t, records, 1)
	require.Equal(t, "2024-03-12", records[0].Date)
	require.InDelta(t, 20.0, records[0].PctChg, 1e-9)
}

func TestNormalizeDropsRowsOutsideWindow(t *testing.T) {
	rows := []provider.IndexRow{
		{Date: "2024-01-05", Close: 90, Amount: 1e9},
		{Date: "2024-03-12", Close: 100, Amount: 1e9},
		{Date: "2024-03-20", Close: 110, Amount: 1e9},
	}
	records := NormalizeIndex(idxInst, rows, "20240310", "20240315")
	require.Len(t, records, 1)
	require.Equal(t, "2024-03-12", records[0].Date)
}

func TestNormalizeHistPassThrough(t *testing.T) {
	rows := []provider.HistRow{
		{Date: "20240312", Close: 1.52, PctChg: 1.33, Amount: 4.1e7, TurnoverRate: 3.15, Amplitude: 2.67},
	}
	records := NormalizeHist(fundInst, rows, "20240310", "20240315")
	require.Len(t, records, 1)

	r := records[0]
	require.Equal(t, "2024-03-12", r.Date) // compact upstream date canonicalized
	require.Equal(t, "513100", r.Code)
	require.Equal(t, "纳指ETF", r.Name)
	require.Equal(t, 1.52, r.Close)
	require.Equal(t, 1.33, r.PctChg)
	require.Equal(t, 4.1e7, r.Amount)
	require.Equal(t, 3.15, r.TurnoverRate)
	require.Equal(t, 2.67, r.Amplitude)
}

func TestVolRatio(t *testing.T) {
	amounts := []float64{10, 20, 30, 40, 50, 60}
	rows := make([]provider.HistRow, len(amounts))
	for i, a := range amounts {
		rows[i] = provider.HistRow{Date: fmt.Sprintf("2024-03-1%d", i), Close: 1, Amount: a}
	}
	records := NormalizeHist(fundInst, rows, "20240310", "20240315")
	require.Len(t, records, 6)

	// Rows without a full trailing window default to neutral 1.0.
	for i := 0; i < volRatioWindow-1; i++ {
		require.Equal(t, 1.0, records[i].VolRatio, "row %d", i)
	}
	// mean(10..50) = 30, 50/30 rounded to 2 decimals
	require.Equal(t, 1.67, records[4].VolRatio)
	// mean(20..60) = 40
	require.Equal(t, 1.5, records[5].VolRatio)
}

func TestVolRatioZeroMean(t *testing.T) {
	rows := make([]provider.HistRow, 5)
	for i := range rows {
		rows[i] = provider.HistRow{Date: fmt.Sprintf("2024-03-1%d", i), Close: 1, Amount: 0}
	}
	records := NormalizeHist(fundInst, rows, "20240310", "20240314")
	require.Len(t, records, 5)
	require.Equal(t, 1.0, records[4].VolRatio)
}

func TestCanonicalDate(t *testing.T) {
	require.Equal(t, "2024-03-12", canonicalDate("20240312"))
	require.Equal(t, "2024-03-12", canonicalDate("2024-03-12"))
}
