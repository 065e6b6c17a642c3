package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "https://push2his.eastmoney.com"

// Kline field lists. The index feed stops at the amount column; the
// fund/equity feeds additionally carry amplitude, pct_chg, chg and
// turnover rate.
const (
	indexFields = "f51,f52,f53,f54,f55,f56,f57"
	histFields  = "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61"

	indexFieldCount = 7
	histFieldCount  = 11
)

// EastMoneyClient fetches daily klines from the push2his endpoints.
type EastMoneyClient struct {
	baseURL string
	client  *resty.Client
}

func NewEastMoneyClient(baseURL string) *EastMoneyClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &EastMoneyClient{
		baseURL: baseURL,
		client:  client,
	}
}

type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// IndexDaily returns the full daily history of a broad-market index.
// The endpoint has no usable range parameters, so it over-returns.
func (c *EastMoneyClient) IndexDaily(code string) ([]IndexRow, error) {
	klines, err := c.fetchKlines(indexSecID(code), indexFields, "19900101", "20500101", "0")
	if err != nil {
		return nil, err
	}

	rows := make([]IndexRow, 0, len(klines))
	for _, line := range klines {
		row, err := parseIndexKline(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// FundHist returns front-adjusted daily history for an ETF within
// [start, end] (compact YYYYMMDD, inclusive).
func (c *EastMoneyClient) FundHist(code, start, end string) ([]HistRow, error) {
	return c.histDaily(fundSecID(code), start, end)
}

// EquityHist returns front-adjusted daily history for an A-share
// equity within [start, end].
func (c *EastMoneyClient) EquityHist(code, start, end string) ([]HistRow, error) {
	return c.histDaily(equitySecID(code), start, end)
}

func (c *EastMoneyClient) histDaily(secID, start, end string) ([]HistRow, error) {
	klines, err := c.fetchKlines(secID, histFields, start, end, "1")
	if err != nil {
		return nil, err
	}

	rows := make([]HistRow, 0, len(klines))
	for _, line := range klines {
		row, err := parseHistKline(line)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (c *EastMoneyClient) fetchKlines(secID, fields, beg, end, fqt string) ([]string, error) {
	resp, err := c.client.R().
		SetQueryParams(map[string]string{
			"secid":   secID,
			"fields1": "f1,f2,f3,f4,f5",
			"fields2": fields,
			"klt":     "101", // daily bars
			"fqt":     fqt,
			"beg":     beg,
			"end":     end,
		}).
		Get(c.baseURL + "/api/qt/stock/kline/get")
	if err != nil {
		return nil, fmt.Errorf("kline request for %s failed: %w", secID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("kline request for %s returned status %d", secID, resp.StatusCode())
	}

	var out klineResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("%w: kline response for %s is not valid JSON: %v", ErrSchemaMismatch, secID, err)
	}
	if out.Data == nil {
		return nil, nil
	}
	return out.Data.Klines, nil
}

func parseIndexKline(line string) (IndexRow, error) {
	fields := strings.Split(line, ",")
	if len(fields) != indexFieldCount {
		return IndexRow{}, fmt.Errorf("%w: index kline has %d fields, want %d", ErrSchemaMismatch, len(fields), indexFieldCount)
	}

	closePx, err := parseFloatField("close", fields[2])
	if err != nil {
		return IndexRow{}, err
	}
	amount, err := parseFloatField("amount", fields[6])
	if err != nil {
		return IndexRow{}, err
	}

	return IndexRow{Date: fields[0], Close: closePx, Amount: amount}, nil
}

func parseHistKline(line string) (HistRow, error) {
	fields := strings.Split(line, ",")
	if len(fields) != histFieldCount {
		return HistRow{}, fmt.Errorf("%w: hist kline has %d fields, want %d", ErrSchemaMismatch, len(fields), histFieldCount)
	}

	row := HistRow{Date: fields[0]}
	for _, f := range []struct {
		name string
		raw  string
		dst  *float64
	}{
		{"close", fields[2], &row.Close},
		{"amount", fields[6], &row.Amount},
		{"amplitude", fields[7], &row.Amplitude},
		{"pct_chg", fields[8], &row.PctChg},
		{"turnover_rate", fields[10], &row.TurnoverRate},
	} {
		v, err := parseFloatField(f.name, f.raw)
		if err != nil {
			return HistRow{}, err
		}
		*f.dst = v
	}
	return row, nil
}

func parseFloatField(name, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s value %q", ErrSchemaMismatch, name, raw)
	}
	return v, nil
}

// secid helpers: the endpoints address instruments as market.code,
// where market 1 is Shanghai and 0 is Shenzhen.

func indexSecID(code string) string {
	if strings.HasPrefix(code, "sh") {
		return "1." + code[2:]
	}
	return "0." + strings.TrimPrefix(code, "sz")
}

func fundSecID(code string) string {
	if strings.HasPrefix(code, "5") {
		return "1." + code
	}
	return "0." + code
}

func equitySecID(code string) string {
	if strings.HasPrefix(code, "6") {
		return "1." + code
	}
	return "0." + code
}
