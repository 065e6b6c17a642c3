package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/mj8star/cn-stock-monitor/internal/config"
	"github.com/mj8star/cn-stock-monitor/internal/database"
	"github.com/mj8star/cn-stock-monitor/internal/store"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
)

var (
	dbPath  = flag.String("db", "", "数据库文件路径（默认使用 DATABASE_PATH）")
	start   = flag.String("start", "", "起始日期 YYYY-MM-DD（默认30天前）")
	end     = flag.String("end", "", "结束日期 YYYY-MM-DD（默认今天）")
	outFile = flag.String("out", "daily_records.xlsx", "输出的 xlsx 文件")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if *dbPath != "" {
		cfg.DatabasePath = *dbPath
	}
	if *end == "" {
		*end = time.Now().Format("2006-01-02")
	}
	if *start == "" {
		*start = time.Now().AddDate(0, 0, -30).Format("2006-01-02")
	}

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	records, err := store.New(db).Query(*start, *end)
	if err != nil {
		log.Fatal("Query failed:", err)
	}
	if len(records) == 0 {
		log.Printf("[exporter] %s -> %s 范围内没有数据", *start, *end)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := []interface{}{"date", "code", "name", "close", "pct_chg", "amount", "turnover_rate", "amplitude", "vol_ratio"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		log.Fatal("Failed to write header:", err)
	}

	for i, r := range records {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{r.Date, r.Code, r.Name, r.Close, r.PctChg, r.Amount, r.TurnoverRate, r.Amplitude, r.VolRatio}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			log.Fatal("Failed to write row:", err)
		}
	}

	if err := f.SaveAs(*outFile); err != nil {
		log.Fatal("Failed to save workbook:", err)
	}
	log.Printf("[exporter] 已导出 %d 条到 %s", len(records), *outFile)
}
