package main

import (
	"flag"
	"log"
	"time"

	"github.com/mj8star/cn-stock-monitor/internal/config"
	"github.com/mj8star/cn-stock-monitor/internal/database"
	"github.com/mj8star/cn-stock-monitor/internal/provider"
	"github.com/mj8star/cn-stock-monitor/internal/services"
	"github.com/mj8star/cn-stock-monitor/internal/store"

	"github.com/joho/godotenv"
)

var (
	dbPath   = flag.String("db", "", "数据库文件路径（默认使用 DATABASE_PATH）")
	interval = flag.Int("interval", 3600, "循环模式下的采集间隔（秒）")
	once     = flag.Bool("once", true, "只运行一次，不循环")
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

	db, err := database.Initialize(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to open database:", err)
	}

	st := store.New(db)
	client := provider.NewEastMoneyClient(cfg.ProviderBaseURL)
	syncSvc := services.NewSyncService(st, client, cfg.Instruments, cfg.LookbackDays, cfg.PaceInterval)

	for {
		runCycle(syncSvc, st)
		if *once {
			return
		}
		log.Printf("[collector] 休眠 %d 秒后继续", *interval)
		time.Sleep(time.Duration(*interval) * time.Second)
	}
}

func runCycle(syncSvc *services.SyncService, st *store.Store) {
	started := time.Now()
	results := syncSvc.Run()

	var synced, current, failed, rows int
	for _, r := range results {
		switch r.Status {
		case services.StatusSynced:
			synced++
			rows += r.Rows
		case services.StatusCurrent:
			current++
		case services.StatusFailed:
			failed++
		}
	}

	total, err := st.Count()
	if err != nil {
		log.Printf("[collector] 统计总行数失败: %v", err)
	}
	log.Printf("[collector] 周期完成: 新增 %d 条 (synced=%d current=%d failed=%d), 库内共 %d 条, 耗时 %s",
		rows, synced, current, failed, total, time.Since(started).Round(time.Millisecond))
}
