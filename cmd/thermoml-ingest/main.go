// thermoml-ingest - Parquet to ClickHouse ingester for ThermoML tables
//
// Reads measurement Parquet files produced by thermoml-tables and
// inserts them over the ClickHouse native protocol with LZ4. Table
// bootstrap goes through the SQL driver, bulk rows through ch-go.
//
// Build: CGO_ENABLED=0 go build -ldflags="-s -w" -o build/thermoml-ingest ./cmd/thermoml-ingest

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ClickHouse/ch-go"
	"github.com/dustin/go-humanize"

	"github.com/acfdavis/thermogo/internal/common"
	"github.com/acfdavis/thermogo/internal/tables"
)

// Version can be overridden at build time via -ldflags
var Version = "1.1.0"

const BatchSize = 100_000

type Stats struct {
	TotalRows     atomic.Uint64
	TotalBytes    atomic.Uint64
	FilesComplete atomic.Uint64
	StartTime     time.Time
}

func processFile(ctx context.Context, filePath, chHost, chDB, chTable, chUser, chPass string, stats *Stats) {
	fileName := filepath.Base(filePath)

	info, err := os.Stat(filePath)
	if err != nil {
		log.Printf("[%s] Stat error: %v", fileName, err)
		return
	}

	rows, err := tables.ReadMeasurements(filePath)
	if err != nil {
		log.Printf("[%s] Parquet read error: %v", fileName, err)
		return
	}

	conn, err := ch.Dial(ctx, ch.Options{
		Address:     chHost,
		Database:    chDB,
		User:        chUser,
		Password:    chPass,
		Compression: ch.CompressionLZ4,
	})
	if err != nil {
		log.Printf("[%s] Connect error: %v", fileName, err)
		return
	}
	defer conn.Close()

	tableFQN := fmt.Sprintf("%s.%s", chDB, chTable)
	startTime := time.Now()
	batch := tables.NewBatch()

	for _, row := range rows {
		select {
		case <-ctx.Done():
			return
		default:
		}

		batch.Append(row)
		if batch.Len() >= BatchSize {
			if err := tables.Flush(ctx, conn, tableFQN, batch); err != nil {
				log.Printf("[%s] Flush error: %v", fileName, err)
			}
			batch.Reset()
		}
	}
	if err := tables.Flush(ctx, conn, tableFQN, batch); err != nil {
		log.Printf("[%s] Final flush error: %v", fileName, err)
	}

	elapsed := time.Since(startTime)
	stats.TotalRows.Add(uint64(len(rows)))
	stats.TotalBytes.Add(uint64(info.Size()))
	stats.FilesComplete.Add(1)

	log.Printf("[%s] %d rows in %.1fs", fileName, len(rows), elapsed.Seconds())
}

func main() {
	cfg := common.DefaultConfig()

	chHost := flag.String("ch-host", cfg.ClickHouseHost, "ClickHouse address")
	chDB := flag.String("ch-db", cfg.ClickHouseDatabase, "ClickHouse database")
	chTable := flag.String("ch-table", "measurements", "ClickHouse table")
	chUser := flag.String("ch-user", cfg.ClickHouseUser, "ClickHouse user")
	chPass := flag.String("ch-password", cfg.ClickHousePassword, "ClickHouse password")
	workers := flag.Int("workers", 4, "Number of parallel file workers")
	sourceDir := flag.String("source-dir", cfg.ArchivePath, "Default Parquet source directory")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "thermoml-ingest v%s - ThermoML ClickHouse Ingester\n\n", Version)
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] [path|files...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "If no paths specified, uses -source-dir default.\n\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	inputPaths := flag.Args()
	if len(inputPaths) == 0 {
		inputPaths = []string{*sourceDir}
	}

	log.Println("=========================================================")
	log.Printf("ThermoML ClickHouse Ingester v%s", Version)
	log.Println("=========================================================")
	log.Printf("Input: %d path(s)", len(inputPaths))
	log.Printf("Workers: %d | Batch: %d", *workers, BatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("\nShutdown requested...")
		cancel()
	}()

	log.Printf("Bootstrapping %s.%s on %s...", *chDB, *chTable, *chHost)
	if err := tables.EnsureTable(ctx, *chHost, *chDB, *chTable, *chUser, *chPass); err != nil {
		log.Fatalf("ClickHouse bootstrap failed: %v", err)
	}

	var files []string
	for _, inputPath := range inputPaths {
		info, err := os.Stat(inputPath)
		if err != nil {
			log.Printf("Warning: cannot access %s: %v", inputPath, err)
			continue
		}
		if info.IsDir() {
			filepath.Walk(inputPath, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil
				}
				if !info.IsDir() && strings.HasSuffix(path, ".parquet") && !strings.HasSuffix(path, tables.CompoundsFile) {
					files = append(files, path)
				}
				return nil
			})
		} else if strings.HasSuffix(inputPath, ".parquet") {
			files = append(files, inputPath)
		}
	}

	if len(files) == 0 {
		log.Fatal("No Parquet files found")
	}
	sort.Strings(files)
	log.Printf("Found %d Parquet file(s)", len(files))

	stats := &Stats{StartTime: time.Now()}
	sem := make(chan struct{}, *workers)
	var wg sync.WaitGroup

	for _, filePath := range files {
		select {
		case <-ctx.Done():
		default:
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(fp string) {
			defer func() { <-sem }()
			defer wg.Done()
			processFile(ctx, fp, *chHost, *chDB, *chTable, *chUser, *chPass, stats)
		}(filePath)
	}

	wg.Wait()

	elapsed := time.Since(stats.StartTime)
	log.Println()
	log.Println("=========================================================")
	log.Println("Final Statistics")
	log.Println("=========================================================")
	log.Printf("Files:      %d", stats.FilesComplete.Load())
	log.Printf("Total Rows: %d", stats.TotalRows.Load())
	log.Printf("Total Size: %s (Parquet)", humanize.Bytes(stats.TotalBytes.Load()))
	log.Printf("Elapsed:    %v", elapsed.Round(time.Second))
	log.Println("=========================================================")
}
