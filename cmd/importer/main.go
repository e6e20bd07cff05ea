package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"github.com/chatlens/chatlens/domain/analytics"
	"github.com/chatlens/chatlens/domain/entity"
	"github.com/chatlens/chatlens/infrastructure/adapter/postgres"
)

// Importer loads a spreadsheet export of chat transcript summaries into
// Postgres. Rows are cleaned the same way the dashboards clean them:
// tolerant date parsing (including spreadsheet serials), duration
// normalization, and duplicate IDs collapsed to the first occurrence.
func main() {
	filePath := flag.String("file", "", "path to the CSV export")
	flag.Parse()

	if *filePath == "" {
		log.Fatal("usage: importer -file <export.csv>")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("failed to open export: %v", err)
	}
	defer f.Close()

	records, skipped, err := readExport(f)
	if err != nil {
		log.Fatalf("failed to read export: %v", err)
	}

	repo := postgres.NewTranscriptRepositoryAdapter(db)
	if err := repo.BulkInsert(context.Background(), records); err != nil {
		log.Fatalf("failed to import transcripts: %v", err)
	}

	log.Printf("Imported %d transcripts (%d rows skipped)", len(records), skipped)
}

// readExport parses the CSV and returns cleaned transcripts plus the number
// of rows dropped for having no usable ID.
func readExport(r io.Reader) ([]*entity.ChatTranscript, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var (
		records []*entity.ChatTranscript
		skipped int
		seen    = make(map[string]struct{})
	)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read row: %w", err)
		}

		id := field(row, "Chat Transcript ID")
		if id == "" {
			skipped++
			continue
		}
		// First occurrence wins, matching the export's dedupe rule.
		if _, dup := seen[id]; dup {
			skipped++
			continue
		}
		seen[id] = struct{}{}

		t := &entity.ChatTranscript{
			ID:            id,
			CaseNumber:    intField(field(row, "Case: Case Number")),
			OwnerFullName: field(row, "Owner: Full Name"),
			Status:        field(row, "Status"),
			Product:       field(row, "Products"),
			SubProduct:    field(row, "Sub Product"),
			Problem:       field(row, "Problem"),
			RootCause:     field(row, "Root cause"),
			Symptoms:      field(row, "Symptoms"),
			AIAssisted:    entity.ParseAIAssisted(field(row, "AI Usage ID")),
			Transfers:     intField(field(row, "# of Transferred")),
			Upvotes:       intField(field(row, "upvotes")),
			Downvotes:     intField(field(row, "downvotes")),
		}

		if created, ok := analytics.ParseDate(field(row, "Created Date")); ok {
			t.CreatedDate = created
		}
		if seconds, ok := analytics.ToSeconds(field(row, "Chat Duration")); ok {
			t.DurationSeconds = seconds
		}
		t.WaitTimeSeconds = intField(field(row, "Wait Time"))

		records = append(records, t)
	}

	return records, skipped, nil
}

// intField coerces a numeric cell, treating blanks and garbage as zero the
// way the export cleaning always has.
func intField(raw string) int {
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}
