// Command import-csv loads a CSV file of buyer leads straight into the
// database through the same normalization, validation, and audit pipeline as
// the HTTP import endpoint. Intended for operators seeding or migrating data.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"buyer_leads_backend/internal/buyers/repository"
	"buyer_leads_backend/internal/buyers/service"
	"buyer_leads_backend/internal/buyers/transport"
	"buyer_leads_backend/internal/events"
	"buyer_leads_backend/platform/apperr"
	"buyer_leads_backend/platform/config"
	"buyer_leads_backend/platform/db"
	"buyer_leads_backend/platform/logger"
	"buyer_leads_backend/platform/validator"
)

// allowAll disables rate limiting for operator-driven imports.
type allowAll struct{}

func (allowAll) Allow(ctx context.Context, key string) (bool, error) { return true, nil }

func main() {
	var (
		filePath = flag.String("file", "", "path to the CSV file to import")
		ownerRaw = flag.String("owner", "", "user id that will own the imported leads")
	)
	flag.Parse()

	if *filePath == "" || *ownerRaw == "" {
		fmt.Fprintln(os.Stderr, "usage: import-csv -file leads.csv -owner <user-uuid>")
		os.Exit(2)
	}

	ownerID, err := uuid.Parse(*ownerRaw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid owner id: %v\n", err)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	f, err := os.Open(*filePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open csv file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := transport.ParseCSVRows(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse csv: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := repository.New(pool)
	importer := service.NewImporter(repo, validator.New(), allowAll{}, events.NewInMemoryBus(log), log)

	resp, err := importer.Import(ctx, ownerID, rows)
	if err != nil {
		if domainErr, ok := err.(*apperr.Error); ok {
			if rowErrors, ok := domainErr.Details.([]transport.RowErrors); ok {
				fmt.Fprintf(os.Stderr, "%s\n", domainErr.Message)
				for _, re := range rowErrors {
					for _, msg := range re.Errors {
						fmt.Fprintf(os.Stderr, "  row %d: %s\n", re.Row, msg)
					}
				}
				os.Exit(1)
			}
		}
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s (%d rows)\n", resp.Message, resp.ImportedCount)
}
