package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/joelyk/maison-du-parfum/config"
	"github.com/joelyk/maison-du-parfum/internal/app/repository"
	"github.com/joelyk/maison-du-parfum/internal/db"
	"github.com/xuri/excelize/v2"
)

func main() {
	yes := flag.Bool("yes", false, "import without asking for confirmation")
	batchSize := flag.Int("batch", 500, "rows per insert batch")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: go run ./cmd/seed [-yes] [-batch N] <catalog.xlsx>")
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(false); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	productRepo := repository.NewProductRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX file:", err)
	}
	defer f.Close()

	result, err := readCatalog(f)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", result.Rows)
	fmt.Printf("  Valid products: %d\n", len(result.Products))
	fmt.Printf("  Skipped rows: %d\n", len(result.Skipped))
	for _, s := range result.Skipped {
		fmt.Printf("    row %d: %s\n", s.Row, s.Reason)
	}

	if len(result.Products) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm = strings.ToLower(strings.TrimSpace(confirm)); confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	if err := productRepo.BulkCreate(context.Background(), result.Products, *batchSize); err != nil {
		log.Fatal("Failed to bulk create products:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total products imported: %d\n", len(result.Products))
}
