package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Header names recognised in the first row, case-insensitive. Unknown columns are ignored.
const (
	colName             = "name"
	colPrice            = "price"
	colCategory         = "category"
	colStock            = "stock"
	colShortDescription = "short_description"
	colDescription      = "description"
	colNotes            = "notes"
	colVolume           = "volume"
	colSkinType         = "skin_type"
	colAudience         = "audience"
	colImage            = "image"
)

var requiredColumns = []string{colName, colPrice, colCategory}

type skippedRow struct {
	Row    int
	Reason string
}

type importResult struct {
	Rows     int
	Products []model.Product
	Skipped  []skippedRow
}

// readCatalog reads products from the first sheet. Rows missing a required value, with an
// unparsable price or stock, or repeating an earlier name+category are skipped.
func readCatalog(f *excelize.File) (*importResult, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("no data found in XLSX file")
	}

	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	optional := func(row []string, name string) *string {
		if v := cell(row, name); v != "" {
			return &v
		}
		return nil
	}

	result := &importResult{Rows: len(rows) - 1}
	seen := make(map[string]bool)

	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		skip := func(reason string) {
			result.Skipped = append(result.Skipped, skippedRow{Row: line, Reason: reason})
		}

		name := cell(row, colName)
		category := cell(row, colCategory)
		priceText := cell(row, colPrice)
		if name == "" || category == "" || priceText == "" {
			skip("missing name, category or price")
			continue
		}

		price, err := decimal.NewFromString(strings.Replace(priceText, ",", ".", 1))
		if err != nil || price.IsNegative() {
			skip(fmt.Sprintf("invalid price %q", priceText))
			continue
		}

		stock := 0
		if v := cell(row, colStock); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				skip(fmt.Sprintf("invalid stock %q", v))
				continue
			}
			stock = n
		}

		key := strings.ToLower(name + "|" + category)
		if seen[key] {
			skip("duplicate of an earlier row")
			continue
		}
		seen[key] = true

		result.Products = append(result.Products, model.Product{
			Name:             name,
			Price:            price.Round(2),
			Category:         category,
			Stock:            stock,
			ShortDescription: optional(row, colShortDescription),
			Description:      optional(row, colDescription),
			Notes:            optional(row, colNotes),
			Volume:           optional(row, colVolume),
			SkinType:         optional(row, colSkinType),
			Audience:         optional(row, colAudience),
			Image:            optional(row, colImage),
		})
	}

	return result, nil
}
