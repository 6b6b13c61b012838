// Package dataset loads the raw retail sales table and derives the
// features and labels every model trains on.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/rantau/demandcast/internal/common"
	"github.com/rantau/demandcast/internal/model"
)

// Columns the source CSV must carry, in any order.
var requiredColumns = []string{
	"ProductID", "StoreID", "Date", "Price", "Discount",
	"Weather", "Promotion", "SalesQuantity",
}

var dateLayouts = []string{"2006-01-02", "2006/01/02"}

// Table is the in-memory form of the raw transaction dataset.
type Table struct {
	Transactions []model.Transaction
}

// Len returns the number of rows in the table.
func (t *Table) Len() int {
	return len(t.Transactions)
}

// Load reads the transaction CSV at path. Rows with unparseable numeric or
// date cells are skipped rather than failing the whole load, matching how
// the dataset is curated upstream.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", common.ErrDataNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, common.NewSchemaError(missing)
	}

	table := &Table{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", line, err)
		}

		txn, err := parseRow(record, index)
		if err != nil {
			slog.Debug("Skipping unparseable dataset row",
				"line", line, "error", err)
			continue
		}
		table.Transactions = append(table.Transactions, txn)
	}

	slog.Info("Dataset loaded", "path", path, "rows", table.Len())
	return table, nil
}

func parseRow(record []string, index map[string]int) (model.Transaction, error) {
	var txn model.Transaction
	var err error

	txn.ProductID = record[index["ProductID"]]
	txn.StoreID = record[index["StoreID"]]
	txn.Weather = record[index["Weather"]]
	txn.Promotion = record[index["Promotion"]]

	txn.Date, err = parseDate(record[index["Date"]])
	if err != nil {
		return txn, err
	}
	txn.Price, err = strconv.ParseFloat(record[index["Price"]], 64)
	if err != nil {
		return txn, fmt.Errorf("invalid Price: %w", err)
	}
	txn.Discount, err = strconv.ParseFloat(record[index["Discount"]], 64)
	if err != nil {
		return txn, fmt.Errorf("invalid Discount: %w", err)
	}
	txn.SalesQuantity, err = strconv.ParseFloat(record[index["SalesQuantity"]], 64)
	if err != nil {
		return txn, fmt.Errorf("invalid SalesQuantity: %w", err)
	}

	return txn, nil
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid Date: %q", value)
}
