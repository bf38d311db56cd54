// Package importer loads quick-order CSV files into the cart.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"storefront-shell/internal/domain"
)

type CartWriter interface {
	AddItem(product domain.Product, quantity int) (domain.LineItem, error)
}

// ProductSource resolves rows that carry only a product id.
type ProductSource interface {
	GetProduct(ctx context.Context, id domain.ID) (*domain.Product, error)
}

// CSVImporter reads rows of product_id,title,price,image_url,quantity and
// adds each to the cart. Column order is taken from the header row.
type CSVImporter struct {
	reader   *csv.Reader
	cart     CartWriter
	products ProductSource
}

// NewCSVImporter builds an importer. products may be nil when every row
// carries its own title and price.
func NewCSVImporter(r io.Reader, cart CartWriter, products ProductSource) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:   csvr,
		cart:     cart,
		products: products,
	}
}

type csvRow struct {
	line     int
	id       domain.ID
	title    string
	price    float64
	imageURL string
	quantity int
}

// Run adds every row to the cart and returns the number of rows added. It
// stops at the first invalid row; rows before it stay in the cart.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["product_id"]; !ok {
		return 0, errors.New("missing product_id column")
	}

	var imported int
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}
		if err := i.add(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) add(ctx context.Context, row *csvRow) error {
	product := domain.Product{
		ID:       row.id,
		Title:    row.title,
		Price:    row.price,
		ImageURL: row.imageURL,
	}
	if row.title == "" || row.price <= 0 {
		if i.products == nil {
			return fmt.Errorf("line %d: title and price required for product %q", row.line, row.id)
		}
		fetched, err := i.products.GetProduct(ctx, row.id)
		if err != nil {
			return fmt.Errorf("line %d: fetch product %q: %w", row.line, row.id, err)
		}
		product = *fetched
	}
	if _, err := i.cart.AddItem(product, row.quantity); err != nil {
		return fmt.Errorf("line %d: add product %q: %w", row.line, row.id, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	id := pick(record, index, "product_id")
	title := pick(record, index, "title")
	if id == "" && title == "" {
		return nil, nil
	}
	if id == "" {
		return nil, fmt.Errorf("line %d: product_id required", line)
	}

	row := &csvRow{
		line:     line,
		id:       domain.ID(id),
		title:    title,
		imageURL: pick(record, index, "image_url"),
		quantity: 1,
	}
	if s := pick(record, index, "price"); s != "" {
		price, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			return nil, fmt.Errorf("line %d: invalid price %q", line, s)
		}
		row.price = price
	}
	if s := pick(record, index, "quantity"); s != "" {
		qty, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid quantity %q", line, s)
		}
		row.quantity = qty
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
