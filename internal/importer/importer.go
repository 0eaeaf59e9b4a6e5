// Package importer bulk-loads customers and orders from CSV through the
// same use cases the HTTP API calls, so order rows keep customer aggregates
// in step.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/logger"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type CustomerCreator interface {
	Execute(ctx context.Context, input usecase.CreateCustomerInput) (*entity.Customer, error)
}

type OrderCreator interface {
	Execute(ctx context.Context, input usecase.CreateOrderInput) (*entity.Order, error)
}

type CustomerFinder interface {
	FindByEmail(ctx context.Context, email string) (*entity.Customer, error)
}

// Result counts rows; a failed row never aborts the import.
type Result struct {
	Imported int
	Failed   int
}

type Importer struct {
	Customers CustomerCreator
	Orders    OrderCreator
	Finder    CustomerFinder
}

func New(customers CustomerCreator, orders OrderCreator, finder CustomerFinder) *Importer {
	return &Importer{Customers: customers, Orders: orders, Finder: finder}
}

// ImportCustomers reads a CSV with a header row holding name and email, and
// optionally phone and segment.
func (im *Importer) ImportCustomers(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readRows(r, "name", "email")
	if err != nil {
		return Result{}, err
	}

	log := logger.WithComponent("importer")
	var res Result
	for _, row := range rows {
		_, err := im.Customers.Execute(ctx, usecase.CreateCustomerInput{
			Name:    row.get("name"),
			Email:   row.get("email"),
			Phone:   row.get("phone"),
			Segment: row.get("segment"),
		})
		if err != nil {
			res.Failed++
			log.Warn().Err(err).Int("line", row.line).Msg("customer row skipped")
			continue
		}
		res.Imported++
	}
	return res, nil
}

// ImportOrders reads a CSV with amount and either customer_id or
// customer_email, and optionally status and created_at (RFC 3339).
func (im *Importer) ImportOrders(ctx context.Context, r io.Reader) (Result, error) {
	rows, err := readRows(r, "amount")
	if err != nil {
		return Result{}, err
	}

	log := logger.WithComponent("importer")
	var res Result
	for _, row := range rows {
		input, err := im.orderInput(ctx, row)
		if err == nil {
			_, err = im.Orders.Execute(ctx, input)
		}
		if err != nil {
			res.Failed++
			log.Warn().Err(err).Int("line", row.line).Msg("order row skipped")
			continue
		}
		res.Imported++
	}
	return res, nil
}

func (im *Importer) orderInput(ctx context.Context, row record) (usecase.CreateOrderInput, error) {
	amount, err := strconv.ParseFloat(row.get("amount"), 64)
	if err != nil {
		return usecase.CreateOrderInput{}, fmt.Errorf("amount %q: %w", row.get("amount"), err)
	}

	input := usecase.CreateOrderInput{
		CustomerID: row.get("customer_id"),
		Amount:     amount,
		Status:     row.get("status"),
	}

	if input.CustomerID == "" {
		email := row.get("customer_email")
		if email == "" {
			return input, errors.New("customer_id or customer_email is required")
		}
		c, err := im.Finder.FindByEmail(ctx, strings.ToLower(email))
		if err != nil {
			return input, fmt.Errorf("customer %s: %w", email, err)
		}
		input.CustomerID = c.ID
	}

	if raw := row.get("created_at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return input, fmt.Errorf("created_at %q: %w", raw, err)
		}
		input.CreatedAt = &at
	}
	return input, nil
}

type record struct {
	line   int
	fields map[string]string
}

func (r record) get(name string) string {
	return strings.TrimSpace(r.fields[name])
}

func readRows(r io.Reader, required ...string) ([]record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, name := range required {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	var rows []record
	for line := 2; ; line++ {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		fields := make(map[string]string, len(index))
		for name, i := range index {
			if i < len(values) {
				fields[name] = values[i]
			}
		}
		rows = append(rows, record{line: line, fields: fields})
	}
	return rows, nil
}
