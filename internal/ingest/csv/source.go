// Package csv implements the CSV Source/Sink adapters: header
// `type,client,tx,amount` on the way in, `client,available,held,total,locked`
// on the way out.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"paymentengine/internal/domain"
	"paymentengine/internal/ingest"
	"paymentengine/internal/pkg/logging"
	"paymentengine/internal/pkg/validation"
)

var header = []string{"type", "client", "tx", "amount"}

// Source reads commands from a CSV file, one per row, tagging each with a
// csv:<path>:<line> deduplication key (1-indexed, first data row is line
// 1). Malformed rows are logged and skipped; they do not abort the file.
type Source struct {
	path   string
	file   *os.File
	reader *csv.Reader
	line   int
}

// Open opens path and validates its header row (case-insensitive,
// whitespace-tolerant).
func Open(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: opening %s: %w", path, err)
	}

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("csv: reading header from %s: %w", path, err)
	}
	if !headerMatches(headerRow) {
		f.Close()
		return nil, fmt.Errorf("csv: unexpected header %v in %s, want %v", headerRow, path, header)
	}

	return &Source{path: path, file: f, reader: r}, nil
}

func headerMatches(row []string) bool {
	if len(row) != len(header) {
		return false
	}
	for i, want := range header {
		if !strings.EqualFold(strings.TrimSpace(row[i]), want) {
			return false
		}
	}
	return true
}

// Next returns the next valid command from the file. Malformed rows are
// logged and skipped transparently; Next only returns false once the file
// is fully consumed (after skipping any trailing malformed rows).
func (s *Source) Next(ctx context.Context) (ingest.Record, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return ingest.Record{}, false, err
		}

		row, err := s.reader.Read()
		if err == io.EOF {
			return ingest.Record{}, false, nil
		}
		if err != nil {
			s.line++
			logging.Warn("csv: skipping malformed row", map[string]interface{}{
				"path": s.path, "line": s.line, "error": err.Error(),
			})
			continue
		}
		s.line++

		cmd, err := parseRow(row)
		if err != nil {
			logging.Warn("csv: skipping invalid row", map[string]interface{}{
				"path": s.path, "line": s.line, "error": err.Error(),
			})
			continue
		}

		return ingest.Record{
			Command:          cmd,
			DeduplicationKey: domain.CSVDeduplicationKey(s.path, s.line),
		}, true, nil
	}
}

func (s *Source) Close() error {
	return s.file.Close()
}

func parseRow(row []string) (domain.Command, error) {
	if len(row) < 3 {
		return domain.Command{}, fmt.Errorf("expected at least 3 fields, got %d", len(row))
	}

	kind := strings.ToLower(strings.TrimSpace(row[0]))
	clientStr := strings.TrimSpace(row[1])
	txStr := strings.TrimSpace(row[2])

	clientID, err := strconv.ParseUint(clientStr, 10, 16)
	if err != nil {
		return domain.Command{}, fmt.Errorf("invalid client id %q: %w", clientStr, err)
	}
	txID, err := strconv.ParseUint(txStr, 10, 32)
	if err != nil {
		return domain.Command{}, fmt.Errorf("invalid tx id %q: %w", txStr, err)
	}

	var amountStr *string
	if len(row) > 3 {
		trimmed := strings.TrimSpace(row[3])
		if trimmed != "" {
			amountStr = &trimmed
		}
	}

	if err := validation.ValidateRow(validation.Row{
		Kind:     kind,
		ClientID: uint16(clientID),
		TxID:     uint32(txID),
		Amount:   amountStr,
	}); err != nil {
		return domain.Command{}, err
	}

	cid := domain.ClientID(clientID)
	tid := domain.TxID(txID)

	switch kind {
	case "deposit":
		amount, err := domain.NewAmount(*amountStr)
		if err != nil {
			return domain.Command{}, err
		}
		return domain.NewDepositCommand(cid, tid, amount), nil
	case "withdrawal":
		amount, err := domain.NewAmount(*amountStr)
		if err != nil {
			return domain.Command{}, err
		}
		return domain.NewWithdrawCommand(cid, tid, amount), nil
	case "dispute":
		return domain.NewDisputeCommand(cid, tid), nil
	case "resolve":
		return domain.NewResolveCommand(cid, tid), nil
	case "chargeback":
		return domain.NewChargebackCommand(cid, tid), nil
	default:
		return domain.Command{}, fmt.Errorf("unknown transaction type %q", kind)
	}
}

