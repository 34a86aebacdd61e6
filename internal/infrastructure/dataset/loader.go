package dataset

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/furnaiture/backend/internal/domain"
	"github.com/furnaiture/backend/internal/logging"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// ParseStats reports what the loader dropped
type ParseStats struct {
	Rows      int // data rows returned
	Malformed int // rows skipped for bad quoting
	Blank     int // rows with no populated cell
}

// ParseRows reads CSV text with a header row into raw records, one per
// non-empty data row. Short rows are padded with "" and malformed rows are
// skipped; only a failure of the underlying reader is returned as an error.
func ParseRows(r io.Reader) ([]domain.RawRecord, ParseStats, error) {
	var stats ParseStats

	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1

	headers, err := readHeader(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.RawRecord{}, stats, nil
		}
		return nil, stats, fmt.Errorf("read csv header: %w", err)
	}

	records := make([]domain.RawRecord, 0, 256)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Malformed++
				logging.Debug().Int("line", parseErr.StartLine).Err(parseErr.Err).Msg("skipping malformed csv row")
				continue
			}
			return nil, stats, fmt.Errorf("read csv row: %w", err)
		}

		record, ok := buildRecord(headers, row)
		if !ok {
			stats.Blank++
			continue
		}
		records = append(records, record)
	}

	stats.Rows = len(records)
	return records, stats, nil
}

// readHeader reads the first row that parses, trimming header names
func readHeader(reader *csv.Reader) ([]string, error) {
	row, err := reader.Read()
	if err != nil {
		return nil, err
	}

	headers := make([]string, len(row))
	for i, h := range row {
		headers[i] = strings.TrimSpace(h)
	}
	return headers, nil
}

// buildRecord maps a row onto the headers. Missing cells become "" and extra
// cells are dropped. Returns false when every cell is blank.
func buildRecord(headers, row []string) (domain.RawRecord, bool) {
	record := make(domain.RawRecord, len(headers))
	populated := false

	for i, name := range headers {
		if name == "" {
			continue
		}
		if _, dup := record[name]; dup {
			continue
		}
		value := ""
		if i < len(row) {
			value = strings.TrimSpace(row[i])
		}
		if value != "" {
			populated = true
		}
		record[name] = value
	}

	return record, populated
}
