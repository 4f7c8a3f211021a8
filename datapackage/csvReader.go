package datapackage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ctdata/ct-placenames/datapackage/entities"
	"github.com/ctdata/ct-placenames/logging"
)

// parseCSV reads delimited rows from r. Rows whose column count differs from
// the header are skipped and counted. Only '"' is supported as quote char.
func parseCSV(r io.Reader, dialect *entities.Dialect, schema *entities.Schema, source string) ([]entities.Row, error) {
	if q := dialect.Quote(); q != '"' {
		return nil, fmt.Errorf("%s: %w %q", source, ErrUnsupportedDialect, q)
	}

	reader := csv.NewReader(r)
	reader.Comma = dialect.Comma()
	reader.FieldsPerRecord = -1
	if dialect != nil {
		reader.TrimLeadingSpace = dialect.SkipInitialSpace
	}

	var header []string
	if dialect.HasHeader() {
		first, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return []entities.Row{}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read header of %s: %w", source, err)
		}
		header = first
	} else {
		header = schema.FieldNames()
		if len(header) == 0 {
			return nil, fmt.Errorf("%s has no header row and no schema fields", source)
		}
	}

	rows := []entities.Row{}
	lineCount := 0
	skippedMissingColumns := 0

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", source, err)
		}
		lineCount++

		if len(record) != len(header) {
			skippedMissingColumns++
			continue
		}

		row := make(entities.Row, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}

	if skippedMissingColumns > 0 {
		logging.Info("Resource skip statistics",
			"source", source,
			"missing_columns", skippedMissingColumns,
			"total_lines", lineCount,
			"records_parsed", len(rows))
	}

	return rows, nil
}

// parseInline decodes the inline data of a resource. Both the array of
// objects form and the array of arrays form (header first) are accepted.
func parseInline(raw json.RawMessage, source string) ([]entities.Row, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var items []json.RawMessage
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("inline data of %s must be an array: %w", source, err)
	}
	if len(items) == 0 {
		return []entities.Row{}, nil
	}

	trimmed := bytes.TrimSpace(items[0])
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return parseInlineArrays(items, source)
	}

	rows := make([]entities.Row, 0, len(items))
	for i, item := range items {
		var object map[string]any
		if err := decodeNumbers(item, &object); err != nil {
			return nil, fmt.Errorf("inline row %d of %s: %w", i, source, err)
		}
		row := make(entities.Row, len(object))
		for key, value := range object {
			row[key] = cellString(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseInlineArrays(items []json.RawMessage, source string) ([]entities.Row, error) {
	var header []string
	if err := json.Unmarshal(items[0], &header); err != nil {
		return nil, fmt.Errorf("inline header of %s: %w", source, err)
	}

	rows := make([]entities.Row, 0, len(items)-1)
	for i, item := range items[1:] {
		var cells []any
		if err := decodeNumbers(item, &cells); err != nil {
			return nil, fmt.Errorf("inline row %d of %s: %w", i+1, source, err)
		}
		if len(cells) != len(header) {
			return nil, fmt.Errorf("inline row %d of %s has %d cells, expected %d", i+1, source, len(cells), len(header))
		}
		row := make(entities.Row, len(header))
		for j, name := range header {
			row[name] = cellString(cells[j])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeNumbers(raw json.RawMessage, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func cellString(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case json.Number:
		return value.String()
	default:
		return strings.TrimSpace(fmt.Sprint(value))
	}
}
