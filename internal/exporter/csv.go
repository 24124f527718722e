package exporter

import (
	"bytes"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"downtimecli/internal/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter writes whole tables to delimited files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers []string
	Records [][]string
}

// WriteCSV writes a complete table to filePath. The table is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewStorageError("failed to create directory", err).WithPath(dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*.tmp")
	if err != nil {
		return errors.NewStorageError("failed to create temporary file", err).WithPath(filePath)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	writer := csv.NewWriter(tmp)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return errors.NewStorageError("failed to write headers", err).WithPath(filePath)
		}
	}
	if err := writer.WriteAll(options.Records); err != nil {
		return errors.NewStorageError("failed to write records", err).WithPath(filePath)
	}

	if err := tmp.Sync(); err != nil {
		return errors.NewStorageError("failed to sync file", err).WithPath(filePath)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewStorageError("failed to close file", err).WithPath(filePath)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		return errors.NewStorageError("failed to move file into place", err).WithPath(filePath)
	}
	committed = true
	return nil
}

// WriteSimpleCSV writes headers and records.
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers: headers,
		Records: records,
	})
}

// ReadCSV loads a whole table written by WriteCSV. The first row is returned
// as the header. A leading UTF-8 BOM, as left by spreadsheet editors, is
// ignored.
func ReadCSV(filePath string) (header []string, records [][]string, err error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.NewNotFoundError("input file").WithPath(filePath)
		}
		return nil, nil, errors.NewStorageError("failed to read file", err).WithPath(filePath)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	header, err = r.Read()
	if err == io.EOF {
		return nil, nil, errors.NewValidationError("file has no header row").WithPath(filePath)
	}
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to read header", err).WithPath(filePath)
	}

	records, err = r.ReadAll()
	if err != nil {
		return nil, nil, errors.NewParsingError("failed to read records", err).WithPath(filePath)
	}
	return header, records, nil
}
