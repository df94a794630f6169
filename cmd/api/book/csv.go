package book

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

/* Imports books from a CSV file. The first line is a header and is skipped.
Each record needs at least five columns: title, author, category, total_copies
and available_copies. Newly created titles always start fully available, so
the fifth column is only validated, not trusted. */
func (s *Service) ImportBooksCSV(ctx context.Context, fileName string, file io.Reader) ([]Book, error) {
	if !strings.HasSuffix(strings.ToLower(fileName), ".csv") {
		return nil, fmt.Errorf("importing books: %w", ErrResponseInvalidCSVFormat)
	}

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, csvImportError(err)
	}

	createdAt := time.Now().UTC().Round(time.Millisecond)
	newBooks := []Book{}
	for i, record := range records {
		if i == 0 {
			continue //Skip header line.
		}
		if len(record) < 5 {
			return nil, fmt.Errorf("importing books: %w", ErrResponseInvalidCSVFormat)
		}

		totalCopies, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil || totalCopies < 0 {
			return nil, csvImportError(fmt.Errorf("line %d: invalid total_copies %q", i+1, record[3]))
		}
		if _, err := strconv.Atoi(strings.TrimSpace(record[4])); err != nil {
			return nil, csvImportError(fmt.Errorf("line %d: invalid available_copies %q", i+1, record[4]))
		}

		newBooks = append(newBooks, Book{
			ID:              uuid.New(),
			Title:           strings.TrimSpace(record[0]),
			Author:          strings.TrimSpace(record[1]),
			Category:        strings.TrimSpace(record[2]),
			TotalCopies:     totalCopies,
			AvailableCopies: totalCopies,
			CreatedAt:       createdAt,
			UpdatedAt:       createdAt,
		})
	}

	return s.repo.CreateBooks(ctx, newBooks)
}

func csvImportError(err error) error {
	return ErrResponse{
		Code:    ErrResponseCSVImportFailed.Code,
		Message: ErrResponseCSVImportFailed.Message + err.Error(),
		Status:  ErrResponseCSVImportFailed.Status,
	}
}
