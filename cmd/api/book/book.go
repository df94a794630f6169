package book

import (
	"time"

	"github.com/google/uuid"
)

type Book struct {
	ID              uuid.UUID
	Title           string
	Author          string
	Category        string
	TotalCopies     int
	AvailableCopies int
	ImageURL        string
	ImagePublicID   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type CreateBookRequest struct {
	Title       string
	Author      string
	Category    string
	TotalCopies *int
}

type UpdateBookRequest struct {
	ID          uuid.UUID
	Title       string
	Author      string
	Category    string
	TotalCopies *int
}

type ListBooksRequest struct {
	Keyword       string
	SortBy        string
	SortDirection string
	Page          int
	PageSize      int
}

type PagedBooks struct {
	PageCurrent int
	PageTotal   int
	PageSize    int
	ItemsTotal  int
	Results     []Book
}
