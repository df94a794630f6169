package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/media"
)

type ServiceAPI interface {
	CreateBook(ctx context.Context, bookEntry CreateBookRequest) (Book, error)
	GetBook(ctx context.Context, id uuid.UUID) (Book, error)
	ListBooks(ctx context.Context, params ListBooksRequest) (PagedBooks, error)
	UpdateBook(ctx context.Context, bookEntry UpdateBookRequest) (Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
	ImportBooksCSV(ctx context.Context, fileName string, file io.Reader) ([]Book, error)
	UpdateBookImage(ctx context.Context, id uuid.UUID, fileName string, image io.Reader) (Book, error)
	GetBookImageURL(ctx context.Context, id uuid.UUID) (string, error)
	DeleteBookImage(ctx context.Context, id uuid.UUID) (Book, error)
	BookExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type Repository interface {
	CreateBook(ctx context.Context, bookEntry Book) (Book, error)
	CreateBooks(ctx context.Context, bookEntries []Book) ([]Book, error)
	GetBookByID(ctx context.Context, id uuid.UUID) (Book, error)
	GetBookByTitle(ctx context.Context, title string) (Book, error)
	ListBooks(ctx context.Context, keyword, sortBy, sortDirection string, page, pageSize int) ([]Book, error)
	ListBooksTotals(ctx context.Context, keyword string) (int, error)
	UpdateBook(ctx context.Context, bookEntry Book) (Book, error)
	SetBookImage(ctx context.Context, id uuid.UUID, imageURL, imagePublicID string) (Book, error)
	DeleteBook(ctx context.Context, id uuid.UUID) error
}

// Uploader is the external media service the catalog delegates image storage to.
type Uploader interface {
	Upload(ctx context.Context, fileName string, content io.Reader) (media.Asset, error)
	Delete(ctx context.Context, publicID string) error
}

type Service struct {
	repo         Repository
	media        Uploader
	mediaTimeout time.Duration
}

func NewService(repo Repository, uploader Uploader, mediaTimeout time.Duration) *Service {
	return &Service{repo: repo, media: uploader, mediaTimeout: mediaTimeout}
}

/* Creates a new book. A title already on the catalog is rejected. New titles start fully available. */
func (s *Service) CreateBook(ctx context.Context, bookEntry CreateBookRequest) (Book, error) {
	_, err := s.repo.GetBookByTitle(ctx, bookEntry.Title)
	if err == nil {
		return Book{}, fmt.Errorf("creating book: %w", ErrResponseBookConflict)
	}
	if !errors.Is(err, ErrResponseBookNotFound) {
		return Book{}, fmt.Errorf("creating book: %w", err)
	}

	createdAt := time.Now().UTC().Round(time.Millisecond)
	newBook := Book{
		ID:              uuid.New(),
		Title:           bookEntry.Title,
		Author:          bookEntry.Author,
		Category:        bookEntry.Category,
		TotalCopies:     *bookEntry.TotalCopies,
		AvailableCopies: *bookEntry.TotalCopies,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}

	return s.repo.CreateBook(ctx, newBook)
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (Book, error) {
	return s.repo.GetBookByID(ctx, id)
}

/* Returns a page of the catalog filtered by keyword over title, author and category. */
func (s *Service) ListBooks(ctx context.Context, params ListBooksRequest) (PagedBooks, error) {
	itemsTotal, err := s.repo.ListBooksTotals(ctx, params.Keyword)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return PagedBooks{}, fmt.Errorf("timeout on call to ListBooksTotals: %w", err)
		}
		return PagedBooks{}, repositoryError(err)
	}

	if itemsTotal == 0 {
		return PagedBooks{Results: []Book{}}, nil
	}

	pagesTotal := (itemsTotal + params.PageSize - 1) / params.PageSize
	if params.Page > pagesTotal {
		return PagedBooks{}, ErrResponseQueryPageOutOfRange
	}

	returnedBooks, err := s.repo.ListBooks(ctx, params.Keyword, params.SortBy, params.SortDirection, params.Page, params.PageSize)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return PagedBooks{}, fmt.Errorf("timeout on call to ListBooks: %w", err)
		}
		return PagedBooks{}, repositoryError(err)
	}

	return PagedBooks{
		PageCurrent: params.Page,
		PageTotal:   pagesTotal,
		PageSize:    params.PageSize,
		ItemsTotal:  itemsTotal,
		Results:     returnedBooks,
	}, nil
}

/* Updates title, author, category and copy totals. The repository reconciles
the available count by the same delta applied to the total, clamped so it
never leaves [0, total]. */
func (s *Service) UpdateBook(ctx context.Context, bookEntry UpdateBookRequest) (Book, error) {
	updatedBook := Book{
		ID:          bookEntry.ID,
		Title:       bookEntry.Title,
		Author:      bookEntry.Author,
		Category:    bookEntry.Category,
		TotalCopies: *bookEntry.TotalCopies,
		UpdatedAt:   time.Now().UTC().Round(time.Millisecond),
	}
	return s.repo.UpdateBook(ctx, updatedBook)
}

/* Deletes a book and its attached image, if any. Loan records referencing the
book are kept, the ledger is an audit trail. */
func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	bookToDelete, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	if bookToDelete.ImagePublicID != "" {
		mediaCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
		defer cancel()
		if err := s.media.Delete(mediaCtx, bookToDelete.ImagePublicID); err != nil {
			return fmt.Errorf("deleting book image on media service: %w", err)
		}
	}

	return s.repo.DeleteBook(ctx, id)
}

/* Replaces the image of a book. The previous image is removed from the media
service after the new one is stored. */
func (s *Service) UpdateBookImage(ctx context.Context, id uuid.UUID, fileName string, image io.Reader) (Book, error) {
	bookToUpdate, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("updating book image: %w", err)
	}

	mediaCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
	defer cancel()

	asset, err := s.media.Upload(mediaCtx, fileName, image)
	if err != nil {
		return Book{}, fmt.Errorf("updating book image: %w", err)
	}

	if bookToUpdate.ImagePublicID != "" {
		if err := s.media.Delete(mediaCtx, bookToUpdate.ImagePublicID); err != nil {
			return Book{}, fmt.Errorf("deleting old book image on media service: %w", err)
		}
	}

	return s.repo.SetBookImage(ctx, id, asset.URL, asset.PublicID)
}

func (s *Service) GetBookImageURL(ctx context.Context, id uuid.UUID) (string, error) {
	returnedBook, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("getting book image: %w", err)
	}
	if returnedBook.ImageURL == "" {
		return "", fmt.Errorf("getting book image: %w", ErrResponseBookImageNotFound)
	}
	return returnedBook.ImageURL, nil
}

func (s *Service) DeleteBookImage(ctx context.Context, id uuid.UUID) (Book, error) {
	bookToUpdate, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("deleting book image: %w", err)
	}

	if bookToUpdate.ImagePublicID != "" {
		mediaCtx, cancel := context.WithTimeout(ctx, s.mediaTimeout)
		defer cancel()
		if err := s.media.Delete(mediaCtx, bookToUpdate.ImagePublicID); err != nil {
			return Book{}, fmt.Errorf("deleting book image on media service: %w", err)
		}
	}

	return s.repo.SetBookImage(ctx, id, "", "")
}

/* Tells whether a book is on the catalog. The borrowing engine gates on this. */
func (s *Service) BookExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrResponseBookNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func repositoryError(err error) ErrResponse {
	return ErrResponse{
		Code:    ErrResponseFromRespository.Code,
		Message: ErrResponseFromRespository.Message + err.Error(),
		Status:  ErrResponseFromRespository.Status,
	}
}
