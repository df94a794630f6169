package inmemory

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-memdb"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/borrowing"
)

// InMemoryStore implements the same repository interfaces as the postgres
// Store on top of go-memdb. Handy for tests and local runs without a db.
type InMemoryStore struct {
	db  *memdb.MemDB
	exc *memdb.Txn
}

func NewInMemoryStore() (*InMemoryStore, error) {
	schema := &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			"book": {
				Name: "book",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"title": {
						Name:    "title",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "Title", Lowercase: true},
					},
				},
			},
			"account": {
				Name: "account",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"email": {
						Name:    "email",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "Email", Lowercase: true},
					},
				},
			},
			"loan": {
				Name: "loan",
				Indexes: map[string]*memdb.IndexSchema{
					"id": {
						Name:    "id",
						Unique:  true,
						Indexer: &memdb.StringFieldIndex{Field: "ID"},
					},
					"account_book": { // Composite index for quick lookups
						Name:   "account_book",
						Unique: false,
						Indexer: &memdb.CompoundIndex{
							Indexes: []memdb.Indexer{
								&memdb.StringFieldIndex{Field: "AccountID"},
								&memdb.StringFieldIndex{Field: "BookID"},
							},
						},
					},
					"account_id": {
						Name:    "account_id",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "AccountID"},
					},
					"book_id": {
						Name:    "book_id",
						Unique:  false,
						Indexer: &memdb.StringFieldIndex{Field: "BookID"},
					},
				},
			},
		},
	}

	db, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize in-memory database: %w", err)
	}
	return &InMemoryStore{db: db, exc: nil}, nil
}

// reader hands back the transaction to read from. A store cloned by BeginTx
// reuses its write transaction, the base store opens a throwaway read one.
func (store *InMemoryStore) reader() (*memdb.Txn, func()) {
	if store.exc != nil {
		return store.exc, func() {}
	}
	txn := store.db.Txn(false)
	return txn, txn.Abort
}

// writer hands back the transaction to mutate through, plus commit and abort.
// Inside an outer transaction both are no-ops, the owner of the transaction
// decides its fate.
func (store *InMemoryStore) writer() (*memdb.Txn, func(), func()) {
	if store.exc != nil {
		return store.exc, func() {}, func() {}
	}
	txn := store.db.Txn(true)
	return txn, txn.Commit, txn.Abort
}

type AdaptedBook struct {
	ID              string
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

func adaptBookIdToString(bookEntry book.Book) AdaptedBook {
	return AdaptedBook{
		ID:              bookEntry.ID.String(),
		Title:           bookEntry.Title,
		Author:          bookEntry.Author,
		Category:        bookEntry.Category,
		TotalCopies:     bookEntry.TotalCopies,
		AvailableCopies: bookEntry.AvailableCopies,
		ImageURL:        bookEntry.ImageURL,
		ImagePublicID:   bookEntry.ImagePublicID,
		CreatedAt:       bookEntry.CreatedAt,
		UpdatedAt:       bookEntry.UpdatedAt,
	}
}

func adaptBookIdToUUID(adptBook AdaptedBook) book.Book {
	return book.Book{
		ID:              uuid.MustParse(adptBook.ID),
		Title:           adptBook.Title,
		Author:          adptBook.Author,
		Category:        adptBook.Category,
		TotalCopies:     adptBook.TotalCopies,
		AvailableCopies: adptBook.AvailableCopies,
		ImageURL:        adptBook.ImageURL,
		ImagePublicID:   adptBook.ImagePublicID,
		CreatedAt:       adptBook.CreatedAt,
		UpdatedAt:       adptBook.UpdatedAt,
	}
}

// -- Books --

func (store *InMemoryStore) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("book", "title", bookEntry.Title)
	if err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}
	if raw != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", book.ErrResponseBookConflict)
	}

	if err := txn.Insert("book", adaptBookIdToString(bookEntry)); err != nil {
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	commit()
	return bookEntry, nil
}

func (store *InMemoryStore) CreateBooks(ctx context.Context, bookEntries []book.Book) ([]book.Book, error) {
	txn, commit, abort := store.writer()
	defer abort()

	for _, bookEntry := range bookEntries {
		raw, err := txn.First("book", "title", bookEntry.Title)
		if err != nil {
			return nil, fmt.Errorf("storing books on db: %w", err)
		}
		if raw != nil {
			return nil, fmt.Errorf("storing books on db: %w", book.ErrResponseBookConflict)
		}
		if err := txn.Insert("book", adaptBookIdToString(bookEntry)); err != nil {
			return nil, fmt.Errorf("storing books on db: %w", err)
		}
	}

	commit()
	return bookEntries, nil
}

func (store *InMemoryStore) GetBookByID(ctx context.Context, id uuid.UUID) (book.Book, error) {
	txn, done := store.reader()
	defer done()

	raw, err := txn.First("book", "id", id.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
	}

	return adaptBookIdToUUID(raw.(AdaptedBook)), nil
}

func (store *InMemoryStore) GetBookByTitle(ctx context.Context, title string) (book.Book, error) {
	txn, done := store.reader()
	defer done()

	raw, err := txn.First("book", "title", title)
	if err != nil {
		return book.Book{}, fmt.Errorf("searching by title: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("searching by title: %w", book.ErrResponseBookNotFound)
	}

	return adaptBookIdToUUID(raw.(AdaptedBook)), nil
}

func (store *InMemoryStore) ListBooks(ctx context.Context, keyword, sortBy, sortDirection string, page, pageSize int) ([]book.Book, error) {
	txn, done := store.reader()
	defer done()

	it, err := txn.Get("book", "id")
	if err != nil {
		return []book.Book{}, fmt.Errorf("listing books from db: %w", err)
	}

	books := []book.Book{}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		b := obj.(AdaptedBook)
		if !matchesKeyword(b, keyword) {
			continue
		}
		books = append(books, adaptBookIdToUUID(b))
	}

	booksSorted := sortBooks(sortBy, sortDirection, books)

	start := (page - 1) * pageSize
	if start >= len(booksSorted) {
		return []book.Book{}, nil
	}
	end := start + pageSize
	if end > len(booksSorted) {
		end = len(booksSorted)
	}

	return booksSorted[start:end], nil
}

func (store *InMemoryStore) ListBooksTotals(ctx context.Context, keyword string) (int, error) {
	txn, done := store.reader()
	defer done()

	it, err := txn.Get("book", "id")
	if err != nil {
		return 0, fmt.Errorf("counting books from db: %w", err)
	}

	count := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		if matchesKeyword(obj.(AdaptedBook), keyword) {
			count++
		}
	}

	return count, nil
}

func matchesKeyword(b AdaptedBook, keyword string) bool {
	if keyword == "" {
		return true
	}
	k := strings.ToLower(keyword)
	return strings.Contains(strings.ToLower(b.Title), k) ||
		strings.Contains(strings.ToLower(b.Author), k) ||
		strings.Contains(strings.ToLower(b.Category), k)
}

func sortBooks(sortBy, sortDirection string, books []book.Book) []book.Book {
	if sortBy != "" {
		sort.Slice(books, func(i, j int) bool {
			switch sortBy {
			case "title":
				if sortDirection == "desc" {
					return books[i].Title > books[j].Title
				}
				return books[i].Title < books[j].Title
			case "author":
				if sortDirection == "desc" {
					return books[i].Author > books[j].Author
				}
				return books[i].Author < books[j].Author
			case "category":
				if sortDirection == "desc" {
					return books[i].Category > books[j].Category
				}
				return books[i].Category < books[j].Category
			case "created_at":
				if sortDirection == "desc" {
					return books[i].CreatedAt.After(books[j].CreatedAt)
				}
				return books[i].CreatedAt.Before(books[j].CreatedAt)
			case "updated_at":
				if sortDirection == "desc" {
					return books[i].UpdatedAt.After(books[j].UpdatedAt)
				}
				return books[i].UpdatedAt.Before(books[j].UpdatedAt)
			default:
				return true // No sorting applied
			}
		})
	}
	return books
}

func (store *InMemoryStore) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("book", "id", bookEntry.ID.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("updating book on db: %w", book.ErrResponseBookNotFound)
	}

	updatedBook := raw.(AdaptedBook)
	updatedBook.Title = bookEntry.Title
	updatedBook.Author = bookEntry.Author
	updatedBook.Category = bookEntry.Category
	// The available count moves by the same delta as the total, clamped
	// to [0, new total].
	delta := bookEntry.TotalCopies - updatedBook.TotalCopies
	updatedBook.AvailableCopies = clamp(updatedBook.AvailableCopies+delta, 0, bookEntry.TotalCopies)
	updatedBook.TotalCopies = bookEntry.TotalCopies
	//CreatedAt and image fields will not change
	updatedBook.UpdatedAt = bookEntry.UpdatedAt

	if err := txn.Insert("book", updatedBook); err != nil {
		return book.Book{}, err
	}

	commit()
	return adaptBookIdToUUID(updatedBook), nil
}

func (store *InMemoryStore) SetBookImage(ctx context.Context, id uuid.UUID, imageURL, imagePublicID string) (book.Book, error) {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("book", "id", id.String())
	if err != nil {
		return book.Book{}, fmt.Errorf("setting book image on db: %w", err)
	}
	if raw == nil {
		return book.Book{}, fmt.Errorf("setting book image on db: %w", book.ErrResponseBookNotFound)
	}

	updatedBook := raw.(AdaptedBook)
	updatedBook.ImageURL = imageURL
	updatedBook.ImagePublicID = imagePublicID

	if err := txn.Insert("book", updatedBook); err != nil {
		return book.Book{}, err
	}

	commit()
	return adaptBookIdToUUID(updatedBook), nil
}

func (store *InMemoryStore) DeleteBook(ctx context.Context, id uuid.UUID) error {
	txn, commit, abort := store.writer()
	defer abort()

	raw, err := txn.First("book", "id", id.String())
	if err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("deleting book from db: %w", book.ErrResponseBookNotFound)
	}

	if err := txn.Delete("book", raw); err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}

	commit()
	return nil
}

func clamp(v, low, high int) int {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// -- Transactions --

func (store *InMemoryStore) BeginTx(ctx context.Context, opts *sql.TxOptions) (borrowing.Repository, driver.Tx, error) {
	txn := store.db.Txn(true)
	if txn == nil {
		return nil, nil, fmt.Errorf("failed to create transaction")
	}

	txWrapper := &TxWrapper{txn: txn}
	txStore := &InMemoryStore{
		db:  store.db,
		exc: txn,
	}

	return txStore, txWrapper, nil
}

type TxWrapper struct {
	txn *memdb.Txn
}

func (tx *TxWrapper) Commit() error {
	tx.txn.Commit()
	return nil
}

func (tx *TxWrapper) Rollback() error {
	// Abort after Commit is a no-op in memdb, so the deferred Rollback of
	// a committed transaction is harmless.
	tx.txn.Abort()
	return nil
}
