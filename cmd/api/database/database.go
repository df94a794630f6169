package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/google/uuid"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/borrowing"
	"github.com/rs/zerolog/log"

	_ "github.com/golang-migrate/migrate/v4/source/file"

	_ "github.com/lib/pq"
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	exc *Exectuor
}

type Exectuor struct {
	DBTX
}

func NewStore(db *sql.DB) *Store {
	CurrentStore := &Store{
		db:  db,
		exc: NewExc(db),
	}
	return CurrentStore
}

func NewExc(dbtx DBTX) *Exectuor {
	return &Exectuor{DBTX: dbtx}
}

/* Opens a transaction and returns a repository whose methods run inside it.
The borrowing engine relies on this together with the row locks taken by
GetAvailability. */
func (store *Store) BeginTx(ctx context.Context, opts *sql.TxOptions) (borrowing.Repository, driver.Tx, error) {
	tx, err := store.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}

	txRepo := NewStore(store.db)
	txRepo.exc = NewExc(tx)
	return txRepo, tx, nil
}

/* Connects to the database trought a connection string and returns a pointer to a valid DB object (*sql.DB). */
func ConnectDb(connStr string) (*sql.DB, error) {

	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connecting to db, openning: %w", err)
	}

	err = sqlDB.Ping()
	if err != nil {
		return nil, fmt.Errorf("connecting to db, pingging: %w", err)
	}

	log.Info().Msg("successfully connected to database")
	return sqlDB, nil
}

func MigrationUp(store *Store, path string) error {
	driver, err := postgres.WithInstance(store.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", path),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}

	err = m.Up()
	if err != nil {
		return fmt.Errorf("migrating up: %w", err)
	}
	return nil
}

const bookColumns = `id, title, author, category, total_copies, available_copies, image_url, image_public_id, created_at, updated_at`

func scanBook(row interface{ Scan(...any) error }) (book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Category, &b.TotalCopies, &b.AvailableCopies, &b.ImageURL, &b.ImagePublicID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

/* Stores the book into the database, checks and returns it if succeed. */
func (store *Store) CreateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	sqlStatement := `
	INSERT INTO books (` + bookColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + bookColumns
	createdRow := store.exc.QueryRowContext(ctx, sqlStatement,
		bookEntry.ID, bookEntry.Title, bookEntry.Author, bookEntry.Category,
		bookEntry.TotalCopies, bookEntry.AvailableCopies,
		bookEntry.ImageURL, bookEntry.ImagePublicID,
		bookEntry.CreatedAt, bookEntry.UpdatedAt)
	bookToReturn, err := scanBook(createdRow)
	if err != nil {
		if isUniqueViolation(err) {
			return book.Book{}, fmt.Errorf("storing book on db: %w", book.ErrResponseBookConflict)
		}
		return book.Book{}, fmt.Errorf("storing book on db: %w", err)
	}

	return bookToReturn, nil
}

/* Stores a batch of imported books inside a single transaction. */
func (store *Store) CreateBooks(ctx context.Context, bookEntries []book.Book) ([]book.Book, error) {
	tx, err := store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("storing books on db: %w", err)
	}
	defer tx.Rollback()

	exc := NewExc(tx)
	sqlStatement := `
	INSERT INTO books (` + bookColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING ` + bookColumns

	booksToReturn := []book.Book{}
	for _, bookEntry := range bookEntries {
		createdRow := exc.QueryRowContext(ctx, sqlStatement,
			bookEntry.ID, bookEntry.Title, bookEntry.Author, bookEntry.Category,
			bookEntry.TotalCopies, bookEntry.AvailableCopies,
			bookEntry.ImageURL, bookEntry.ImagePublicID,
			bookEntry.CreatedAt, bookEntry.UpdatedAt)
		bookToReturn, err := scanBook(createdRow)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, fmt.Errorf("storing books on db: %w", book.ErrResponseBookConflict)
			}
			return nil, fmt.Errorf("storing books on db: %w", err)
		}
		booksToReturn = append(booksToReturn, bookToReturn)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("storing books on db: %w", err)
	}

	return booksToReturn, nil
}

/* Searches a book in database based on ID and returns it if succeed. */
func (store *Store) GetBookByID(ctx context.Context, id uuid.UUID) (book.Book, error) {
	sqlStatement := `SELECT ` + bookColumns + `
	FROM books
	WHERE id=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, id)
	bookToReturn, err := scanBook(foundRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("searching by ID: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("searching by ID: %w", err)
		}
	}

	return bookToReturn, nil
}

func (store *Store) GetBookByTitle(ctx context.Context, title string) (book.Book, error) {
	sqlStatement := `SELECT ` + bookColumns + `
	FROM books
	WHERE title=$1;`
	foundRow := store.exc.QueryRowContext(ctx, sqlStatement, title)
	bookToReturn, err := scanBook(foundRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("searching by title: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("searching by title: %w", err)
		}
	}

	return bookToReturn, nil
}

/* Returns filtered content of database in a list of books. The keyword is
matched case-insensitive against title, author and category. */
func (store *Store) ListBooks(ctx context.Context, keyword, sortBy, sortDirection string, page, pageSize int) ([]book.Book, error) {
	pattern := keywordPattern(keyword)

	limit := pageSize
	offset := (page - 1) * pageSize

	sqlStatement := fmt.Sprint(`SELECT `+bookColumns+` FROM books
	WHERE title ILIKE $1 OR author ILIKE $1 OR category ILIKE $1
	ORDER BY `, sortBy, ` `, sortDirection, `
	LIMIT `, limit, ` OFFSET `, offset, ` ;`)

	rows, err := store.exc.QueryContext(ctx, sqlStatement, pattern)
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}
	defer rows.Close()
	bookslist := []book.Book{}
	for rows.Next() {
		bookToReturn, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("listing books from db: %w", err)
		}

		bookslist = append(bookslist, bookToReturn)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("listing books from db: %w", err)
	}

	return bookslist, nil
}

/* Counts how many rows in db fit the specified filter parameters. */
func (store *Store) ListBooksTotals(ctx context.Context, keyword string) (int, error) {
	pattern := keywordPattern(keyword)

	sqlStatement := `SELECT COUNT(*) FROM books
	WHERE title ILIKE $1 OR author ILIKE $1 OR category ILIKE $1;`

	row := store.exc.QueryRowContext(ctx, sqlStatement, pattern)
	var count int
	err := row.Scan(&count)
	if err != nil {
		return count, fmt.Errorf("counting books from db: %w", err)
	}

	return count, nil
}

/* Updates a book. The available count moves by the same delta as the total
and is clamped so it stays inside [0, total]. Postgres evaluates every SET
expression against the old row, so available_copies still sees the old
total_copies. */
func (store *Store) UpdateBook(ctx context.Context, bookEntry book.Book) (book.Book, error) {
	sqlStatement := `
	UPDATE books
	SET title = $2, author = $3, category = $4,
	    available_copies = GREATEST(LEAST(available_copies + ($5 - total_copies), $5), 0),
	    total_copies = $5, updated_at = $6
	WHERE id = $1
	RETURNING ` + bookColumns
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement,
		bookEntry.ID, bookEntry.Title, bookEntry.Author, bookEntry.Category,
		bookEntry.TotalCopies, bookEntry.UpdatedAt)
	bookToReturn, err := scanBook(updatedRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("updating on db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("updating on db: %w", err)
		}
	}

	return bookToReturn, nil
}

func (store *Store) SetBookImage(ctx context.Context, id uuid.UUID, imageURL, imagePublicID string) (book.Book, error) {
	sqlStatement := `
	UPDATE books
	SET image_url = $2, image_public_id = $3
	WHERE id = $1
	RETURNING ` + bookColumns
	updatedRow := store.exc.QueryRowContext(ctx, sqlStatement, id, imageURL, imagePublicID)
	bookToReturn, err := scanBook(updatedRow)
	if err != nil {
		switch err {
		case sql.ErrNoRows:
			return book.Book{}, fmt.Errorf("setting book image on db: %w", book.ErrResponseBookNotFound)
		default:
			return book.Book{}, fmt.Errorf("setting book image on db: %w", err)
		}
	}

	return bookToReturn, nil
}

func (store *Store) DeleteBook(ctx context.Context, id uuid.UUID) error {
	sqlStatement := `
	DELETE FROM books
	WHERE id = $1;`
	result, err := store.exc.ExecContext(ctx, sqlStatement, id)
	if err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting book from db: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deleting book from db: %w", book.ErrResponseBookNotFound)
	}
	return nil
}

func keywordPattern(keyword string) string {
	if keyword != "" {
		return fmt.Sprint("%", keyword, "%")
	}
	return "%"
}
