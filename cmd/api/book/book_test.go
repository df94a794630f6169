package book_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/book"
	bookmock "github.com/library-service/cmd/api/book/mocks"
	"github.com/library-service/cmd/api/media"
	"github.com/matryer/is"
	gomock "go.uber.org/mock/gomock"
)

var ctx context.Context = context.Background()

var mediaTimeout = 1 * time.Second

func TestCreateBook(t *testing.T) {

	t.Run("creates a book without errors", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		reqBook := book.CreateBookRequest{
			Title:       "Service tester book",
			Author:      "Some Author",
			Category:    "testing",
			TotalCopies: toPointer(3),
		}

		mockRepo.EXPECT().GetBookByTitle(gomock.Any(), reqBook.Title).Return(book.Book{}, book.ErrResponseBookNotFound)
		mockRepo.EXPECT().CreateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, b book.Book) (book.Book, error) {
			is.True(b.ID != uuid.Nil)
			is.Equal(b.Title, reqBook.Title)
			is.Equal(b.Author, reqBook.Author)
			is.Equal(b.Category, reqBook.Category)
			is.Equal(b.TotalCopies, *reqBook.TotalCopies)
			is.Equal(b.AvailableCopies, *reqBook.TotalCopies)
			is.True(b.CreatedAt.Compare(time.Now().Round(time.Millisecond)) <= 0)
			is.True(b.UpdatedAt.Compare(time.Now().Round(time.Millisecond)) <= 0)
			return b, nil
		})

		createdBook, err := mS.CreateBook(ctx, reqBook)
		is.NoErr(err)
		is.True(createdBook.ID != uuid.Nil)
		is.Equal(createdBook.Title, reqBook.Title)
		is.Equal(createdBook.AvailableCopies, *reqBook.TotalCopies)
	})

	t.Run("rejects a title already on the catalog", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		reqBook := book.CreateBookRequest{
			Title:       "Duplicated book",
			Author:      "Some Author",
			Category:    "testing",
			TotalCopies: toPointer(3),
		}

		mockRepo.EXPECT().GetBookByTitle(gomock.Any(), reqBook.Title).Return(book.Book{Title: reqBook.Title}, nil)

		_, err := mS.CreateBook(ctx, reqBook)
		is.True(errors.Is(err, book.ErrResponseBookConflict))
	})
}

func TestUpdateBook(t *testing.T) {
	t.Run("updates a book without errors", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		reqBook := book.UpdateBookRequest{
			ID:          uuid.New(),
			Title:       "Updated service tester book",
			Author:      "Some Author",
			Category:    "testing",
			TotalCopies: toPointer(5),
		}

		mockRepo.EXPECT().UpdateBook(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, b book.Book) (book.Book, error) {
			is.Equal(b.ID, reqBook.ID)
			is.Equal(b.Title, reqBook.Title)
			is.Equal(b.TotalCopies, *reqBook.TotalCopies)
			is.True(b.UpdatedAt.Compare(time.Now().Round(time.Millisecond)) <= 0)
			return b, nil
		})

		updatedBook, err := mS.UpdateBook(ctx, reqBook)
		is.NoErr(err)
		is.Equal(updatedBook.ID, reqBook.ID)
		is.Equal(updatedBook.Title, reqBook.Title)
	})
}

func TestGetBook(t *testing.T) {
	t.Run("Gets a book by ID without errors", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id)

		_, err := mS.GetBook(ctx, id)
		is.NoErr(err)
	})
}

func TestDeleteBook(t *testing.T) {
	t.Run("deletes a book and its image", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{ID: id, ImagePublicID: "covers/abc"}, nil)
		mockUploader.EXPECT().Delete(gomock.Any(), "covers/abc").Return(nil)
		mockRepo.EXPECT().DeleteBook(gomock.Any(), id).Return(nil)

		err := mS.DeleteBook(ctx, id)
		is.NoErr(err)
	})

	t.Run("deletes a book without image, media service untouched", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{ID: id}, nil)
		mockRepo.EXPECT().DeleteBook(gomock.Any(), id).Return(nil)

		err := mS.DeleteBook(ctx, id)
		is.NoErr(err)
	})
}

func TestListBooks(t *testing.T) {
	is := is.New(t)
	ctrl := gomock.NewController(t)
	mockRepo := bookmock.NewMockRepository(ctrl)
	mockUploader := bookmock.NewMockUploader(ctrl)
	mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

	t.Run("list first page of stored books without errors, paginated with exact division", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          1,
			PageSize:      10,
		}
		itemsTotal := 30
		expectedPagesTotal := 3 //(itemsTotal / PageSize) up rounded to next integer
		results := []book.Book{}
		//-------------------------------

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		mockRepo.EXPECT().ListBooks(gomock.Any(), reqBooks.Keyword, reqBooks.SortBy, reqBooks.SortDirection, reqBooks.Page, reqBooks.PageSize).Return(results, nil)

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.NoErr(err)
		is.Equal(pageOfBooksList.PageCurrent, reqBooks.Page)
		is.Equal(pageOfBooksList.PageTotal, expectedPagesTotal)
		is.Equal(pageOfBooksList.PageSize, reqBooks.PageSize)
		is.Equal(pageOfBooksList.ItemsTotal, itemsTotal)
		is.Equal(pageOfBooksList.Results, results)
	})

	t.Run("list first page of stored books without errors, paginated with not exact division", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "go",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          1,
			PageSize:      10,
		}
		itemsTotal := 31
		expectedPagesTotal := 4 //(itemsTotal / PageSize) up rounded to next integer
		results := []book.Book{}
		//-------------------------------

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		mockRepo.EXPECT().ListBooks(gomock.Any(), reqBooks.Keyword, reqBooks.SortBy, reqBooks.SortDirection, reqBooks.Page, reqBooks.PageSize).Return(results, nil)

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.NoErr(err)
		is.Equal(pageOfBooksList.PageTotal, expectedPagesTotal)
		is.Equal(pageOfBooksList.ItemsTotal, itemsTotal)
	})

	t.Run("list books asking page out of range", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          4,
			PageSize:      10,
		}
		itemsTotal := 30
		//-------------------------------

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		//Its expected that the method returns before calling ListBooks due to the pagination error.

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.True(errors.Is(err, book.ErrResponseQueryPageOutOfRange))
		is.Equal(pageOfBooksList, book.PagedBooks{})
	})

	t.Run("no books to list", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "nothing matches this",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          1,
			PageSize:      10,
		}
		itemsTotal := 0
		//-------------------------------

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		//Its expected that the method returns before calling ListBooks since there is no books to list.

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.NoErr(err)
		is.Equal(pageOfBooksList.ItemsTotal, 0)
		is.Equal(pageOfBooksList.Results, []book.Book{})
	})

	t.Run("expected error from database", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          1,
			PageSize:      10,
		}
		itemsTotal := 30
		results := []book.Book{}
		dbErr := errors.New("fake error from database")
		errRepo := book.ErrResponse{
			Code:    book.ErrResponseFromRespository.Code,
			Message: book.ErrResponseFromRespository.Message + dbErr.Error(),
			Status:  book.ErrResponseFromRespository.Status,
		}
		//-------------------------------

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		mockRepo.EXPECT().ListBooks(gomock.Any(), reqBooks.Keyword, reqBooks.SortBy, reqBooks.SortDirection, reqBooks.Page, reqBooks.PageSize).Return(results, dbErr)

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.Equal(pageOfBooksList, book.PagedBooks{})
		is.Equal(err, errRepo)
	})

	t.Run("expected context timeout error", func(t *testing.T) {
		//Setting specific subtest values:
		reqBooks := book.ListBooksRequest{
			Keyword:       "",
			SortBy:        "title",
			SortDirection: "asc",
			Page:          1,
			PageSize:      10,
		}
		itemsTotal := 30
		results := []book.Book{}

		mockRepo.EXPECT().ListBooksTotals(gomock.Any(), reqBooks.Keyword).Return(itemsTotal, nil)
		mockRepo.EXPECT().ListBooks(gomock.Any(), reqBooks.Keyword, reqBooks.SortBy, reqBooks.SortDirection, reqBooks.Page, reqBooks.PageSize).Return(results, context.DeadlineExceeded)

		pageOfBooksList, err := mS.ListBooks(ctx, reqBooks)
		is.Equal(pageOfBooksList, book.PagedBooks{})
		is.Equal(err.Error(), "timeout on call to ListBooks: "+context.DeadlineExceeded.Error())
	})
}

func TestImportBooksCSV(t *testing.T) {
	t.Run("imports books from a csv file without errors", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		csvFile := strings.NewReader("title,author,category,total_copies,available_copies\n" +
			"The Go Programming Language,Alan Donovan,programming,4,2\n" +
			"Clean Architecture,Robert Martin,software design,2,2\n")

		mockRepo.EXPECT().CreateBooks(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, newBooks []book.Book) ([]book.Book, error) {
			is.Equal(len(newBooks), 2)
			is.Equal(newBooks[0].Title, "The Go Programming Language")
			is.Equal(newBooks[0].TotalCopies, 4)
			//New titles always start fully available, whatever column five says.
			is.Equal(newBooks[0].AvailableCopies, 4)
			is.Equal(newBooks[1].Title, "Clean Architecture")
			return newBooks, nil
		})

		importedBooks, err := mS.ImportBooksCSV(ctx, "books.csv", csvFile)
		is.NoErr(err)
		is.Equal(len(importedBooks), 2)
	})

	t.Run("rejects a file without the csv extension", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		_, err := mS.ImportBooksCSV(ctx, "books.txt", strings.NewReader("whatever"))
		is.True(errors.Is(err, book.ErrResponseInvalidCSVFormat))
	})

	t.Run("rejects a record with missing columns", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		csvFile := strings.NewReader("title,author,category,total_copies,available_copies\n" +
			"A Title,An Author,a category\n")

		_, err := mS.ImportBooksCSV(ctx, "books.csv", csvFile)
		is.True(errors.Is(err, book.ErrResponseInvalidCSVFormat))
	})

	t.Run("rejects a record with a non numeric total", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		csvFile := strings.NewReader("title,author,category,total_copies,available_copies\n" +
			"A Title,An Author,a category,many,1\n")

		_, err := mS.ImportBooksCSV(ctx, "books.csv", csvFile)
		var errResp book.ErrResponse
		is.True(errors.As(err, &errResp))
		is.Equal(errResp.Code, book.ErrResponseCSVImportFailed.Code)
	})
}

func TestUpdateBookImage(t *testing.T) {
	t.Run("uploads the new image and deletes the old one", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()
		asset := media.Asset{URL: "http://cdn.local/covers/new.png", PublicID: "covers/new"}

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{ID: id, ImagePublicID: "covers/old"}, nil)
		mockUploader.EXPECT().Upload(gomock.Any(), "cover.png", gomock.Any()).Return(asset, nil)
		mockUploader.EXPECT().Delete(gomock.Any(), "covers/old").Return(nil)
		mockRepo.EXPECT().SetBookImage(gomock.Any(), id, asset.URL, asset.PublicID).Return(book.Book{ID: id, ImageURL: asset.URL, ImagePublicID: asset.PublicID}, nil)

		updatedBook, err := mS.UpdateBookImage(ctx, id, "cover.png", strings.NewReader("fake image bytes"))
		is.NoErr(err)
		is.Equal(updatedBook.ImageURL, asset.URL)
	})

	t.Run("first image of a book skips the delete", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()
		asset := media.Asset{URL: "http://cdn.local/covers/new.png", PublicID: "covers/new"}

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{ID: id}, nil)
		mockUploader.EXPECT().Upload(gomock.Any(), "cover.png", gomock.Any()).Return(asset, nil)
		mockRepo.EXPECT().SetBookImage(gomock.Any(), id, asset.URL, asset.PublicID).Return(book.Book{ID: id, ImageURL: asset.URL, ImagePublicID: asset.PublicID}, nil)

		_, err := mS.UpdateBookImage(ctx, id, "cover.png", strings.NewReader("fake image bytes"))
		is.NoErr(err)
	})
}

func TestGetBookImageURL(t *testing.T) {
	t.Run("book without image answers not found", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{ID: id}, nil)

		_, err := mS.GetBookImageURL(ctx, id)
		is.True(errors.Is(err, book.ErrResponseBookImageNotFound))
	})
}

func TestBookExists(t *testing.T) {
	t.Run("missing book is not an error", func(t *testing.T) {
		is := is.New(t)
		ctrl := gomock.NewController(t)
		mockRepo := bookmock.NewMockRepository(ctrl)
		mockUploader := bookmock.NewMockUploader(ctrl)
		mS := book.NewService(mockRepo, mockUploader, mediaTimeout)

		id := uuid.New()

		mockRepo.EXPECT().GetBookByID(gomock.Any(), id).Return(book.Book{}, book.ErrResponseBookNotFound)

		exists, err := mS.BookExists(ctx, id)
		is.NoErr(err)
		is.True(!exists)
	})
}

func toPointer[T any](v T) *T {
	return &v
}
