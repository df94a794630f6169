package http_test

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/account"
	accountmock "github.com/library-service/cmd/api/account/mocks"
	"github.com/library-service/cmd/api/book"
	bookmock "github.com/library-service/cmd/api/book/mocks"
	"github.com/library-service/cmd/api/borrowing"
	borrowingmock "github.com/library-service/cmd/api/borrowing/mocks"
	libraryhttp "github.com/library-service/cmd/api/http"
	"github.com/matryer/is"
	"go.uber.org/mock/gomock"
)

var requestTimeout = 5 * time.Second

var issuer = account.NewTokenIssuer("test-secret", time.Hour)

type testServer struct {
	server      *http.Server
	bookAPI     *bookmock.MockServiceAPI
	borrowAPI   *borrowingmock.MockServiceAPI
	accountAPI  *accountmock.MockServiceAPI
	maintenance *libraryhttp.Maintenance
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctrl := gomock.NewController(t)

	bookAPI := bookmock.NewMockServiceAPI(ctrl)
	borrowAPI := borrowingmock.NewMockServiceAPI(ctrl)
	accountAPI := accountmock.NewMockServiceAPI(ctrl)
	maintenance := libraryhttp.NewMaintenance()

	server := libraryhttp.NewServer(
		libraryhttp.ServerConfig{Port: 8080},
		libraryhttp.NewBookHandler(bookAPI, requestTimeout),
		libraryhttp.NewBorrowingHandler(borrowAPI, requestTimeout),
		libraryhttp.NewAccountHandler(accountAPI, requestTimeout),
		issuer,
		maintenance,
	)

	return testServer{server, bookAPI, borrowAPI, accountAPI, maintenance}
}

func authedRequest(t *testing.T, method, target string, body io.Reader) *http.Request {
	t.Helper()
	issuedToken, err := issuer.Issue(uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	request, _ := http.NewRequest(method, target, body)
	request.Header.Set("Authorization", "Bearer "+issuedToken.AccessToken)
	return request
}

func TestPing(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t)

	request, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	response := httptest.NewRecorder()

	ts.server.Handler.ServeHTTP(response, request)

	is.Equal(response.Result().StatusCode, 204)
}

func TestCreateBook(t *testing.T) {
	t.Run("creates a book without errors", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		reqBook := book.CreateBookRequest{
			Title:       "HTTP tester book",
			Author:      "Some Author",
			Category:    "testing",
			TotalCopies: toPointer(3),
		}
		bookToCreate := `{
			"title": "HTTP tester book",
			"author": "Some Author",
			"category": "testing",
			"total_copies": 3
		}`
		newID := uuid.New()
		expectedReturn := book.Book{
			ID:              newID,
			Title:           reqBook.Title,
			Author:          reqBook.Author,
			Category:        reqBook.Category,
			TotalCopies:     3,
			AvailableCopies: 3,
		}
		expectedJSONresponse := fmt.Sprintf(`{"id":"%s","title":"HTTP tester book","author":"Some Author","category":"testing","total_copies":3,"available_copies":3}`+"\n", newID)

		request := authedRequest(t, http.MethodPost, "/books", strings.NewReader(bookToCreate))
		response := httptest.NewRecorder()

		ts.bookAPI.EXPECT().CreateBook(gomock.Any(), reqBook).Return(expectedReturn, nil)

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 201)
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("expected blank fields error", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		invalidBookToCreate := `{
			"title": "test with missing total_copies",
			"author": "Some Author",
			"category": "testing"
		}`
		expectedJSONresponse := fmt.Sprintln(`{"error_code":100,"error_message":"all the fields - title, author, category and total_copies - must be filled correctly."}`)

		request := authedRequest(t, http.MethodPost, "/books", strings.NewReader(invalidBookToCreate))
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 400)
		is.Equal(string(body), expectedJSONresponse)
	})

	t.Run("a conflicting title answers 409", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		bookToCreate := `{"title": "Duplicated", "author": "Some Author", "category": "testing", "total_copies": 1}`

		request := authedRequest(t, http.MethodPost, "/books", strings.NewReader(bookToCreate))
		response := httptest.NewRecorder()

		ts.bookAPI.EXPECT().CreateBook(gomock.Any(), gomock.Any()).Return(book.Book{}, fmt.Errorf("creating book: %w", book.ErrResponseBookConflict))

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 409)
	})

	t.Run("a missing token answers 401", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{}`))
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 401)
	})

	t.Run("a garbage token answers 401", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request, _ := http.NewRequest(http.MethodPost, "/books", strings.NewReader(`{}`))
		request.Header.Set("Authorization", "Bearer not.a.token")
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 401)
	})
}

func TestGetBook(t *testing.T) {
	t.Run("a missing book answers 404", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		id := uuid.New()

		request := authedRequest(t, http.MethodGet, "/books/"+id.String(), nil)
		response := httptest.NewRecorder()

		ts.bookAPI.EXPECT().GetBook(gomock.Any(), id).Return(book.Book{}, book.ErrResponseBookNotFound)

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 404)
	})

	t.Run("a malformed id answers 400", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request := authedRequest(t, http.MethodGet, "/books/not-an-uuid", nil)
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 400)
	})
}

func TestBorrowBook(t *testing.T) {
	t.Run("borrows a book without errors", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()
		borrowedAt := time.Now().UTC().Round(time.Millisecond)
		loan := borrowing.Loan{ID: uuid.New(), AccountID: accountID, BookID: bookID, BorrowedAt: borrowedAt}

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/borrow?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().BorrowBook(gomock.Any(), accountID, bookID).Return(loan, nil)

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 200)
		is.True(strings.Contains(string(body), "Book borrowed successfully!"))
		is.True(strings.Contains(string(body), loan.ID.String()))
	})

	t.Run("a book with no copies left answers 409", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/borrow?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().BorrowBook(gomock.Any(), accountID, bookID).Return(borrowing.Loan{}, fmt.Errorf("borrowing book: %w", borrowing.ErrResponseNotAvailable))

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 409)
		is.True(strings.Contains(string(body), "no copies of the book are available!"))
	})

	t.Run("an account already holding the book answers 409", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/borrow?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().BorrowBook(gomock.Any(), accountID, bookID).Return(borrowing.Loan{}, fmt.Errorf("borrowing book: %w", borrowing.ErrResponseAlreadyBorrowed))

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 409)
		is.True(strings.Contains(string(body), "you have already borrowed this book!"))
	})

	t.Run("a busy book answers 503", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/borrow?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().BorrowBook(gomock.Any(), accountID, bookID).Return(borrowing.Loan{}, fmt.Errorf("borrowing book: %w", borrowing.ErrResponseBusy))

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 503)
	})

	t.Run("malformed ids answer 400", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request := authedRequest(t, http.MethodPost, "/borrowing/borrow?accountId=abc&bookId=def", nil)
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 400)
	})
}

func TestReturnBook(t *testing.T) {
	t.Run("returns a book without errors", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()
		returnedAt := time.Now().UTC().Round(time.Millisecond)
		loan := borrowing.Loan{ID: uuid.New(), AccountID: accountID, BookID: bookID, BorrowedAt: returnedAt.Add(-time.Hour), ReturnedAt: &returnedAt}

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/return?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().ReturnBook(gomock.Any(), accountID, bookID).Return(loan, nil)

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 200)
		is.True(strings.Contains(string(body), "Book returned successfully!"))
	})

	t.Run("a book never borrowed answers 404", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID, bookID := uuid.New(), uuid.New()

		request := authedRequest(t, http.MethodPost, fmt.Sprintf("/borrowing/return?accountId=%s&bookId=%s", accountID, bookID), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().ReturnBook(gomock.Any(), accountID, bookID).Return(borrowing.Loan{}, fmt.Errorf("returning book: %w", borrowing.ErrResponseBorrowRecordNotFound))

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 404)
		is.True(strings.Contains(string(body), "no borrowing record found for this account and book!"))
	})
}

func TestCreateAccount(t *testing.T) {
	t.Run("creates an account without errors, no token needed", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountToCreate := `{
			"email": "reader@library.test",
			"password": "s3cret",
			"first_name": "Ana",
			"last_name": "Reader",
			"dob": "1990-04-02",
			"phone": "1122334455"
		}`
		newID := uuid.New()

		request, _ := http.NewRequest(http.MethodPost, "/accounts", strings.NewReader(accountToCreate))
		response := httptest.NewRecorder()

		ts.accountAPI.EXPECT().CreateAccount(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx any, entry account.CreateAccountRequest) (account.Account, error) {
			is.Equal(entry.Email, "reader@library.test")
			is.Equal(entry.DateOfBirth, time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC))
			return account.Account{ID: newID, Email: entry.Email, FirstName: entry.FirstName, LastName: entry.LastName, DateOfBirth: entry.DateOfBirth, Phone: entry.Phone}, nil
		})

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 201)
		is.True(strings.Contains(string(body), newID.String()))
		is.True(!strings.Contains(string(body), "s3cret"))
	})

	t.Run("a malformed date of birth answers 400", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountToCreate := `{"email": "reader@library.test", "password": "s3cret", "first_name": "Ana", "last_name": "Reader", "dob": "02/04/1990", "phone": "1122334455"}`

		request, _ := http.NewRequest(http.MethodPost, "/accounts", strings.NewReader(accountToCreate))
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 400)
	})
}

func TestAuthToken(t *testing.T) {
	t.Run("valid credentials answer a token", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID := uuid.New()
		issuedToken := account.Token{AccountID: accountID, AccessToken: "signed-token", ExpiresAt: time.Now().UTC().Add(time.Hour)}

		request, _ := http.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"email": "reader@library.test", "password": "s3cret"}`))
		response := httptest.NewRecorder()

		ts.accountAPI.EXPECT().Authenticate(gomock.Any(), "reader@library.test", "s3cret").Return(issuedToken, nil)

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 200)
		is.True(strings.Contains(string(body), "signed-token"))
	})

	t.Run("wrong credentials answer 401", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request, _ := http.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"email": "reader@library.test", "password": "wrong"}`))
		response := httptest.NewRecorder()

		ts.accountAPI.EXPECT().Authenticate(gomock.Any(), "reader@library.test", "wrong").Return(account.Token{}, fmt.Errorf("authenticating: %w", account.ErrResponseInvalidCredentials))

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 401)
	})
}

func TestMaintenanceMode(t *testing.T) {
	is := is.New(t)
	ts := newTestServer(t)

	//Flip the switch on.
	request := authedRequest(t, http.MethodPost, "/admin/maintenance", strings.NewReader(`{"maintenance_mode": true}`))
	response := httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(response, request)
	is.Equal(response.Result().StatusCode, 200)
	is.True(ts.maintenance.Enabled())

	//Everything but the admin routes answers 503.
	request = authedRequest(t, http.MethodGet, "/books", nil)
	response = httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(response, request)
	is.Equal(response.Result().StatusCode, 503)

	body, _ := io.ReadAll(response.Result().Body)
	is.True(strings.Contains(string(body), "service is under maintenance"))

	//The admin routes keep answering, so the switch can be flipped back.
	request = authedRequest(t, http.MethodPost, "/admin/maintenance", strings.NewReader(`{"maintenance_mode": false}`))
	response = httptest.NewRecorder()
	ts.server.Handler.ServeHTTP(response, request)
	is.Equal(response.Result().StatusCode, 200)
	is.True(!ts.maintenance.Enabled())
}

func TestImportBooks(t *testing.T) {
	t.Run("a body that is not a multipart form answers 400", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		request := authedRequest(t, http.MethodPost, "/books/import", strings.NewReader("title,author"))
		response := httptest.NewRecorder()

		ts.server.Handler.ServeHTTP(response, request)

		is.Equal(response.Result().StatusCode, 400)
	})
}

func TestListLoans(t *testing.T) {
	t.Run("lists the loans of an account", func(t *testing.T) {
		is := is.New(t)
		ts := newTestServer(t)

		accountID := uuid.New()
		loans := []borrowing.Loan{
			{ID: uuid.New(), AccountID: accountID, BookID: uuid.New(), BorrowedAt: time.Now().UTC().Round(time.Millisecond)},
		}

		request := authedRequest(t, http.MethodGet, "/borrowing/loans?accountId="+accountID.String(), nil)
		response := httptest.NewRecorder()

		ts.borrowAPI.EXPECT().ListLoans(gomock.Any(), accountID).Return(loans, nil)

		ts.server.Handler.ServeHTTP(response, request)

		body, _ := io.ReadAll(response.Result().Body)

		is.Equal(response.Result().StatusCode, 200)
		is.True(strings.Contains(string(body), loans[0].ID.String()))
	})
}

func toPointer[T any](v T) *T {
	return &v
}
