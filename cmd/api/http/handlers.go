package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/library-service/cmd/api/book"
	"github.com/library-service/cmd/api/pkgerrors"
	"github.com/rs/zerolog/log"
)

// Upper bound for multipart bodies (csv files and cover images).
const maxUploadSize = 32 << 20

type BookHandler struct {
	bookService    book.ServiceAPI
	requestTimeout time.Duration
}

func NewBookHandler(bookService book.ServiceAPI, requestTimeout time.Duration) *BookHandler {
	return &BookHandler{bookService: bookService, requestTimeout: requestTimeout}
}

/* Addresses a call to "/books" according to the requested action.  */
func (h *BookHandler) books(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	method := r.Method
	switch method {
	case http.MethodGet:
		h.listBooks(w, r)
		return
	case http.MethodPost:
		h.createBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

/* Addresses a call to "/books/..." according to the rest of the path.
"/books/import" receives csv files, "/books/{id}/image" the cover image,
anything else must be a book id. */
func (h *BookHandler) bookByPath(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.requestTimeout)
	defer cancel()
	r = r.WithContext(ctx)

	rest, _ := strings.CutPrefix(r.URL.Path, "/books/")

	if rest == "import" {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.importBooks(w, r)
		return
	}

	if justId, found := strings.CutSuffix(rest, "/image"); found {
		h.bookImage(w, r, justId)
		return
	}

	h.bookById(w, r)
}

/* Addresses a call to "/books/(expected id here)" according to the requested action.  */
func (h *BookHandler) bookById(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	switch method {
	case http.MethodGet:
		h.getBookById(w, r)
		return
	case http.MethodPut:
		h.updateBook(w, r)
		return
	case http.MethodDelete:
		h.deleteBook(w, r)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

type BookEntry struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	TotalCopies *int   `json:"total_copies"`
}

/* Validates the entry, then stores the entry as a new book. */
func (h *BookHandler) createBook(w http.ResponseWriter, r *http.Request) {
	var bookEntry BookEntry
	err := json.NewDecoder(r.Body).Decode(&bookEntry) //Read the Json body and save the entry to bookEntry
	if err != nil {
		log.Error().Err(err).Msg("decoding book entry")
		errR := book.ErrResponse{
			Code:    book.ErrResponseEntryInvalidJSON.Code,
			Message: book.ErrResponseEntryInvalidJSON.Message + err.Error(),
			Status:  book.ErrResponseEntryInvalidJSON.Status,
		}
		responseJSON(w, http.StatusBadRequest, errR)
		return
	}

	err = FilledFields(bookEntry) //Verify if all entry fields are filled.
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	reqBook := bookToCreateReq(bookEntry)

	storedBook, err := h.bookService.CreateBook(r.Context(), reqBook)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusCreated, bookToResponse(storedBook))
}

/* Validates the entry, then updates the asked book. */
func (h *BookHandler) updateBook(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}

	var bookEntry BookEntry
	err = json.NewDecoder(r.Body).Decode(&bookEntry) //Read the Json body and save the entry to bookEntry
	if err != nil {
		log.Error().Err(err).Msg("decoding book entry")
		errR := book.ErrResponse{
			Code:    book.ErrResponseEntryInvalidJSON.Code,
			Message: book.ErrResponseEntryInvalidJSON.Message + err.Error(),
			Status:  book.ErrResponseEntryInvalidJSON.Status,
		}
		responseJSON(w, http.StatusBadRequest, errR)
		return
	}

	err = FilledFields(bookEntry) //Verify if all entry fields are filled.
	if err != nil {
		responseJSON(w, http.StatusBadRequest, err)
		return
	}

	reqBook := bookToUpdateReq(bookEntry, id)

	updatedBook, err := h.bookService.UpdateBook(r.Context(), reqBook) //Update the stored book
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(updatedBook))
}

/* Returns the book with that specific ID. */
func (h *BookHandler) getBookById(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}
	//Searching for that ID on Book Service:
	returnedBook, err := h.bookService.GetBook(r.Context(), id)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(returnedBook))
}

/* Removes the book with that specific ID from the catalog. */
func (h *BookHandler) deleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := isolateId(w, r)
	if err != nil {
		return
	}

	err = h.bookService.DeleteBook(r.Context(), id)
	if err != nil {
		handleError(err, w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

/* Returns a list of the stored books. */
func (h *BookHandler) listBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	keyword := query.Get("keyword")

	sortBy, sortDirection, valid := extractOrderParams(query)
	if !valid {
		responseJSON(w, http.StatusBadRequest, book.ErrResponseQuerySortByInvalid)
		return
	}

	page, pageSize, valid := extractPageParams(query)
	if !valid {
		responseJSON(w, http.StatusBadRequest, book.ErrResponseQueryPageInvalid)
		return
	}

	params := book.ListBooksRequest{
		Keyword:       keyword,
		SortBy:        sortBy,
		SortDirection: sortDirection,
		Page:          page,
		PageSize:      pageSize,
	}

	pagedBooks, err := h.bookService.ListBooks(r.Context(), params)
	if err != nil {
		handleError(err, w, r)
		return
	}
	responseJSON(w, http.StatusOK, pagedBooksToResponse(pagedBooks))
}

/* Receives a csv file trought a multipart form and imports its rows as new books. */
func (h *BookHandler) importBooks(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error().Err(err).Msg("parsing multipart form")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseInvalidCSVFormat)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		log.Error().Err(err).Msg("reading csv form file")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseInvalidCSVFormat)
		return
	}
	defer file.Close()

	importedBooks, err := h.bookService.ImportBooksCSV(r.Context(), header.Filename, file)
	if err != nil {
		handleError(err, w, r)
		return
	}

	results := []BookResponse{}
	for _, importedBook := range importedBooks {
		results = append(results, bookToResponse(importedBook))
	}

	responseJSON(w, http.StatusCreated, results)
}

/* Addresses a call to "/books/{id}/image" according to the requested action.  */
func (h *BookHandler) bookImage(w http.ResponseWriter, r *http.Request, justId string) {
	id, err := uuid.Parse(justId)
	if err != nil {
		log.Error().Err(err).Msg("parsing book id")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseIdInvalidFormat)
		return
	}

	method := r.Method
	switch method {
	case http.MethodGet:
		h.getBookImage(w, r, id)
		return
	case http.MethodPut:
		h.updateBookImage(w, r, id)
		return
	case http.MethodDelete:
		h.deleteBookImage(w, r, id)
		return
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}

type BookImageResponse struct {
	ImageURL string `json:"image_url"`
}

/* Returns the image url attached to the book. */
func (h *BookHandler) getBookImage(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	imageURL, err := h.bookService.GetBookImageURL(r.Context(), id)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, BookImageResponse{ImageURL: imageURL})
}

/* Receives an image trought a multipart form and attaches it to the book,
replacing the previous one if any. */
func (h *BookHandler) updateBookImage(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		log.Error().Err(err).Msg("parsing multipart form")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseEntryInvalidJSON)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Error().Err(err).Msg("reading image form file")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseEntryInvalidJSON)
		return
	}
	defer file.Close()

	updatedBook, err := h.bookService.UpdateBookImage(r.Context(), id, header.Filename, file)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(updatedBook))
}

/* Detaches and deletes the image of the book. */
func (h *BookHandler) deleteBookImage(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	updatedBook, err := h.bookService.DeleteBookImage(r.Context(), id)
	if err != nil {
		handleError(err, w, r)
		return
	}

	responseJSON(w, http.StatusOK, bookToResponse(updatedBook))
}

/* Verifies if all entry fields are filled and returns a warning message if so. */
func FilledFields(bookEntry BookEntry) error {
	if bookEntry.Title == "" {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Author == "" {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.Category == "" {
		return book.ErrResponseBookEntryBlankFields
	}
	if bookEntry.TotalCopies == nil {
		return book.ErrResponseBookEntryBlankFields
	}

	return nil
}

/* Converts from BookEntry type to CreateBookRequest type, with no json tags. */
func bookToCreateReq(b BookEntry) book.CreateBookRequest {
	return book.CreateBookRequest{
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		TotalCopies: b.TotalCopies,
	}
}

/* Converts from BookEntry type to UpdateBookRequest type, with no json tags. */
func bookToUpdateReq(b BookEntry, id uuid.UUID) book.UpdateBookRequest {
	return book.UpdateBookRequest{
		ID:          id,
		Title:       b.Title,
		Author:      b.Author,
		Category:    b.Category,
		TotalCopies: b.TotalCopies,
	}
}

/* Isolates the ID from the URL. */
func isolateId(w http.ResponseWriter, r *http.Request) (id uuid.UUID, err error) {
	justId, _ := strings.CutPrefix(r.URL.Path, "/books/")
	id, err = uuid.Parse(justId)
	if err != nil {
		log.Error().Err(err).Msg("parsing book id")
		responseJSON(w, http.StatusBadRequest, book.ErrResponseIdInvalidFormat)
		return id, err
	}
	return id, nil
}

type BookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	ImageURL        string    `json:"image_url,omitempty"`
}

/*Copy the fields of a book object to an http layer struct with json tags*/
func bookToResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		ImageURL:        b.ImageURL,
	}
}

type PageOfBooksResponse struct {
	PageCurrent int            `json:"page_current"`
	PageTotal   int            `json:"page_total"`
	PageSize    int            `json:"page_size"`
	ItemsTotal  int            `json:"items_total"`
	Results     []BookResponse `json:"results"`
}

/*Copy the fields of a PagedBooks object to an http layer struct with json tags*/
func pagedBooksToResponse(page book.PagedBooks) PageOfBooksResponse {
	results := []BookResponse{}
	for _, b := range page.Results {
		results = append(results, bookToResponse(b))
	}

	return PageOfBooksResponse{
		PageCurrent: page.PageCurrent,
		PageTotal:   page.PageTotal,
		PageSize:    page.PageSize,
		ItemsTotal:  page.ItemsTotal,
		Results:     results,
	}
}

/*Writes a JSON response into a http.ResponseWriter. */
func responseJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(body)
	if err != nil {
		log.Error().Err(err).Msg("encoding response body")
		return
	}
}

/* Translates a service error into the proper status code and writes it out.
Business errors carry their own status, anything unknown becomes a 500. */
func handleError(err error, w http.ResponseWriter, r *http.Request) {
	log.Error().Err(err).Str("path", r.URL.Path).Str("method", r.Method).Msg("request failed")

	var errResp pkgerrors.ErrResponse
	if errors.As(err, &errResp) {
		status := errResp.Status
		if status == 0 {
			status = http.StatusBadRequest
		}
		responseJSON(w, status, errResp)
		return
	}

	if errors.Is(err, context.DeadlineExceeded) {
		responseJSON(w, http.StatusGatewayTimeout, book.ErrResponseRequestTimeout)
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
}

/*Validates and prepares the ordering parameters of the query.*/
func extractOrderParams(query url.Values) (sortBy string, sortDirection string, valid bool) {
	sortDirection = query.Get("sort_direction")
	switch sortDirection {
	case "":
		sortDirection = "asc"
	case "asc":
		break
	case "desc":
		break
	default:
		return sortBy, sortDirection, false
	}

	sortBy = query.Get("sort_by")
	switch sortBy {
	case "":
		sortBy = "title"
	case "title":
		break
	case "author":
		break
	case "category":
		break
	case "created_at":
		break
	case "updated_at":
		break
	default:
		return sortBy, sortDirection, false
	}

	return sortBy, sortDirection, true
}

/*Validates and prepares the extractPageParams parameters of the query.*/
func extractPageParams(query url.Values) (page, pageSize int, valid bool) {
	var err error
	pageStr := query.Get("page") //Convert page value to int and set default to 1.
	if pageStr == "" {
		page = 1
	} else {
		page, err = strconv.Atoi(pageStr)
		if err != nil {
			return 0, 0, false
		}
		if page <= 0 {
			return 0, 0, false
		}
	}

	pageSizeStr := query.Get("page_size") //Convert page_size value to int and set default to 10.
	if pageSizeStr == "" {
		pageSize = 10
	} else {
		pageSize, err = strconv.Atoi(pageSizeStr)
		if err != nil {
			return 0, 0, false
		}
		if !(0 < pageSize && pageSize < 31) {
			return 0, 0, false
		}
	}

	return page, pageSize, true
}
