package http

import (
	"fmt"
	"net/http"
)

type ServerConfig struct {
	Port int
}

func NewServer(config ServerConfig, books *BookHandler, borrowings *BorrowingHandler, accounts *AccountHandler, parser TokenParser, maintenance *Maintenance) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", ping)

	// Open routes: signing up and signing in.
	mux.HandleFunc("/accounts", accounts.accounts)
	mux.HandleFunc("/auth/token", accounts.token)

	// Everything else needs a valid token.
	protected := http.NewServeMux()
	protected.HandleFunc("/accounts/", accounts.accountById)
	protected.HandleFunc("/books", books.books)
	protected.HandleFunc("/books/", books.bookByPath)
	protected.HandleFunc("/borrowing/borrow", borrowings.borrow)
	protected.HandleFunc("/borrowing/return", borrowings.returnBook)
	protected.HandleFunc("/borrowing/loans", borrowings.loans)
	protected.HandleFunc("/admin/maintenance", maintenance.Handler)
	mux.Handle("/", AuthMiddleware(parser, protected))

	server := http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: maintenance.Middleware(mux),
	}
	return &server
}

/* Tests the http server connection.  */
func ping(w http.ResponseWriter, r *http.Request) {
	method := r.Method
	if method == http.MethodGet {
		w.WriteHeader(http.StatusNoContent)
		return
	} else {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
}
