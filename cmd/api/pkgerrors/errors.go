package pkgerrors

// ErrResponse is the closed error type shared by the domain packages.
// Code and Message travel on the wire as the error payload. Status is the
// HTTP status the handlers answer with when the error reaches them.
type ErrResponse struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_message"`
	Status  int    `json:"-"`
}

func (e ErrResponse) Error() string {
	return e.Message
}
