package lending

import "net/http"

// Error is a domain failure that carries the HTTP status it maps to. Its
// fields are unexported so the shared values below cannot be altered.
type Error struct {
	status  int
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Status is the HTTP status code the failure maps to.
func (e *Error) Status() int {
	return e.status
}

var (
	ErrItemNotFound    = &Error{status: http.StatusNotFound, message: "Item not found"}
	ErrAlreadyBorrowed = &Error{status: http.StatusConflict, message: "Item already borrowed"}
	ErrNotBorrowed     = &Error{status: http.StatusConflict, message: "Item not borrowed"}
)
