package network

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
)

var (
	ErrAPIKeyMissing = errors.New("API key missing")
)

// StatusError is returned when the provider answers with a non-2xx status.
// Message holds the reason phrase of the status line.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func newStatusError(resp *resty.Response) *StatusError {
	code := resp.StatusCode()
	return &StatusError{Code: code, Message: reasonPhrase(code, resp.Status())}
}

// reasonPhrase strips the numeric code from a status line such as "500 Server Error".
func reasonPhrase(code int, status string) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
	if phrase == "" {
		phrase = http.StatusText(code)
	}
	if phrase == "" {
		phrase = fmt.Sprintf("unexpected status %d", code)
	}
	return phrase
}
