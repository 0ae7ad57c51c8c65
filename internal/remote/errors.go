package remote

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const maxMessageLength = 200

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotFound         = errors.New("item not found")
)

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// Is lets callers match status classes with errors.Is.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrNotAuthenticated:
		return e.StatusCode == http.StatusUnauthorized
	default:
		return false
	}
}

func newAPIError(resp *resty.Response) *APIError {
	return &APIError{StatusCode: resp.StatusCode(), Message: messageFromBody(resp)}
}

// messageFromBody extracts something a person can read from an error response.
func messageFromBody(resp *resty.Response) string {
	body := bytes.TrimSpace(resp.Body())
	fallback := strings.TrimSpace(resp.Status())
	if fallback == "" {
		fallback = http.StatusText(resp.StatusCode())
	}
	if len(body) == 0 {
		return fallback
	}

	if gjson.ValidBytes(body) {
		for _, path := range []string{"error.message", "error", "message", "detail"} {
			if res := gjson.GetBytes(body, path); res.Exists() && res.Type == gjson.String && res.String() != "" {
				return truncate(res.String())
			}
		}
		return fallback
	}

	if strings.Contains(resp.Header().Get("Content-Type"), "html") || body[0] == '<' {
		if msg := messageFromHTML(body); msg != "" {
			return truncate(msg)
		}
		return fallback
	}

	return truncate(string(body))
}

func messageFromHTML(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range []string{"title", "h1"} {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}

	return strings.Join(strings.Fields(doc.Find("body").Text()), " ")
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= maxMessageLength {
		return s
	}
	return string(runes[:maxMessageLength]) + "..."
}
