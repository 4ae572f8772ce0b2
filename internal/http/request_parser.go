package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"household/internal/core"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 64 << 10

// errMalformedRequest marks bodies and query strings that cannot be parsed
// at all, as opposed to well-formed values that fail validation.
var errMalformedRequest = errors.New("malformed request")

// decodeJSON reads exactly one JSON object into dst. Unknown fields are
// rejected. Validation errors raised by core unmarshalers keep their type.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, core.ErrInvalidArgument) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", errMalformedRequest)
		}
		return fmt.Errorf("%w: %v", errMalformedRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON object", errMalformedRequest)
	}
	return nil
}

// queryString returns the trimmed value of key.
func queryString(q url.Values, key string) string {
	return strings.TrimSpace(q.Get(key))
}

// queryDate parses an optional YYYY-MM-DD query value.
func queryDate(q url.Values, key string) (*core.Date, error) {
	v := queryString(q, key)
	if v == "" {
		return nil, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}

// queryBool parses an optional boolean query value; absent means false.
func queryBool(q url.Values, key string) (bool, error) {
	v := queryString(q, key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be a boolean", errMalformedRequest, key)
	}
	return b, nil
}
