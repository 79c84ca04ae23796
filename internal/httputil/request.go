package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// maxBodyBytes bounds request bodies; gallery calls carry ids and names only
const maxBodyBytes = 1 << 20

// ParseJSON decodes JSON from the request body into dest
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	return nil
}

// IsJSON reports whether the request body is declared as JSON
func IsJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// ParseForm parses a urlencoded or multipart body plus the query string.
// net/http only reads form bodies for POST, PUT and PATCH; DELETE bodies are
// decoded here so the widget's delete form works unchanged.
func ParseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mediaType == "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
		return nil

	case r.Method == http.MethodDelete && mediaType == "application/x-www-form-urlencoded":
		raw, err := io.ReadAll(r.Body)
		if err != nil {
			return fmt.Errorf("read form: %w", err)
		}
		body, err := url.ParseQuery(string(raw))
		if err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("invalid form: %w", err)
		}
		r.PostForm = body
		for key, values := range body {
			r.Form[key] = append(values, r.Form[key]...)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	return nil
}

// QueryInt reads an optional integer query parameter; absent means 0
func QueryInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// QueryInt64 reads an optional 64-bit id query parameter; absent means 0
func QueryInt64(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

// Truthy interprets form-style booleans ("1", "true", "on", "yes")
func Truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}
