package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"klinik-sentosa/internal/domain/entity"
	"klinik-sentosa/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

// StatusError is returned for unexpected responses from the data backend
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// RESTStore talks to a json-server style backend: one resource per
// collection, ids in the path, filters and sorting in the query string.
type RESTStore struct {
	baseURL string
	http    *http.Client
	log     *logrus.Logger
}

func NewRESTStore(baseURL string, timeout time.Duration, log *logrus.Logger) *RESTStore {
	return &RESTStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (s *RESTStore) List(ctx context.Context, c entity.Collection, out interface{}, opts ...repository.ListOption) error {
	query := url.Values{}
	o := repository.ApplyListOptions(opts...)
	if o.SortBy != "" {
		query.Set("_sort", o.SortBy)
		if o.Desc {
			query.Set("_order", "desc")
		}
	}
	return s.doRequest(ctx, http.MethodGet, s.resourceURL(c, "", query), nil, out)
}

func (s *RESTStore) Insert(ctx context.Context, c entity.Collection, rec entity.Record) error {
	return s.doRequest(ctx, http.MethodPost, s.resourceURL(c, "", nil), rec, rec)
}

func (s *RESTStore) Patch(ctx context.Context, c entity.Collection, id string, fields map[string]interface{}) error {
	return s.doRequest(ctx, http.MethodPatch, s.resourceURL(c, id, nil), fields, nil)
}

func (s *RESTStore) Delete(ctx context.Context, c entity.Collection, id string) error {
	return s.doRequest(ctx, http.MethodDelete, s.resourceURL(c, id, nil), nil, nil)
}

func (s *RESTStore) FindBy(ctx context.Context, c entity.Collection, filter map[string]string, out interface{}) error {
	query := url.Values{}
	for field, value := range filter {
		query.Set(field, value)
	}
	return s.doRequest(ctx, http.MethodGet, s.resourceURL(c, "", query), nil, out)
}

func (s *RESTStore) resourceURL(c entity.Collection, id string, query url.Values) string {
	u := s.baseURL + "/" + url.PathEscape(string(c))
	if id != "" {
		u += "/" + url.PathEscape(id)
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (s *RESTStore) doRequest(ctx context.Context, method, target string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s body: %w", method, target, err)
		}
		reqBody = bytes.NewReader(jsonBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	s.log.Debugf("%s %s", method, target)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s response: %w", method, target, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%s %s: %w", method, target, repository.ErrRecordNotFound)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%s %s: %w", method, target, repository.ErrDuplicateRecord)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return &StatusError{Method: method, URL: target, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	respBody, err = stringifyIDs(respBody)
	if err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, target, err)
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, target, err)
	}
	return nil
}

// stringifyIDs rewrites numeric "id" and "...Id" values as strings.
// json-server keeps whatever type the record was seeded with, so a hand
// written db.json commonly carries "id": 1.
func stringifyIDs(body []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if !rewriteIDs(doc) {
		return body, nil
	}
	return json.Marshal(doc)
}

func rewriteIDs(v interface{}) bool {
	changed := false
	switch node := v.(type) {
	case []interface{}:
		for _, item := range node {
			if rewriteIDs(item) {
				changed = true
			}
		}
	case map[string]interface{}:
		for key, value := range node {
			if n, ok := value.(json.Number); ok && isIDKey(key) {
				node[key] = n.String()
				changed = true
				continue
			}
			if rewriteIDs(value) {
				changed = true
			}
		}
	}
	return changed
}

func isIDKey(key string) bool {
	return key == "id" || strings.HasSuffix(key, "Id")
}
