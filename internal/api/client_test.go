package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
)

type recorded struct {
	method string
	path   string
	header http.Header
	body   string
}

// newBackend serves a fixed status/content-type/body and records the request.
func newBackend(t *testing.T, status int, contentType, body string) (*Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.header = r.Header.Clone()
		rec.body = string(b)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", WithToken("secret"))
	require.NoError(t, err)
	return c, rec
}

const jsonType = "application/json; charset=utf-8"

func TestListBareArray(t *testing.T) {
	c, rec := newBackend(t, 200, jsonType, `[{"id":1,"title":"a","completed":true},{"id":"b2","title":"b","description":"d","completed":false}]`)

	todos, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 2)
	assert.Equal(t, model.Todo{ID: "1", Title: "a", Completed: true}, todos[0])
	assert.Equal(t, model.Todo{ID: "b2", Title: "b", Description: "d"}, todos[1])

	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/todos", rec.path)
	assert.Equal(t, "application/json", rec.header.Get("Content-Type"))
	assert.Equal(t, "Bearer secret", rec.header.Get("Authorization"))
	assert.NotEmpty(t, rec.header.Get("X-Request-Id"))
}

func TestListItemsEnvelope(t *testing.T) {
	c, _ := newBackend(t, 200, jsonType, `{"items":[{"id":7,"title":"wrapped"}],"total":1}`)

	todos, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Equal(t, model.ID("7"), todos[0].ID)
}

func TestListEmptyAndUnknownShapes(t *testing.T) {
	for name, body := range map[string]string{
		"empty array": `[]`,
		"no items":    `{"total":0}`,
		"null":        `null`,
	} {
		t.Run(name, func(t *testing.T) {
			c, _ := newBackend(t, 200, jsonType, body)
			todos, err := c.List(context.Background())
			require.NoError(t, err)
			assert.NotNil(t, todos)
			assert.Empty(t, todos)
		})
	}
}

func TestListRejectsBlankTitle(t *testing.T) {
	c, _ := newBackend(t, 200, jsonType, `[{"id":1,"title":""}]`)

	_, err := c.List(context.Background())
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "0.title", se.Path)
}

func TestValidationCanBeDisabled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", jsonType)
		_, _ = io.WriteString(w, `[{"id":1,"title":""}]`)
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithValidation(false))
	require.NoError(t, err)
	todos, err := c.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, todos, 1)
}

func TestCreateSendsCompletedFalse(t *testing.T) {
	c, rec := newBackend(t, 201, jsonType, `{"id":10,"title":"Buy milk","description":"","completed":false}`)

	got, err := c.Create(context.Background(), model.Fields{Title: "Buy milk"}.Create())
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: "10", Title: "Buy milk"}, got)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/api/todos", rec.path)
	assert.JSONEq(t, `{"title":"Buy milk","completed":false}`, rec.body)
}

func TestUpdateUsesPut(t *testing.T) {
	c, rec := newBackend(t, 200, jsonType, `{"id":"a/b","title":"new","description":"desc","completed":true}`)

	got, err := c.Update(context.Background(), "a/b", model.Fields{Title: "new", Description: "desc"}.Patch())
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, "/api/todos/a%2Fb", rec.path)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.body), &sent))
	assert.Equal(t, map[string]any{"title": "new", "description": "desc"}, sent)
}

func TestToggleUsesPatchWithoutBody(t *testing.T) {
	c, rec := newBackend(t, 200, jsonType, `{"id":3,"title":"t","completed":true}`)

	got, err := c.Toggle(context.Background(), "3")
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, "/api/todos/3/toggle", rec.path)
	assert.Empty(t, rec.body)
}

func TestDeleteIgnoresBody(t *testing.T) {
	c, rec := newBackend(t, 204, "", "")

	require.NoError(t, c.Delete(context.Background(), "3"))
	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, "/api/todos/3", rec.path)
}

func TestErrorMessageExtraction(t *testing.T) {
	cases := []struct {
		name        string
		status      int
		contentType string
		body        string
		want        string
	}{
		{"detail string", 404, jsonType, `{"detail":"Todo not found"}`, "Todo not found"},
		{"detail list", 422, jsonType, `{"detail":[{"msg":"field required"}]}`, `[{"msg":"field required"}]`},
		{"json without detail", 500, jsonType, `{"error":"boom"}`, "Request failed"},
		{"raw text", 502, "text/plain", "bad gateway", "bad gateway"},
		{"blank text", 500, "text/plain", "  ", "Request failed"},
		{"broken json", 500, jsonType, `{"detail":`, "Request failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newBackend(t, tc.status, tc.contentType, tc.body)
			err := c.Delete(context.Background(), "1")

			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Error())
			assert.Equal(t, tc.status, StatusOf(err))
			assert.False(t, IsNetworkError(err))
		})
	}
}

func TestCreateRejectsNonJSONSuccess(t *testing.T) {
	c, _ := newBackend(t, 200, "text/plain", "ok")
	_, err := c.Create(context.Background(), model.NewTodo{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, 0, StatusOf(err))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := New(base)
	require.NoError(t, err)
	_, err = c.List(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
	assert.Contains(t, err.Error(), "GET /api/todos")
}

func TestCancelledContext(t *testing.T) {
	c, _ := newBackend(t, 200, jsonType, `[]`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.List(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewValidatesBaseURL(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	_, err = New("localhost:3001")
	assert.Error(t, err)
}

func TestMessageFallback(t *testing.T) {
	assert.Equal(t, "", Message(nil, "x"))
	assert.Equal(t, "Failed to delete", Message(errors.New(" "), "Failed to delete"))
	assert.Equal(t, "boom", Message(errors.New("boom"), "Failed to delete"))
}
