// File: /utils/response_test.go
package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	return c, w
}

func TestSendError(t *testing.T) {
	c, w := testContext()

	SendError(c, http.StatusNotFound, "Route not found")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Error != "Route not found" || resp.Code != http.StatusNotFound {
		t.Errorf("unexpected error payload: %+v", resp)
	}
}

func TestSendSuccess(t *testing.T) {
	c, w := testContext()

	SendSuccess(c, "Route deleted", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	var resp SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Message != "Route deleted" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.Data != nil {
		t.Errorf("expected no data, got %v", resp.Data)
	}
}

func TestSendCreated(t *testing.T) {
	c, w := testContext()

	SendCreated(c, "Route saved", map[string]string{"id": "r1"})

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d", w.Code)
	}
	var resp SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Message != "Route saved" || resp.Data == nil {
		t.Errorf("unexpected payload: %+v", resp)
	}
}

func TestSendPaginated(t *testing.T) {
	c, w := testContext()

	SendPaginated(c, []string{"a", "b"}, 1, 20, 45)

	var resp PaginatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.Total != 45 || resp.TotalPages != 3 {
		t.Errorf("expected 45 total over 3 pages, got %d/%d", resp.Total, resp.TotalPages)
	}
	if resp.Page != 1 || resp.Limit != 20 {
		t.Errorf("unexpected paging echo: page=%d limit=%d", resp.Page, resp.Limit)
	}
}
