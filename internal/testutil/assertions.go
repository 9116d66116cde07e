package testutil

import (
	"encoding/json"
	"net/http"
	"testing"
)

// AssertJSONResponse decodes a JSON response body into v, failing the test
// on decode errors.
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
