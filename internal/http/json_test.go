package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decodeTarget struct {
	QueryTaxon string `json:"query_taxon"`
}

func decode(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/jobs", strings.NewReader(body))
	var dst decodeTarget
	return rec, DecodeJSON(rec, req, &dst)
}

func TestDecodeJSON(t *testing.T) {
	rec, ok := decode(t, `{"query_taxon":"saccharomyces cerevisiae"}`)

	require.True(t, ok)
	assert.Empty(t, rec.Body.String())
}

func TestDecodeJSONRejectsUnknownFields(t *testing.T) {
	rec, ok := decode(t, `{"query_taxon":"yeast","species":"yeast"}`)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	rec, ok := decode(t, `{"query_taxon":"yeast"} {"query_taxon":"e coli"}`)

	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "single JSON object")
}

func TestDecodeJSONRejectsOversizedBody(t *testing.T) {
	body := `{"query_taxon":"` + strings.Repeat("a", maxRequestBody) + `"}`

	rec, ok := decode(t, body)

	require.False(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "request_too_large")
}

func TestWriteErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteError(rec, ErrorParams{Code: http.StatusConflict, ErrCode: "result_not_ready", Err: errors.New("job 7 is still running")})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"result_not_ready","message":"job 7 is still running"}`, rec.Body.String())
}
