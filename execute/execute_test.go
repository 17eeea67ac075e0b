package execute

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_RunJDoodle(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"output":"hello\n","statusCode":200,"memory":"7096","cpuTime":"0.01"}`))
	}))
	defer server.Close()

	c := NewClient("id-123", "secret-456", WithJDoodleURL(server.URL))

	out, err := c.Run(context.Background(), Request{
		Code:     `print("hello")`,
		Language: "python3",
		Method:   "jdoodle",
	})
	require.NoError(t, err)

	// credentials and version index are filled in server-side
	assert.Equal(t, "id-123", gotBody["clientId"])
	assert.Equal(t, "secret-456", gotBody["clientSecret"])
	assert.Equal(t, "3", gotBody["versionIndex"])
	assert.Equal(t, `print("hello")`, gotBody["script"])

	// provider response passes through unmodified
	assert.JSONEq(t, `{"output":"hello\n","statusCode":200,"memory":"7096","cpuTime":"0.01"}`, string(out))
}

func TestClient_RunJDoodleProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Daily limit reached"}`))
	}))
	defer server.Close()

	c := NewClient("id", "secret", WithJDoodleURL(server.URL))

	_, err := c.Run(context.Background(), Request{Code: "x", Language: "c", Method: "jdoodle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Daily limit reached")
}

func TestClient_RunJudge0(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"stdout":"42\n","stderr":null,"status":{"id":3,"description":"Accepted"}}`))
	}))
	defer server.Close()

	c := NewClient("", "", WithJudge0URL(server.URL))

	out, err := c.Run(context.Background(), Request{Code: "main()", Language: "cpp", Method: "judge0"})
	require.NoError(t, err)

	assert.Equal(t, float64(54), gotBody["language_id"])
	assert.Equal(t, "main()", gotBody["source_code"])

	assert.JSONEq(t, `{"output":"42\n","status":"Accepted"}`, string(out))
}

func TestClient_RunJudge0StderrFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"stdout":"","stderr":"segfault","status":{"description":"Runtime Error"}}`))
	}))
	defer server.Close()

	c := NewClient("", "", WithJudge0URL(server.URL))

	out, err := c.Run(context.Background(), Request{Code: "x", Language: "c", Method: "judge0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"output":"segfault","status":"Runtime Error"}`, string(out))
}

func TestClient_RunValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{
			name:    "unknown method",
			req:     Request{Code: "x", Language: "python3", Method: "onecompiler"},
			wantErr: ErrUnsupportedMethod,
		},
		{
			name:    "unknown jdoodle language",
			req:     Request{Code: "x", Language: "cobol", Method: "jdoodle"},
			wantErr: ErrUnsupportedLanguage,
		},
		{
			name:    "jdoodle does not know plain cpp",
			req:     Request{Code: "x", Language: "cpp", Method: "jdoodle"},
			wantErr: ErrUnsupportedLanguage,
		},
		{
			name:    "unknown judge0 language",
			req:     Request{Code: "x", Language: "brainfuck", Method: "judge0"},
			wantErr: ErrUnsupportedLanguage,
		},
	}

	c := NewClient("id", "secret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_RunProviderStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := NewClient("", "", WithJudge0URL(server.URL))

	_, err := c.Run(context.Background(), Request{Code: "x", Language: "c", Method: "judge0"})
	assert.Error(t, err)
}
