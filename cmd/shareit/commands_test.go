package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		verbose = false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newItemsServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/items", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"1","name":"Cordless Drill","availability":"available"}]`))
	})
	mux.HandleFunc("/api/items/1/borrow", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":"1","name":"Cordless Drill","availability":"borrowed"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestListVerbose(t *testing.T) {
	srv := newItemsServer(t)

	stdout, stderr, err := runCLI(t, "--server", srv.URL, "list", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cordless Drill")
	assert.Contains(t, stderr, "[loaded] 1 available")
}

func TestBorrowVerbose(t *testing.T) {
	srv := newItemsServer(t)

	stdout, stderr, err := runCLI(t, "--server", srv.URL, "-v", "borrow", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "borrowed")
	assert.Contains(t, stderr, "[tentative] 1 borrowed")
	assert.Contains(t, stderr, "[reconciled] 1 borrowed")
}
