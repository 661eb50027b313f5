package ingest

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (rt roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req)
}

func stubResponse(req *http.Request, code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}
}

const sampleCSV = "month,state,district,age_0_5,age_5_17,age_18_greater\n2024-01,Kerala,Kollam,10,20,30\n"

func TestFetchCSV(t *testing.T) {
	cli := NewClient(2 * time.Second)
	cli.hc.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/data/updates.csv" {
			return stubResponse(req, http.StatusNotFound, "not found"), nil
		}
		assert.Equal(t, "text/csv", req.Header.Get("Accept"))
		return stubResponse(req, http.StatusOK, sampleCSV), nil
	})

	b, err := cli.FetchCSV(context.Background(), "http://example.test/data/updates.csv")
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(b))

	_, err = cli.FetchCSV(context.Background(), "http://example.test/missing.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}

func TestFetchCSVRetriesTransientStatus(t *testing.T) {
	var calls int32
	cli := NewClient(2 * time.Second)
	cli.hc.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return stubResponse(req, http.StatusServiceUnavailable, "busy"), nil
		}
		return stubResponse(req, http.StatusOK, sampleCSV), nil
	})

	b, err := cli.FetchCSV(context.Background(), "http://example.test/data.csv")
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(b))
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchCSVCancelledDuringBackoff(t *testing.T) {
	cli := NewClient(2 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cli.hc.Transport = roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		cancel()
		return stubResponse(req, http.StatusBadGateway, ""), nil
	})

	_, err := cli.FetchCSV(ctx, "http://example.test/data.csv")
	require.ErrorIs(t, err, context.Canceled)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "updates.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	b, err := ReadFile(path)
	require.NoError(t, err)
	ds := Load(b)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "Kollam", ds.Records[0].SubRegion)
	assert.Len(t, ds.ID, 64)

	_, err = ReadFile(filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
