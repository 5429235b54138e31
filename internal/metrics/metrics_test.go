package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveAPICallQuota(t *testing.T) {
	beforeSearch := testutil.ToFloat64(QuotaUnitsTotal.WithLabelValues("search"))
	beforeThreads := testutil.ToFloat64(QuotaUnitsTotal.WithLabelValues("commentThreads"))
	beforeErr := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("search", "error"))

	ObserveAPICall("search", time.Now(), nil)
	ObserveAPICall("search", time.Now(), errors.New("quota exceeded"))
	ObserveAPICall("commentThreads", time.Now(), nil)

	assert.Equal(t, beforeSearch+200, testutil.ToFloat64(QuotaUnitsTotal.WithLabelValues("search")))
	assert.Equal(t, beforeThreads+1, testutil.ToFloat64(QuotaUnitsTotal.WithLabelValues("commentThreads")))
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(APIRequestsTotal.WithLabelValues("search", "error")))
}

func TestWriteTextfile(t *testing.T) {
	ObserveAPICall("videos", time.Now(), nil)

	path := filepath.Join(t.TempDir(), "ytscout.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ytscout_api_requests_total")
	assert.Contains(t, string(data), `endpoint="videos"`)
}
