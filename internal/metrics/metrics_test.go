package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSearch(t *testing.T) {
	matchBefore := testutil.ToFloat64(SearchRequests.WithLabelValues("match"))
	emptyBefore := testutil.ToFloat64(SearchRequests.WithLabelValues("empty"))

	RecordSearch(time.Millisecond, 3)
	RecordSearch(time.Millisecond, 0)

	assert.Equal(t, matchBefore+1, testutil.ToFloat64(SearchRequests.WithLabelValues("match")))
	assert.Equal(t, emptyBefore+1, testutil.ToFloat64(SearchRequests.WithLabelValues("empty")))
}

func TestRecordLoad(t *testing.T) {
	failuresBefore := testutil.ToFloat64(CatalogLoadFailures)
	skippedBefore := testutil.ToFloat64(CatalogSkippedRows)

	RecordLoad(time.Second, 42, 2, nil)
	assert.Equal(t, float64(42), testutil.ToFloat64(CatalogRecords))
	assert.Equal(t, skippedBefore+2, testutil.ToFloat64(CatalogSkippedRows))

	RecordLoad(time.Second, 0, 0, errors.New("boom"))
	assert.Equal(t, failuresBefore+1, testutil.ToFloat64(CatalogLoadFailures))
	assert.Equal(t, float64(42), testutil.ToFloat64(CatalogRecords), "failed load keeps the previous gauge")
}

func TestRecordHTTPRequest_UnmatchedRoute(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404"))
	RecordHTTPRequest("GET", "", 404, time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequests.WithLabelValues("GET", "unmatched", "404")))
}
