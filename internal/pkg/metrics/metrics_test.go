package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/reports", "200"))

	RecordHTTPRequest("GET", "/reports", 200, 15*time.Millisecond)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/reports", "200"))
	require.Equal(t, before+1, after)
}

func TestRecordUpstream(t *testing.T) {
	before := testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("forecast", "error"))

	RecordUpstream("forecast", errors.New("boom"), time.Second)

	require.Equal(t, before+1, testutil.ToFloat64(UpstreamRequestsTotal.WithLabelValues("forecast", "error")))
	require.Equal(t, "success", Outcome(nil))
}
