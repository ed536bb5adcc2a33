package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/contracts", "201"))
	RecordHTTPRequest("POST", "/api/v1/contracts", 201, 20*time.Millisecond)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("POST", "/api/v1/contracts", "201"))
	assert.Equal(t, before+1, after)
}

func TestRecordEscrowCreatedAddsFee(t *testing.T) {
	count := testutil.ToFloat64(escrowTransactionsCreatedTotal)
	fees := testutil.ToFloat64(escrowFeesYenTotal)

	RecordEscrowCreated(1800)

	assert.Equal(t, count+1, testutil.ToFloat64(escrowTransactionsCreatedTotal))
	assert.Equal(t, fees+1800, testutil.ToFloat64(escrowFeesYenTotal))
}
