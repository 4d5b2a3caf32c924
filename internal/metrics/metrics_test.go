package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordBOMUploadCountsRowsPerTier(t *testing.T) {
	before := testutil.ToFloat64(BOMRowsTotal.WithLabelValues("high"))
	RecordBOMUpload("csv", true, []string{"high", "high", "none"}, 5*time.Millisecond)
	assert.Equal(t, before+2, testutil.ToFloat64(BOMRowsTotal.WithLabelValues("high")))
}

func TestRecordAnafLookup(t *testing.T) {
	before := testutil.ToFloat64(AnafLookupsTotal.WithLabelValues("cache_hit"))
	RecordAnafLookup("cache_hit")
	assert.Equal(t, before+1, testutil.ToFloat64(AnafLookupsTotal.WithLabelValues("cache_hit")))
}
