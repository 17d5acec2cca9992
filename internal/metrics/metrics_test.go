package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNoopClientDiscardsObservations(t *testing.T) {
	var c Client = NewNoopClient()
	c.IncrementFilesAnalyzed()
	c.IncrementIssuesFound(3)
	c.RecordAnalysisDuration(0.5)
}

func TestPrometheusClientRecordsObservations(t *testing.T) {
	c := NewPrometheusClient(nil)

	c.IncrementFilesAnalyzed()
	c.IncrementFilesAnalyzed()
	c.IncrementIssuesFound(5)

	if got := testutil.ToFloat64(c.filesAnalyzed); got != 2 {
		t.Fatalf("expected filesAnalyzed=2, got %v", got)
	}
	if got := testutil.ToFloat64(c.issuesFound); got != 5 {
		t.Fatalf("expected issuesFound=5, got %v", got)
	}
}
