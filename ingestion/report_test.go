package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReport_Summary(t *testing.T) {
	tests := []struct {
		name   string
		report Report
		want   string
	}{
		{
			name:   "empty",
			report: Report{},
			want:   "read=0 inserted=0 skipped=0 fatal-aborted=0",
		},
		{
			name:   "with skips",
			report: Report{Read: 3, Inserted: 2, Skipped: 1, Duplicates: 1},
			want:   "read=3 inserted=2 skipped=1 fatal-aborted=0",
		},
		{
			name:   "aborted",
			report: Report{Read: 10, Inserted: 4, Aborted: true},
			want:   "read=10 inserted=4 skipped=0 fatal-aborted=1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.report.Summary())
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "parsing", StateParsing.String())
	assert.Equal(t, "writing", StateWriting.String())
	assert.Equal(t, "done", StateDone.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "unknown", State(42).String())
}
