package bench

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
)

// WriteCSV writes benchmark results to path: one header row, one row per
// scenario, six-decimal quality metrics and two-decimal latency. The file
// appears atomically so a crashed run never leaves a half-written report.
func WriteCSV(path string, results []Result) error {
	var buf bytes.Buffer
	buf.WriteString("name,recall@1,recall@10,mrr,avg_time_ms,avg_candidates\n")
	for _, r := range results {
		fmt.Fprintf(&buf, "%s,%.6f,%.6f,%.6f,%.2f,%.6f\n",
			r.Name, r.RecallAt1, r.RecallAt10, r.MRR, r.AvgTimeMS, r.AvgCandidates)
	}
	return atomic.WriteFile(path, &buf)
}
