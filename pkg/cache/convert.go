package cache

import (
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

func toSnapshot(result cleanup.AnalysisResult) AnalysisResultSnapshot {
	recs := make([]RecommendationSnapshot, len(result.Recommendations))
	for i, r := range result.Recommendations {
		recs[i] = RecommendationSnapshot{
			Path:       r.Path,
			Category:   r.Category,
			Action:     string(r.Action),
			Confidence: r.Confidence,
			Rationale:  r.Rationale,
			Risk:       string(r.Risk),
		}
	}
	return AnalysisResultSnapshot{
		Recommendations: recs,
		Mode:            string(result.Mode),
		ErrorKind:       string(result.ErrorKind),
		FileCount:       result.FileCount,
		DurationNanos:   int64(result.Duration),
		BatchSize:       result.Summary.BatchSizeUsed,
	}
}

// fromSnapshot rebuilds an AnalysisResult from a cached snapshot. The
// Summary it reports, including BatchSizeUsed, comes entirely from the
// snapshot recorded at write time — never from the caller's current batch
// sizing — so a cache hit reproduces byte-identical output even if adaptive
// sizing has since shifted.
func fromSnapshot(snap AnalysisResultSnapshot) cleanup.AnalysisResult {
	recs := make([]cleanup.Recommendation, len(snap.Recommendations))
	for i, r := range snap.Recommendations {
		recs[i] = cleanup.Recommendation{
			Path:       r.Path,
			Category:   r.Category,
			Action:     cleanup.Action(r.Action),
			Confidence: r.Confidence,
			Rationale:  r.Rationale,
			Risk:       cleanup.RiskLevel(r.Risk),
		}
	}
	mode := cleanup.Mode(snap.Mode)
	return cleanup.AnalysisResult{
		Recommendations: recs,
		Summary:         cleanup.Summarize(recs, mode, snap.BatchSize),
		Mode:            mode,
		ErrorKind:       cleanup.ErrorKind(snap.ErrorKind),
		Duration:        time.Duration(snap.DurationNanos),
		FileCount:       snap.FileCount,
	}
}
