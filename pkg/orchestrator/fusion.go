package orchestrator

import (
	"context"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/safety"
)

// aiWeight and safetyWeight are the fixed fusion coefficients:
// fused = 0.4*ai_confidence + 0.6*safety_confidence.
const (
	aiWeight     = 0.4
	safetyWeight = 0.6
)

// applySafety runs the safety-fusion step over every recommendation. A nil
// safety layer still passes through safety.SafeScore, which treats absence
// the same as a panicking layer: None{confidence: 0}, so fusion always
// executes uniformly whether or not a layer is configured.
func (o *Orchestrator) applySafety(ctx context.Context, recs []cleanup.Recommendation) []cleanup.Recommendation {
	out := make([]cleanup.Recommendation, len(recs))
	for i, r := range recs {
		out[i] = fuseOne(ctx, o.safetyLayer, r)
	}
	return out
}

// fuseOne applies one recommendation's safety score: confidence fusion
// first, then a fixed override ladder applied in order and closed off
// once an override fires (a requires_review downgrade never re-examines
// an already-overridden keep).
func fuseOne(ctx context.Context, layer safety.Layer, r cleanup.Recommendation) cleanup.Recommendation {
	score := safety.SafeScore(ctx, layer, r.Path)

	fused := aiWeight*r.Confidence + safetyWeight*score.Confidence
	if fused > 1.0 {
		fused = 1.0
	}
	if fused < 0.0 {
		fused = 0.0
	}
	r.Confidence = fused

	switch {
	case score.ProtectionLevel == safety.ProtectionCritical || score.ProtectionLevel == safety.ProtectionHigh:
		r.Action = cleanup.ActionKeep
		r.Risk = cleanup.RiskLow
		r.Rationale = r.Rationale + "; safety override: protected path"
	case score.ProtectionLevel == safety.ProtectionRequiresReview && r.Action == cleanup.ActionDelete:
		r.Action = cleanup.ActionReview
	}

	return r
}
