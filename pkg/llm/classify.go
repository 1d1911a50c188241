package llm

import (
	"strings"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

// classificationRule is one row of the fixed classification table,
// evaluated top to bottom: the first substring match wins, producing a
// cleanup.ErrorKind rather than a user-facing wrapped error.
type classificationRule struct {
	kind       cleanup.ErrorKind
	substrings []string
}

var classificationTable = []classificationRule{
	{cleanup.ErrorRateLimit, []string{"rate limit", "rate-limit", "429", "too many requests"}},
	{cleanup.ErrorQuotaExceeded, []string{"quota", "billing", "insufficient_quota", "payment required"}},
	{cleanup.ErrorAuthentication, []string{"unauthorized", "401", "invalid api key", "authentication"}},
	{cleanup.ErrorTimeout, []string{"timeout", "deadline exceeded"}},
	{cleanup.ErrorNetwork, []string{"network", "connection", "dial", "dns"}},
	{cleanup.ErrorServer, []string{"server error", "internal error", "500", "502", "503"}},
}

// Classify maps a failed LLM call's error text to an ErrorKind by
// case-insensitive substring matching against a fixed table, in priority
// order: rate-limit -> quota/billing -> auth/unauthorized -> timeout ->
// network/connection -> server/internal -> unknown.
func Classify(err error) cleanup.ErrorKind {
	if err == nil {
		return cleanup.ErrorNone
	}
	msg := strings.ToLower(err.Error())
	for _, rule := range classificationTable {
		for _, sub := range rule.substrings {
			if strings.Contains(msg, sub) {
				return rule.kind
			}
		}
	}
	return cleanup.ErrorUnknown
}
