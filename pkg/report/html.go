// Package report renders an AnalysisResult as a standalone HTML page —
// summary stats plus a per-file recommendation table, with color-coded
// action/risk badges and a file-path truncation helper for long paths.
package report

import (
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/CoderDayton/ai-disk-cleanup-sub001/pkg/cleanup"
)

// TemplateData is the view model the HTML template renders.
type TemplateData struct {
	Mode              cleanup.Mode
	GeneratedAt       string
	TotalFiles        int
	DeleteCount       int
	ReviewCount       int
	BytesFreedHuman   string
	AverageConfidence float64
	Items             []cleanup.Recommendation
}

// GenerateHTML writes an AnalysisResult as an HTML report to outPath and
// returns the path written.
func GenerateHTML(result cleanup.AnalysisResult, bytesFreed int64, outPath string) (string, error) {
	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create HTML report: %w", err)
	}
	defer f.Close()

	data := prepareTemplateData(result, bytesFreed)

	tmpl, err := template.New("report").Funcs(templateFuncs()).Parse(htmlTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse report template: %w", err)
	}
	if err := tmpl.Execute(f, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return outPath, nil
}

func prepareTemplateData(result cleanup.AnalysisResult, bytesFreed int64) *TemplateData {
	data := &TemplateData{
		Mode:              result.Mode,
		GeneratedAt:       time.Now().Format(time.RFC1123),
		TotalFiles:        result.Summary.TotalFiles,
		BytesFreedHuman:   humanBytes(bytesFreed),
		AverageConfidence: result.Summary.AverageConfidence,
		Items:             result.Recommendations,
	}
	data.DeleteCount = result.Summary.CountsByAction[cleanup.ActionDelete]
	data.ReviewCount = result.Summary.CountsByAction[cleanup.ActionReview]
	return data
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"truncate": func(s string, length int) string {
			if len(s) <= length {
				return s
			}
			return "..." + s[len(s)-length:]
		},
		"riskColor": func(risk cleanup.RiskLevel) string {
			switch risk {
			case cleanup.RiskLow:
				return "#3E8635"
			case cleanup.RiskMedium:
				return "#F0AB00"
			case cleanup.RiskHigh, cleanup.RiskCritical:
				return "#C9190B"
			default:
				return "#6A6E73"
			}
		},
		"actionColor": func(action cleanup.Action) string {
			switch action {
			case cleanup.ActionDelete:
				return "#C9190B"
			case cleanup.ActionReview:
				return "#F0AB00"
			case cleanup.ActionKeep:
				return "#3E8635"
			default:
				return "#6A6E73"
			}
		},
	}
}
