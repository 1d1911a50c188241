package report

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Disk Cleanup Report</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            line-height: 1.6;
            color: #151515;
            background: #f5f5f5;
            padding: 20px;
        }
        .container {
            max-width: 1200px;
            margin: 0 auto;
            background: white;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
            border-radius: 8px;
        }
        header {
            background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);
            color: white;
            padding: 32px;
            border-radius: 8px 8px 0 0;
        }
        header h1 { font-size: 2em; }
        header p { margin-top: 8px; opacity: 0.9; }
        .summary {
            display: flex;
            flex-wrap: wrap;
            gap: 16px;
            padding: 24px 32px;
            border-bottom: 1px solid #eee;
        }
        .stat {
            background: #f8f9fa;
            border-radius: 6px;
            padding: 12px 20px;
            min-width: 140px;
        }
        .stat .value { font-size: 1.6em; font-weight: 600; }
        .stat .label { font-size: 0.85em; color: #6a6e73; }
        table { border-collapse: collapse; margin: 24px 32px; width: calc(100% - 64px); }
        th, td { text-align: left; padding: 8px 12px; border-bottom: 1px solid #eee; font-size: 0.9em; }
        th { color: #6a6e73; text-transform: uppercase; font-size: 0.75em; letter-spacing: 0.04em; }
        .badge { display: inline-block; padding: 2px 10px; border-radius: 12px; color: white; font-size: 0.8em; }
        footer { padding: 16px 32px; color: #6a6e73; font-size: 0.85em; }
    </style>
</head>
<body>
    <div class="container">
        <header>
            <h1>Disk Cleanup Report</h1>
            <p>Mode: {{.Mode}} &middot; Generated {{.GeneratedAt}}</p>
        </header>
        <div class="summary">
            <div class="stat"><div class="value">{{.TotalFiles}}</div><div class="label">Files analyzed</div></div>
            <div class="stat"><div class="value">{{.DeleteCount}}</div><div class="label">Recommended deletes</div></div>
            <div class="stat"><div class="value">{{.ReviewCount}}</div><div class="label">Needs review</div></div>
            <div class="stat"><div class="value">{{.BytesFreedHuman}}</div><div class="label">Reclaimable space</div></div>
            <div class="stat"><div class="value">{{printf "%.2f" .AverageConfidence}}</div><div class="label">Avg confidence</div></div>
        </div>
        <table>
            <thead>
                <tr><th>Path</th><th>Action</th><th>Risk</th><th>Category</th><th>Confidence</th><th>Rationale</th></tr>
            </thead>
            <tbody>
                {{range .Items}}
                <tr>
                    <td>{{truncate .Path 80}}</td>
                    <td><span class="badge" style="background:{{actionColor .Action}}">{{.Action}}</span></td>
                    <td><span class="badge" style="background:{{riskColor .Risk}}">{{.Risk}}</span></td>
                    <td>{{.Category}}</td>
                    <td>{{printf "%.2f" .Confidence}}</td>
                    <td>{{.Rationale}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>
        <footer>Generated by the disk-cleanup analysis pipeline.</footer>
    </div>
</body>
</html>
`
