package analytics

// Summary aggregates the whole daily-series window.
type Summary struct {
	TotalMinutes  float64  `json:"total_minutes"`
	TotalSessions int64    `json:"total_sessions"`
	Languages     []string `json:"languages"`
	TopLanguage   string   `json:"top_language"`
}

// DailySeriesResult is the trailing-window focus-time series.
// Labels and Minutes are parallel, oldest day first.
type DailySeriesResult struct {
	Labels  []string  `json:"labels"`
	Minutes []float64 `json:"data"`
	Summary Summary   `json:"summary"`
}

// LanguageDistributionResult is one day's per-language minutes,
// sorted descending. Labels and Minutes are parallel.
type LanguageDistributionResult struct {
	Labels  []string  `json:"labels"`
	Minutes []float64 `json:"data"`
}

// ProjectRow is one (folder, language) ranking entry. The same folder can
// appear in several rows, one per language seen in it.
type ProjectRow struct {
	Folder          string  `json:"folder"`
	Language        string  `json:"language"`
	DurationMinutes float64 `json:"duration_minutes"`
	SessionCount    int64   `json:"session_count"`
}
