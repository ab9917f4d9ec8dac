package consts

import "time"

// Server configuration
const (
	DefaultPort       = "8080"
	ReadHeaderTimeout = 3 * time.Second
	RateLimitRequests = 60
	RateLimitWindow   = time.Minute
)

// Data source
const (
	DataFile         = "summer.csv"
	PreferredCountry = "USA"
	TopAthletesCount = 10
)

// Required and optional source columns
const (
	ColumnAthlete    = "Athlete"
	ColumnCountry    = "Country"
	ColumnSport      = "Sport"
	ColumnMedal      = "Medal"
	ColumnYear       = "Year"
	ColumnCity       = "City"
	ColumnDiscipline = "Discipline"
	ColumnGender     = "Gender"
	ColumnEvent      = "Event"
)

// File paths and directories
const (
	ChartDataDir   = "web/chartdata"
	ChartsJSONFile = "charts.json"
)

// File permissions
const (
	DirPermissions  = 0750
	FilePermissions = 0600
)

// Page text
const (
	PageTitle      = "Who Rules the Podium 1896-2012?"
	BrowserTitle   = "Olympic Podium Dashboard"
	EmptyWarning   = "No data found for the selected country and sport."
	TopChartTitle  = "Top %d Athletes by Medal Count"
	PieChartTitle  = "Medal Breakdown for %s"
	MedalsAxisName = "Total Medals"
)

// Chart configuration
const (
	ChartWidth        = "100%"
	ChartHeight       = "450px"
	ChartAssetsScript = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
)

// Chart colors and styling
const (
	ChartBackgroundColor = "#ffffff"
	ChartTextColor       = "#000000"
)

// API configuration
const (
	AuthHeaderPrefix = "Bearer "
	APIKeyQueryParam = "api_key"
)
