package service

const (
	// Dashboard lists
	RecentActivitiesLimit = 10
	ChartWeeks            = 12

	// Day granularity for as_of query parameters
	DateLayout = "2006-01-02"

	// MaxImportBytes bounds activity files read by the importer
	MaxImportBytes = 32 << 20
)
