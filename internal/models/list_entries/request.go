package models

type ListEntriesQuery struct {
	Mood      string `form:"mood"`
	Tag       string `form:"tag"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

type DateRangeQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}
