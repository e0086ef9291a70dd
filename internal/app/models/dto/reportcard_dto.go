package dto

// ReportCardSubject is one subject row of a student's report card
type ReportCardSubject struct {
	Subject           string `json:"subject"`
	Score             string `json:"score"`
	Performance       string `json:"performance"`
	WeeklyHours       int    `json:"weeklyHours"`
	ExcusedAbsences   int    `json:"excusedAbsences"`
	UnexcusedAbsences int    `json:"unexcusedAbsences"`
}

// ReportCardStudent is one student's section of the group report card
type ReportCardStudent struct {
	PersonID  int64               `json:"personId"`
	FullName  string              `json:"fullName"`
	IDNumber  string              `json:"idNumber"`
	GroupCode string              `json:"groupCode"`
	Subjects  []ReportCardSubject `json:"subjects"`
	Average   string              `json:"average"`
}

// ReportCardContext is everything a bulletin template needs for one
// group and period.
type ReportCardContext struct {
	Institution string              `json:"institution"`
	GroupCode   string              `json:"groupCode"`
	GradeName   string              `json:"gradeName"`
	Level       string              `json:"level"`
	ShiftName   string              `json:"shiftName"`
	Year        int                 `json:"year"`
	PeriodName  string              `json:"periodName"`
	PeriodState string              `json:"periodState"`
	PeriodStart string              `json:"periodStart"`
	PeriodEnd   string              `json:"periodEnd"`
	GeneratedAt string              `json:"generatedAt"`
	Students    []ReportCardStudent `json:"students"`
}
