package models

type Dashboard struct {
	Now      DashboardWindow `json:"now"`
	Tasks    TaskSummary     `json:"tasks"`
	Shopping ShoppingSummary `json:"shopping"`
	Finances FinanceSummary  `json:"finances"`
	Events   EventSummary    `json:"events"`
}

type DashboardWindow struct {
	Today     string `json:"today"`
	NowTime   string `json:"nowTime"`
	WeekStart string `json:"weekStart"`
	WeekEnd   string `json:"weekEnd"`
	Month     string `json:"month"`
	Timezone  string `json:"timezone"`
}

type TaskSummary struct {
	WeekOpenTotal int `json:"weekOpenTotal"`
	WeekOpenMine  int `json:"weekOpenMine"`
	OverdueOpen   int `json:"overdueOpen"`
}

type ShoppingSummary struct {
	OpenCount int `json:"openCount"`
}

type FinanceSummary struct {
	MonthTotal float64 `json:"monthTotal"`
	MonthMine  float64 `json:"monthMine"`
}

type EventSummary struct {
	WeekCount   int      `json:"weekCount"`
	TodayTitles []string `json:"todayTitles"`
}
