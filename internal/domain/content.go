package domain

// Tipos de contenido de solo lectura servidos por los endpoints mock.

type Challenge struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Goal         int      `json:"goal"`
	Participants []string `json:"participants"`
}

type EducationItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"-"`
	Level    string `json:"-"`
}

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Impact   int    `json:"impact"`
	Category string `json:"-"`
}

type IssueReport struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	Location    string `json:"location"`
	Description string `json:"description"`
	MediaURL    string `json:"media_url"`
	Status      string `json:"status"`
}

type DashboardSummary struct {
	ImpactScore  int      `json:"impact_score"`
	Achievements []string `json:"achievements"`
}

type ProfileSummary struct {
	EcoGoals    []string `json:"eco_goals"`
	ImpactScore int      `json:"impact_score"`
}
