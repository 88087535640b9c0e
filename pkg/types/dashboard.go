package types

// DashboardOverview - корневой агрегат дашборда одного пользователя.
// Пересоздаётся на каждый запрос, никогда не мутируется.
type DashboardOverview struct {
	User         DashboardUser    `json:"user"`
	KPIs         DashboardKPIs    `json:"kpis"`
	NextActions  []ActionItem     `json:"nextActions"`
	Activity     []ActivityItem   `json:"activity"`
	Modules      DashboardModules `json:"modules"`
	SystemAlerts []SystemAlert    `json:"systemAlerts"`
	LastUpdated  string           `json:"lastUpdated"`
	Errors       []string         `json:"errors"`
}

type DashboardUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Company   string `json:"company"`
	AvatarURL string `json:"avatarUrl"`
}

// Period - счётчик с разбивкой today/week/month.
type Period struct {
	Today int64 `json:"today"`
	Week  int64 `json:"week"`
	Month int64 `json:"month"`
}

type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type DashboardKPIs struct {
	Calls     CallKPIs      `json:"calls"`
	Campaigns CampaignKPIs  `json:"campaigns"`
	Contacts  ContactKPIs   `json:"contacts"`
	Spaces    SpaceKPIs     `json:"spaces"`
	Knowledge KnowledgeKPIs `json:"knowledge"`
	Quotas    QuotaKPIs     `json:"quotas"`
}

type CallKPIs struct {
	Started        Period  `json:"started"`
	Completed      Period  `json:"completed"`
	Answered       Period  `json:"answered"`
	MinutesUsed    Period  `json:"minutesUsed"`
	SuccessRate    float64 `json:"successRate"`
	AvgDurationSec float64 `json:"avgDurationSec"`
}

type CampaignKPIs struct {
	Active      int64 `json:"active"`
	Paused      int64 `json:"paused"`
	Completed   int64 `json:"completed"`
	Total       int64 `json:"total"`
	CallsQueued int64 `json:"callsQueued"`
}

type ContactKPIs struct {
	Total     int64  `json:"total"`
	New       Period `json:"new"`
	WithPhone int64  `json:"withPhone"`
	Hot       int64  `json:"hot"`
}

type SpaceKPIs struct {
	Total    int64  `json:"total"`
	Active   int64  `json:"active"`
	Messages Period `json:"messages"`
}

type KnowledgeKPIs struct {
	Sources   int64 `json:"sources"`
	Documents int64 `json:"documents"`
	Pending   int64 `json:"pending"`
}

type QuotaKPIs struct {
	MinutesUsed  int64 `json:"minutesUsed"`
	MinutesLimit int64 `json:"minutesLimit"`
	CallsUsed    int64 `json:"callsUsed"`
	CallsLimit   int64 `json:"callsLimit"`
	Spend        Money `json:"spend"`
}

// ActionItem - элемент блока "следующие шаги". Порядок в срезе = приоритет отрисовки.
type ActionItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Priority     string `json:"priority" validate:"oneof=low medium high urgent"`
	Category     string `json:"category"`
	Icon         string `json:"icon"`
	PrimaryCta   Cta    `json:"primaryCta"`
	SecondaryCta *Cta   `json:"secondaryCta,omitempty"`
	DueAt        string `json:"dueAt"`
	Source       string `json:"source" validate:"oneof=dynamic setup"`
}

type ActivityItem struct {
	ID          string `json:"id"`
	Type        string `json:"type" validate:"oneof=call campaign contact task space knowledge system"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
	Sentiment   string `json:"sentiment" validate:"oneof=positive neutral negative"`
	ActionCta   *Cta   `json:"actionCta,omitempty"`
}

type SystemAlert struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity" validate:"oneof=error warning info success"`
	Title       string   `json:"title"`
	Message     string   `json:"message"`
	Service     string   `json:"service"`
	Dismissible bool     `json:"dismissible"`
	ActionCta   *Cta     `json:"actionCta,omitempty"`
}

type DashboardModules struct {
	ContactRadar ContactRadarModule `json:"contactRadar"`
	TodayOS      TodayOSModule      `json:"todayOS"`
	Matrix       MatrixModule       `json:"matrix"`
}

type ContactRadarModule struct {
	Contacts []RadarContact      `json:"contacts"`
	Summary  ContactRadarSummary `json:"summary"`
}

type RadarContact struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Company       string  `json:"company"`
	Phone         string  `json:"phone"`
	Email         string  `json:"email"`
	Score         float64 `json:"score"`
	Sentiment     string  `json:"sentiment" validate:"oneof=positive neutral negative"`
	LastContactAt string  `json:"lastContactAt"`
	NextStep      *Cta    `json:"nextStep,omitempty"`
}

type ContactRadarSummary struct {
	Hot   int64 `json:"hot"`
	Warm  int64 `json:"warm"`
	Cold  int64 `json:"cold"`
	Total int64 `json:"total"`
}

type TodayOSModule struct {
	Tasks   []TodayTask    `json:"tasks"`
	Events  []TodayEvent   `json:"events"`
	Summary TodayOSSummary `json:"summary"`
}

type TodayTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueAt     string `json:"dueAt"`
	Priority  string `json:"priority" validate:"oneof=low medium high urgent"`
	Completed bool   `json:"completed"`
}

type TodayEvent struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	StartsAt string `json:"startsAt"`
	Kind     string `json:"kind"`
}

type TodayOSSummary struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Overdue   int64 `json:"overdue"`
}

type MatrixModule struct {
	Items   []MatrixItem  `json:"items"`
	Summary MatrixSummary `json:"summary"`
}

type MatrixItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quadrant string `json:"quadrant" validate:"oneof=do schedule delegate eliminate"`
	Priority string `json:"priority" validate:"oneof=low medium high urgent"`
}

type MatrixSummary struct {
	Do        int64 `json:"do"`
	Schedule  int64 `json:"schedule"`
	Delegate  int64 `json:"delegate"`
	Eliminate int64 `json:"eliminate"`
}
