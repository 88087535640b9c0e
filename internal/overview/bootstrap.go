package overview

import (
	"time"

	"aras-dashboard/pkg/types"
)

// ID онбординговых шагов. MergeActions фильтрует по ним.
const (
	SetupImportContacts = "setup-import-contacts"
	SetupFirstCall      = "setup-first-call"
	SetupCreateCampaign = "setup-create-campaign"
	SetupCreateSpace    = "setup-create-space"
	SetupAddKnowledge   = "setup-add-knowledge"
)

// UserInfo - частичный профиль; пустые поля заменяются дефолтами.
type UserInfo struct {
	ID        string
	Name      string
	Email     string
	Plan      string
	Company   string
	AvatarURL string
}

// SetupActions - канонический порядок онбординга. Каждый вызов отдаёт
// новый срез, вызывающий может его менять.
func SetupActions() []types.ActionItem {
	return []types.ActionItem{
		{
			ID:          SetupImportContacts,
			Title:       "Import your contacts",
			Description: "Upload a CSV or connect your CRM so ARAS knows who to call.",
			Priority:    "high",
			Category:    "setup",
			Icon:        "users",
			PrimaryCta:  types.Cta{Label: "Import contacts", ActionType: types.ActionImportContacts, Payload: map[string]any{}},
			Source:      "setup",
		},
		{
			ID:          SetupFirstCall,
			Title:       "Make your first AI call",
			Description: "Let ARAS place a test call and hear the voice agent in action.",
			Priority:    "high",
			Category:    "setup",
			Icon:        "phone",
			PrimaryCta:  types.Cta{Label: "Start a call", ActionType: types.ActionStartCall, Payload: map[string]any{}},
			Source:      "setup",
		},
		{
			ID:          SetupCreateCampaign,
			Title:       "Create your first campaign",
			Description: "Reach a whole contact list with one outbound campaign.",
			Priority:    "medium",
			Category:    "setup",
			Icon:        "megaphone",
			PrimaryCta:  types.Cta{Label: "Create campaign", ActionType: types.ActionStartCampaign, Payload: map[string]any{"new": true}},
			Source:      "setup",
		},
		{
			ID:          SetupCreateSpace,
			Title:       "Open a Space",
			Description: "Chat with ARAS about your pipeline, calls and next steps.",
			Priority:    "medium",
			Category:    "setup",
			Icon:        "message-square",
			PrimaryCta:  types.Cta{Label: "Open Space", ActionType: types.ActionCreateSpace, Payload: map[string]any{}},
			Source:      "setup",
		},
		{
			ID:          SetupAddKnowledge,
			Title:       "Add a knowledge source",
			Description: "Give the agent your website, documents or FAQs to answer with.",
			Priority:    "medium",
			Category:    "setup",
			Icon:        "book-open",
			PrimaryCta:  types.Cta{Label: "Add source", ActionType: types.ActionAddKBSource, Payload: map[string]any{}},
			Source:      "setup",
		},
	}
}

// EmptyDashboard - дашборд нового аккаунта: дефолты плюс онбординг.
func EmptyDashboard(user UserInfo) types.DashboardOverview {
	return EmptyDashboardAt(user, time.Now())
}

// EmptyDashboardAt детерминирован для одинаковых (user, now).
func EmptyDashboardAt(user UserInfo, now time.Time) types.DashboardOverview {
	out := defaultAt(now)
	out.User = types.DashboardUser{
		ID:        user.ID,
		Name:      orDefault(user.Name, DefaultUserName),
		Email:     user.Email,
		Plan:      orDefault(user.Plan, DefaultPlan),
		Company:   user.Company,
		AvatarURL: user.AvatarURL,
	}
	out.NextActions = SetupActions()
	return out
}

// MergeActions: сначала динамические действия в исходном порядке, затем
// оставшиеся шаги онбординга. Шаг убирается, если его условие уже выполнено.
func MergeActions(dynamic []types.ActionItem, hasContacts, hasCampaigns, hasKb bool) []types.ActionItem {
	skip := map[string]bool{
		SetupImportContacts: hasContacts,
		SetupCreateCampaign: hasCampaigns,
		SetupAddKnowledge:   hasKb,
	}

	out := make([]types.ActionItem, 0, len(dynamic)+5)
	out = append(out, dynamic...)
	for _, item := range SetupActions() {
		if skip[item.ID] {
			continue
		}
		out = append(out, item)
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
