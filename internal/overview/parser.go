package overview

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"aras-dashboard/pkg/types"
	"aras-dashboard/pkg/validation"
)

// MsgTrailingData попадает в errors, если после JSON-документа есть что-то ещё.
const MsgTrailingData = "trailing data after JSON document ignored"

// Parser превращает произвольный JSON от платформы в полностью заполненный
// DashboardOverview. Parse никогда не паникует и не возвращает ошибку.
type Parser struct {
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewParser(logger *zap.Logger) *Parser {
	return &Parser{
		validate: validation.Shared().Engine(),
		logger:   logger.Named("overview_parser"),
		now:      time.Now,
	}
}

// ParseJSON разбирает сырые байты. Невалидный JSON даёт Default().
func (p *Parser) ParseJSON(raw []byte) types.DashboardOverview {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var data any
	if err := dec.Decode(&data); err != nil {
		p.logger.Warn("overview payload is not valid JSON, using defaults", zap.Error(err))
		return defaultAt(p.now())
	}

	out := p.Parse(data)
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		p.logger.Warn("overview payload has trailing data after the JSON document")
		out.Errors = append(out.Errors, MsgTrailingData)
	}
	return out
}

func (p *Parser) Parse(data any) (out types.DashboardOverview) {
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Warn("overview parse panicked, using defaults", zap.String("panic", fmt.Sprint(rec)))
			out = defaultAt(p.now())
		}
	}()

	root, ok := p.normalizeRoot(data)
	if !ok {
		p.logger.Warn("overview payload is not an object, using defaults", zap.String("kind", kindOf(data)))
		return defaultAt(p.now())
	}

	r := &reader{validate: p.validate}
	out = defaultAt(p.now())

	out.User = r.user(r.object(root, "user", ""))
	out.KPIs = r.kpis(r.object(root, "kpis", ""))
	out.NextActions = r.actionItems(r.array(root, "nextActions", ""), "nextActions")
	out.Activity = r.activityItems(r.array(root, "activity", ""), "activity")
	out.Modules = r.modules(r.object(root, "modules", ""))
	out.SystemAlerts = r.alerts(r.array(root, "systemAlerts", ""), "systemAlerts")

	if ts := r.str(root, "lastUpdated", ""); ts != "" {
		if _, err := time.Parse(time.RFC3339, ts); err == nil {
			out.LastUpdated = ts
		} else {
			r.fail("lastUpdated: expected RFC3339 timestamp, got %q", ts)
		}
	}

	for _, e := range r.array(root, "errors", "") {
		if s, ok := e.(string); ok {
			out.Errors = append(out.Errors, s)
		}
	}
	out.Errors = append(out.Errors, r.errs...)

	if len(r.errs) > 0 {
		p.logger.Debug("overview payload normalized with rejections", zap.Strings("errors", r.errs))
	}
	return out
}

// normalizeRoot принимает уже декодированную map, сырые байты или любую
// Go-структуру (через повторную сериализацию).
func (p *Parser) normalizeRoot(data any) (map[string]any, bool) {
	switch v := data.(type) {
	case nil:
		return nil, false
	case map[string]any:
		return v, true
	case []byte:
		return p.decodeObject(v)
	case json.RawMessage:
		return p.decodeObject(v)
	case string, bool, float64, json.Number, []any:
		return nil, false
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return nil, false
	}
	return p.decodeObject(raw)
}

func (p *Parser) decodeObject(raw []byte) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return asObject(v)
}

func (r *reader) user(m map[string]any) types.DashboardUser {
	u := types.DashboardUser{
		ID:        r.str(m, "id", ""),
		Name:      r.str(m, "name", DefaultUserName),
		Email:     r.str(m, "email", ""),
		Plan:      r.str(m, "plan", DefaultPlan),
		Company:   r.str(m, "company", ""),
		AvatarURL: r.str(m, "avatarUrl", ""),
	}
	if u.Name == "" {
		u.Name = DefaultUserName
	}
	if u.Plan == "" {
		u.Plan = DefaultPlan
	}
	return u
}

func (r *reader) kpis(m map[string]any) types.DashboardKPIs {
	const path = "kpis"

	calls := r.object(m, "calls", path)
	campaigns := r.object(m, "campaigns", path)
	contacts := r.object(m, "contacts", path)
	spaces := r.object(m, "spaces", path)
	knowledge := r.object(m, "knowledge", path)
	quotas := r.object(m, "quotas", path)
	spend := r.object(quotas, "spend", path+".quotas")

	currency := r.str(spend, "currency", DefaultCurrency)
	if currency == "" {
		currency = DefaultCurrency
	}

	return types.DashboardKPIs{
		Calls: types.CallKPIs{
			Started:        r.period(calls, "started", path+".calls"),
			Completed:      r.period(calls, "completed", path+".calls"),
			Answered:       r.period(calls, "answered", path+".calls"),
			MinutesUsed:    r.period(calls, "minutesUsed", path+".calls"),
			SuccessRate:    r.float(calls, "successRate"),
			AvgDurationSec: r.float(calls, "avgDurationSec"),
		},
		Campaigns: types.CampaignKPIs{
			Active:      r.int(campaigns, "active"),
			Paused:      r.int(campaigns, "paused"),
			Completed:   r.int(campaigns, "completed"),
			Total:       r.int(campaigns, "total"),
			CallsQueued: r.int(campaigns, "callsQueued"),
		},
		Contacts: types.ContactKPIs{
			Total:     r.int(contacts, "total"),
			New:       r.period(contacts, "new", path+".contacts"),
			WithPhone: r.int(contacts, "withPhone"),
			Hot:       r.int(contacts, "hot"),
		},
		Spaces: types.SpaceKPIs{
			Total:    r.int(spaces, "total"),
			Active:   r.int(spaces, "active"),
			Messages: r.period(spaces, "messages", path+".spaces"),
		},
		Knowledge: types.KnowledgeKPIs{
			Sources:   r.int(knowledge, "sources"),
			Documents: r.int(knowledge, "documents"),
			Pending:   r.int(knowledge, "pending"),
		},
		Quotas: types.QuotaKPIs{
			MinutesUsed:  r.int(quotas, "minutesUsed"),
			MinutesLimit: r.int(quotas, "minutesLimit"),
			CallsUsed:    r.int(quotas, "callsUsed"),
			CallsLimit:   r.int(quotas, "callsLimit"),
			Spend: types.Money{
				Amount:   r.float(spend, "amount"),
				Currency: currency,
			},
		},
	}
}

// eachObject вызывает fn для каждого элемента-объекта; остальные элементы
// пропускаются с записью в errs.
func (r *reader) eachObject(items []any, path string, fn func(m map[string]any, path string)) {
	for i, raw := range items {
		p := indexPath(path, i)
		m, ok := asObject(raw)
		if !ok {
			r.fail("%s: expected object, got %s", p, kindOf(raw))
			continue
		}
		fn(m, p)
	}
}

func (r *reader) actionItems(items []any, path string) []types.ActionItem {
	out := make([]types.ActionItem, 0, len(items))
	r.eachObject(items, path, func(m map[string]any, p string) {
		primary, ok := r.cta(m["primaryCta"], joinPath(p, "primaryCta"))
		if !ok {
			if _, present := m["primaryCta"]; !present {
				r.fail("%s: primaryCta is required", p)
			}
			r.fail("%s: action item dropped", p)
			return
		}
		out = append(out, types.ActionItem{
			ID:           r.str(m, "id", ""),
			Title:        r.str(m, "title", ""),
			Description:  r.str(m, "description", ""),
			Priority:     r.enum(m, "priority", validation.RulePriority, DefaultPriority, p),
			Category:     r.str(m, "category", ""),
			Icon:         r.str(m, "icon", ""),
			PrimaryCta:   primary,
			SecondaryCta: r.optionalCta(m, "secondaryCta", p),
			DueAt:        r.str(m, "dueAt", ""),
			Source:       r.enum(m, "source", validation.RuleActionSource, DefaultSource, p),
		})
	})
	return out
}

func (r *reader) activityItems(items []any, path string) []types.ActivityItem {
	out := make([]types.ActivityItem, 0, len(items))
	r.eachObject(items, path, func(m map[string]any, p string) {
		out = append(out, types.ActivityItem{
			ID:          r.str(m, "id", ""),
			Type:        r.enum(m, "type", validation.RuleActivityType, DefaultActivityType, p),
			Title:       r.str(m, "title", ""),
			Description: r.str(m, "description", ""),
			Timestamp:   r.str(m, "timestamp", ""),
			Sentiment:   r.enum(m, "sentiment", validation.RuleSentiment, DefaultSentiment, p),
			ActionCta:   r.optionalCta(m, "actionCta", p),
		})
	})
	return out
}

func (r *reader) alerts(items []any, path string) []types.SystemAlert {
	out := make([]types.SystemAlert, 0, len(items))
	r.eachObject(items, path, func(m map[string]any, p string) {
		out = append(out, types.SystemAlert{
			ID:          r.str(m, "id", ""),
			Severity:    types.Severity(r.enum(m, "severity", validation.RuleSeverity, string(DefaultSeverity), p)),
			Title:       r.str(m, "title", ""),
			Message:     r.str(m, "message", ""),
			Service:     r.str(m, "service", ""),
			Dismissible: r.boolean(m, "dismissible", true),
			ActionCta:   r.optionalCta(m, "actionCta", p),
		})
	})
	return out
}

func (r *reader) modules(m map[string]any) types.DashboardModules {
	const path = "modules"
	mods := emptyModules()

	radar := r.object(m, "contactRadar", path)
	radarPath := path + ".contactRadar"
	r.eachObject(r.array(radar, "contacts", radarPath), radarPath+".contacts", func(c map[string]any, p string) {
		mods.ContactRadar.Contacts = append(mods.ContactRadar.Contacts, types.RadarContact{
			ID:            r.str(c, "id", ""),
			Name:          r.str(c, "name", ""),
			Company:       r.str(c, "company", ""),
			Phone:         r.str(c, "phone", ""),
			Email:         r.str(c, "email", ""),
			Score:         r.float(c, "score"),
			Sentiment:     r.enum(c, "sentiment", validation.RuleSentiment, DefaultSentiment, p),
			LastContactAt: r.str(c, "lastContactAt", ""),
			NextStep:      r.optionalCta(c, "nextStep", p),
		})
	})
	radarSummary := r.object(radar, "summary", radarPath)
	mods.ContactRadar.Summary = types.ContactRadarSummary{
		Hot:   r.int(radarSummary, "hot"),
		Warm:  r.int(radarSummary, "warm"),
		Cold:  r.int(radarSummary, "cold"),
		Total: r.int(radarSummary, "total"),
	}

	today := r.object(m, "todayOS", path)
	todayPath := path + ".todayOS"
	r.eachObject(r.array(today, "tasks", todayPath), todayPath+".tasks", func(t map[string]any, p string) {
		mods.TodayOS.Tasks = append(mods.TodayOS.Tasks, types.TodayTask{
			ID:        r.str(t, "id", ""),
			Title:     r.str(t, "title", ""),
			DueAt:     r.str(t, "dueAt", ""),
			Priority:  r.enum(t, "priority", validation.RulePriority, DefaultPriority, p),
			Completed: r.boolean(t, "completed", false),
		})
	})
	r.eachObject(r.array(today, "events", todayPath), todayPath+".events", func(e map[string]any, _ string) {
		mods.TodayOS.Events = append(mods.TodayOS.Events, types.TodayEvent{
			ID:       r.str(e, "id", ""),
			Title:    r.str(e, "title", ""),
			StartsAt: r.str(e, "startsAt", ""),
			Kind:     r.str(e, "kind", ""),
		})
	})
	todaySummary := r.object(today, "summary", todayPath)
	mods.TodayOS.Summary = types.TodayOSSummary{
		Total:     r.int(todaySummary, "total"),
		Completed: r.int(todaySummary, "completed"),
		Overdue:   r.int(todaySummary, "overdue"),
	}

	matrix := r.object(m, "matrix", path)
	matrixPath := path + ".matrix"
	r.eachObject(r.array(matrix, "items", matrixPath), matrixPath+".items", func(it map[string]any, p string) {
		mods.Matrix.Items = append(mods.Matrix.Items, types.MatrixItem{
			ID:       r.str(it, "id", ""),
			Title:    r.str(it, "title", ""),
			Quadrant: r.enum(it, "quadrant", validation.RuleQuadrant, DefaultQuadrant, p),
			Priority: r.enum(it, "priority", validation.RulePriority, DefaultPriority, p),
		})
	})
	matrixSummary := r.object(matrix, "summary", matrixPath)
	mods.Matrix.Summary = types.MatrixSummary{
		Do:        r.int(matrixSummary, "do"),
		Schedule:  r.int(matrixSummary, "schedule"),
		Delegate:  r.int(matrixSummary, "delegate"),
		Eliminate: r.int(matrixSummary, "eliminate"),
	}

	return mods
}
