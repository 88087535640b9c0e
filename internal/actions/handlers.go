package actions

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"aras-dashboard/internal/entities"
	"aras-dashboard/pkg/types"
	"aras-dashboard/pkg/validation"
)

// Маршруты приложения, на которые ведут навигационные обработчики.
const (
	PathPower            = "/app/power"
	PathCampaigns        = "/app/campaigns"
	PathContacts         = "/app/contacts"
	PathKnowledge        = "/app/knowledge"
	PathSpace            = "/app/space"
	PathSettings         = "/app/settings"
	PathTwilioSettings   = "/app/settings?tab=integrations&service=twilio"
	PathRetellSettings   = "/app/settings?tab=voice"
	EndpointTasks        = "/api/tasks"
	EndpointCampaigns    = "/api/campaigns"
	EndpointContacts     = "/api/contacts"
	EndpointChatSessions = "/api/chat/sessions"
)

// entityEndpoints - таблица CREATE_ENTITY.
var entityEndpoints = map[string]string{
	"task":     EndpointTasks,
	"campaign": EndpointCampaigns,
	"contact":  EndpointContacts,
	"space":    EndpointChatSessions,
}

func (d *Dispatcher) navigate(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	path := cta.PayloadString("path")
	if path == "" {
		return fail(MsgNoPath), nil
	}
	caps.Navigate(path)
	return ok(nil), nil
}

func (d *Dispatcher) openModal(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	modalID := cta.PayloadString("modalId")
	if modalID == "" {
		return fail(MsgNoModalID), nil
	}
	caps.OpenModal(modalID, cta.Payload)
	return ok(nil), nil
}

func (d *Dispatcher) apiCall(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	if cta.PayloadString("action") == "refetch" {
		caps.RefetchDashboard(ctx)
		caps.ShowToast("Dashboard refreshed", types.SeverityInfo)
		return ok(nil), nil
	}

	endpoint := cta.PayloadString("endpoint")
	if endpoint == "" {
		return fail(MsgNoEndpoint), nil
	}

	method := strings.ToUpper(cta.PayloadString("method"))
	if method == "" {
		method = http.MethodPost
	}

	data, err := d.api.Do(ctx, method, endpoint, cta.Payload["body"])
	if err != nil {
		return Result{}, err
	}

	message := cta.PayloadString("successMessage")
	if message == "" {
		message = "Action completed"
	}
	caps.ShowToast(message, types.SeveritySuccess)
	caps.RefetchDashboard(ctx)
	return ok(data), nil
}

func (d *Dispatcher) createEntity(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	entityType := cta.PayloadString("entityType")
	endpoint, known := entityEndpoints[entityType]
	if !known {
		return fail(fmt.Sprintf(msgUnknownEntity, entityType)), nil
	}

	data, err := d.api.Do(ctx, http.MethodPost, endpoint, entityBody(cta.Payload))
	if err != nil {
		return Result{}, err
	}

	caps.ShowToast(capitalize(entityType)+" created", types.SeveritySuccess)
	caps.RefetchDashboard(ctx)
	return ok(data), nil
}

// entityBody: payload.data, если это объект, иначе весь payload без служебного entityType.
func entityBody(payload map[string]any) map[string]any {
	if data, isObj := payload["data"].(map[string]any); isObj {
		return data
	}
	body := make(map[string]any, len(payload))
	for k, v := range payload {
		if k != "entityType" {
			body[k] = v
		}
	}
	return body
}

func (d *Dispatcher) startCall(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	q := url.Values{}
	setIfPresent(q, "phone", cta.PayloadString("phone"))
	setIfPresent(q, "contactId", cta.PayloadString("contactId"))
	setIfPresent(q, "name", cta.PayloadString("name"))
	caps.Navigate(withQuery(PathPower, q))
	return ok(nil), nil
}

func (d *Dispatcher) startCampaign(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	q := url.Values{}
	setIfPresent(q, "id", cta.PayloadString("campaignId"))
	if isNew, _ := cta.Payload["new"].(bool); isNew {
		q.Set("new", "true")
	}
	caps.Navigate(withQuery(PathCampaigns, q))
	return ok(nil), nil
}

func (d *Dispatcher) importContacts(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	q := url.Values{"import": {"true"}}
	setIfPresent(q, "source", cta.PayloadString("source"))
	caps.Navigate(withQuery(PathContacts, q))
	return ok(nil), nil
}

func (d *Dispatcher) addKBSource(_ context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	q := url.Values{}
	setIfPresent(q, "type", cta.PayloadString("sourceType"))
	caps.Navigate(withQuery(PathKnowledge, q))
	return ok(nil), nil
}

// createSpace никогда не возвращает ошибку: страница Space сама умеет
// пустое состояние, поэтому сбой API маскируется навигацией.
func (d *Dispatcher) createSpace(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	title := cta.PayloadString("title")
	if title == "" {
		title = "New Space"
	}

	data, err := d.api.Do(ctx, http.MethodPost, EndpointChatSessions, map[string]any{"title": title})
	if err != nil {
		d.logger.Warn("space creation failed, falling back to space page", zap.Error(err))
		caps.Navigate(PathSpace)
		return Result{Success: true, Degraded: true}, nil
	}

	target := PathSpace
	if session, isObj := data.(map[string]any); isObj {
		if id := (types.Cta{Payload: session}).PayloadString("id"); id != "" {
			target = withQuery(PathSpace, url.Values{"session": {id}})
		}
	}
	caps.Navigate(target)
	return ok(data), nil
}

func (d *Dispatcher) createTask(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	if taskID := cta.PayloadString("taskId"); taskID != "" {
		return d.completeTask(ctx, taskID, caps), nil
	}
	if cta.PayloadString("title") != "" {
		return d.createOrStashTask(ctx, cta, caps)
	}
	return fail(MsgNoTaskData), nil
}

// completeTask: сбой PATCH допустим, задача всё равно считается выполненной.
func (d *Dispatcher) completeTask(ctx context.Context, taskID string, caps Capabilities) Result {
	endpoint := EndpointTasks + "/" + url.PathEscape(taskID)
	_, err := d.api.Do(ctx, http.MethodPatch, endpoint, map[string]any{"completed": true, "status": "completed"})
	if err != nil {
		d.logger.Warn("task completion request failed", zap.String("task_id", taskID), zap.Error(err))
	}

	caps.ShowToast("Task completed", types.SeveritySuccess)
	caps.RefetchDashboard(ctx)
	return Result{Success: true, Degraded: err != nil}
}

func (d *Dispatcher) createOrStashTask(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	task := entities.LocalTask{
		Title:       cta.PayloadString("title"),
		Description: cta.PayloadString("description"),
		DueDate:     cta.PayloadString("dueDate"),
		Priority:    normalizePriority(cta.PayloadString("priority")),
	}

	data, err := d.api.Do(ctx, http.MethodPost, EndpointTasks, map[string]any{
		"title":       task.Title,
		"description": task.Description,
		"dueDate":     task.DueDate,
		"priority":    task.Priority,
	})
	if err == nil {
		caps.ShowToast("Task created", types.SeveritySuccess)
		caps.RefetchDashboard(ctx)
		return ok(data), nil
	}

	d.logger.Warn("task creation failed, saving locally", zap.Error(err))

	task.ID = d.newID()
	task.CreatedAt = d.now().UTC().Format("2006-01-02T15:04:05.000Z07:00")
	if storeErr := d.tasks.Append(ctx, task); storeErr != nil {
		return Result{}, fmt.Errorf("task could not be saved: %w", storeErr)
	}

	caps.ShowToast("Task saved locally and will sync once the server is reachable", types.SeverityInfo)
	return Result{Success: true, Degraded: true, Data: task}, nil
}

func (d *Dispatcher) fixError(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error) {
	switch cta.PayloadString("service") {
	case "twilio":
		caps.Navigate(PathTwilioSettings)
	case "retell":
		caps.Navigate(PathRetellSettings)
	case "api":
		caps.RefetchDashboard(ctx)
		caps.ShowToast("Reconnecting to ARAS…", types.SeverityInfo)
	default:
		caps.Navigate(PathSettings)
	}
	return ok(nil), nil
}

func normalizePriority(p string) string {
	if err := validation.Shared().Engine().Var(p, validation.RulePriority); err != nil {
		return "medium"
	}
	return p
}

func setIfPresent(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
