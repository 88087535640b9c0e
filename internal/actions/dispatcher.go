package actions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"aras-dashboard/pkg/types"
)

const (
	MsgNoPath          = "No path provided"
	MsgNoModalID       = "No modal ID provided"
	MsgNoEndpoint      = "No endpoint provided"
	MsgNoTaskData      = "No task data provided"
	msgUnknownAction   = "Unknown action: %s"
	msgUnknownEntity   = "Unknown entity type: %s"
	msgUnexpectedPanic = "Unexpected error while executing action"
)

type handlerFunc func(ctx context.Context, cta types.Cta, caps Capabilities) (Result, error)

// Dispatcher исполняет один CTA против переданных Capabilities.
// Dispatch тотальна: любой ActionType, ошибка или паника обработчика
// превращаются в Result.
type Dispatcher struct {
	api      APIClient
	tasks    LocalTaskStore
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	handlers map[types.ActionType]handlerFunc
}

func NewDispatcher(api APIClient, tasks LocalTaskStore, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		api:    api,
		tasks:  tasks,
		logger: logger.Named("dispatcher"),
		now:    time.Now,
		newID:  uuid.NewString,
	}
	d.handlers = map[types.ActionType]handlerFunc{
		types.ActionNavigate:       d.navigate,
		types.ActionOpenModal:      d.openModal,
		types.ActionAPICall:        d.apiCall,
		types.ActionCreateEntity:   d.createEntity,
		types.ActionStartCall:      d.startCall,
		types.ActionStartCampaign:  d.startCampaign,
		types.ActionImportContacts: d.importContacts,
		types.ActionAddKBSource:    d.addKBSource,
		types.ActionCreateSpace:    d.createSpace,
		types.ActionCreateTask:     d.createTask,
		types.ActionFixError:       d.fixError,
	}
	return d
}

// Supports сообщает, есть ли обработчик для типа.
func (d *Dispatcher) Supports(t types.ActionType) bool {
	_, found := d.handlers[t]
	return found
}

func (d *Dispatcher) Dispatch(ctx context.Context, cta types.Cta, caps Capabilities) (res Result) {
	if caps == nil {
		caps = noopCapabilities{}
	}
	log := d.logger.With(zap.String("action_type", string(cta.ActionType)))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("action handler panicked", zap.String("panic", fmt.Sprint(rec)))
			safeToast(caps, msgUnexpectedPanic, types.SeverityError)
			res = fail(msgUnexpectedPanic)
		}
	}()

	handler, found := d.handlers[cta.ActionType]
	if !found {
		log.Warn("unknown action type")
		return fail(fmt.Sprintf(msgUnknownAction, cta.ActionType))
	}

	res, err := handler(ctx, cta, caps)
	if err != nil {
		log.Warn("action failed", zap.Error(err))
		caps.ShowToast(err.Error(), types.SeverityError)
		return fail(err.Error())
	}
	return res
}

// safeToast нужен внутри recover: сама Capabilities тоже может паниковать.
func safeToast(caps Capabilities, message string, severity types.Severity) {
	defer func() { _ = recover() }()
	caps.ShowToast(message, severity)
}

type noopCapabilities struct{}

func (noopCapabilities) Navigate(string)                  {}
func (noopCapabilities) OpenModal(string, map[string]any) {}
func (noopCapabilities) ShowToast(string, types.Severity) {}
func (noopCapabilities) RefetchDashboard(context.Context) {}
