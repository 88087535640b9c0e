package actions

import (
	"context"
	"sync"

	"aras-dashboard/pkg/types"
)

type EffectKind string

const (
	EffectNavigate  EffectKind = "navigate"
	EffectOpenModal EffectKind = "openModal"
	EffectToast     EffectKind = "toast"
	EffectRefetch   EffectKind = "refetchDashboard"
)

// Effect - один вызов Capabilities. Клиент воспроизводит их по порядку.
type Effect struct {
	Kind     EffectKind     `json:"kind"`
	Path     string         `json:"path,omitempty"`
	ModalID  string         `json:"modalId,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
	Message  string         `json:"message,omitempty"`
	Severity types.Severity `json:"severity,omitempty"`
}

// EffectRecorder - серверная реализация Capabilities: записывает эффекты
// для браузера, а RefetchDashboard дополнительно вызывает onRefetch
// (сброс кеша обзора).
type EffectRecorder struct {
	mu        sync.Mutex
	effects   []Effect
	onRefetch func(ctx context.Context)
}

func NewEffectRecorder(onRefetch func(ctx context.Context)) *EffectRecorder {
	return &EffectRecorder{effects: []Effect{}, onRefetch: onRefetch}
}

func (r *EffectRecorder) record(e Effect) {
	r.mu.Lock()
	r.effects = append(r.effects, e)
	r.mu.Unlock()
}

func (r *EffectRecorder) Navigate(path string) {
	r.record(Effect{Kind: EffectNavigate, Path: path})
}

func (r *EffectRecorder) OpenModal(id string, payload map[string]any) {
	r.record(Effect{Kind: EffectOpenModal, ModalID: id, Payload: payload})
}

func (r *EffectRecorder) ShowToast(message string, severity types.Severity) {
	r.record(Effect{Kind: EffectToast, Message: message, Severity: severity})
}

func (r *EffectRecorder) RefetchDashboard(ctx context.Context) {
	if r.onRefetch != nil {
		r.onRefetch(ctx)
	}
	r.record(Effect{Kind: EffectRefetch})
}

// Effects возвращает копию записанных эффектов.
func (r *EffectRecorder) Effects() []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Effect, len(r.effects))
	copy(out, r.effects)
	return out
}
