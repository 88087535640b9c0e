package overview

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"aras-dashboard/pkg/types"
	"aras-dashboard/pkg/validation"
)

// reader читает листья из сырого JSON-дерева. Ни один метод не возвращает
// ошибку: отсутствующее или битое значение заменяется дефолтом, а причина
// копится в errs.
type reader struct {
	validate *validator.Validate
	errs     []string
}

func (r *reader) fail(format string, args ...any) {
	r.errs = append(r.errs, fmt.Sprintf(format, args...))
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok && m != nil
}

// object возвращает вложенный объект или пустую map, чтобы дальнейшее
// чтение шло по дефолтам.
func (r *reader) object(m map[string]any, key, path string) map[string]any {
	v, present := m[key]
	if !present || v == nil {
		return map[string]any{}
	}
	obj, ok := asObject(v)
	if !ok {
		r.fail("%s: expected object, got %s", joinPath(path, key), kindOf(v))
		return map[string]any{}
	}
	return obj
}

// array возвращает элементы массива; не-массив превращается в пустой срез.
func (r *reader) array(m map[string]any, key, path string) []any {
	v, present := m[key]
	if !present || v == nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		r.fail("%s: expected array, got %s", joinPath(path, key), kindOf(v))
		return nil
	}
	return arr
}

func (r *reader) str(m map[string]any, key, def string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return def
}

func (r *reader) float(m map[string]any, key string) float64 {
	return toFloat(m[key])
}

// int: целые читаются без потери точности, остальное через float
// с насыщением на границах int64.
func (r *reader) int(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}

	f := toFloat(m[key])
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f < math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

func (r *reader) boolean(m map[string]any, key string, def bool) bool {
	switch v := m[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// enum проверяет значение правилом валидатора; неизвестное значение
// заменяется дефолтом и попадает в errs.
func (r *reader) enum(m map[string]any, key, rule, def, path string) string {
	raw, present := m[key]
	if !present || raw == nil {
		return def
	}
	s, ok := raw.(string)
	if !ok {
		r.fail("%s: expected string, got %s", joinPath(path, key), kindOf(raw))
		return def
	}
	if err := r.validate.Var(s, rule); err != nil {
		r.fail("%s: unknown value %q", joinPath(path, key), s)
		return def
	}
	return s
}

func (r *reader) period(m map[string]any, key, path string) types.Period {
	p := r.object(m, key, path)
	return types.Period{
		Today: r.int(p, "today"),
		Week:  r.int(p, "week"),
		Month: r.int(p, "month"),
	}
}

// cta разбирает CTA. ok=false, если CTA отсутствует или отклонён; отклонение
// (не объект, неизвестный actionType) пишется в errs.
func (r *reader) cta(raw any, path string) (types.Cta, bool) {
	if raw == nil {
		return types.Cta{}, false
	}
	m, ok := asObject(raw)
	if !ok {
		r.fail("%s: expected object, got %s", path, kindOf(raw))
		return types.Cta{}, false
	}

	actionType, _ := m["actionType"].(string)
	if err := r.validate.Var(actionType, validation.RuleActionType); err != nil {
		r.fail("%s: unknown actionType %q", path, actionType)
		return types.Cta{}, false
	}

	payload, ok := asObject(m["payload"])
	if !ok {
		payload = map[string]any{}
	}

	return types.Cta{
		Label:      r.str(m, "label", ""),
		ActionType: types.ActionType(actionType),
		Payload:    payload,
	}, true
}

func (r *reader) optionalCta(m map[string]any, key, path string) *types.Cta {
	c, ok := r.cta(m[key], joinPath(path, key))
	if !ok {
		return nil
	}
	return &c
}

func toFloat(v any) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func indexPath(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}
