package types

import (
	"encoding/json"
	"strconv"
)

// ActionType - закрытый словарь типов CTA. Новый тип добавляется сюда
// и в таблицу обработчиков диспетчера одновременно.
type ActionType string

const (
	ActionNavigate       ActionType = "NAVIGATE"
	ActionOpenModal      ActionType = "OPEN_MODAL"
	ActionAPICall        ActionType = "API_CALL"
	ActionCreateEntity   ActionType = "CREATE_ENTITY"
	ActionStartCall      ActionType = "START_CALL"
	ActionStartCampaign  ActionType = "START_CAMPAIGN"
	ActionImportContacts ActionType = "IMPORT_CONTACTS"
	ActionAddKBSource    ActionType = "ADD_KB_SOURCE"
	ActionCreateSpace    ActionType = "CREATE_SPACE"
	ActionCreateTask     ActionType = "CREATE_TASK"
	ActionFixError       ActionType = "FIX_ERROR"
)

// ActionTypes перечисляет все допустимые типы в каноническом порядке.
var ActionTypes = []ActionType{
	ActionNavigate,
	ActionOpenModal,
	ActionAPICall,
	ActionCreateEntity,
	ActionStartCall,
	ActionStartCampaign,
	ActionImportContacts,
	ActionAddKBSource,
	ActionCreateSpace,
	ActionCreateTask,
	ActionFixError,
}

func (t ActionType) IsValid() bool {
	for _, known := range ActionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity используется и в системных алертах, и в тостах.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Cta - сериализуемое описание действия. Это данные, а не ссылка на функцию,
// поэтому его можно хранить внутри ответа бэкенда и писать в лог.
type Cta struct {
	Label      string         `json:"label"`
	ActionType ActionType     `json:"actionType" validate:"required,max=64"`
	Payload    map[string]any `json:"payload"`
}

// PayloadString возвращает поле payload как строку. Числа приводятся к
// строке (taskId часто приходит числом), всё остальное даёт "".
func (c Cta) PayloadString(key string) string {
	switch v := c.Payload[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	}
	return ""
}
