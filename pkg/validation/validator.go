package validation

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// CustomValidator - обертка для использования в Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate реализует интерфейс echo.Validator
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// Engine отдает настроенный go-playground валидатор для проверок вне Echo (парсер, клиент бэкенда).
func (cv *CustomValidator) Engine() *validator.Validate {
	return cv.validator
}

// New создает и настраивает валидатор
func New() *CustomValidator {
	v := validator.New()

	registerNullTypes(v)

	// Если правило не зарегистрировалось, паникуем, сервер не должен стартовать
	if err := registerRules(v); err != nil {
		panic("ошибка регистрации валидаторов: " + err.Error())
	}

	return &CustomValidator{validator: v}
}

var (
	sharedOnce sync.Once
	shared     *CustomValidator
)

// Shared возвращает общий экземпляр. validator.Validate кеширует метаданные
// структур и безопасен для конкурентного использования.
func Shared() *CustomValidator {
	sharedOnce.Do(func() {
		shared = New()
	})
	return shared
}
