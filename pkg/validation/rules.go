package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"aras-dashboard/pkg/types"
)

// Имена правил, которые используются в тегах и в validate.Var.
const (
	RuleActionType   = "action_type"
	RuleSeverity     = "severity"
	RuleAPIEndpoint  = "api_endpoint"
	RulePriority     = "oneof=low medium high urgent"
	RuleSentiment    = "oneof=positive neutral negative"
	RuleActivityType = "oneof=call campaign contact task space knowledge system"
	RuleQuadrant     = "oneof=do schedule delegate eliminate"
	RuleActionSource = "oneof=dynamic setup"
)

// registerRules регистрирует теги, которые мы используем в struct tags
func registerRules(v *validator.Validate) error {
	if err := v.RegisterValidation(RuleActionType, isKnownActionType); err != nil {
		return err
	}
	if err := v.RegisterValidation(RuleSeverity, isSeverity); err != nil {
		return err
	}
	if err := v.RegisterValidation(RuleAPIEndpoint, isSameOriginAPIEndpoint); err != nil {
		return err
	}
	return nil
}

// isKnownActionType - значение входит в закрытый словарь ActionType
func isKnownActionType(fl validator.FieldLevel) bool {
	return types.ActionType(fl.Field().String()).IsValid()
}

func isSeverity(fl validator.FieldLevel) bool {
	switch types.Severity(fl.Field().String()) {
	case types.SeverityError, types.SeverityWarning, types.SeverityInfo, types.SeveritySuccess:
		return true
	}
	return false
}

// isSameOriginAPIEndpoint - только относительные пути вида /api/...,
// без схемы, хоста и выхода наверх через "..".
func isSameOriginAPIEndpoint(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !strings.HasPrefix(s, "/api/") {
		return false
	}
	if strings.Contains(s, "://") || strings.HasPrefix(s, "//") || strings.Contains(s, "..") {
		return false
	}
	return !strings.ContainsAny(s, " \t\r\n\\")
}
