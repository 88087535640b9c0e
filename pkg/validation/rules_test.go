package validation

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionTypeRule(t *testing.T) {
	v := New().Engine()

	assert.NoError(t, v.Var("CREATE_TASK", RuleActionType))
	assert.NoError(t, v.Var("FIX_ERROR", RuleActionType))
	assert.Error(t, v.Var("create_task", RuleActionType))
	assert.Error(t, v.Var("", RuleActionType))
}

func TestSeverityRule(t *testing.T) {
	v := New().Engine()

	for _, s := range []string{"error", "warning", "info", "success"} {
		assert.NoError(t, v.Var(s, RuleSeverity), s)
	}
	assert.Error(t, v.Var("critical", RuleSeverity))
}

func TestAPIEndpointRule(t *testing.T) {
	v := New().Engine()

	cases := map[string]bool{
		"/api/tasks":                  true,
		"/api/tasks/42?expand=owner":  true,
		"/api/chat/sessions":          true,
		"https://evil.example/api/x":  false,
		"//evil.example/api/x":        false,
		"/api/../admin":               false,
		"/app/settings":               false,
		"api/tasks":                   false,
		"/api/tasks\\..\\x":           false,
		"/api/tasks with space":       false,
		"/api/redirect?to=http://x.y": false,
	}
	for endpoint, valid := range cases {
		err := v.Var(endpoint, RuleAPIEndpoint)
		if valid {
			assert.NoError(t, err, endpoint)
		} else {
			assert.Error(t, err, endpoint)
		}
	}
}

func TestOneOfRules(t *testing.T) {
	v := New().Engine()

	assert.NoError(t, v.Var("urgent", RulePriority))
	assert.Error(t, v.Var("critical", RulePriority))
	assert.NoError(t, v.Var("eliminate", RuleQuadrant))
	assert.Error(t, v.Var("later", RuleQuadrant))
	assert.NoError(t, v.Var("setup", RuleActionSource))
	assert.NoError(t, v.Var("knowledge", RuleActivityType))
	assert.Error(t, v.Var("happy", RuleSentiment))
}

func TestNullTypesAreUnwrapped(t *testing.T) {
	type filter struct {
		ActionType null.String `validate:"omitempty,action_type"`
		Success    null.Bool   `validate:"omitempty"`
	}
	v := New()

	require.NoError(t, v.Validate(filter{}))
	require.NoError(t, v.Validate(filter{ActionType: null.StringFrom("NAVIGATE"), Success: null.BoolFrom(true)}))
	assert.Error(t, v.Validate(filter{ActionType: null.StringFrom("TELEPORT")}))
}

func TestSharedIsSingleton(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}
