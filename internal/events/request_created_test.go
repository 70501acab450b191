package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCreatedEvent(t *testing.T) {
	body := map[string]any{
		"id":                 "req-1",
		"requesterId":        "emp-1",
		"teamId":             "team-a",
		"requiredApprovers":  []string{"teamLead", "hr"},
		"approverAssignment": map[string]string{"teamLead": "Tia Lead"},
		"status":             "pending",
	}
	at := time.Date(2026, 3, 1, 8, 0, 0, 0, time.FixedZone("WIB", 7*3600))

	ev, err := events.NewRequestCreated("req-1", body, at)
	require.NoError(t, err)
	assert.Equal(t, events.RequestCreatedType, ev.Type)
	assert.Equal(t, time.UTC, ev.OccurredAt.Location())

	scope, err := ev.Scope()
	require.NoError(t, err)
	assert.Equal(t, "emp-1", scope.RequesterID)
	assert.Equal(t, "team-a", scope.TeamID)
	assert.True(t, scope.Requires(domain.ApproverHR))
	assert.Equal(t, "Tia Lead", scope.ApproverAssignment.Named(domain.ApproverTeamLead))

	raw, err := json.Marshal(ev)
	require.NoError(t, err)
	var wire events.RequestCreatedEvent
	require.NoError(t, json.Unmarshal(raw, &wire))
	assert.Equal(t, "", wire.RequestID)
	assert.Equal(t, "req-1", wire.AggregateID())
}
