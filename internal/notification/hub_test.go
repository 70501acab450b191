package notification_test

import (
	"testing"
	"time"

	"go-hris-workflow/internal/authz"
	"go-hris-workflow/internal/domain"
	"go-hris-workflow/internal/events"
	"go-hris-workflow/internal/notification"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	ID                 string                         `json:"id"`
	RequesterID        string                         `json:"requesterId"`
	TeamID             string                         `json:"teamId"`
	RequiredApprovers  []domain.ApproverRole          `json:"requiredApprovers"`
	ApproverAssignment map[domain.ApproverRole]string `json:"approverAssignment"`
}

var (
	requester = authz.Identity{ID: "emp-1", Name: "Eka", Role: domain.RoleUser, TeamID: "team-a"}
	bystander = authz.Identity{ID: "emp-2", Name: "Budi", Role: domain.RoleUser, TeamID: "team-a"}
	leadA     = authz.Identity{ID: "tl-a", Name: "Tia", Role: domain.RoleTeamLead, TeamID: "team-a"}
	leadB     = authz.Identity{ID: "tl-b", Name: "Toni", Role: domain.RoleTeamLead, TeamID: "team-b"}
	hr        = authz.Identity{ID: "hr-1", Name: "Hana", Role: domain.RoleHR}
	admin     = authz.Identity{ID: "adm-1", Name: "Adi", Role: domain.RoleAdmin}
)

func newHub(t *testing.T, buffer int) *notification.Hub {
	t.Helper()
	gate, err := authz.NewGate(zap.NewNop())
	require.NoError(t, err)
	return notification.NewHub(gate, buffer, zap.NewNop())
}

func createdEvent(t *testing.T, p payload) events.RequestCreatedEvent {
	t.Helper()
	ev, err := events.NewRequestCreated(p.ID, p, time.Now())
	require.NoError(t, err)
	return ev
}

func TestHub_PublishScopesRecipients(t *testing.T) {
	hub := newHub(t, 4)

	subs := map[string]*notification.Subscriber{}
	for _, id := range []authz.Identity{requester, bystander, leadA, leadB, hr, admin} {
		subs[id.ID] = hub.Subscribe(id)
	}
	assert.Equal(t, 6, hub.Len())

	ev := createdEvent(t, payload{
		ID:                "req-1",
		RequesterID:       requester.ID,
		TeamID:            "team-a",
		RequiredApprovers: []domain.ApproverRole{domain.ApproverTeamLead},
		ApproverAssignment: map[domain.ApproverRole]string{
			domain.ApproverTeamLead: "Tia",
		},
	})

	n, err := hub.Publish(ev)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for id, want := range map[string]bool{
		requester.ID: true,
		bystander.ID: false,
		leadA.ID:     true,
		leadB.ID:     false,
		hr.ID:        true,
		admin.ID:     true,
	} {
		select {
		case msg := <-subs[id].Messages:
			assert.True(t, want, "%s should not receive", id)
			assert.Equal(t, events.RequestCreatedType, msg.Event)
			assert.Equal(t, "req-1", msg.RequestID)
		default:
			assert.False(t, want, "%s should receive", id)
		}
	}
}

func TestHub_UnassignedLeadElsewhereIsEligible(t *testing.T) {
	hub := newHub(t, 1)
	sub := hub.Subscribe(leadB)

	n, err := hub.Publish(createdEvent(t, payload{
		ID:                "req-2",
		RequesterID:       requester.ID,
		TeamID:            "team-a",
		RequiredApprovers: []domain.ApproverRole{domain.ApproverTeamLead},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, sub.Messages, 1)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := newHub(t, 1)
	sub := hub.Subscribe(hr)

	ev := createdEvent(t, payload{ID: "req-3", RequesterID: "emp-1"})
	n, err := hub.Publish(ev)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = hub.Publish(ev)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, sub.Messages, 1)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := newHub(t, 1)
	sub := hub.Subscribe(hr)
	hub.Unsubscribe(sub.ID)
	hub.Unsubscribe(sub.ID)

	_, open := <-sub.Messages
	assert.False(t, open)
	assert.Zero(t, hub.Len())
}

func TestHub_PublishBadPayload(t *testing.T) {
	hub := newHub(t, 1)
	_, err := hub.Publish(events.RequestCreatedEvent{Type: events.RequestCreatedType, Payload: []byte("[")})
	assert.Error(t, err)
}

func TestHub_Close(t *testing.T) {
	hub := newHub(t, 1)
	a := hub.Subscribe(hr)
	b := hub.Subscribe(admin)

	hub.Close()
	hub.Unsubscribe(a.ID)

	_, openA := <-a.Messages
	_, openB := <-b.Messages
	assert.False(t, openA)
	assert.False(t, openB)
	assert.Zero(t, hub.Len())
}
