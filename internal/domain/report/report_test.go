package report

import (
	"math"
	"testing"
	"time"

	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uptr(v uint) *uint { return &v }

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func mk(agent *uint, status ticket.Status, created time.Time, took time.Duration) ticket.Ticket {
	return ticket.Ticket{
		AssignedAgentID: agent,
		Status:          status,
		CreatedAt:       created,
		UpdatedAt:       created.Add(took),
	}
}

func TestAgentMetrics_AverageIsArithmeticMeanInHours(t *testing.T) {
	agents := []user.User{{ID: 1, Name: "Ann"}, {ID: 2, Name: "Bob"}}
	tickets := []ticket.Ticket{
		mk(uptr(1), ticket.StatusResolved, base, 2*time.Hour),
		mk(uptr(1), ticket.StatusResolved, base, 3*time.Hour+30*time.Minute),
		mk(uptr(1), ticket.StatusResolved, base, 90*time.Minute),
		mk(uptr(1), ticket.StatusOpen, base, 100*time.Hour),
		mk(uptr(2), ticket.StatusInProgress, base, time.Hour),
		mk(nil, ticket.StatusResolved, base, time.Hour),
	}

	got := AgentMetrics(tickets, agents)
	require.Len(t, got, 2)

	assert.Equal(t, "Ann", got[0].AgentName)
	assert.Equal(t, 3, got[0].TicketsResolved)
	assert.InDelta(t, (2.0+3.5+1.5)/3, got[0].AverageResolutionTime, 1e-9)

	assert.Equal(t, 0, got[1].TicketsResolved)
	assert.Equal(t, 0.0, got[1].AverageResolutionTime)
	assert.False(t, math.IsNaN(got[1].AverageResolutionTime))
}

func TestAgentMetrics_NoAgents(t *testing.T) {
	assert.Empty(t, AgentMetrics([]ticket.Ticket{mk(uptr(1), ticket.StatusResolved, base, time.Hour)}, nil))
}

func TestDailyTrends_GroupsByUTCDateAscending(t *testing.T) {
	east := time.FixedZone("UTC+9", 9*3600)
	tickets := []ticket.Ticket{
		mk(nil, ticket.StatusResolved, base.AddDate(0, 0, 1), time.Hour),
		mk(nil, ticket.StatusOpen, base, time.Hour),
		mk(nil, ticket.StatusResolved, base, time.Hour),
		// 2025-03-02 02:00 in UTC+9 is still 2025-03-01 in UTC.
		mk(nil, ticket.StatusOpen, time.Date(2025, 3, 2, 2, 0, 0, 0, east), time.Hour),
	}

	got := DailyTrends(tickets)
	require.Len(t, got, 2)
	assert.Equal(t, DailyTrend{Date: "2025-03-01", NewTickets: 3, ResolvedTickets: 1}, got[0])
	assert.Equal(t, DailyTrend{Date: "2025-03-02", NewTickets: 1, ResolvedTickets: 1}, got[1])
}

func TestBuild(t *testing.T) {
	tickets := []ticket.Ticket{
		mk(uptr(1), ticket.StatusResolved, base, time.Hour),
		mk(uptr(1), ticket.StatusOpen, base, time.Hour),
		mk(nil, ticket.StatusClosed, base, time.Hour),
	}
	r := Build(tickets, []user.User{{ID: 1, Name: "Ann"}}, base)
	assert.Equal(t, 3, r.TotalTickets)
	assert.Equal(t, 2, r.UnresolvedTickets)
	assert.Len(t, r.Trends, 1)
	assert.Equal(t, base, r.GeneratedAt)
}
