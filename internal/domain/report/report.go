package report

import (
	"sort"
	"time"

	"github.com/linskybing/csdesk/internal/domain/ticket"
	"github.com/linskybing/csdesk/internal/domain/user"
)

const msPerHour = 1000 * 60 * 60

type AgentPerformance struct {
	AgentID               uint    `json:"agent_id"`
	AgentName             string  `json:"agent_name"`
	TicketsResolved       int     `json:"tickets_resolved"`
	AverageResolutionTime float64 `json:"average_resolution_time"`
}

type DailyTrend struct {
	Date            string `json:"date"`
	NewTickets      int    `json:"new_tickets"`
	ResolvedTickets int    `json:"resolved_tickets"`
}

type Report struct {
	Trends            []DailyTrend       `json:"trends"`
	Agents            []AgentPerformance `json:"agents"`
	TotalTickets      int                `json:"total_tickets"`
	UnresolvedTickets int                `json:"unresolved_tickets"`
	GeneratedAt       time.Time          `json:"generated_at"`
}

// ResolutionHours is updated_at minus created_at expressed in hours.
func ResolutionHours(t ticket.Ticket) float64 {
	return float64(t.UpdatedAt.Sub(t.CreatedAt).Milliseconds()) / msPerHour
}

// AgentMetrics computes the resolved count and mean resolution time of every
// agent. Agents without resolved tickets report an average of 0.
func AgentMetrics(tickets []ticket.Ticket, agents []user.User) []AgentPerformance {
	out := make([]AgentPerformance, 0, len(agents))
	for _, a := range agents {
		var count int
		var total float64
		for _, t := range tickets {
			if t.AssignedAgentID == nil || *t.AssignedAgentID != a.ID || t.Status != ticket.StatusResolved {
				continue
			}
			count++
			total += ResolutionHours(t)
		}
		avg := 0.0
		if count > 0 {
			avg = total / float64(count)
		}
		out = append(out, AgentPerformance{
			AgentID:               a.ID,
			AgentName:             a.Name,
			TicketsResolved:       count,
			AverageResolutionTime: avg,
		})
	}
	return out
}

// DailyTrends groups tickets by the UTC calendar date of created_at, ascending.
// A resolved ticket counts as resolved on the day it was created.
func DailyTrends(tickets []ticket.Ticket) []DailyTrend {
	byDate := make(map[string]*DailyTrend)
	for _, t := range tickets {
		date := t.CreatedAt.UTC().Format(time.DateOnly)
		d, ok := byDate[date]
		if !ok {
			d = &DailyTrend{Date: date}
			byDate[date] = d
		}
		d.NewTickets++
		if t.Status == ticket.StatusResolved {
			d.ResolvedTickets++
		}
	}

	out := make([]DailyTrend, 0, len(byDate))
	for _, d := range byDate {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func Unresolved(tickets []ticket.Ticket) int {
	n := 0
	for _, t := range tickets {
		if t.Status != ticket.StatusResolved {
			n++
		}
	}
	return n
}

func Build(tickets []ticket.Ticket, agents []user.User, now time.Time) Report {
	return Report{
		Trends:            DailyTrends(tickets),
		Agents:            AgentMetrics(tickets, agents),
		TotalTickets:      len(tickets),
		UnresolvedTickets: Unresolved(tickets),
		GeneratedAt:       now,
	}
}
