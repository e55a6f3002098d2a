package handoff

import (
	"github.com/capitalize-ai/travel-concierge/internal/intent"
	"github.com/capitalize-ai/travel-concierge/internal/model"
)

// Router resolves teams and personas from its Tables. It never mutates the
// tables after construction and is safe for concurrent use.
type Router struct {
	tables Tables
	rank   map[model.TeamType]int
}

// NewRouter creates a router over t. Teams missing from t.Precedence rank
// after every listed team.
func NewRouter(t Tables) *Router {
	r := &Router{
		tables: t,
		rank:   make(map[model.TeamType]int, len(t.Precedence)),
	}
	for i, team := range t.Precedence {
		if _, dup := r.rank[team]; !dup {
			r.rank[team] = i
		}
	}
	return r
}

var defaultRouter = NewRouter(DefaultTables())

// ConsultantInfo returns the persona for team using the default tables.
func ConsultantInfo(team model.TeamType) Consultant {
	return defaultRouter.ConsultantInfo(team)
}

// TeamFor resolves topics to a team using the default tables.
func TeamFor(topics []intent.Topic) model.TeamType {
	return defaultRouter.Team(topics)
}

// ConsultantInfo returns the persona for team. Unknown teams resolve to the
// customer-service persona.
func (r *Router) ConsultantInfo(team model.TeamType) Consultant {
	if c, ok := r.tables.Consultants[team]; ok {
		return c
	}
	return r.tables.Consultants[model.TeamCustomerService]
}

// Team maps topics to the single team that should own the turn. Topics
// without a mapping fall back to customer-service.
func (r *Router) Team(topics []intent.Topic) model.TeamType {
	best := model.TeamNone
	for _, topic := range topics {
		team, ok := r.tables.TopicTeams[topic]
		if !ok {
			continue
		}
		if best == model.TeamNone || r.rankOf(team) < r.rankOf(best) {
			best = team
		}
	}
	if best == model.TeamNone {
		return model.TeamCustomerService
	}
	return best
}

func (r *Router) rankOf(team model.TeamType) int {
	if i, ok := r.rank[team]; ok {
		return i
	}
	return len(r.rank)
}

// NeedsHandoff reports whether moving from previous to next requires a
// transfer. An empty previous team means no specialist has been engaged yet
// and always requires one.
func NeedsHandoff(previous, next model.TeamType) bool {
	if previous == model.TeamNone {
		return true
	}
	return model.ParseTeam(string(next)) != model.ParseTeam(string(previous))
}

// PreviousConsultantTeam returns the team of the most recent assistant
// message that names a consultant, or TeamNone.
func PreviousConsultantTeam(history []model.ConversationMessage) model.TeamType {
	for i := len(history) - 1; i >= 0; i-- {
		if c := history[i].Consultant; c != nil && c.Team != model.TeamNone {
			return c.Team
		}
	}
	return model.TeamNone
}
