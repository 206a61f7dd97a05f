package ticket

type CreateTicketDTO struct {
	Title           string   `form:"title" json:"title" binding:"required,max=200"`
	Description     string   `form:"description" json:"description"`
	Priority        Priority `form:"priority" json:"priority" binding:"omitempty,oneof=Low Medium High Urgent"`
	Category        string   `form:"category" json:"category" binding:"max=50"`
	AssignedAgentID *uint    `form:"assigned_agent_id" json:"assigned_agent_id"`
}

type UpdateStatusDTO struct {
	Status Status `form:"status" json:"status" binding:"required"`
}

type AssignDTO struct {
	// Nil unassigns the ticket.
	AgentID *uint `form:"agent_id" json:"agent_id"`
}

type CreateCommentDTO struct {
	Comment    string `form:"comment" json:"comment" binding:"required"`
	IsInternal bool   `form:"is_internal" json:"is_internal"`
}

type TicketListItem struct {
	ID           uint     `json:"id"`
	Title        string   `json:"title"`
	Status       Status   `json:"status"`
	Priority     Priority `json:"priority"`
	Category     string   `json:"category"`
	AssigneeName string   `json:"assigned_to"`
	CreatedAt    string   `json:"created_at"`
}

func ToListItem(t Ticket) TicketListItem {
	return TicketListItem{
		ID:           t.ID,
		Title:        t.Title,
		Status:       t.Status,
		Priority:     t.Priority,
		Category:     t.Category,
		AssigneeName: t.AssigneeName(),
		CreatedAt:    t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	}
}
