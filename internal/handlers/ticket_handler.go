package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Micolomike/Xchange/internal/models"
	"github.com/Micolomike/Xchange/internal/services"
)

// TicketHandler handles ticket-related requests.
type TicketHandler struct {
	ticketService services.TicketServicer
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(ticketService services.TicketServicer) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// TicketRequest is the body of ticket create and update requests.
type TicketRequest struct {
	Title       string                `json:"title" binding:"required,max=200"`
	Description string                `json:"description" binding:"required,max=5000"`
	Priority    models.TicketPriority `json:"priority" binding:"required,ticket_priority" enums:"low,medium,high"`
	Category    string                `json:"category" binding:"max=50"`
	DueDate     string                `json:"due_date" binding:"omitempty,datetime=2006-01-02" example:"2030-01-31"`
}

func (r TicketRequest) input() services.TicketInput {
	return services.TicketInput{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Category:    r.Category,
		DueDate:     r.DueDate,
	}
}

// ListTickets returns every ticket
// @Summary     List tickets
// @Description List all tickets, newest first
// @Tags        tickets
// @Produce     json
// @Success     200 {array}  models.Ticket "Tickets"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	tickets, err := h.ticketService.ListTickets()
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, tickets)
}

// GetTicket returns a single ticket
// @Summary     Get a ticket
// @Tags        tickets
// @Produce     json
// @Param       id path int true "Ticket ID"
// @Success     200 {object} models.Ticket "Ticket"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Ticket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tickets/{id} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	ticket, err := h.ticketService.GetTicket(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

// CreateTicket creates a ticket
// @Summary     Create a ticket
// @Tags        tickets
// @Accept      json
// @Produce     json
// @Param       request body TicketRequest true "Ticket"
// @Success     201 {object} IDResponse "Ticket created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req TicketRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	ticket, err := h.ticketService.CreateTicket(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, IDResponse{ID: ticket.ID})
}

// UpdateTicket overwrites a ticket
// @Summary     Update a ticket
// @Description Replace every writable field of a ticket. created_at is kept.
// @Tags        tickets
// @Accept      json
// @Produce     json
// @Param       id      path int           true "Ticket ID"
// @Param       request body TicketRequest true "Ticket"
// @Success     200 {object} SuccessResponse "Ticket updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Ticket not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /tickets/{id} [put]
func (h *TicketHandler) UpdateTicket(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TicketRequest
	if err := bindJSON(c, &req); err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.ticketService.UpdateTicket(id, req.input()); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}

// DeleteTicket deletes a ticket and records it in the deletion log
// @Summary     Delete a ticket
// @Description Delete a ticket. The deletion is recorded in the deletion log; if that fails the ticket is kept.
// @Tags        tickets
// @Produce     json
// @Param       id path int true "Ticket ID"
// @Success     200 {object} SuccessResponse "Ticket deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Ticket not found"
// @Failure     500 {object} ErrorResponse "Deletion log unavailable"
// @Router      /tickets/{id} [delete]
func (h *TicketHandler) DeleteTicket(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.ticketService.DeleteTicket(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}
