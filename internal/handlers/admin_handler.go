package handlers

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Micolomike/Xchange/internal/errors"
	"github.com/Micolomike/Xchange/internal/pagination"
	"github.com/Micolomike/Xchange/internal/services"
)

// AdminHandler serves the generic admin table screens.
type AdminHandler struct {
	adminService services.AdminServicer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService services.AdminServicer) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// TablesResponse lists the tables exposed to the admin screens.
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// table returns the :table path parameter if the gateway exposes it.
func (h *AdminHandler) table(c *gin.Context) (string, error) {
	name := c.Param("table")
	if !slices.Contains(h.adminService.Tables(), name) {
		return "", apperrors.ErrForbiddenTable
	}
	return name, nil
}

// ListTables returns the tables the admin screens may open
// @Summary     List admin tables
// @Tags        admin
// @Produce     json
// @Success     200 {object} TablesResponse "Tables"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Router      /admin/tables [get]
func (h *AdminHandler) ListTables(c *gin.Context) {
	c.JSON(http.StatusOK, TablesResponse{Tables: h.adminService.Tables()})
}

// DescribeTable returns the columns and rows of a table
// @Summary     Describe a table
// @Description Columns, column schema and rows of an allowed table. Passing page or page_size paginates the rows.
// @Tags        admin
// @Produce     json
// @Param       table     path  string true  "Table name" Enums(tickets, users)
// @Param       page      query int    false "Page number"
// @Param       page_size query int    false "Rows per page (max 500)"
// @Success     200 {object} services.TableData "Table content"
// @Failure     400 {object} ErrorResponse "Invalid pagination"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Failure     403 {object} ErrorResponse "Table not allowed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/table/{table} [get]
func (h *AdminHandler) DescribeTable(c *gin.Context) {
	table, err := h.table(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := h.adminService.DescribeTable(table, &page)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// UpdateRow edits columns of one row
// @Summary     Update a row
// @Description Set the given columns of a row. Only editable columns of the table schema are accepted.
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       table   path string                 true "Table name" Enums(tickets, users)
// @Param       id      path int                    true "Row ID"
// @Param       request body map[string]interface{} true "Column values"
// @Success     200 {object} SuccessResponse "Row updated"
// @Failure     400 {object} ErrorResponse "Empty update, unknown column or invalid value"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Failure     403 {object} ErrorResponse "Table not allowed"
// @Failure     409 {object} ErrorResponse "Username taken"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/table/{table}/{id} [put]
func (h *AdminHandler) UpdateRow(c *gin.Context) {
	table, err := h.table(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var fields map[string]interface{}
	if err := bindJSON(c, &fields); err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.UpdateRow(table, id, fields); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}

// DeleteRow deletes one row
// @Summary     Delete a row
// @Description Delete a row by id. Tickets deleted here are not recorded in the deletion log.
// @Tags        admin
// @Produce     json
// @Param       table path string true "Table name" Enums(tickets, users)
// @Param       id    path int    true "Row ID"
// @Success     200 {object} SuccessResponse "Row deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Invalid admin key"
// @Failure     403 {object} ErrorResponse "Table not allowed"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /admin/table/{table}/{id} [delete]
func (h *AdminHandler) DeleteRow(c *gin.Context) {
	table, err := h.table(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.adminService.DeleteRow(table, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK)
}
