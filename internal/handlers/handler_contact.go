package handlers

import (
	"log/slog"
	"net/http"

	"github.com/medrar/medrar_books_app/internal/core/domain"
	portssvc "github.com/medrar/medrar_books_app/internal/core/ports/services"
	"github.com/medrar/medrar_books_app/internal/dto"
	"github.com/medrar/medrar_books_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// contactHandler handles HTTP requests for one contact collection. The same
// handler serves /customers and /suppliers; only the bound kind differs.
type contactHandler struct {
	contactService portssvc.ContactSvcFacade
	kind           domain.ContactKind
}

// newContactHandler creates a contactHandler bound to one kind.
func newContactHandler(cs portssvc.ContactSvcFacade, kind domain.ContactKind) *contactHandler {
	return &contactHandler{contactService: cs, kind: kind}
}

// registerContactRoutes registers the customer and supplier route groups.
func registerContactRoutes(rg *gin.RouterGroup, contactService portssvc.ContactSvcFacade) {
	for path, kind := range map[string]domain.ContactKind{
		"/customers": domain.Customer,
		"/suppliers": domain.Supplier,
	} {
		h := newContactHandler(contactService, kind)
		contacts := rg.Group(path)
		{
			contacts.POST("", h.createContact)
			contacts.GET("", h.listContacts)
			contacts.GET("/:id", h.getContactByID)
			contacts.PUT("/:id", h.updateContact)
			contacts.DELETE("/:id", h.deleteContact)
		}
	}
}

func (h *contactHandler) createContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), h.kind, req)
	if err != nil {
		handleServiceError(c, err, "Failed to create contact")
		return
	}
	c.JSON(http.StatusCreated, dto.ToContactResponse(contact))
}

func (h *contactHandler) listContacts(c *gin.Context) {
	contacts, err := h.contactService.ListContacts(c.Request.Context(), h.kind, c.Query("q"))
	if err != nil {
		handleServiceError(c, err, "Failed to list contacts")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponses(contacts))
}

func (h *contactHandler) getContactByID(c *gin.Context) {
	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.GetContactByID(c.Request.Context(), h.kind, contactID)
	if err != nil {
		handleServiceError(c, err, "Failed to retrieve contact")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

func (h *contactHandler) updateContact(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateContact", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), h.kind, contactID, req)
	if err != nil {
		handleServiceError(c, err, "Failed to update contact")
		return
	}
	c.JSON(http.StatusOK, dto.ToContactResponse(contact))
}

func (h *contactHandler) deleteContact(c *gin.Context) {
	contactID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), h.kind, contactID); err != nil {
		handleServiceError(c, err, "Failed to delete contact")
		return
	}
	c.Status(http.StatusNoContent)
}
