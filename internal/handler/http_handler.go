package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Snomn123/Whatsapp-layout/internal/auth"
	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/repository"
	"github.com/Snomn123/Whatsapp-layout/internal/service"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
	"github.com/Snomn123/Whatsapp-layout/pkg/response"
	"github.com/Snomn123/Whatsapp-layout/pkg/storage"
)

// Handler serves the REST surface around the realtime core.
type Handler struct {
	users    service.UserService
	contacts service.ContactService
	chat     service.ChatService
	store    storage.Storage
	tokens   *auth.Manager
}

// NewHandler creates the HTTP handler.
func NewHandler(
	users service.UserService,
	contacts service.ContactService,
	chat service.ChatService,
	store storage.Storage,
	tokens *auth.Manager,
) *Handler {
	return &Handler{
		users:    users,
		contacts: contacts,
		chat:     chat,
		store:    store,
		tokens:   tokens,
	}
}

// RegisterRoutes registers all REST routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
		}

		protected := api.Group("")
		protected.Use(RequireAuth(h.tokens))
		{
			protected.GET("/users/me", h.GetMe)
			protected.GET("/contacts", h.ListContacts)
			protected.POST("/contacts", h.AddContact)
			protected.DELETE("/contacts/:id", h.RemoveContact)
			protected.GET("/messages", h.GetConversation)
			protected.POST("/upload", h.Upload)
		}
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
}

// loginRequest carries no length rules. The length policy applies at account
// creation only; a wrong short password on login still returns 401.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles account creation.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, result)
}

// Login handles authentication.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		log.Ctx(ctx).Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// GetMe returns the authenticated user's profile.
func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load user")
		return
	}
	response.Success(c, user)
}

// ListContacts returns contacts merged with live presence state.
func (h *Handler) ListContacts(c *gin.Context) {
	contacts, err := h.contacts.List(c.Request.Context(), UserID(c))
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to list contacts")
		response.InternalError(c, "failed to load contacts")
		return
	}
	if contacts == nil {
		contacts = []*domain.Contact{}
	}
	response.Success(c, contacts)
}

type addContactRequest struct {
	Username string `json:"username" binding:"required"`
}

// AddContact creates a contact edge toward another user.
func (h *Handler) AddContact(c *gin.Context) {
	ctx := c.Request.Context()

	var req addContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	contact, err := h.contacts.Add(ctx, UserID(c), req.Username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			response.NotFound(c, "user not found")
		case errors.Is(err, repository.ErrContactExists):
			response.Conflict(c, "contact already exists")
		case errors.Is(err, service.ErrSelfContact):
			response.BadRequest(c, "cannot add yourself")
		default:
			log.Ctx(ctx).Error().Err(err).Msg("failed to add contact")
			response.InternalError(c, "failed to add contact")
		}
		return
	}

	response.Created(c, contact)
}

// RemoveContact deletes the caller's edge toward the given user.
func (h *Handler) RemoveContact(c *gin.Context) {
	contactID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid contact id")
		return
	}

	if err := h.contacts.Remove(c.Request.Context(), UserID(c), uint(contactID)); err != nil {
		if errors.Is(err, repository.ErrContactNotFound) {
			response.NotFound(c, "contact not found")
			return
		}
		response.InternalError(c, "failed to remove contact")
		return
	}

	response.Success(c, gin.H{"removed": contactID})
}

// GetConversation returns the message history with a contact, oldest first.
func (h *Handler) GetConversation(c *gin.Context) {
	contactID, err := strconv.ParseUint(c.Query("contactId"), 10, 32)
	if err != nil {
		response.BadRequest(c, "contactId is required")
		return
	}

	messages, err := h.chat.History(c.Request.Context(), UserID(c), uint(contactID))
	if err != nil {
		log.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load conversation")
		response.InternalError(c, "failed to load messages")
		return
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	response.Success(c, messages)
}

// Upload stores a file or image attachment and returns its URL reference.
func (h *Handler) Upload(c *gin.Context) {
	ctx := c.Request.Context()

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "failed to read upload")
		return
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileHeader.Filename))

	if err := h.store.Write(ctx, key, src, fileHeader.Size, contentType); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to store upload")
		response.InternalError(c, "failed to store file")
		return
	}

	url, err := h.store.GetURL(ctx, key, 24*time.Hour)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("key", key).Msg("failed to resolve upload url")
		response.InternalError(c, "failed to resolve file url")
		return
	}

	kind := domain.KindFile
	if strings.HasPrefix(contentType, "image/") {
		kind = domain.KindImage
	}

	response.Success(c, gin.H{
		"url":  url,
		"name": fileHeader.Filename,
		"type": kind,
	})
}
