package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventmgt/internal/auth"
	"eventmgt/internal/domain"
	"eventmgt/internal/repository"
	"eventmgt/internal/service"
)

// cookieName is the cookie that carries the session token on protected
// routes.
const cookieName = "token"

// ctxUserID is the gin context key holding the authenticated user id.
const ctxUserID = "userID"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	events   service.EventService
	bookings service.BookingService
	tokens   *auth.Manager
}

func NewHandler(users service.UserService, events service.EventService, bookings service.BookingService, tokens *auth.Manager) *Handler {
	return &Handler{
		users:    users,
		events:   events,
		bookings: bookings,
		tokens:   tokens,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})

	router.POST("/signup", h.signup)
	router.POST("/login", h.login)
	router.GET("/events", h.listUpcomingEvents)

	router.POST("/events", h.requireRole(domain.RoleOrganizer), h.createEvent)
	router.GET("/eventsbyid", h.requireRole(domain.RoleOrganizer), h.listOrganizerEvents)
	router.GET("/organizer/booked-events", h.requireRole(domain.RoleOrganizer), h.listOrganizerBookings)

	router.POST("/events/:eventId/book", h.requireRole(domain.RoleUser), h.bookEvent)
	router.GET("/user/events", h.requireRole(domain.RoleUser), h.listUserEvents)
}

// requireRole authenticates the token cookie, resolves the subject
// against the user store and enforces the given role. The resolved user
// id is attached to the request context for the handler.
func (h *Handler) requireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(cookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "access denied, no token provided"})
			return
		}

		claims, err := h.tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		user, err := h.users.GetByID(c.Request.Context(), claims.Subject)
		if err != nil {
			// the subject vanished since issuance; same response as a bad token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "forbidden: " + string(role) + " role required"})
			return
		}

		c.Set(ctxUserID, user.ID)
		c.Next()
	}
}

func userID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

type signupRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "all fields are required"})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password, domain.Role(req.Role))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserAlreadyExists):
			c.JSON(http.StatusBadRequest, gin.H{"message": "email or username already in use"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    userToResponse(user),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid credentials"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to issue token"})
		return
	}

	c.SetCookie(cookieName, token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"user":    userToResponse(user),
		"role":    user.Role,
	})
}

type createEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time"`
}

func (h *Handler) createEvent(c *gin.Context) {
	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and date are required"})
		return
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid date format (use RFC3339 or YYYY-MM-DD)"})
		return
	}

	event, err := h.events.Create(c.Request.Context(), userID(c), req.Title, req.Description, date, req.Time)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrganizerNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "organizer not found"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to create event"})
		}
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

func (h *Handler) listUpcomingEvents(c *gin.Context) {
	events, err := h.events.ListUpcoming(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, eventsToResponse(events))
}

func (h *Handler) listOrganizerEvents(c *gin.Context) {
	events, err := h.events.ListByOrganizer(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch events"})
		return
	}
	c.JSON(http.StatusOK, eventsToResponse(events))
}

func (h *Handler) bookEvent(c *gin.Context) {
	eventID := c.Param("eventId")

	code, err := h.bookings.Book(c.Request.Context(), userID(c), eventID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		case errors.Is(err, repository.ErrDuplicateBooking):
			c.JSON(http.StatusBadRequest, gin.H{"message": "You have already booked this event"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to book event"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Event booked successfully",
		"registrationCode": code,
	})
}

func (h *Handler) listUserEvents(c *gin.Context) {
	uid := userID(c)
	events, err := h.events.ListBookedByUser(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch booked events"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId": uid,
		"events": eventsToResponse(events),
	})
}

func (h *Handler) listOrganizerBookings(c *gin.Context) {
	bookings, err := h.events.BookingsByOrganizer(c.Request.Context(), userID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to fetch booked events"})
		return
	}

	resp := make([]EventBookingsResponse, len(bookings))
	for i, b := range bookings {
		users := b.BookedUsers
		if users == nil {
			users = []string{}
		}
		resp[i] = EventBookingsResponse{
			EventID:     b.EventID,
			EventTitle:  b.Title,
			BookedUsers: users,
		}
	}
	c.JSON(http.StatusOK, resp)
}

func parseEventDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}

type UserResponse struct {
	ID       string      `json:"id"`
	Username string      `json:"username"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

type EventResponse struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Date          string `json:"date"`
	Time          string `json:"time,omitempty"`
	Organizer     string `json:"organizer"`
	OrganizerName string `json:"organizerName,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type EventBookingsResponse struct {
	EventID     string   `json:"eventId"`
	EventTitle  string   `json:"eventTitle"`
	BookedUsers []string `json:"bookedUsers"`
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}

func eventToResponse(event domain.Event) EventResponse {
	return EventResponse{
		ID:            event.ID,
		Title:         event.Title,
		Description:   event.Description,
		Date:          event.Date.Format(time.RFC3339),
		Time:          event.StartTime,
		Organizer:     event.OrganizerID,
		OrganizerName: event.OrganizerName,
		CreatedAt:     event.CreatedAt.Format(time.RFC3339),
	}
}

func eventsToResponse(events []domain.Event) []EventResponse {
	resp := make([]EventResponse, len(events))
	for i := range events {
		resp[i] = eventToResponse(events[i])
	}
	return resp
}
