package api

import (
	"errors"
	"fitnote/planner/internal/domain"
	"fitnote/planner/internal/service"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// --- Request/Response Structs ---

type SignInRequest struct {
	Passphrase string `json:"passphrase"`
}

type SessionResponse struct {
	UserID     string    `json:"userId"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	SignedInAt time.Time `json:"signedInAt"`
}

type SignInResponse struct {
	Token   string          `json:"token"`
	Session SessionResponse `json:"session"`
}

// MapSessionToResponse converts a domain Session to its DTO.
func MapSessionToResponse(s *domain.Session) SessionResponse {
	if s == nil {
		return SessionResponse{}
	}
	return SessionResponse{
		UserID:     s.UserID,
		Email:      s.Email,
		Name:       s.Name,
		SignedInAt: s.SignedInAt,
	}
}

// SignIn godoc
// @Summary Sign in the local user
// @Description Test-mode sign-in. Succeeds for the configured user unless a passphrase is configured.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body SignInRequest false "Optional passphrase"
// @Success 200 {object} SignInResponse
// @Failure 401 {object} gin.H "Wrong passphrase"
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	// An empty body is a valid test-mode sign-in.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
			return
		}
	}

	token, session, err := h.authService.SignIn(c.Request.Context(), req.Passphrase)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			log.Printf("ERROR: Sign-in failed: %v", err)
			abortWithError(c, http.StatusInternalServerError, "Could not process sign-in")
		}
		return
	}

	c.JSON(http.StatusOK, SignInResponse{Token: token, Session: MapSessionToResponse(session)})
}

// GetSession godoc
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} SessionResponse
// @Failure 404 {object} gin.H "Not signed in"
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(c *gin.Context) {
	session, err := h.authService.CurrentSession(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoSession) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not read session")
		}
		return
	}
	c.JSON(http.StatusOK, MapSessionToResponse(session))
}

// SignOut godoc
// @Summary Sign out
// @Tags Auth
// @Success 204
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.authService.SignOut(c.Request.Context()); err != nil {
		log.Printf("ERROR: Sign-out failed: %v", err)
		abortWithError(c, http.StatusInternalServerError, "Could not sign out")
		return
	}
	c.Status(http.StatusNoContent)
}
