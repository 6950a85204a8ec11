package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nursultan-qb/docvault/internal/config"
	"github.com/nursultan-qb/docvault/internal/models"
	"github.com/nursultan-qb/docvault/internal/services"
	jwtutil "github.com/nursultan-qb/docvault/pkg/jwt"
	"github.com/nursultan-qb/docvault/pkg/middleware"
	log "github.com/sirupsen/logrus"
)

// UserHandler handles HTTP requests related to user accounts.
type UserHandler struct {
	Service *services.UserService
	Config  *config.Config
}

// NewUserHandler creates a new instance of UserHandler.
func NewUserHandler(service *services.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{
		Service: service,
		Config:  cfg,
	}
}

// RegisterUserHandler handles account registration.
func (h *UserHandler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.WithError(err).Warn("Failed to decode registration request")
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	user := &models.User{
		Username:       payload.Username,
		Email:          payload.Email,
		HashedPassword: payload.Password,
		Role:           models.Role(payload.Role),
	}

	created, err := h.Service.RegisterUser(r.Context(), user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.WithField("user_id", created.ID.Hex()).Info("User registered")
	respondSuccess(w, http.StatusCreated, created.Public())
}

// LoginUserHandler authenticates a user and issues a JWT.
func (h *UserHandler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		log.WithError(err).Warn("Failed to decode login request")
		respondJSON(w, http.StatusBadRequest, Envelope{Status: "fail", Message: "invalid request payload"})
		return
	}
	defer r.Body.Close()

	user, err := h.Service.AuthenticateUser(r.Context(), credentials.Email, credentials.Password)
	if err != nil {
		log.WithField("email", credentials.Email).Warn("Authentication failed")
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "invalid email or password"})
		return
	}

	token, err := jwtutil.GenerateToken(user.ID.Hex(), user.Email, string(user.Role), h.Config.JWTSecret, h.Config.TokenExpiry)
	if err != nil {
		log.WithError(err).Error("Failed to generate JWT token")
		respondJSON(w, http.StatusInternalServerError, Envelope{Status: "error", Message: "failed to generate token"})
		return
	}

	log.WithField("user_id", user.ID.Hex()).Info("User logged in")
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"user":  user.Public(),
	})
}

// GetUserHandler fetches one account. Users may fetch only themselves unless
// they are admins.
func (h *UserHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		respondJSON(w, http.StatusUnauthorized, Envelope{Status: "fail", Message: "unauthorized"})
		return
	}

	requestedID := mux.Vars(r)["id"]
	if requestedID != claims.UserID && claims.Role != string(models.RoleAdmin) {
		respondJSON(w, http.StatusForbidden, Envelope{Status: "fail", Message: "forbidden"})
		return
	}

	user, err := h.Service.GetUser(r.Context(), requestedID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, user.Public())
}

// AdminGetAllUsersHandler lists every account.
func (h *UserHandler) AdminGetAllUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAllUsers(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(users))
	for i := range users {
		public = append(public, users[i].Public())
	}
	respondSuccess(w, http.StatusOK, public)
}

// GetOfficersHandler lists officer accounts, for the assignment dropdown.
func (h *UserHandler) GetOfficersHandler(w http.ResponseWriter, r *http.Request) {
	officers, err := h.Service.GetUsersByRole(r.Context(), models.RoleOfficer)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	public := make([]models.PublicUser, 0, len(officers))
	for i := range officers {
		public = append(public, officers[i].Public())
	}
	respondSuccess(w, http.StatusOK, public)
}
