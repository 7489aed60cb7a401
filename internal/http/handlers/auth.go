package handlers

import (
	"net/http"

	"travelplan/internal/domain/models"
	"travelplan/internal/http/middleware"
	"travelplan/internal/repositories"
	"travelplan/internal/services"

	"github.com/gin-gonic/gin"
)

// userinfoURL is set from config at startup so tests can point the service
// at a stub endpoint.
var userinfoURL string

func SetGoogleUserinfoURL(u string) {
	userinfoURL = u
}

func authService(c *gin.Context) services.AuthService {
	return services.AuthService{
		Users:       repositories.UserRepository{},
		RequestID:   middleware.GetRequestID(c),
		UserinfoURL: userinfoURL,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/register
func Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := authService(c).Register(req.Username, req.Password); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "registered"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// POST /api/auth/login
func Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := authService(c).Login(req.Username, req.Password)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondWithToken(c, user)
}

type googleLoginRequest struct {
	AccessToken string `json:"accessToken"`
}

// POST /api/auth/google-login
func GoogleLogin(c *gin.Context) {
	var req googleLoginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, err := authService(c).GoogleLogin(req.AccessToken)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondWithToken(c, user)
}

// GET /api/auth/users — usernames for the participant picker.
func GetUsers(c *gin.Context) {
	names, err := authService(c).Usernames()
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to list users", err)
		return
	}
	c.JSON(http.StatusOK, names)
}

func respondWithToken(c *gin.Context, user models.User) {
	token, err := middleware.IssueToken(user.Username, user.ID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to sign token", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"username": user.Username,
		"id":       user.ID,
	})
}
