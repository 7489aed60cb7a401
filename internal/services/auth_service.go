package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"travelplan/internal/domain"
	"travelplan/internal/domain/models"
	"travelplan/internal/repositories"
	"travelplan/internal/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, password login and Google login.
type AuthService struct {
	Users     repositories.UserRepository
	RequestID string

	// UserinfoURL is the Google userinfo endpoint; Client may be nil.
	UserinfoURL string
	Client      *http.Client
}

func (s AuthService) Register(username, password string) error {
	username = utils.TrimOrEmpty(username)
	if username == "" || password == "" {
		return domain.ValidationError{Msg: "username and password are required"}
	}

	_, err := s.Users.GetByUsername(username)
	if err == nil {
		return domain.ValidationError{Field: "username", Msg: "already registered"}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := s.Users.Create(models.User{Username: username, PasswordHash: string(hash)}); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "auth", "register", "username="+username)
	return nil
}

func (s AuthService) Login(username, password string) (models.User, error) {
	user, err := s.Users.GetByUsername(utils.TrimOrEmpty(username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, domain.UnauthorizedError{Msg: "wrong username or password"}
		}
		return models.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, domain.UnauthorizedError{Msg: "wrong username or password"}
	}
	return user, nil
}

type googleUserinfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// GoogleLogin asks Google who owns the access token and auto-registers the
// account on first sight of the google id. Verification failures surface as
// validation errors with the upstream detail.
func (s AuthService) GoogleLogin(accessToken string) (models.User, error) {
	if utils.TrimOrEmpty(accessToken) == "" {
		return models.User{}, domain.ValidationError{Field: "accessToken", Msg: "required"}
	}

	info, err := s.fetchUserinfo(accessToken)
	if err != nil {
		return models.User{}, domain.ValidationError{Msg: "google verification failed: " + err.Error(), Err: err}
	}
	if info.Sub == "" {
		return models.User{}, domain.ValidationError{Msg: "google verification failed: invalid token"}
	}

	user, err := s.Users.GetByGoogleID(info.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.User{}, err
	}

	// First login with this Google account: register it with no password.
	user = models.User{Username: info.Name, GoogleID: info.Sub}
	id, err := s.Users.Create(user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = id
	utils.LogEvent(s.RequestID, "auth", "google_register", fmt.Sprintf("user_id=%d", id))
	return user, nil
}

func (s AuthService) fetchUserinfo(accessToken string) (googleUserinfo, error) {
	var info googleUserinfo

	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	resp, err := client.Get(s.UserinfoURL + "?access_token=" + url.QueryEscape(accessToken))
	if err != nil {
		return info, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info, fmt.Errorf("userinfo endpoint returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return info, err
	}
	return info, nil
}

func (s AuthService) Usernames() ([]string, error) {
	return s.Users.ListUsernames()
}
