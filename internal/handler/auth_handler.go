package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/middleware"
	"github.com/JaeHeong/jaehyeong-tech-sub000/internal/model"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/config"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/database"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/httperr"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/jwtutil"
	"github.com/JaeHeong/jaehyeong-tech-sub000/pkg/logger"
	"github.com/JaeHeong/jaehyeong-tech-sub000/prometheus"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var googleOauthConfig *oauth2.Config

// InitGoogleOAuth wires the Google OAuth client used by the server-side
// credential exchange. The SPA sends an authorization code; the secret
// never leaves the server.
func InitGoogleOAuth(cfg *config.OAuthConfig) {
	googleOauthConfig = &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// Register handles user self-registration
func Register(c echo.Context) error {
	log := logger.FromContext(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return httperr.Validation("invalid request body")
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return httperr.Validation("a valid email is required")
	}
	if len(req.Password) < 8 {
		return httperr.Validation("password must be at least 8 characters")
	}

	var count int64
	database.GetDB().Model(&model.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return httperr.Validation("email is already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return httperr.Internal(err)
	}

	user := model.User{
		Email:    req.Email,
		Password: string(hash),
		Name:     req.Name,
		Role:     model.RoleAuthor,
	}
	if result := database.GetDB().Create(&user); result.Error != nil {
		log.Error("Failed to create user", zap.Error(result.Error))
		return httperr.Internal(result.Error)
	}

	log.Info("User registered", zap.String("email", user.Email), zap.Uint("user_id", user.ID))
	return c.JSON(http.StatusCreated, echo.Map{"data": user})
}

// Login authenticates with email/password and returns a bearer token
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		prometheus.RecordAuthError("invalid_request")
		return httperr.Validation("invalid request body")
	}

	var user model.User
	result := database.GetDB().Where("email = ?", strings.ToLower(req.Email)).First(&user)
	if result.Error != nil {
		log.Warn("Login for unknown email", zap.String("email", req.Email))
		prometheus.RecordAuthError("user_not_found")
		return httperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		log.Warn("Invalid password", zap.String("email", req.Email))
		prometheus.RecordAuthError("invalid_password")
		return httperr.Unauthorized("invalid credentials")
	}

	token, err := jwtutil.GenerateToken(user.Email, user.ID, user.Name, user.Role, nil)
	if err != nil {
		log.Error("Failed to generate token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return httperr.Internal(err)
	}

	log.Info("User logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return c.JSON(http.StatusOK, echo.Map{"token": token, "user": user})
}

// GoogleLogin exchanges a Google authorization code server-side for tokens,
// fetches the profile, upserts the user and returns a bearer token.
func GoogleLogin(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.AuthAttemptsCounter.Inc()

	if googleOauthConfig == nil || googleOauthConfig.ClientID == "" {
		return httperr.Internal(fmt.Errorf("google oauth is not configured"))
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.Bind(&req); err != nil || req.Code == "" {
		prometheus.RecordAuthError("invalid_request")
		return httperr.Validation("authorization code is required")
	}

	token, err := googleOauthConfig.Exchange(c.Request().Context(), req.Code)
	if err != nil {
		log.Warn("Google code exchange failed", zap.Error(err))
		prometheus.RecordAuthError("oauth_exchange_failed")
		return httperr.Unauthorized("google authentication failed")
	}

	info, err := fetchGoogleUserInfo(c.Request().Context(), token.AccessToken)
	if err != nil {
		log.Error("Failed to fetch Google user info", zap.Error(err))
		prometheus.RecordAuthError("oauth_userinfo_failed")
		return httperr.Unauthorized("google authentication failed")
	}
	if !info.VerifiedEmail {
		prometheus.RecordAuthError("oauth_email_unverified")
		return httperr.Forbidden("google account email is not verified")
	}

	var user model.User
	result := database.GetDB().
		Where("google_id = ?", info.ID).
		Or("email = ?", strings.ToLower(info.Email)).
		First(&user)
	if result.Error != nil {
		// First sign-in: create the account linked to the Google profile.
		user = model.User{
			Email:    strings.ToLower(info.Email),
			Name:     info.Name,
			Picture:  info.Picture,
			GoogleID: info.ID,
			Role:     model.RoleAuthor,
		}
		if result := database.GetDB().Create(&user); result.Error != nil {
			log.Error("Failed to create OAuth user", zap.Error(result.Error))
			return httperr.Internal(result.Error)
		}
		log.Info("User created via Google OAuth", zap.String("email", user.Email))
	} else if user.GoogleID == "" {
		user.GoogleID = info.ID
		if user.Picture == "" {
			user.Picture = info.Picture
		}
		database.GetDB().Save(&user)
	}

	jwtToken, err := jwtutil.GenerateToken(user.Email, user.ID, user.Name, user.Role, nil)
	if err != nil {
		prometheus.RecordAuthError("token_generation_failed")
		return httperr.Internal(err)
	}

	log.Info("User logged in via Google", zap.String("email", user.Email))
	return c.JSON(http.StatusOK, echo.Map{"token": jwtToken, "user": user})
}

// Me returns the authenticated user's profile
func Me(c echo.Context) error {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		return httperr.Unauthorized("missing authorization token")
	}

	var user model.User
	if result := database.GetDB().First(&user, claims.UserID); result.Error != nil {
		return httperr.NotFound("user")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

func fetchGoogleUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo?access_token="+accessToken, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
