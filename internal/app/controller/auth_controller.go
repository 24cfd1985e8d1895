package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type AuthController struct {
	authService  service.AuthService
	orderService service.OrderService
}

func NewAuthController(authService service.AuthService, orderService service.OrderService) *AuthController {
	return &AuthController{
		authService:  authService,
		orderService: orderService,
	}
}

type RegisterRequest struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

// signIn stores the user in the session. The cart is untouched.
func signIn(c *gin.Context, user *model.User) error {
	middleware.GetSession(c).SetUser(user.ID, user.Email, user.FirstName)
	return middleware.SaveSession(c)
}

// Register creates an account and signs it in
// POST /api/v1/account/register
func (ctrl *AuthController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Formulaire d'inscription invalide")
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondServiceError(c, err, "Register")
		return
	}

	if err := signIn(c, user); err != nil {
		log.Error("Failed to save session after registration", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bienvenue " + user.FirstName,
		"user":    user,
	})
}

// Login signs a customer in and echoes a safe post-login path
// POST /api/v1/account/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Veuillez saisir votre e-mail et votre mot de passe")
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	user, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err, "Login")
		return
	}

	if err := signIn(c, user); err != nil {
		log.Error("Failed to save session after login", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bon retour " + user.FirstName,
		"user":    user,
		"next":    safeNext(req.Next, "/"),
	})
}

// Logout removes the customer from the session and keeps the cart
// POST /api/v1/account/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	middleware.GetSession(c).ClearUser()
	if err := middleware.SaveSession(c); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to save session on logout", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vous êtes déconnecté"})
}

// GetAccount returns the profile and the order history, newest first
// GET /api/v1/account
func (ctrl *AuthController) GetAccount(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	user, err := ctrl.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "Get account")
		return
	}
	orders, err := ctrl.orderService.ListUserOrders(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err, "List user orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   user,
		"orders": orders,
	})
}

// UpdateAccount edits the profile; accepts multipart with an optional avatar file
// PUT /api/v1/account
func (ctrl *AuthController) UpdateAccount(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	avatar, file, err := imageUpload(c, "avatar")
	if err != nil {
		log.Warn("Unreadable avatar upload", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadFailed, "Fichier illisible")
		return
	}
	if file != nil {
		defer file.Close()
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
		Email:     c.PostForm("email"),
		Avatar:    avatar,
	})
	if err != nil {
		respondServiceError(c, err, "Update profile")
		return
	}

	if err := signIn(c, user); err != nil {
		log.Error("Failed to refresh session after profile update", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profil mis à jour",
		"user":    user,
	})
}

// GetOrder returns one of the current user's orders
// GET /api/v1/account/orders/:id
func (ctrl *AuthController) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	order, err := ctrl.orderService.GetUserOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		respondServiceError(c, err, "Get order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
