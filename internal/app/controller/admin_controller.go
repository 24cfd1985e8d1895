package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joelyk/maison-du-parfum/internal/app/model"
	"github.com/joelyk/maison-du-parfum/internal/app/service"
	apperrors "github.com/joelyk/maison-du-parfum/internal/errors"
	"github.com/joelyk/maison-du-parfum/internal/middleware"
)

type AdminController struct {
	adminService service.AdminService
}

func NewAdminController(adminService service.AdminService) *AdminController {
	return &AdminController{
		adminService: adminService,
	}
}

type AdminLoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
	Next     string `json:"next" form:"next"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" form:"status" binding:"required"`
}

// Login raises the admin flag on the session
// POST /api/v1/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req AdminLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		log.Warn("Invalid admin login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "Identifiant et mot de passe requis")
		return
	}

	if err := ctrl.adminService.Authenticate(req.Username, req.Password); err != nil {
		respondServiceError(c, err, "Admin login")
		return
	}

	middleware.GetSession(c).Admin = true
	if err := middleware.SaveSession(c); err != nil {
		log.Error("Failed to save admin session", err)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Connexion administrateur réussie",
		"next":    safeNext(req.Next, "/admin"),
	})
}

// Logout clears the admin flag only
// POST /api/v1/admin/logout
func (ctrl *AdminController) Logout(c *gin.Context) {
	middleware.GetSession(c).Admin = false
	if err := middleware.SaveSession(c); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to save session on admin logout", err)
		apperrors.InternalError(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Déconnexion administrateur"})
}

// Dashboard returns counts, revenue and the product and order lists
// GET /api/v1/admin/dashboard
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	dashboard, err := ctrl.adminService.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Load dashboard")
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// ListProducts returns every live product, newest first
// GET /api/v1/admin/products
func (ctrl *AdminController) ListProducts(c *gin.Context) {
	products, err := ctrl.adminService.ListProducts(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "List admin products")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

func productForm(c *gin.Context) (service.ProductForm, func(), bool) {
	image, file, err := imageUpload(c, "image")
	if err != nil {
		middleware.GetLoggerFromContext(c).Warn("Unreadable product image", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.UploadFailed, "Fichier illisible")
		return service.ProductForm{}, nil, false
	}
	closeFile := func() {}
	if file != nil {
		closeFile = func() { file.Close() }
	}

	return service.ProductForm{
		Name:             formValue(c, "name"),
		Price:            formValue(c, "price"),
		Category:         formValue(c, "category"),
		Stock:            formValue(c, "stock"),
		ShortDescription: formValue(c, "short_description"),
		Description:      formValue(c, "description"),
		Notes:            formValue(c, "notes"),
		Volume:           formValue(c, "volume"),
		SkinType:         formValue(c, "skin_type"),
		Audience:         formValue(c, "audience"),
		Image:            image,
	}, closeFile, true
}

// CreateProduct adds a product from a multipart form
// POST /api/v1/admin/products
func (ctrl *AdminController) CreateProduct(c *gin.Context) {
	form, closeFile, ok := productForm(c)
	if !ok {
		return
	}
	defer closeFile()

	product, err := ctrl.adminService.CreateProduct(c.Request.Context(), form)
	if err != nil {
		respondServiceError(c, err, "Create product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Produit ajouté",
		"product": product,
	})
}

// UpdateProduct applies a partial update from a multipart form
// PUT /api/v1/admin/products/:id
func (ctrl *AdminController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	form, closeFile, ok := productForm(c)
	if !ok {
		return
	}
	defer closeFile()

	product, err := ctrl.adminService.UpdateProduct(c.Request.Context(), id, form)
	if err != nil {
		respondServiceError(c, err, "Update product")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Produit mis à jour",
		"product": product,
	})
}

// DeleteProduct removes a product from the catalog
// DELETE /api/v1/admin/products/:id
func (ctrl *AdminController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.adminService.DeleteProduct(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Delete product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produit supprimé"})
}

// UpdateOrderStatus moves an order along its lifecycle
// PATCH /api/v1/admin/orders/:id/status
func (ctrl *AdminController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBind(&req); err != nil {
		apperrors.BadRequest(c, apperrors.OrderInvalidStatus, "Statut requis")
		return
	}

	order, err := ctrl.adminService.UpdateOrderStatus(c.Request.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		respondServiceError(c, err, "Update order status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
