package errors

// Error codes returned in the "error" field. Format: CATEGORY_DETAIL.
// Clients map on the code; the message is for display.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthPasswordMismatch   = "AUTH_PASSWORD_MISMATCH"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationRequired     = "VALIDATION_REQUIRED"
	ValidationInvalidPrice = "VALIDATION_INVALID_PRICE"
	ValidationInvalidStock = "VALIDATION_INVALID_STOCK"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	UserNotFound          = "USER_NOT_FOUND"

	// ==================== CART_ ====================
	CartInvalidQuantity = "CART_INVALID_QUANTITY"
	CartEmpty           = "CART_EMPTY"

	// ==================== ORDER_ ====================
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"

	// ==================== REVIEW_ ====================
	ReviewInvalidRating = "REVIEW_INVALID_RATING"

	// ==================== UPLOAD_ ====================
	UploadFailed = "UPLOAD_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError = "INTERNAL_SERVER_ERROR"
	InternalDatabase    = "INTERNAL_DATABASE_ERROR"
)
