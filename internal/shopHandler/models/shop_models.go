package models

// RegisterRequest struct. The photo arrives as a separate multipart
// file, not a bound field.
type RegisterRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
	Email       string `json:"email" form:"email"`
	Password    string `json:"password" form:"password"`
}

// UpdateShopRequest struct. Empty fields are left untouched.
type UpdateShopRequest struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
}

// LoginRequest struct
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// LoginResponse struct
type LoginResponse struct {
	Token string `json:"token"`
}

// Profile is the public view of a shop. Password and remember secret
// never appear here.
type Profile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Photo       string `json:"photo,omitempty"`
	Email       string `json:"email"`
}
