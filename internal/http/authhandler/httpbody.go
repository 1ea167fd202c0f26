package authhandler

type RegisterBody struct {
	Email           string `json:"email"            binding:"required,email"           example:"ann@example.com"`
	Password        string `json:"password"         binding:"required,strong_password" example:"Secret1"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password" example:"Secret1"`
	FirstName       string `json:"first_name"       example:"Ann"`
	LastName        string `json:"last_name"        example:"Lee"`
} // @name RegisterRequest

type LoginBody struct {
	Email    string `json:"email"    binding:"required,email" example:"ann@example.com"`
	Password string `json:"password" binding:"required"       example:"Secret1"`
} // @name LoginRequest

type UpdatePasswordBody struct {
	OldPassword     string `json:"old_password"     binding:"required"                example:"Secret1"`
	NewPassword     string `json:"new_password"     binding:"required,basic_password" example:"Secret22"`
	ConfirmPassword string `json:"confirm_password" binding:"required"                example:"Secret22"`
} // @name UpdatePasswordRequest

type UpdateProfileBody struct {
	FirstName *string `json:"first_name" example:"Ann"`
	LastName  *string `json:"last_name"  example:"Lee"`
	Avatar    *string `json:"avatar"     binding:"omitempty,url" example:"https://cdn.example.com/ann.png"`
} // @name UpdateProfileRequest
