package user

type CreateUserInput struct {
	Name     string `form:"name" json:"name" binding:"required,max=100" example:"Jane Doe"`
	Email    string `form:"email" json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `form:"password" json:"password" binding:"required,min=6" example:"password123"`
	Role     Role   `form:"role" json:"role" binding:"required,oneof=agent manager admin" example:"agent"`
}

type UpdateUserInput struct {
	Role     *Role `form:"role" json:"role" binding:"omitempty,oneof=agent manager admin" example:"manager"`
	IsActive *bool `form:"is_active" json:"is_active" example:"true"`
}

type LoginInput struct {
	Email    string `form:"email" json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `form:"password" json:"password" binding:"required" example:"password123"`
}
