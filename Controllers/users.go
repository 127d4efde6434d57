package Controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Tracker/Models"
)

// UserController handles student account administration
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetStudents lists all student accounts
func (u *UserController) GetStudents(ctx *fiber.Ctx) error {
	var users []Models.User
	if err := u.DB.Where("role = ?", Models.RoleStudent).Find(&users).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to retrieve users",
		})
	}

	students := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		students = append(students, fiber.Map{"id": user.ID, "username": user.Username})
	}
	return ctx.JSON(students)
}

type addUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

// AddUser creates an account and seeds the default task definitions every
// student starts with
func (u *UserController) AddUser(ctx *fiber.Ctx) error {
	var input addUserRequest
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": "Invalid request body",
		})
	}
	if err := validate.Struct(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status": "failure", "message": err.Error(),
		})
	}
	if input.Role == "" {
		input.Role = Models.RoleStudent
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Failed to hash password",
		})
	}

	user := Models.User{
		Username: input.Username,
		Password: hashed,
		Role:     input.Role,
	}

	err = u.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		definitions := Models.DefaultDefinitions(user.ID)
		return tx.Create(&definitions).Error
	})
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "unique constraint") {
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"status": "failure", "message": "Username already exists",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Failed to create user",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status":    "success",
		"newUserId": user.ID,
	})
}
