package Controllers

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"Tracker/Models"
)

var validate = validator.New()

// AuthController handles login and session issuance
type AuthController struct {
	DB     *gorm.DB
	Secret string
}

func NewAuthController(db *gorm.DB, secret string) *AuthController {
	return &AuthController{DB: db, Secret: secret}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and sets the jwt cookie the Verify middleware
// consumes
func (a *AuthController) Login(ctx *fiber.Ctx) error {
	var input loginRequest
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

	var user Models.User
	result := a.DB.Where("username = ?", input.Username).First(&user)
	if result.Error != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "failure", "message": "Invalid credentials",
		})
	}
	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(input.Password)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"status": "failure", "message": "Invalid credentials",
		})
	}

	claims := jwt.RegisteredClaims{
		Issuer:    strconv.Itoa(int(user.ID)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Secret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "failure", "message": "Could not create session",
		})
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
	})

	return ctx.JSON(fiber.Map{
		"status":  "success",
		"user_id": user.ID,
		"role":    user.Role,
	})
}
