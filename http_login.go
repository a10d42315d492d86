package bloglist

import (
	"github.com/gofiber/fiber/v2"
)

// LoginRequest is the body of POST /api/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginController exchanges credentials for a token
type LoginController struct {
	controllerBase
	auther *Auther
}

func NewLoginController(auther *Auther, opts ...ControllerOption) *LoginController {
	if auther == nil {
		panic("Missing Auther in login controller...")
	}
	return &LoginController{
		controllerBase: newControllerBase("bloglist.login", opts...),
		auther:         auther,
	}
}

func (l *LoginController) Login(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := bind(c, payload); err != nil {
		return err
	}

	res, err := l.auther.Login(c.UserContext(), payload.Username, payload.Password)
	if err != nil {
		if TextCodeOf(err) == TextCodeInvalidLogin {
			l.metrics.RecordAuthFailure("invalid_credentials")
		}
		return err
	}

	return c.JSON(res)
}
