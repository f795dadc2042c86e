package user

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// Config controls token issuance and where signup avatars are stored.
type Config struct {
	Secret   []byte
	TokenTTL time.Duration
	// UploadDir is the directory avatars are written to; UploadURL is the
	// public path it is served under.
	UploadDir string
	UploadURL string
	// OnRegister, when set, is called with every newly created account.
	OnRegister func(User)
}

type Handler struct {
	service *Service
	cfg     Config
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func NewHandler(service *Service, cfg Config) *Handler {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 30 * time.Minute
	}
	if cfg.UploadURL == "" {
		cfg.UploadURL = "/static/uploads/profile_images"
	}
	return &Handler{service: service, cfg: cfg}
}

func (h *Handler) RegisterPublicRoutes(r fiber.Router) {
	r.Post("/auth/login", h.login)
	r.Post("/auth/signup", h.signup)
	r.Post("/auth/check-password", h.checkPassword)
	r.Get("/auth/countries", h.countries)
}

func (h *Handler) RegisterProtectedRoutes(r fiber.Router) {
	r.Get("/auth/me", h.getProfile)
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(loginRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Invalid email or password"})
	}
	return h.respondWithToken(c, user)
}

func (h *Handler) signup(c *fiber.Ctx) error {
	candidate := User{
		Name:     c.FormValue("name"),
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
		Country:  c.FormValue("country"),
		Gender:   c.FormValue("gender"),
	}
	if candidate.Email == "" || candidate.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Missing required fields"})
	}
	// reject before anything is written to disk
	if _, err := h.service.Validate(candidate); err != nil {
		return signupError(c, err)
	}

	var saved string
	if file, err := c.FormFile("profile_image"); err == nil && file != nil &&
		strings.HasPrefix(file.Header.Get("Content-Type"), "image/") && h.cfg.UploadDir != "" {
		ext := strings.TrimPrefix(filepath.Ext(file.Filename), ".")
		if ext == "" {
			ext = "jpg"
		}
		name := uuid.NewString() + "." + ext
		if err := os.MkdirAll(h.cfg.UploadDir, 0755); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to save profile image"})
		}
		saved = filepath.Join(h.cfg.UploadDir, name)
		if err := c.SaveFile(file, saved); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "Failed to save profile image"})
		}
		url := path.Join(h.cfg.UploadURL, name)
		candidate.Image = &url
	}

	created, err := h.service.Register(candidate)
	if err != nil {
		if saved != "" {
			_ = os.Remove(saved)
		}
		return signupError(c, err)
	}
	if h.cfg.OnRegister != nil {
		h.cfg.OnRegister(created)
	}
	return h.respondWithToken(c, created)
}

func signupError(c *fiber.Ctx, err error) error {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": ve.Detail})
	case errors.Is(err, ErrEmailExists):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": "Email already registered"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": err.Error()})
}

func (h *Handler) countries(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"countries": Countries})
}

func (h *Handler) checkPassword(c *fiber.Ctx) error {
	pw := c.FormValue("password")
	if pw == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": "password is required"})
	}
	return c.JSON(CheckPasswordStrength(pw))
}

// getProfile returns the user named by the token's user_id claim.
func (h *Handler) getProfile(c *fiber.Ctx) error {
	userID, err := GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": "Not authenticated"})
	}

	user, err := h.service.GetByID(userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "User not found"})
	}
	return c.JSON(user)
}

func (h *Handler) respondWithToken(c *fiber.Ctx, user User) error {
	signed, err := h.IssueToken(user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": "failed to generate token"})
	}
	return c.JSON(TokenResponse{AccessToken: signed, TokenType: "bearer", User: user})
}

// IssueToken signs an HS256 access token for user.
func (h *Handler) IssueToken(user User) (string, error) {
	claims := jwt.MapClaims{
		"sub":     user.Email,
		"user_id": user.ID,
		"name":    user.Name,
		"exp":     time.Now().Add(h.cfg.TokenTTL).Unix(),
	}
	if user.Image != nil {
		claims["image"] = *user.Image
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.cfg.Secret)
}

// GetUserIDFromCtx extracts the user_id claim from the JWT token stored
// in `c.Locals("user")`. Shared by every handler that needs the caller.
func GetUserIDFromCtx(c *fiber.Ctx) (int, error) {
	u := c.Locals("user")
	if u == nil {
		return 0, fiber.ErrUnauthorized
	}
	tok, ok := u.(*jwt.Token)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fiber.ErrUnauthorized
	}
	if raw, ok := claims["user_id"]; ok {
		switch v := raw.(type) {
		case float64:
			return int(v), nil
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case string:
			id, err := strconv.Atoi(v)
			if err != nil {
				return 0, fiber.ErrUnauthorized
			}
			return id, nil
		default:
			return 0, fiber.ErrUnauthorized
		}
	}
	return 0, fiber.ErrUnauthorized
}
