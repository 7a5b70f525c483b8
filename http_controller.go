package directory

import (
	"regexp"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
)

var (
	loginPattern = regexp.MustCompile("^[A-Za-z0-9]+$")
	namePattern  = regexp.MustCompile("^[A-Za-zА-Яа-яЁё]+$")
)

const birthdayLayout = "2006-01-02"

// Controller exposes the account directory over HTTP. Every handler
// resolves the acting account from the session middleware and delegates
// the decision to the policy layer.
type Controller struct {
	Debug  bool
	Logger Logger
	Policy *Policy
	Auther *RouteAuthenticator
}

type ControllerOption func(*Controller) *Controller

func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Policy == nil {
		panic("Missing Policy in directory controller...")
	}

	if c.Auther == nil {
		panic("Missing RouteAuthenticator in directory controller...")
	}

	return c
}

func WithControllerPolicy(p *Policy) ControllerOption {
	return func(c *Controller) *Controller {
		c.Policy = p
		return c
	}
}

func WithControllerAuther(a *RouteAuthenticator) ControllerOption {
	return func(c *Controller) *Controller {
		c.Auther = a
		return c
	}
}

func WithControllerLogger(l Logger) ControllerOption {
	return func(c *Controller) *Controller {
		c.Logger = l
		return c
	}
}

func WithControllerDebug(debug bool) ControllerOption {
	return func(c *Controller) *Controller {
		c.Debug = debug
		return c
	}
}

// RegisterRoutes mounts the account directory surface on a fiber app.
// Static segments are registered before the :login parameter so listing
// routes are not shadowed.
func RegisterRoutes(app *fiber.App, opts ...ControllerOption) *Controller {
	controller := NewController(opts...)

	session := controller.Auther.RequireSession()
	admin := controller.Auther.RequireAdmin()

	app.Post("/login", controller.LoginPost)
	app.Post("/logout", session, controller.LogoutPost)
	app.Get("/me", session, controller.MeShow)

	users := app.Group("/users", session)
	users.Post("/", controller.Create)
	users.Post("/by-credentials", controller.ByCredentials)
	users.Get("/", controller.Index)
	users.Get("/active", admin, controller.Active)
	users.Get("/older-than/:age", admin, controller.OlderThan)
	users.Get("/:login", admin, controller.Show)
	users.Patch("/:login/profile", controller.UpdateProfile)
	users.Patch("/:login/password", controller.ChangePassword)
	users.Patch("/:login/login", controller.ChangeLogin)
	users.Patch("/:login/restore", admin, controller.Restore)
	users.Delete("/:login/soft", admin, controller.SoftDelete)
	users.Delete("/:login", admin, controller.HardDelete)

	return controller
}

// LoginRequest payload
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (a *Controller) LoginPost(c *fiber.Ctx) error {
	payload := new(LoginRequest)

	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	if a.Debug {
		a.Logger.Debug("login attempt for %q", payload.Login)
	}

	account, err := a.Auther.Login(c, payload.Login, payload.Password)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "login successful",
		"account": NewAccountView(account),
	})
}

func (a *Controller) LogoutPost(c *fiber.Ctx) error {
	a.Auther.Logout(c)
	return c.JSON(fiber.Map{
		"message": "logged out",
	})
}

func (a *Controller) MeShow(c *fiber.Ctx) error {
	account := CurrentAccount(c)
	return c.JSON(fiber.Map{
		"account": NewAccountView(account),
		"profile": NewProfileView(account),
	})
}

// CreateAccountRequest payload. Field constraints mirror the account
// model: alphanumeric login and password, letters-only display name,
// enumerated gender, optional ISO date birthday.
type CreateAccountRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Gender   int    `json:"gender"`
	Birthday string `json:"birthday"`
	IsAdmin  bool   `json:"is_admin"`
}

// Validate will run validation rules
func (r CreateAccountRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Login, validation.Required, validation.Length(3, 30), validation.Match(loginPattern)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 30), validation.Match(loginPattern)),
		validation.Field(&r.Name, validation.Required, validation.Length(1, 30), validation.Match(namePattern)),
		validation.Field(&r.Gender, validation.Min(0), validation.Max(2)),
		validation.Field(&r.Birthday, validation.Date(birthdayLayout)),
	)
}

func (a *Controller) Create(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	payload := new(CreateAccountRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	birthday, err := parseBirthday(payload.Birthday)
	if err != nil {
		return a.respondValidation(c, err)
	}

	created, err := a.Policy.Create(c.UserContext(), requester, CreateAccountInput{
		Login:    payload.Login,
		Password: payload.Password,
		Name:     payload.Name,
		Gender:   Gender(payload.Gender),
		Birthday: birthday,
		IsAdmin:  payload.IsAdmin,
	})
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "account created",
		"account": NewAccountView(created),
	})
}

// ByCredentials verifies a credential pair and returns the matching
// profile. Session gated so it cannot be used for anonymous probing;
// a revoked match is reported as deactivated, not as a bad credential.
func (a *Controller) ByCredentials(c *fiber.Ctx) error {
	payload := new(LoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	account, err := a.Policy.Authenticate(c.UserContext(), payload.Login, payload.Password)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	if !account.IsActive() {
		return a.Auther.RespondError(c, ErrAccountDeactivated)
	}

	return c.JSON(fiber.Map{
		"profile": NewProfileView(account),
	})
}

func (a *Controller) Index(c *fiber.Ctx) error {
	accounts, err := a.Policy.ListAll(c.UserContext())
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"accounts": accounts,
	})
}

func (a *Controller) Active(c *fiber.Ctx) error {
	accounts, err := a.Policy.ListActive(c.UserContext())
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"accounts": NewProfileViews(accounts),
	})
}

func (a *Controller) OlderThan(c *fiber.Ctx) error {
	age, err := strconv.Atoi(c.Params("age"))
	if err != nil || age < 0 {
		return a.respondValidation(c, validation.Errors{
			"age": validation.NewError("validation_age", "age must be a non-negative integer"),
		})
	}

	accounts, err := a.Policy.ListOlderThan(c.UserContext(), age)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"accounts": NewProfileViews(accounts),
	})
}

func (a *Controller) Show(c *fiber.Ctx) error {
	account, err := a.Policy.GetByLogin(c.UserContext(), c.Params("login"))
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile": NewProfileView(account),
	})
}

// UpdateProfileRequest payload; nil fields are left unchanged
type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Gender   *int    `json:"gender"`
	Birthday *string `json:"birthday"`
}

// Validate will run validation rules
func (r UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 30), validation.Match(namePattern)),
		validation.Field(&r.Gender, validation.Min(0), validation.Max(2)),
		validation.Field(&r.Birthday, validation.Date(birthdayLayout)),
	)
}

func (a *Controller) UpdateProfile(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	payload := new(UpdateProfileRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	patch := ProfilePatch{Name: payload.Name}
	if payload.Gender != nil {
		gender := Gender(*payload.Gender)
		patch.Gender = &gender
	}
	if payload.Birthday != nil {
		birthday, err := parseBirthday(*payload.Birthday)
		if err != nil {
			return a.respondValidation(c, err)
		}
		patch.Birthday = birthday
	}

	updated, err := a.Policy.UpdateProfile(c.UserContext(), requester, c.Params("login"), patch)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "profile updated",
		"profile": NewProfileView(updated),
	})
}

// ChangePasswordRequest payload
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password"`
}

// Validate will run validation rules
func (r ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewPassword, validation.Required, validation.Length(6, 30), validation.Match(loginPattern)),
	)
}

func (a *Controller) ChangePassword(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	payload := new(ChangePasswordRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	updated, err := a.Policy.ChangePassword(c.UserContext(), requester, c.Params("login"), payload.NewPassword)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "password changed",
		"modified_at": updated.ModifiedAt,
		"modified_by": updated.ModifiedBy,
	})
}

// ChangeLoginRequest payload
type ChangeLoginRequest struct {
	NewLogin string `json:"new_login"`
}

// Validate will run validation rules
func (r ChangeLoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.NewLogin, validation.Required, validation.Length(3, 30), validation.Match(loginPattern)),
	)
}

func (a *Controller) ChangeLogin(c *fiber.Ctx) error {
	requester := CurrentAccount(c)
	oldLogin := c.Params("login")

	payload := new(ChangeLoginRequest)
	if err := c.BodyParser(payload); err != nil {
		return a.respondBind(c, err)
	}

	if err := payload.Validate(); err != nil {
		return a.respondValidation(c, err)
	}

	updated, err := a.Policy.ChangeLogin(c.UserContext(), requester, oldLogin, payload.NewLogin)
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":     "login changed",
		"old_login":   oldLogin,
		"new_login":   updated.Login,
		"modified_at": updated.ModifiedAt,
		"modified_by": updated.ModifiedBy,
	})
}

func (a *Controller) SoftDelete(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	deleted, err := a.Policy.SoftDelete(c.UserContext(), requester, c.Params("login"))
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":    "account soft deleted",
		"revoked_at": deleted.RevokedAt,
		"revoked_by": deleted.RevokedBy,
	})
}

func (a *Controller) HardDelete(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	if err := a.Policy.HardDelete(c.UserContext(), requester, c.Params("login")); err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (a *Controller) Restore(c *fiber.Ctx) error {
	requester := CurrentAccount(c)

	restored, err := a.Policy.Restore(c.UserContext(), requester, c.Params("login"))
	if err != nil {
		return a.Auther.RespondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "account restored",
		"profile": NewProfileView(restored),
	})
}

func (a *Controller) respondBind(c *fiber.Ctx, err error) error {
	a.Logger.Debug("request bind error: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "invalid request body",
	})
}

func (a *Controller) respondValidation(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "validation failed",
		"errors":  err,
	})
}

func parseBirthday(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	birthday, err := time.Parse(birthdayLayout, value)
	if err != nil {
		return nil, validation.Errors{
			"birthday": validation.NewError("validation_date", "birthday must be a valid date"),
		}
	}

	return &birthday, nil
}
