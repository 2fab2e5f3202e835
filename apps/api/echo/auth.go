package echoapi

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/lecturer"
	"github.com/trezcool/kazi/core/student"
)

const jwtContextKey = "authToken"

// Claims represents the authorization claims transmitted via a JWT.
// Subject is the student NIM or the lecturer ID.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	NIM          string `json:"nim,omitempty"`
	Email        string `json:"email,omitempty"`
	IsStudent    bool   `json:"is_student,omitempty"`  // -> STUDENT PORTAL
	IsLecturer   bool   `json:"is_lecturer,omitempty"` // -> GRADING DASHBOARD
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

func newStandardClaims(conf *core.Config, subject string, origIat ...int64) (jwt.StandardClaims, int64) {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}
	return jwt.StandardClaims{
		Issuer:    conf.AppName,
		Subject:   subject,
		ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
		IssuedAt:  nownix,
	}, oriat
}

func GetStudentClaims(conf *core.Config, stud student.Student, origIat ...int64) *Claims {
	std, oriat := newStandardClaims(conf, stud.NIM, origIat...)
	return &Claims{
		StandardClaims: std,
		OrigIssuedAt:   oriat,
		NIM:            stud.NIM,
		IsStudent:      true,
	}
}

func GetLecturerClaims(conf *core.Config, lect lecturer.Lecturer, origIat ...int64) *Claims {
	std, oriat := newStandardClaims(conf, lect.ID.String(), origIat...)
	return &Claims{
		StandardClaims: std,
		OrigIssuedAt:   oriat,
		Email:          lect.Email,
		IsLecturer:     true,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

type authApi struct {
	conf        *core.Config
	validate    *validator.Validate
	translator  ut.Translator
	studentSvc  *student.Service
	lecturerSvc *lecturer.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := authApi{
		conf:        opts.Conf,
		validate:    opts.Validate,
		translator:  opts.Translator,
		studentSvc:  opts.StudentSvc,
		lecturerSvc: opts.LecturerSvc,
	}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit logins
	ag.POST("/student/login", api.studentLogin)
	ag.POST("/lecturer/login", api.lecturerLogin)

	// authed endpoints
	ag.POST("/lecturer/register", api.register, jwt, lecturerMiddleware())
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

// Handlers

// studentLogin authenticates a student by NIM alone; students hold no
// credentials beyond their roster entry.
func (api *authApi) studentLogin(ctx echo.Context) error {
	var data StudentLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to StudentLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stud, err := api.studentSvc.GetByNIM(ctx.Request().Context(), data.NIM)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "finding student by NIM")
	}

	token, err := GenerateToken(api.conf, GetStudentClaims(api.conf, stud))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, StudentLoginResponse{Token: token, Student: stud})
}

func (api *authApi) lecturerLogin(ctx echo.Context) error {
	var data LecturerLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LecturerLoginRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	lect, err := api.lecturerSvc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		if errors.Cause(err) == lecturer.ErrNotFound {
			return core.NewValidationError(errors.New("invalid credentials"))
		}
		return errors.Wrap(err, "authenticating")
	}

	token, err := GenerateToken(api.conf, GetLecturerClaims(api.conf, lect))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *authApi) register(ctx echo.Context) error {
	var data lecturer.NewLecturer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLecturer")
	}
	if err := data.Validate(api.validate, api.translator, api.lecturerSvc); err != nil {
		return err
	}

	lect, err := api.lecturerSvc.Register(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering lecturer")
	}
	return ctx.JSON(http.StatusCreated, lect)
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(api.conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return errRefreshExpired
	}

	// re-resolve the subject: deleted accounts cannot refresh
	var newClaims *Claims
	reqCtx := ctx.Request().Context()
	switch {
	case claims.IsStudent:
		stud, err := api.studentSvc.GetByNIM(reqCtx, claims.NIM)
		if err != nil {
			return errUnauthorized
		}
		newClaims = GetStudentClaims(api.conf, stud, claims.OrigIssuedAt)
	case claims.IsLecturer:
		lect, err := api.lecturerSvc.GetByEmail(reqCtx, claims.Email)
		if err != nil {
			return errUnauthorized
		}
		newClaims = GetLecturerClaims(api.conf, lect, claims.OrigIssuedAt)
	default:
		return errUnauthorized
	}

	token, err := GenerateToken(api.conf, newClaims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}
