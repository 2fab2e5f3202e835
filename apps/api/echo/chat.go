package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/kazi/core"
	"github.com/trezcool/kazi/core/assignment"
	"github.com/trezcool/kazi/core/chat"
)

type chatApi struct {
	svc           *chat.Service
	assignmentSvc *assignment.Service
	responder     chat.Responder
	logger        core.Logger
	validate      *validator.Validate
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := chatApi{
		svc:           opts.ChatSvc,
		assignmentSvc: opts.AssignmentSvc,
		responder:     opts.Responder,
		logger:        opts.Logger,
		validate:      opts.Validate,
	}

	cg := g.Group("/chat", jwt)
	cg.GET("/:assignmentID", api.list)
	cg.POST("/:assignmentID", api.append, studentMiddleware())
}

// Handlers

func (api *chatApi) list(ctx echo.Context) error {
	a, err := api.ownedAssignment(ctx)
	if err != nil {
		return err
	}

	msgs, err := api.svc.List(ctx.Request().Context(), a.ID)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}
	if msgs == nil {
		msgs = []chat.Message{}
	}
	return ctx.JSON(http.StatusOK, msgs)
}

// append records the student's message, then asks the stakeholder simulation
// for a reply and records that too. A responder failure never loses the
// student's message: it is already persisted and returned alone.
func (api *chatApi) append(ctx echo.Context) error {
	a, err := api.ownedAssignment(ctx)
	if err != nil {
		return err
	}

	var data ChatMessageRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatMessageRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	history, err := api.svc.List(reqCtx, a.ID)
	if err != nil {
		return errors.Wrap(err, "querying messages")
	}

	msg, err := api.svc.Append(reqCtx, a.ID, chat.SenderStudent, data.Body)
	if err != nil {
		return errors.Wrap(err, "appending message")
	}
	msgs := []chat.Message{msg}

	reply, err := api.responder.Reply(reqCtx, a.Scenario, history, msg.Body)
	if err != nil {
		api.logger.Warn("stakeholder reply failed", errors.Wrap(err, "replying"))
		return ctx.JSON(http.StatusCreated, msgs)
	}
	replyMsg, err := api.svc.Append(reqCtx, a.ID, chat.SenderStakeholder, reply)
	if err != nil {
		api.logger.Warn("appending stakeholder reply failed", errors.Wrap(err, "appending reply"))
		return ctx.JSON(http.StatusCreated, msgs)
	}
	msgs = append(msgs, replyMsg)

	return ctx.JSON(http.StatusCreated, msgs)
}

// ownedAssignment resolves :assignmentID and enforces ownership: students
// may only touch their own assignments, lecturers may read any.
func (api *chatApi) ownedAssignment(ctx echo.Context) (assignment.Assignment, error) {
	id, err := uuid.Parse(ctx.Param("assignmentID"))
	if err != nil {
		return assignment.Assignment{}, errHttpNotFound
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "getting context claims")
	}

	a, err := api.assignmentSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}

	if claims.IsStudent && a.StudentNIM != claims.NIM {
		return assignment.Assignment{}, errHttpForbidden
	}
	if !claims.IsStudent && !claims.IsLecturer {
		return assignment.Assignment{}, errHttpForbidden
	}
	return a, nil
}

type ChatMessageRequest struct {
	Body string `json:"body" validate:"required"`
}

func (cr *ChatMessageRequest) Validate(validate *validator.Validate) error {
	cr.Body = core.CleanString(cr.Body)
	return validate.Struct(cr)
}
