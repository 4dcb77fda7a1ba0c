package response

import "github.com/gofiber/fiber/v3"

// SemanticResponse is the envelope every endpoint writes, errors included.
type SemanticResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// StatusClientClosedRequest marks requests whose caller went away before the
// handler finished.
const StatusClientClosedRequest = 499

const (
	MessageOK                  = "ok"
	MessageCreated             = "created"
	MessageBadRequest          = "bad request"
	MessageUnauthorized        = "unauthorized"
	MessageNotFound            = "not found"
	MessageUnprocessableEntity = "unprocessable entity"
	MessageClientClosed        = "client closed request"
	MessageServiceUnavailable  = "service unavailable"
	MessageTimeout             = "request timed out"
	MessageInternalServerError = "internal server error"
	MessageError               = "error"
)

// Write sends the envelope with status. Out of range statuses become 500 and
// an empty message is replaced by DefaultMessage.
func Write(c fiber.Ctx, status int, message string, data any) error {
	if status < 100 || status > 599 {
		status = fiber.StatusInternalServerError
	}
	if message == "" {
		message = DefaultMessage(status)
	}
	return c.Status(status).JSON(SemanticResponse{Status: status, Message: message, Data: data})
}

func OK(c fiber.Ctx, data any) error {
	return Write(c, fiber.StatusOK, MessageOK, data)
}

func DefaultMessage(status int) string {
	switch status {
	case fiber.StatusOK:
		return MessageOK
	case fiber.StatusCreated:
		return MessageCreated
	case fiber.StatusBadRequest:
		return MessageBadRequest
	case fiber.StatusUnauthorized:
		return MessageUnauthorized
	case fiber.StatusNotFound:
		return MessageNotFound
	case fiber.StatusUnprocessableEntity:
		return MessageUnprocessableEntity
	case StatusClientClosedRequest:
		return MessageClientClosed
	case fiber.StatusServiceUnavailable:
		return MessageServiceUnavailable
	case fiber.StatusGatewayTimeout:
		return MessageTimeout
	}
	if status >= 500 {
		return MessageInternalServerError
	}
	return MessageError
}
