// Package response формирует JSON-ответы с ошибками в едином формате
// {"error": "...", "details": "..."}.
package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse тело ответа с ошибкой. Details содержит техническое описание
// причины и может отсутствовать.
type ErrorResponse struct {
	Error   string `json:"error" example:"Evento no encontrado"`
	Details string `json:"details,omitempty" example:"field city is a required field"`
}

// MessageResponse тело ответа, содержащее только сообщение.
type MessageResponse struct {
	Message string `json:"message" example:"Evento eliminado correctamente"`
}

// Error возвращает ответ с сообщением об ошибке.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// WithDetails возвращает ответ с сообщением и текстом исходной ошибки.
func WithDetails(msg string, err error) ErrorResponse {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	return resp
}

// Message возвращает ответ с сообщением об успешной операции.
func Message(msg string) MessageResponse {
	return MessageResponse{Message: msg}
}

// ValidationError возвращает ответ с сообщением msg, а в details перечисляет нарушения
// валидации через запятую. Ошибки, не являющиеся ошибками валидатора, попадают в details как есть.
func ValidationError(msg string, err error) ErrorResponse {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return WithDetails(msg, err)
	}

	errsMsgs := make([]string, 0, len(errs))
	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Error:   msg,
		Details: strings.Join(errsMsgs, ", "),
	}
}
