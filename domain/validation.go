package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/samber/lo"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Field errors are reported with the wire name the client used
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// fieldMessages maps a wire field and the failing rule to the message sent back to the client.
// An empty rule is the fallback for the field.
var fieldMessages = map[string]map[string]string{
	"type": {
		"required": "Message type is required",
		"":         "Message type must be one of CHAT, JOIN, LEAVE, TYPING, FILE",
	},
	"content": {
		"": fmt.Sprintf("Content must not exceed %d characters", MaxContentLength),
	},
	"sender": {
		"required": "Sender name is required",
		"notblank": "Sender name is required",
		"":         fmt.Sprintf("Sender name must be between %d and %d characters", MinSenderLength, MaxSenderLength),
	},
	"fileContent": {
		"": "File content must not exceed 10MB (base64 encoded)",
	},
	"fileType": {
		"": fmt.Sprintf("File type must not exceed %d characters", MaxFileTypeLength),
	},
}

// ValidationError lists every field constraint an inbound event violated.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := lo.Keys(e.Fields)
	slices.Sort(keys)
	parts := lo.Map(keys, func(key string, _ int) string {
		return fmt.Sprintf("%s: %s", key, e.Fields[key])
	})
	return "validation failed: " + strings.Join(parts, "; ")
}

// ParseEvent decodes a raw inbound payload and validates it.
func ParseEvent(raw []byte) (Event, error) {
	var evt Event
	if len(raw) == 0 {
		return Event{}, NewValidationError("payload", "Message payload is required")
	}
	if err := json.Unmarshal(raw, &evt); err != nil {
		return Event{}, NewValidationError("payload", "Message payload is malformed")
	}
	if err := ValidateEvent(evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// ValidateEvent checks every field constraint at once and never mutates the event.
func ValidateEvent(evt Event) error {
	err := validate.Struct(evt)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}
	result := &ValidationError{Fields: make(map[string]string, len(fieldErrors))}
	for _, fe := range fieldErrors {
		result.Fields[fe.Field()] = messageFor(fe.Field(), fe.Tag())
	}
	return result
}

func messageFor(field, tag string) string {
	messages, ok := fieldMessages[field]
	if !ok {
		return "invalid value"
	}
	if msg, ok := messages[tag]; ok {
		return msg
	}
	return messages[""]
}
