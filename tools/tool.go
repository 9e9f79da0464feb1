package tools

import (
	"context"
	"errors"
)

var (
	ErrToolNotFound     = errors.New("tool not found")
	ErrInvalidArguments = errors.New("invalid tool arguments")
)

// Tool is a function the voice agent can call during a conversation turn.
type Tool interface {
	Name() string
	Description() string
	Parameters() []ParameterDef
	Execute(ctx context.Context, args map[string]any) (string, error)
}

type ParameterDef struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string" | "number" | "boolean"
	Description string `json:"description"`
	Required    bool   `json:"required"`
}
