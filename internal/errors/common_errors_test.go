package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without cause",
			err:  NewConfigError("pipeline.mode must be basic or extended", nil),
			want: "[CONFIG] pipeline.mode must be basic or extended",
		},
		{
			name: "with cause",
			err:  NewScheduleError("batch failed", errors.New("permission denied")),
			want: "[SCHEDULE] batch failed: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("short read")
	err := NewInputError("week11.xlsx", cause)

	assert.ErrorIs(t, err, cause)
	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeInput, appErr.Type)
}

func TestStageConstructors(t *testing.T) {
	cause := errors.New("x")
	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
		key      string
		value    string
	}{
		{"input", NewInputError("in.xlsx", cause), ErrTypeInput, "source", "in.xlsx"},
		{"transform", NewTransformError("in.xlsx", cause), ErrTypeTransform, "source", "in.xlsx"},
		{"output", NewOutputError("out/processed_in.xlsx", cause), ErrTypeOutput, "target", "out/processed_in.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.Equal(t, tt.value, tt.err.Context[tt.key])
			assert.Same(t, cause, tt.err.Cause)
		})
	}

	assert.Equal(t, ErrTypeConfig, NewConfigError("bad", nil).Type)
	assert.Equal(t, ErrTypeSchedule, NewScheduleError("bad", nil).Type)
}

func TestAppError_WithContext_NilContext(t *testing.T) {
	err := &AppError{Type: ErrTypeOutput, Message: "m"}
	err.WithContext("a", 1).WithContext("b", 2)
	assert.Equal(t, map[string]interface{}{"a": 1, "b": 2}, err.Context)
}
