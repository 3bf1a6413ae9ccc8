package stencil

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/stencil/pkg/devtools"
	"github.com/arthur-debert/stencil/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFormatErrorPlain(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		category  string
		wantSteps bool
	}{
		{
			name:      "stencil error",
			err:       errors.New(errors.ErrConfigValid, "bad value"),
			category:  "CONFIG_INVALID",
			wantSteps: true,
		},
		{
			name:      "devtools error",
			err:       &devtools.Error{Kind: devtools.KindToolsMissing},
			category:  "tools_missing",
			wantSteps: true,
		},
		{
			name:     "plain error",
			err:      stderrors.New("boom"),
			category: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatErrorPlain(tt.err)
			assert.Contains(t, out, "Error ["+tt.category+"]: "+tt.err.Error())
			if tt.wantSteps {
				assert.Contains(t, out, "To fix this:\n  • ")
			} else {
				assert.NotContains(t, out, "To fix this:")
			}
		})
	}

	assert.Empty(t, FormatErrorPlain(nil))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitFailure, ExitCode(stderrors.New("x")))

	exitErr := &ExitError{Code: ExitToolsMissing, Err: stderrors.New("missing"), Reported: true}
	wrapped := fmt.Errorf("devtools: %w", exitErr)
	assert.Equal(t, ExitToolsMissing, ExitCode(wrapped))
	assert.True(t, IsReported(wrapped))
	assert.False(t, IsReported(stderrors.New("x")))
	assert.Equal(t, "exit status 2", (&ExitError{Code: 2}).Error())
}
