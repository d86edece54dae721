package install

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("permission denied")
	err := writeFailure("copy launcher to", "/usr/local/bin/franz", cause)

	assert.Equal(t, "write failure: copy launcher to /usr/local/bin/franz: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("install: %w", err)
	assert.Equal(t, KindWriteFailure, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(cause))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestVerificationFailure(t *testing.T) {
	err := verificationFailure(ErrInterpreterFailed, "%s exited with code %d", "main.py", 2)

	assert.ErrorIs(t, err, ErrInterpreterFailed)
	assert.NotErrorIs(t, err, ErrRuntimeMissing)
	assert.Equal(t, "verification failure: smoke test: interpreter failed: main.py exited with code 2", err.Error())
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindRuntimeNotFound, "runtime not found"},
		{KindEntryPointNotFound, "entry point not found"},
		{KindWriteFailure, "write failure"},
		{KindPatchFailure, "patch failure"},
		{KindVerificationFailure, "verification failure"},
		{KindLauncherSource, "launcher source unavailable"},
		{KindUnknown, "install error"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.kind.String())
	}
}
