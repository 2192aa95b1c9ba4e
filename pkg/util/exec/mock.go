package exec

import "context"

// MockExecutor is an Executor whose behaviour is set per test.
type MockExecutor struct {
	MockExecuteCommandWithOutput func(ctx context.Context, command string, arg ...string) (string, error)
}

// ExecuteCommandWithOutput calls the mock hook, or returns empty output when unset.
func (e *MockExecutor) ExecuteCommandWithOutput(ctx context.Context, command string, arg ...string) (string, error) {
	if e.MockExecuteCommandWithOutput != nil {
		return e.MockExecuteCommandWithOutput(ctx, command, arg...)
	}
	return "", nil
}
