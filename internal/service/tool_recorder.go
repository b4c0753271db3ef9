package service

import (
	"context"
	"sync"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// toolRecorder remembers the last tool the agent invoked during one unit
// run, so the draft can report what grounded each answer.
type toolRecorder struct {
	mu   sync.Mutex
	last string
}

func (r *toolRecorder) note(name string) {
	r.mu.Lock()
	r.last = name
	r.mu.Unlock()
}

func (r *toolRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// recordedTool wraps an invokable tool and notes its name on every call.
type recordedTool struct {
	inner tool.InvokableTool
	rec   *toolRecorder
}

func (t *recordedTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	return t.inner.Info(ctx)
}

func (t *recordedTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...tool.Option) (string, error) {
	if info, err := t.inner.Info(ctx); err == nil && info != nil {
		t.rec.note(info.Name)
	}
	return t.inner.InvokableRun(ctx, argumentsInJSON, opts...)
}
