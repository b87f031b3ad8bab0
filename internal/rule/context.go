package rule

import (
	"go.uber.org/zap"

	"github.com/temirov/lint-setup/internal/versions"
)

// Options carries caller supplied settings into every rule of a run.
type Options struct {
	Project  string
	Versions versions.Table
	Values   map[string]string
}

// Context is created once per pipeline run and shared by reference with every
// rule in it.
type Context struct {
	Logger  *zap.Logger
	Tasks   *TaskQueue
	Options Options
}

func NewContext(logger *zap.Logger, options Options) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Versions == nil {
		options.Versions = versions.Table{}
	}
	return &Context{Logger: logger, Tasks: NewTaskQueue(), Options: options}
}

func (c *Context) Info(message string, fields ...zap.Field) { c.Logger.Info(message, fields...) }

func (c *Context) Error(message string, fields ...zap.Field) { c.Logger.Error(message, fields...) }

// AddTask schedules work for the host to run after the pipeline finishes.
func (c *Context) AddTask(task Task) { c.Tasks.Enqueue(task) }

// Value returns the caller option stored under key, or fallback when unset.
func (c *Context) Value(key string, fallback string) string {
	if value, ok := c.Options.Values[key]; ok && value != "" {
		return value
	}
	return fallback
}
