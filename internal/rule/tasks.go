package rule

import (
	"maps"
	"sort"
	"strings"
)

// TaskNodePackageInstall asks the host to install the project's declared
// dependencies.
const TaskNodePackageInstall = "node-package-install"

const (
	// TaskParamPackageManager overrides the host's package manager for one task.
	TaskParamPackageManager = "package_manager"
	// TaskParamWorkingDirectory is a project-relative directory to install in.
	TaskParamWorkingDirectory = "working_directory"
)

// Task describes deferred work. The engine never runs tasks; the host drains
// them once the pipeline has finished.
type Task struct {
	Kind   string
	Params map[string]string
}

// Key identifies tasks that would do the same work.
func (t Task) Key() string {
	keys := make([]string, 0, len(t.Params))
	for key := range t.Params {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	builder.WriteString(t.Kind)
	for _, key := range keys {
		builder.WriteString(";")
		builder.WriteString(key)
		builder.WriteString("=")
		builder.WriteString(t.Params[key])
	}
	return builder.String()
}

// NodePackageInstall builds the install task for the current run. The
// package_manager and working_directory run options, when set, become task
// parameters; tasks built from the same options share a key.
func NodePackageInstall(execution *Context) Task {
	params := map[string]string{}
	for _, key := range []string{TaskParamPackageManager, TaskParamWorkingDirectory} {
		if value := execution.Value(key, ""); value != "" {
			params[key] = value
		}
	}
	if len(params) == 0 {
		params = nil
	}
	return Task{Kind: TaskNodePackageInstall, Params: params}
}

// TaskQueue is an append-only list of tasks in enqueue order.
type TaskQueue struct {
	tasks []Task
}

func NewTaskQueue() *TaskQueue { return &TaskQueue{} }

func (q *TaskQueue) Enqueue(task Task) {
	task.Params = maps.Clone(task.Params)
	q.tasks = append(q.tasks, task)
}

// Tasks returns a copy of the queued tasks.
func (q *TaskQueue) Tasks() []Task {
	out := make([]Task, len(q.tasks))
	copy(out, q.tasks)
	return out
}

// Drain hands every queued task to the caller and empties the queue.
func (q *TaskQueue) Drain() []Task {
	out := q.tasks
	q.tasks = nil
	return out
}

func (q *TaskQueue) Len() int { return len(q.tasks) }
