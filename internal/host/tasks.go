package host

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/lowitz/planview/internal/record"
)

// ScopeFilter narrows which task records the host returns.
type ScopeFilter struct {
	// Paths limits results to tasks whose file path has one of these
	// prefixes. Empty means the whole vault.
	Paths []string

	// IncludeCompleted keeps completed tasks in the result set.
	IncludeCompleted bool
}

// taskRecord is the host's wire shape for one task line.
type taskRecord struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Scheduled string `json:"scheduled,omitempty"`
	Due       string `json:"due,omitempty"`
	Completed bool   `json:"completed"`
	Area      string `json:"area,omitempty"`
	Heading   string `json:"heading,omitempty"`
	Path      string `json:"path"`
	Position  int    `json:"position"`
	ParentID  string `json:"parent_id,omitempty"`
	Kind      string `json:"kind,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

func buildScopeQuery(filter ScopeFilter) url.Values {
	query := url.Values{}

	if len(filter.Paths) > 0 {
		query.Set("paths", strings.Join(filter.Paths, ","))
	}
	if filter.IncludeCompleted {
		query.Set("completed", "true")
	}

	return query
}

// LoadTasks returns all task records matched by the scope filter.
func (c *Client) LoadTasks(filter ScopeFilter) ([]record.Task, error) {
	var records []taskRecord
	if err := c.GetWithQuery("/tasks", buildScopeQuery(filter), &records); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks := make([]record.Task, 0, len(records))
	for _, r := range records {
		tasks = append(tasks, taskFromWire(r))
	}
	return tasks, nil
}

// SaveTask writes the full task record back to its file line. The host is
// the source of truth: a non-2xx response means the line was not updated.
func (c *Client) SaveTask(t record.Task) error {
	if err := c.Post("/tasks/"+url.PathEscape(t.ID), taskToWire(t), nil); err != nil {
		return fmt.Errorf("failed to save task %s: %w", t.ID, err)
	}
	return nil
}

// CreateTaskRequest asks the host to append a new task line.
type CreateTaskRequest struct {
	Path      string `json:"path"`
	Heading   string `json:"heading,omitempty"`
	Text      string `json:"text"`
	Scheduled string `json:"scheduled,omitempty"`
}

// CreateTask appends a new task under the given file and heading and
// returns the record the host created, id included.
func (c *Client) CreateTask(path, heading, schedule string) (record.Task, error) {
	req := CreateTaskRequest{
		Path:      path,
		Heading:   heading,
		Text:      "New task",
		Scheduled: schedule,
	}

	var created taskRecord
	if err := c.Post("/tasks", req, &created); err != nil {
		return record.Task{}, fmt.Errorf("failed to create task: %w", err)
	}
	return taskFromWire(created), nil
}

// QuickAdd creates a task from a free-text line. The host parses inline
// schedule markers the same way it does for typed-in lines.
func (c *Client) QuickAdd(path, heading, text string) (record.Task, error) {
	req := CreateTaskRequest{
		Path:    path,
		Heading: heading,
		Text:    text,
	}

	var created taskRecord
	if err := c.Post("/tasks", req, &created); err != nil {
		return record.Task{}, fmt.Errorf("failed to quick-add task: %w", err)
	}
	return taskFromWire(created), nil
}

// UpdateFileOrder moves a heading within its file, placing it before the
// named sibling. An empty before moves it to the end.
func (c *Client) UpdateFileOrder(path, heading, before string) error {
	body := struct {
		Path    string `json:"path"`
		Heading string `json:"heading"`
		Before  string `json:"before,omitempty"`
	}{Path: path, Heading: heading, Before: before}

	if err := c.Post("/file-order", body, nil); err != nil {
		return fmt.Errorf("failed to reorder %s in %s: %w", heading, path, err)
	}
	return nil
}

// ExcludePaths returns the vault paths the host is configured to hide.
func (c *Client) ExcludePaths() ([]string, error) {
	var paths []string
	if err := c.Get("/settings/exclude-paths", &paths); err != nil {
		return nil, fmt.Errorf("failed to load excluded paths: %w", err)
	}
	return paths, nil
}

// Setting returns one named host setting as a string. Missing settings
// come back empty rather than as an error.
func (c *Client) Setting(name string) (string, error) {
	var value string
	err := c.Get("/settings/"+url.PathEscape(name), &value)
	if err != nil {
		if apiErr, ok := IsAPIError(err); ok && apiErr.IsNotFound() {
			return "", nil
		}
		return "", fmt.Errorf("failed to load setting %s: %w", name, err)
	}
	return value, nil
}

// PlayComplete asks the host to play its task-completion sound. Fire and
// forget: the sound is decoration and a failure never blocks a mutation.
func (c *Client) PlayComplete() {
	go func() {
		_ = c.Post("/commands/play-complete", nil, nil)
	}()
}

// cleanSchedule trims a wire schedule to minute precision. Bare dates stay
// bare; expanding them would reclassify all-day items as midnight-timed.
func cleanSchedule(iso string) string {
	if iso == "" || record.DateOnly(iso) {
		return iso
	}
	return record.Normalize(iso)
}

func taskFromWire(r taskRecord) record.Task {
	return record.Task{
		ID:        r.ID,
		Text:      r.Text,
		Scheduled: cleanSchedule(r.Scheduled),
		Due:       cleanSchedule(r.Due),
		Completed: r.Completed,
		Area:      r.Area,
		Heading:   r.Heading,
		Path:      r.Path,
		Position:  r.Position,
		ParentID:  r.ParentID,
		Kind:      record.KindFromString(r.Kind),
		Duration:  r.Duration,
	}
}

func taskToWire(t record.Task) taskRecord {
	return taskRecord{
		ID:        t.ID,
		Text:      t.Text,
		Scheduled: t.Scheduled,
		Due:       t.Due,
		Completed: t.Completed,
		Area:      t.Area,
		Heading:   t.Heading,
		Path:      t.Path,
		Position:  t.Position,
		ParentID:  t.ParentID,
		Kind:      t.Kind.String(),
		Duration:  t.Duration,
	}
}
