package domain

// Workspace represents a Clockify workspace in the domain layer.
type Workspace struct {
	ID   string
	Name string
}

// Project represents a Clockify project. WorkspaceID is a plain foreign key.
type Project struct {
	ID          string
	Name        string
	WorkspaceID string
}

// Task represents a task under a project.
type Task struct {
	ID        string
	Name      string
	ProjectID string
}

func (w Workspace) Key() (string, string) { return w.ID, w.Name }
func (p Project) Key() (string, string)   { return p.ID, p.Name }
func (t Task) Key() (string, string)      { return t.ID, t.Name }
