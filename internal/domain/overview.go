package domain

import "time"

// RecentProjectAge bounds Overview.RecentProjects by creation time.
const RecentProjectAge = 7 * 24 * time.Hour

// Overview is the dashboard summary for one user.
type Overview struct {
	Projects       []Project `json:"projects"`
	RecentProjects []Project `json:"recentProjects"`
	Tasks          []Task    `json:"tasks"`
	CompletedTasks []Task    `json:"completedTasks"`
	Collaborators  []string  `json:"collaborators"`
}

// MemberTasks is every task a user can see across their projects.
type MemberTasks struct {
	Tasks         []Task   `json:"tasks"`
	Collaborators []string `json:"collaborators"`
	CurrentUser   string   `json:"currentUser"`
}

// CollaboratorSet merges the collaborator lists of projects, keeping
// first-seen order and dropping blanks. Entries are compared as stored.
func CollaboratorSet(projects []Project) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, p := range projects {
		for _, c := range p.Collaborators {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// RecentlyCreated keeps projects created within age of now.
func RecentlyCreated(projects []Project, now time.Time, age time.Duration) []Project {
	out := []Project{}
	for _, p := range projects {
		if !p.CreatedAt.IsZero() && now.Sub(p.CreatedAt) <= age {
			out = append(out, p)
		}
	}
	return out
}

// CompletedTasks filters tasks in the done column.
func CompletedTasks(tasks []Task) []Task {
	out := []Task{}
	for _, t := range tasks {
		if t.Status == TaskStatusDone {
			out = append(out, t)
		}
	}
	return out
}

// ProjectIDs lists the ids of projects in order.
func ProjectIDs(projects []Project) []string {
	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	return ids
}
