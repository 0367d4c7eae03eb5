package domain

import "time"

// ProjectPreference holds one user's view settings for one project.
type ProjectPreference struct {
	UserID         string     `json:"user_id"`
	ProjectID      string     `json:"project_id"`
	Pinned         bool       `json:"pinned"`
	Archived       bool       `json:"archived"`
	Favorite       bool       `json:"favorite"`
	Contributing   bool       `json:"contributing"`
	RecentlyViewed bool       `json:"recently_viewed"`
	ViewedAt       *time.Time `json:"viewed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CreatorPreference is the row written for a project's creator when the
// project is made.
func CreatorPreference(userID, projectID string, now time.Time) *ProjectPreference {
	return &ProjectPreference{
		UserID:         userID,
		ProjectID:      projectID,
		Contributing:   true,
		RecentlyViewed: true,
		ViewedAt:       &now,
	}
}

// UserProject is a project as one user sees it, with their settings merged in.
// A project without a stored preference reports every flag false.
type UserProject struct {
	Project
	Pinned         bool       `json:"isPinned"`
	Archived       bool       `json:"isArchived"`
	Favorite       bool       `json:"isFavorite"`
	Contributing   bool       `json:"isContributing"`
	RecentlyViewed bool       `json:"recentlyViewed"`
	ViewedAt       *time.Time `json:"viewedAt"`
}

// MergePreferences pairs each project with the matching preference by
// project id.
func MergePreferences(projects []Project, prefs []ProjectPreference) []UserProject {
	byProject := make(map[string]ProjectPreference, len(prefs))
	for _, p := range prefs {
		byProject[p.ProjectID] = p
	}
	out := make([]UserProject, 0, len(projects))
	for _, p := range projects {
		up := UserProject{Project: p}
		if pref, ok := byProject[p.ID]; ok {
			up.Pinned = pref.Pinned
			up.Archived = pref.Archived
			up.Favorite = pref.Favorite
			up.Contributing = pref.Contributing
			up.RecentlyViewed = pref.RecentlyViewed
			up.ViewedAt = pref.ViewedAt
		}
		out = append(out, up)
	}
	return out
}
