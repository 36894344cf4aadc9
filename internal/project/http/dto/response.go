package dto

import (
	"time"

	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
)

// ProjectResponse represents a project in API responses.
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// MapProjectToResponse converts a domain project to an API response.
func MapProjectToResponse(project *projectDomain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}

// ListProjectsResponse wraps the project collection for list endpoints.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

// MapProjectsToListResponse converts domain projects to a list response.
func MapProjectsToListResponse(projects []*projectDomain.Project) ListProjectsResponse {
	responses := make([]ProjectResponse, 0, len(projects))
	for _, project := range projects {
		responses = append(responses, MapProjectToResponse(project))
	}
	return ListProjectsResponse{Projects: responses}
}
