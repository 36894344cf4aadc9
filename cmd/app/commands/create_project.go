package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	projectDomain "github.com/julianstoll1/access-dashboard/internal/project/domain"
	projectUseCase "github.com/julianstoll1/access-dashboard/internal/project/usecase"
)

// RunCreateProject creates a new project and prints its id in either text or
// JSON format.
//
// Requirements: Database must be migrated and accessible.
func RunCreateProject(
	ctx context.Context,
	useCase projectUseCase.ProjectUseCase,
	logger *slog.Logger,
	name string,
	description string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new project", slog.String("name", name))

	input := &projectDomain.CreateProjectInput{
		Name:        name,
		Description: description,
	}

	project, err := useCase.Create(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	// Output result based on format
	if format == "json" {
		outputProjectJSON(project, io.Writer)
	} else {
		outputProjectText(project, io.Writer)
	}

	logger.Info("project created successfully",
		slog.String("project_id", project.ID.String()),
		slog.String("name", name),
	)

	return nil
}

// outputProjectText outputs the result in human-readable text format.
func outputProjectText(project *projectDomain.Project, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nProject created successfully!")
	_, _ = fmt.Fprintf(writer, "Project ID: %s\n", project.ID.String())
	_, _ = fmt.Fprintf(writer, "Name: %s\n", project.Name)
}

// outputProjectJSON outputs the result in JSON format for machine consumption.
func outputProjectJSON(project *projectDomain.Project, writer io.Writer) {
	result := map[string]string{
		"project_id": project.ID.String(),
		"name":       project.Name,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
