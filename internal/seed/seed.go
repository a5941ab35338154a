package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/openlab/internal/app/models"
	"github.com/yigit/openlab/internal/app/repositories"
)

// DefaultLabs are inserted into an empty labs table
var DefaultLabs = []models.Lab{
	{Name: "Artificial Intelligence Lab", ProfessorName: "Prof. Kim Cheolsu", Capacity: 6, Description: "Machine learning, deep learning and natural language processing", Location: "E3-401"},
	{Name: "Computer Vision Lab", ProfessorName: "Prof. Lee Younghee", Capacity: 5, Description: "Image recognition, object detection and medical imaging", Location: "E3-402"},
	{Name: "Distributed Systems Lab", ProfessorName: "Prof. Park Minjun", Capacity: 5, Description: "Cloud and edge computing, blockchain", Location: "E3-403"},
	{Name: "Cyber Security Lab", ProfessorName: "Prof. Choi Sujin", Capacity: 4, Description: "Network security, cryptography and vulnerability analysis", Location: "E3-404"},
	{Name: "HCI Lab", ProfessorName: "Prof. Jung Taeyang", Capacity: 6, Description: "User interfaces, augmented reality and UX research", Location: "E3-405"},
	{Name: "Database Lab", ProfessorName: "Prof. Kang Nara", Capacity: 5, Description: "Big data, distributed databases and query optimisation", Location: "E3-406"},
}

// CreateDefaultData inserts DefaultLabs when no lab exists yet. It returns
// the number of labs created. A failed insert does not stop the others.
func CreateDefaultData(ctx context.Context, labs repositories.LabStore, lgr zerolog.Logger) (int, error) {
	count, err := labs.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count labs: %w", err)
	}
	if count > 0 {
		lgr.Debug().Int("labs", count).Msg("Labs already present, skipping seed")
		return 0, nil
	}

	lgr.Info().Int("labs", len(DefaultLabs)).Msg("Creating default labs...")
	var finalErr error // collect errors without stopping the loop
	created := 0
	for _, def := range DefaultLabs {
		lab := def
		if err := labs.Create(ctx, &lab); err != nil {
			lgr.Error().Err(err).Str("lab", lab.Name).Msg("Error creating default lab")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		created++
	}

	lgr.Info().Int("created", created).Msg("Default labs created")
	return created, finalErr
}
