package seed

import (
	"context"
	"fmt"
	"time"

	"civicwatch/internal/store"
	"civicwatch/internal/utils"
	"civicwatch/pkg/types"
)

// Reports inserts a set of demo civic reports for local development.
func Reports(ctx context.Context, repo *store.ReportRepository) ([]*types.Report, error) {

	demo := []*types.Report{
		{
			Title:           "Pothole on Main Street",
			Description:     "Large pothole near the intersection with 5th Avenue, getting worse after the rain.",
			Category:        "Road Maintenance",
			Priority:        types.PriorityHigh,
			Status:          types.StatusSubmitted,
			LocationAddress: "Main St & 5th Ave",
			LocationLat:     utils.Float64Ptr(40.7128),
			LocationLng:     utils.Float64Ptr(-74.0060),
			CitizenName:     "Maria Alvarez",
			CitizenEmail:    "maria@example.com",
			PublicNotes: []types.Note{
				{
					ID:        "seed-note-1",
					Content:   "Also visible from the bus stop, several cars have hit it.",
					Timestamp: time.Now().Add(-24 * time.Hour),
					Author:    "Maria Alvarez",
				},
			},
		},
		{
			Title:           "Street light out on Oak Drive",
			Description:     "The light at the corner of Oak Dr and Elm St has been out for a week.",
			Category:        "Street Lighting",
			Priority:        types.PriorityMedium,
			Status:          types.StatusSubmitted,
			LocationAddress: "Oak Dr & Elm St",
			CitizenName:     "James Thompson",
			CitizenEmail:    "james@example.com",
		},
		{
			Title:       "Overflowing trash bins at Riverside Park",
			Description: "Bins near the north entrance have not been emptied; trash is spreading.",
			Category:    "Trash Collection",
			Priority:    types.PriorityMedium,
			Status:      types.StatusSubmitted,
			LocationLat: utils.Float64Ptr(40.8003),
			LocationLng: utils.Float64Ptr(-73.9712),
			CitizenName: "Anonymous",
		},
	}

	for _, report := range demo {
		if err := repo.CreateReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to seed report %q: %w", report.Title, err)
		}
	}

	return demo, nil
}
