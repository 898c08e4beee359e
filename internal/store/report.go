package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"civicwatch/internal/utils"
	"civicwatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reportTableName = "civicwatch.reports"

var reportColumns = utils.StructTagValues(reportRow{})

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// reportRow mirrors the reports table. Note threads are persisted as
// serialized JSON text; conversion to []types.Note happens only here, at the
// storage boundary.
type reportRow struct {
	ID                 string     `db:"id"`
	Title              string     `db:"title"`
	Description        string     `db:"description"`
	Category           string     `db:"category"`
	Priority           string     `db:"priority"`
	Status             string     `db:"status"`
	LocationAddress    string     `db:"location_address"`
	LocationLat        *float64   `db:"location_lat"`
	LocationLng        *float64   `db:"location_lng"`
	PhotoURLs          []string   `db:"photo_urls"`
	PublicNotes        *string    `db:"public_notes"`
	StaffNotes         *string    `db:"staff_notes"`
	CitizenName        string     `db:"citizen_name"`
	CitizenEmail       string     `db:"citizen_email"`
	CitizenPhone       string     `db:"citizen_phone"`
	AssignedDepartment *string    `db:"assigned_department"`
	UserID             *string    `db:"user_id"`
	CreatedAt          time.Time  `db:"created_at"`
	AcknowledgedAt     *time.Time `db:"acknowledged_at"`
	InProgressAt       *time.Time `db:"in_progress_at"`
	ResolvedAt         *time.Time `db:"resolved_at"`
}

type ReportRepository struct {
	pool *pgxpool.Pool
}

func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// Reports returns every report, newest first.
func (r *ReportRepository) Reports(ctx context.Context) ([]*types.Report, error) {

	query, args, err := psql().Select(reportColumns...).From(reportTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate list reports query: %w", err)
	}

	var rows = make([]*reportRow, 0)
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select reports: %w", err)
	}

	reports := make([]*types.Report, 0, len(rows))
	for _, row := range rows {
		report, err := rowToReport(row)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}

	return reports, nil
}

func (r *ReportRepository) Report(ctx context.Context, reportID string) (*types.Report, error) {

	query, args, err := psql().Select(reportColumns...).From(reportTableName).
		Where(sq.Eq{"id": reportID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate report query: %w", err)
	}

	var row = new(reportRow)
	err = pgxscan.Get(ctx, r.pool, row, query, args...)
	if err != nil && !pgxscan.NotFound(err) {
		return nil, err
	}

	if err != nil {
		return nil, types.ErrReportNotFound
	}

	return rowToReport(row)
}

// CreateReport inserts a new row. The repository assigns the ID and creation
// time; the caller's values for both are overwritten.
func (r *ReportRepository) CreateReport(ctx context.Context, report *types.Report) error {

	report.ID = utils.NanoID()
	report.CreatedAt = time.Now()

	row, err := reportToRow(report)
	if err != nil {
		return err
	}

	query, args, err := psql().Insert(reportTableName).SetMap(utils.StructToMap(row)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert report query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create report")

}

// UpdateReport writes only the fields present in the patch. Omitted fields
// are left untouched.
func (r *ReportRepository) UpdateReport(ctx context.Context, reportID string, patch types.ReportPatch) error {

	setMap, err := patchToMap(patch)
	if err != nil {
		return err
	}

	if len(setMap) == 0 {
		return nil
	}

	query, args, err := psql().Update(reportTableName).SetMap(setMap).Where(sq.Eq{"id": reportID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update report query for report %s: %w", reportID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to update report")

}

func (r *ReportRepository) DeleteReport(ctx context.Context, reportID string) error {

	query, args, err := psql().Delete(reportTableName).Where(sq.Eq{"id": reportID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete report query for report %s: %w", reportID, err)
	}

	_, err = r.pool.Exec(ctx, query, args...)

	return utils.ErrorWrapOrNil(err, "failed to delete report")

}

func patchToMap(patch types.ReportPatch) (map[string]any, error) {

	m := make(map[string]any)

	if patch.Title != nil {
		m["title"] = *patch.Title
	}
	if patch.Description != nil {
		m["description"] = *patch.Description
	}
	if patch.Category != nil {
		m["category"] = *patch.Category
	}
	if patch.Priority != nil {
		m["priority"] = string(*patch.Priority)
	}
	if patch.Status != nil {
		m["status"] = string(*patch.Status)
	}
	if patch.LocationAddress != nil {
		m["location_address"] = *patch.LocationAddress
	}
	if patch.LocationLat != nil {
		m["location_lat"] = *patch.LocationLat
	}
	if patch.LocationLng != nil {
		m["location_lng"] = *patch.LocationLng
	}
	if patch.MediaURLs != nil {
		m["photo_urls"] = patch.MediaURLs
	}
	if patch.PublicNotes != nil {
		encoded, err := encodeNotes(patch.PublicNotes)
		if err != nil {
			return nil, err
		}
		m["public_notes"] = encoded
	}
	if patch.StaffNotes != nil {
		encoded, err := encodeNotes(patch.StaffNotes)
		if err != nil {
			return nil, err
		}
		m["staff_notes"] = encoded
	}
	if patch.AssignedDepartment != nil {
		m["assigned_department"] = nullable(*patch.AssignedDepartment)
	}
	if patch.AcknowledgedAt != nil {
		m["acknowledged_at"] = *patch.AcknowledgedAt
	}
	if patch.InProgressAt != nil {
		m["in_progress_at"] = *patch.InProgressAt
	}
	if patch.ResolvedAt != nil {
		m["resolved_at"] = *patch.ResolvedAt
	}

	return m, nil
}

func rowToReport(row *reportRow) (*types.Report, error) {

	publicNotes, err := decodeNotes(row.PublicNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode public notes for report %s: %w", row.ID, err)
	}

	staffNotes, err := decodeNotes(row.StaffNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to decode staff notes for report %s: %w", row.ID, err)
	}

	media := row.PhotoURLs
	if media == nil {
		media = make([]string, 0)
	}

	return &types.Report{
		ID:                 row.ID,
		Title:              row.Title,
		Description:        row.Description,
		Category:           row.Category,
		Priority:           types.ReportPriority(row.Priority),
		Status:             types.ReportStatus(row.Status),
		LocationAddress:    row.LocationAddress,
		LocationLat:        row.LocationLat,
		LocationLng:        row.LocationLng,
		MediaURLs:          media,
		PublicNotes:        publicNotes,
		StaffNotes:         staffNotes,
		CitizenName:        row.CitizenName,
		CitizenEmail:       row.CitizenEmail,
		CitizenPhone:       row.CitizenPhone,
		AssignedDepartment: row.AssignedDepartment,
		UserID:             row.UserID,
		CreatedAt:          row.CreatedAt,
		AcknowledgedAt:     row.AcknowledgedAt,
		InProgressAt:       row.InProgressAt,
		ResolvedAt:         row.ResolvedAt,
	}, nil
}

func reportToRow(report *types.Report) (*reportRow, error) {

	publicNotes, err := encodeNotes(report.PublicNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode public notes: %w", err)
	}

	staffNotes, err := encodeNotes(report.StaffNotes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode staff notes: %w", err)
	}

	return &reportRow{
		ID:                 report.ID,
		Title:              report.Title,
		Description:        report.Description,
		Category:           report.Category,
		Priority:           string(report.Priority),
		Status:             string(report.Status),
		LocationAddress:    report.LocationAddress,
		LocationLat:        report.LocationLat,
		LocationLng:        report.LocationLng,
		PhotoURLs:          report.MediaURLs,
		PublicNotes:        publicNotes,
		StaffNotes:         staffNotes,
		CitizenName:        report.CitizenName,
		CitizenEmail:       report.CitizenEmail,
		CitizenPhone:       report.CitizenPhone,
		AssignedDepartment: report.AssignedDepartment,
		UserID:             report.UserID,
		CreatedAt:          report.CreatedAt,
		AcknowledgedAt:     report.AcknowledgedAt,
		InProgressAt:       report.InProgressAt,
		ResolvedAt:         report.ResolvedAt,
	}, nil
}

func encodeNotes(notes []types.Note) (*string, error) {
	if len(notes) == 0 {
		return nil, nil
	}

	data, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notes: %w", err)
	}

	return utils.StringPtr(string(data)), nil
}

func decodeNotes(raw *string) ([]types.Note, error) {
	if raw == nil || *raw == "" {
		return make([]types.Note, 0), nil
	}

	var notes []types.Note
	if err := json.Unmarshal([]byte(*raw), &notes); err != nil {
		return nil, err
	}

	return notes, nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
