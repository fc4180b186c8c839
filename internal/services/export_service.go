package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/coding-assessment/internal/models"
	"github.com/SAP-F-2025/coding-assessment/internal/repositories"
)

const (
	summarySheet = "Responses"
	detailSheet  = "Questions"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportAssessmentResponses writes one summary row per response and one
// detail row per answered question.
func (s *exportService) ExportAssessmentResponses(ctx context.Context, assessmentID uint) ([]byte, error) {
	assessment, err := s.repo.Assessments().GetByID(ctx, nil, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssessmentNotFound
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}

	responses, err := s.repo.Responses().GetByAssessment(ctx, nil, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment responses: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("failed to rename Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	summaryHeaders := []interface{}{
		"Response ID", "Assessment", "Interview ID", "Name", "Email",
		"Score", "Total Score", "Tab Switches", "Submitted At",
	}
	detailHeaders := []interface{}{
		"Response ID", "Email", "Question ID", "Question", "Language",
		"Status", "Passed", "Total", "Question Score",
	}
	if err := writeRow(f, summarySheet, 1, summaryHeaders); err != nil {
		return nil, err
	}
	if err := writeRow(f, detailSheet, 1, detailHeaders); err != nil {
		return nil, err
	}

	detailRow := 2
	for i, response := range responses {
		email := stringValue(response.Email)
		summary := []interface{}{
			response.ID,
			assessment.Name,
			response.InterviewID,
			stringValue(response.Name),
			email,
			response.Score,
			response.TotalScore,
			response.TabSwitchCount,
			response.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, summarySheet, i+2, summary); err != nil {
			return nil, err
		}

		for _, qr := range response.Responses {
			detail := []interface{}{
				response.ID,
				email,
				qr.QuestionID,
				qr.QuestionTitle,
				qr.Language,
				resultStatus(qr.Result),
				qr.Result.PassedTestCases,
				qr.Result.TotalTestCases,
				qr.Result.Score,
			}
			if err := writeRow(f, detailSheet, detailRow, detail); err != nil {
				return nil, err
			}
			detailRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.InfoContext(ctx, "Exported assessment responses",
		"assessment_id", assessmentID,
		"responses", len(responses))
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("invalid cell coordinates: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", row, sheet, err)
	}
	return nil
}

func resultStatus(r models.QuestionResult) string {
	if r.Status == "" {
		return "Not run"
	}
	return r.Status
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
