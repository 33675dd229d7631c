package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/alimgiray/daybrief/internal/models"
)

// ExportService renders the current feed into an Excel workbook
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Export builds a workbook with an Actions sheet and a Momentum sheet
func (s *ExportService) Export(actions []models.RankedTodo, stats models.MomentumStats) (*excelize.File, error) {
	file := excelize.NewFile()

	const actionsSheet = "Actions"
	if err := file.SetSheetName("Sheet1", actionsSheet); err != nil {
		return nil, err
	}

	headers := []string{"Title", "Score", "Due", "Priority", "Source", "Reasons"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(actionsSheet, cell, header); err != nil {
			return nil, err
		}
	}

	for row, action := range actions {
		due := ""
		if action.Todo.DueDate != nil {
			due = action.Todo.DueDate.Format("2006-01-02")
		}

		values := []interface{}{
			action.Todo.Title,
			action.Score,
			due,
			string(action.Todo.Priority),
			string(action.Todo.SourceType),
			strings.Join(action.Reasons, ", "),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(actionsSheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	const momentumSheet = "Momentum"
	if _, err := file.NewSheet(momentumSheet); err != nil {
		return nil, err
	}

	counts := []struct {
		label string
		value int
	}{
		{"Remaining events today", stats.RemainingEventsToday},
		{"Total events today", stats.TotalEventsToday},
		{"Pending todos", stats.PendingTodos},
		{"Overdue todos", stats.OverdueTodos},
		{"Completed today", stats.CompletedToday},
		{"Unread actionable threads", stats.UnreadActionableThreads},
	}
	for i, count := range counts {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := file.SetCellValue(momentumSheet, labelCell, count.label); err != nil {
			return nil, err
		}
		if err := file.SetCellValue(momentumSheet, valueCell, count.value); err != nil {
			return nil, err
		}
	}

	return file, nil
}
