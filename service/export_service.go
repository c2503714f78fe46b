package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportService renders the debtor book as a spreadsheet.
type ExportService struct {
	debtorService *DebtorService
}

// NewExportService creates a new export service
func NewExportService(debtorService *DebtorService) *ExportService {
	return &ExportService{debtorService: debtorService}
}

var debtorHeaders = []string{
	"Invoice", "Customer", "Total", "Paid", "Paid %", "Due Date",
	"Days Overdue", "Category", "Standing", "Last Follow-up", "Follow-up Due",
}

// ExportDebtors builds an .xlsx of the current collections view and
// returns the file bytes.
func (s *ExportService) ExportDebtors(ctx context.Context, tenantID string, now time.Time) ([]byte, error) {
	rows, err := s.debtorService.ListDebtors(ctx, tenantID, now)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Debtors"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for col, header := range debtorHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		category := string(row.Category)
		if row.Excluded {
			category = "excluded"
		}
		lastFollowUp := ""
		if row.LastFollowUpAt != nil {
			lastFollowUp = row.LastFollowUpAt.Format("2006-01-02")
		}
		values := []interface{}{
			row.InvoiceNumber,
			row.CustomerName,
			row.Total.StringFixed(2),
			row.PaidAmount.StringFixed(2),
			fmt.Sprintf("%.1f", row.PaymentPercent),
			row.DueDate.Format("2006-01-02"),
			row.DaysOverdue,
			category,
			string(row.Standing),
			lastFollowUp,
			row.FollowUpDue,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to compute cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}
