package reporting

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"venuedesk/internal/models"
)

const excelSheetName = "Bookings"

// ExportExcel writes the bookings to an .xlsx file under exportDir and
// returns the file path. Columns match the CSV export.
func (r *Reporter) ExportExcel(bookings []models.BookingRequest, exportDir string) (string, error) {
	if err := os.MkdirAll(exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(excelSheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, header := range csvHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(excelSheetName, cell, header)
		_ = f.SetCellStyle(excelSheetName, cell, cell, headerStyle)
	}

	for rowIdx, b := range bookings {
		row := rowIdx + 2
		values := []interface{}{
			b.ID,
			b.RequesterName,
			b.CompanyName,
			b.Designation,
			b.Email,
			b.MobileNumber,
			b.VenueRequested,
			b.Event,
			b.EventScheduleStartDate,
			b.EventStartTime,
			b.EventEndTime,
			b.NumberOfGuests,
			b.Status,
			b.ApprovedBy,
			b.ApprovedDate,
			b.CreatedAt.Format(time.RFC3339),
			b.UpdatedAt.Format(time.RFC3339),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(excelSheetName, cell, value)
		}
	}

	_ = f.SetColWidth(excelSheetName, "A", "A", 36)
	_ = f.SetColWidth(excelSheetName, "B", "Q", 18)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("booking-report-%s.xlsx", time.Now().Format(models.EventDateLayout))
	filePath := filepath.Join(exportDir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save excel file: %w", err)
	}

	if r.logger != nil {
		r.logger.Info().Str("file_path", filePath).Int("rows", len(bookings)).Msg("excel report created")
	}
	return filePath, nil
}
