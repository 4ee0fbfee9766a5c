package receipts

import (
	"fmt"
	"io"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"

	"github.com/BruksfildServices01/aklinic/internal/models"
)

const exportSheet = "Visits"

var exportHeaders = map[string]string{
	"A1": "Queue",
	"B1": "Created",
	"C1": "Patient",
	"D1": "Phone",
	"E1": "Doctor",
	"F1": "Service",
	"G1": "Status",
	"H1": "Payment",
	"I1": "Amount",
}

// WriteVisitsXLSX writes one row per visit below a header row.
func WriteVisitsXLSX(w io.Writer, visits []models.Visit, loc *time.Location) error {
	file := excelize.NewFile()
	idx := file.NewSheet(exportSheet)
	file.DeleteSheet("Sheet1")
	file.SetActiveSheet(idx)

	for cell, title := range exportHeaders {
		file.SetCellValue(exportSheet, cell, title)
	}

	for i := range visits {
		appendVisitRow(file, i+2, FromVisit(&visits[i], loc), visits[i].Status)
	}

	return file.Write(w)
}

func appendVisitRow(file *excelize.File, row int, r Receipt, status string) {
	file.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), r.QueueLabel)
	file.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), r.CreatedAt.Format("2006-01-02 15:04"))
	file.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), r.PatientName)
	file.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), r.PatientPhone)
	file.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), r.DoctorName)
	file.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), r.ServiceName)
	file.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), status)
	file.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), r.PaymentStatus)
	file.SetCellValue(exportSheet, fmt.Sprintf("I%d", row), r.Total)
}
