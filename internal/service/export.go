package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// ExportService renders settlement statements as an XLSX workbook for the
// office's offline reconciliation.
type ExportService struct {
	reporting *ReportingService
}

// NewExportService creates a new ExportService.
func NewExportService(reporting *ReportingService) *ExportService {
	return &ExportService{reporting: reporting}
}

// StatementsWorkbook builds a workbook with one sheet of rider statements
// and one of client statements. Returns the workbook and a unique file name.
func (s *ExportService) StatementsWorkbook(ctx context.Context, filter StatementFilter) (*excelize.File, string, error) {
	riderStatements, err := s.reporting.RiderStatements(ctx, filter)
	if err != nil {
		return nil, "", err
	}
	clientStatements, err := s.reporting.ClientStatements(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()

	const ridersSheet = "Riders"
	if err := f.SetSheetName("Sheet1", ridersSheet); err != nil {
		return nil, "", err
	}
	riderHeader := []any{
		"Rider ID", "Name", "Phone", "Deliveries", "Settlement Status",
		"Total Amount", "Pending Amount",
	}
	if err := f.SetSheetRow(ridersSheet, "A1", &riderHeader); err != nil {
		return nil, "", err
	}
	for i, st := range riderStatements {
		row := []any{
			st.RiderID, st.RiderName, st.RiderPhone, st.TotalDeliveries,
			string(st.SettlementStatus), st.TotalAmount, st.PendingAmount,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(ridersSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	const clientsSheet = "Clients"
	if _, err := f.NewSheet(clientsSheet); err != nil {
		return nil, "", err
	}
	clientHeader := []any{
		"Client ID", "Name", "Phone", "Deliveries", "Total Amount",
		"Coop Amount", "Office Owes Client", "Client Owes Office",
		"Net Balance", "Client Settlement Status",
	}
	if err := f.SetSheetRow(clientsSheet, "A1", &clientHeader); err != nil {
		return nil, "", err
	}
	for i, st := range clientStatements {
		row := []any{
			st.ClientID, st.ClientName, st.ClientPhone, st.TotalDeliveries,
			st.TotalAmount, st.CoopAmount, st.OfficeOwesClient,
			st.ClientOwesOffice, st.NetBalance, string(st.ClientSettlementStatus),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(clientsSheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	name := fmt.Sprintf("settlement-statements-%s.xlsx", uuid.New().String())
	return f, name, nil
}
