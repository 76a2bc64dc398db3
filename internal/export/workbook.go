// Package export renders a dashboard snapshot as an XLSX workbook.
package export

import (
	"fmt"
	"io"

	"github.com/rpggio/shutterboard/internal/domain/dashboard"
	"github.com/xuri/excelize/v2"
)

// Sheet names in workbook order.
const (
	SheetClients = "Clients"
	SheetSummary = "Summary"
	SheetRevenue = "Revenue"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteWorkbook writes snap to w as a three-sheet workbook.
func WriteWorkbook(w io.Writer, snap dashboard.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetClients); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetRevenue} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("adding sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	clients := [][]any{{"ID", "Name", "Email", "Headshots", "Price", "Status"}}
	for _, c := range snap.Clients {
		clients = append(clients, []any{c.ID, c.Name, c.Email, c.Headshots, c.Price, string(c.Status)})
	}

	summary := [][]any{
		{"Metric", "Value"},
		{"Total clients", snap.Stats.TotalClients},
		{"Total headshots", snap.Stats.TotalHeadshots},
		{"Total revenue", snap.Stats.TotalRevenue},
		{"Completed projects", snap.Stats.CompletedProjects},
		{"Pending emails", snap.Stats.PendingEmails},
	}
	if snap.Loaded() {
		summary = append(summary, []any{"Fetched at", snap.FetchedAt.UTC().Format("2006-01-02 15:04:05 MST")})
	}

	revenue := [][]any{{"Month", "Revenue", "Clients"}}
	for _, p := range snap.Revenue {
		revenue = append(revenue, []any{p.Month, p.Revenue, p.Clients})
	}

	for sheet, rows := range map[string][][]any{
		SheetClients: clients,
		SheetSummary: summary,
		SheetRevenue: revenue,
	} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
		if err := f.SetRowStyle(sheet, 1, 1, header); err != nil {
			return fmt.Errorf("styling %s header: %w", sheet, err)
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
