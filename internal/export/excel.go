package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/gilangrmdnii/invoice-backend/internal/domain/entity"
)

// Exporter renders recap spreadsheets for download. Sheets are built
// from scratch rather than from a template so the binary stays
// self-contained.
type Exporter struct {
	logger *zap.Logger
}

// NewExporter creates a new Exporter
func NewExporter(logger *zap.Logger) *Exporter {
	return &Exporter{logger: logger}
}

var expenseHeaders = []string{"ID", "Project", "Description", "Category", "Amount", "Status", "Created At"}

// WriteExpenses streams an expense recap workbook to w.
func (e *Exporter) WriteExpenses(w io.Writer, expenses []*entity.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := e.writeHeader(f, sheet, expenseHeaders); err != nil {
		return err
	}

	var total int64
	for i, expense := range expenses {
		row := i + 2
		e.setRow(f, sheet, row,
			expense.ID,
			expense.ProjectID,
			expense.Description,
			expense.Category,
			expense.Amount,
			expense.Status,
			expense.CreatedAt.Format("2006-01-02"),
		)
		if expense.Status == entity.StatusApproved {
			total += expense.Amount
		}
	}

	totalRow := len(expenses) + 3
	e.setCell(f, sheet, fmt.Sprintf("D%d", totalRow), "Total approved")
	e.setCell(f, sheet, fmt.Sprintf("E%d", totalRow), total)

	if err := f.Write(w); err != nil {
		e.logger.Error("Failed to write expense workbook", zap.Error(err))
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Expense recap exported", zap.Int("rows", len(expenses)))
	return nil
}

var invoiceHeaders = []string{"ID", "Number", "Project", "Type", "Recipient", "Subtotal", "PPN", "PPh", "Amount", "Paid", "Outstanding", "Status", "Payment Status", "Invoice Date"}

// WriteInvoices streams an invoice recap workbook to w.
func (e *Exporter) WriteInvoices(w io.Writer, invoices []*entity.Invoice) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := e.writeHeader(f, sheet, invoiceHeaders); err != nil {
		return err
	}

	var billed, paid int64
	for i, invoice := range invoices {
		row := i + 2
		e.setRow(f, sheet, row,
			invoice.ID,
			invoice.InvoiceNumber,
			invoice.ProjectID,
			invoice.InvoiceType,
			invoice.RecipientName,
			invoice.Subtotal,
			invoice.PPNAmount,
			invoice.PPHAmount,
			invoice.Amount,
			invoice.PaidAmount,
			invoice.RemainingBalance(),
			invoice.Status,
			invoice.PaymentStatus,
			invoice.InvoiceDate.Format("2006-01-02"),
		)
		if invoice.Status == entity.StatusApproved {
			billed += invoice.Amount
			paid += invoice.PaidAmount
		}
	}

	totalRow := len(invoices) + 3
	e.setCell(f, sheet, fmt.Sprintf("H%d", totalRow), "Total billed")
	e.setCell(f, sheet, fmt.Sprintf("I%d", totalRow), billed)
	e.setCell(f, sheet, fmt.Sprintf("H%d", totalRow+1), "Total paid")
	e.setCell(f, sheet, fmt.Sprintf("I%d", totalRow+1), paid)

	if err := f.Write(w); err != nil {
		e.logger.Error("Failed to write invoice workbook", zap.Error(err))
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("Invoice recap exported", zap.Int("rows", len(invoices)))
	return nil
}

func (e *Exporter) writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build header cell: %w", err)
		}
		e.setCell(f, sheet, cell, header)
	}
	return nil
}

func (e *Exporter) setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, value := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			e.logger.Warn("Failed to build cell name", zap.Int("row", row), zap.Int("col", i+1), zap.Error(err))
			continue
		}
		e.setCell(f, sheet, cell, value)
	}
}

func (e *Exporter) setCell(f *excelize.File, sheet, cell string, value interface{}) {
	if err := f.SetCellValue(sheet, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("sheet", sheet),
			zap.String("cell", cell),
			zap.Error(err))
	}
}
