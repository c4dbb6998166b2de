package listing

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/apiErrors"
	"github.com/vfg2006/sales-ranking-api/pkg/log"
	"github.com/xuri/excelize/v2"
)

type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"

	MaxExportRows = 10000

	exportSheetName  = "Vendas"
	exportDateLayout = "02/01/2006"
)

var exportHeaders = []string{
	"Data",
	"Consultor",
	"Administradora",
	"Grupo",
	"Cota",
	"Valor Bruto",
	"Valor Líquido",
	"Competência",
}

// ExportFile é o arquivo gerado para download
type ExportFile struct {
	Name        string
	ContentType string
	Content     []byte
}

// ParseExportFormat aceita "csv" (padrão) ou "xlsx"
func ParseExportFormat(v string) (ExportFormat, error) {
	switch ExportFormat(v) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", NewListingError(ErrInvalidExportFormat, apiErrors.ErrInvalidRequest, v)
	}
}

// Export gera a listagem filtrada inteira (sem paginação), limitada a MaxExportRows
func (s *Service) Export(ctx context.Context, query domain.SalesListQuery, format ExportFormat) (*ExportFile, error) {
	predicate := domain.BuildPredicate(query.Filters, s.now().In(s.loc))
	sort := domain.ResolveSort(query.SortBy, query.SortDir)

	sales, err := s.saleRepository.ListAll(ctx, predicate, sort, MaxExportRows)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao buscar vendas para exportação")
		return nil, NewListingError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "")
	}

	name := "vendas-" + s.now().In(s.loc).Format("20060102-150405")

	switch format {
	case FormatXLSX:
		content, err := s.writeXLSX(sales)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Name:        name + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Content:     content,
		}, nil
	case FormatCSV:
		content, err := s.writeCSV(sales)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			Name:        name + ".csv",
			ContentType: "text/csv; charset=utf-8",
			Content:     content,
		}, nil
	default:
		return nil, NewListingError(ErrInvalidExportFormat, apiErrors.ErrInvalidRequest, string(format))
	}
}

func (s *Service) exportRow(sale domain.Sale) []string {
	return []string{
		sale.SaleDate.In(s.loc).Format(exportDateLayout),
		sale.Salesperson,
		sale.Administrator,
		sale.Group,
		sale.Quota,
		sale.GrossValue.StringFixed(2),
		sale.NetValue.StringFixed(2),
		sale.Competence,
	}
}

func (s *Service) writeCSV(sales []domain.Sale) ([]byte, error) {
	var buf bytes.Buffer
	// BOM para o Excel reconhecer UTF-8
	buf.WriteString("\ufeff")

	writer := csv.NewWriter(&buf)
	if err := writer.Write(exportHeaders); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}
	for _, sale := range sales {
		if err := writer.Write(s.exportRow(sale)); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha: %w", err)
		}
	}
	writer.Flush()

	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("erro ao gerar csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Service) writeXLSX(sales []domain.Sale) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("erro ao nomear planilha: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, sale := range sales {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}

		row := []any{
			sale.SaleDate.In(s.loc).Format(exportDateLayout),
			sale.Salesperson,
			sale.Administrator,
			sale.Group,
			sale.Quota,
			sale.GrossValue.InexactFloat64(),
			sale.NetValue.InexactFloat64(),
			sale.Competence,
		}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("erro ao escrever linha %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("erro ao gerar xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
