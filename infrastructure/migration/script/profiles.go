package main

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vfg2006/sales-ranking-api/internal/domain"
	"github.com/vfg2006/sales-ranking-api/pkg/parser"
	"github.com/xuri/excelize/v2"
)

var (
	sheetNameHeaders   = []string{"sheet_name", "nome_planilha", "consultor"}
	displayNameHeaders = []string{"display_name", "nome_exibicao", "nome"}
	photoHeaders       = []string{"photo_url", "foto", "foto_url"}
)

// readProfileRows lê a primeira planilha do arquivo. A primeira linha é o cabeçalho.
func readProfileRows(name string, data []byte) ([]domain.UserProfileRequest, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".csv":
		rows, err = readCSV(data)
	default:
		return nil, fmt.Errorf("extensão não suportada: %s", filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	return profilesFromRows(rows)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("planilha sem abas")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("erro ao ler linhas do xlsx: %w", err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("erro ao ler csv: %w", err)
	}
	return rows, nil
}

func profilesFromRows(rows [][]string) ([]domain.UserProfileRequest, error) {
	if len(rows) == 0 {
		return nil, errors.New("planilha vazia")
	}

	columns := map[string]int{}
	for i, header := range rows[0] {
		columns[parser.NormalizeKey(header)] = i
	}

	sheetCol := findColumn(columns, sheetNameHeaders)
	if sheetCol < 0 {
		return nil, errors.New("coluna sheet_name não encontrada")
	}
	displayCol := findColumn(columns, displayNameHeaders)
	photoCol := findColumn(columns, photoHeaders)

	requests := make([]domain.UserProfileRequest, 0, len(rows)-1)
	for _, row := range rows[1:] {
		sheetName := cell(row, sheetCol)
		if sheetName == "" {
			continue
		}

		req := domain.UserProfileRequest{
			SheetName:   sheetName,
			DisplayName: cell(row, displayCol),
		}
		if req.DisplayName == "" {
			req.DisplayName = sheetName
		}
		if photo := cell(row, photoCol); photo != "" {
			req.PhotoURL = &photo
		}

		requests = append(requests, req)
	}

	return requests, nil
}

func findColumn(columns map[string]int, candidates []string) int {
	for _, candidate := range candidates {
		if i, ok := columns[parser.NormalizeKey(candidate)]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
