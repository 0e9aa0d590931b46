package snapshots

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aristath/limitup/internal/domain"
	"github.com/axgle/mahonia"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrInvalidSnapshot is returned for files that cannot be read as a limit-up snapshot
var ErrInvalidSnapshot = errors.New("invalid snapshot file")

type column int

const (
	colCode column = iota
	colName
	colPrice
	colFinalLimitUp
	colOpenCount
	colStreakDays
	colLimitUpType
	colReasonTags
)

// headerAliases maps normalized header names, without any date qualifier, to columns
var headerAliases = map[string]column{
	"股票代码":                colCode,
	"代码":                  colCode,
	"code":                colCode,
	"股票简称":                colName,
	"名称":                  colName,
	"name":                colName,
	"最新价":                 colPrice,
	"price":               colPrice,
	"最终涨停时间":              colFinalLimitUp,
	"final_limit_up_time": colFinalLimitUp,
	"涨停开板次数":              colOpenCount,
	"open_count":          colOpenCount,
	"连续涨停天数":              colStreakDays,
	"streak_days":         colStreakDays,
	"涨停类型":                colLimitUpType,
	"limit_up_type":       colLimitUpType,
	"涨停原因类别":              colReasonTags,
	"reason_tags":         colReasonTags,
}

// qualifiedHeader matches "name[YYYYMMDD]" headers produced by the stock screener export
var qualifiedHeader = regexp.MustCompile(`^(.*?)\s*\[(\d{8})\]$`)

// Importer turns exported snapshot files into records
type Importer struct{}

// NewImporter creates a snapshot file importer
func NewImporter() *Importer {
	return &Importer{}
}

// Parse reads an .xlsx or .csv snapshot for date. CSV may be UTF-8 or GBK.
// Date-qualified headers must carry the same date.
func (i *Importer) Parse(content []byte, filename string, date time.Time) ([]domain.Record, error) {
	var rows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readExcel(content)
	case ".csv", ".txt":
		rows, err = readCSV(content)
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", ErrInvalidSnapshot, filepath.Ext(filename))
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", ErrInvalidSnapshot)
	}

	columns, err := mapHeader(rows[0], domain.CompactDate(date))
	if err != nil {
		return nil, err
	}

	records := make([]domain.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec, ok := parseRow(row, columns)
		if ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readExcel(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse excel failed: %v", ErrInvalidSnapshot, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: excel has no sheets", ErrInvalidSnapshot)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %s: %v", ErrInvalidSnapshot, sheets[0], err)
	}
	return rows, nil
}

func readCSV(content []byte) ([][]string, error) {
	text := string(content)
	if !utf8.Valid(content) {
		text = mahonia.NewDecoder("gbk").ConvertString(text)
	}
	text = strings.TrimPrefix(text, "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse csv failed: %v", ErrInvalidSnapshot, err)
	}
	return rows, nil
}

func mapHeader(header []string, compactDate string) (map[column]int, error) {
	columns := make(map[column]int)
	for idx, cell := range header {
		name := strings.TrimSpace(cell)
		if m := qualifiedHeader.FindStringSubmatch(name); m != nil {
			if m[2] != compactDate {
				return nil, fmt.Errorf("%w: column %q is for %s, expected %s", ErrInvalidSnapshot, name, m[2], compactDate)
			}
			name = m[1]
		}
		col, ok := headerAliases[strings.ToLower(name)]
		if !ok {
			continue
		}
		if _, dup := columns[col]; !dup {
			columns[col] = idx
		}
	}
	if _, ok := columns[colCode]; !ok {
		return nil, fmt.Errorf("%w: missing stock code column", ErrInvalidSnapshot)
	}
	return columns, nil
}

// parseRow converts one data row; rows without a code are skipped.
// A blank reason cell is stored as an absent field, so the record counts as
// domain.UnknownReason. Only a non-empty field that splits into no tags contributes nothing.
func parseRow(row []string, columns map[column]int) (domain.Record, bool) {
	cell := func(c column) (string, bool) {
		idx, ok := columns[c]
		if !ok || idx >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[idx]), true
	}

	code, _ := cell(colCode)
	if code == "" {
		return domain.Record{}, false
	}

	rec := domain.Record{Code: code}
	rec.Name, _ = cell(colName)
	rec.FinalLimitUp, _ = cell(colFinalLimitUp)
	rec.LimitUpType, _ = cell(colLimitUpType)

	if raw, ok := cell(colPrice); ok {
		if p, err := decimal.NewFromString(raw); err == nil {
			rec.Price = p
		}
	}
	if raw, ok := cell(colOpenCount); ok {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			rec.OpenCount = n
		}
	}
	if raw, ok := cell(colStreakDays); ok {
		rec.StreakDays = domain.ParseStreakDays(raw)
	}
	if raw, ok := cell(colReasonTags); ok && raw != "" {
		tags := raw
		rec.ReasonTags = &tags
	}
	return rec, true
}
