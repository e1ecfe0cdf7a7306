package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/kuomat/penn-labs/internal/repository"
)

var ErrExportGenerateFail = errors.New("failed to generate xlsx file")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头后写入
type ExportService interface {
	// ExportClubs 导出全部社团为 Excel，返回内容与建议文件名
	ExportClubs(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

var clubSheetHeaders = []string{"Code", "Name", "Description", "Likes", "Tags", "Files"}

func (s *exportService) ExportClubs(ctx context.Context) (*bytes.Buffer, string, error) {
	clubs, err := s.repo.Club.List(ctx)
	if err != nil {
		s.logger.Error("查询社团列表失败", zap.Error(err))
		return nil, "", err
	}
	rows, err := buildClubResponses(ctx, s.repo, clubs)
	if err != nil {
		s.logger.Error("加载社团标签/文件失败", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Clubs"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 32)
	f.SetColWidth(sheetName, "C", "C", 60)
	f.SetColWidth(sheetName, "D", "D", 8)
	f.SetColWidth(sheetName, "E", "F", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range clubSheetHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(clubSheetHeaders)-1), 1), headerStyle)
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	// 数据行
	for i, c := range rows {
		row := i + 2
		f.SetCellValue(sheetName, cell("A", row), c.Code)
		f.SetCellValue(sheetName, cell("B", row), c.Name)
		f.SetCellValue(sheetName, cell("C", row), c.Description)
		f.SetCellValue(sheetName, cell("D", row), c.Likes)
		f.SetCellValue(sheetName, cell("E", row), strings.Join(c.Tags, ", "))
		f.SetCellValue(sheetName, cell("F", row), strings.Join(c.Files, ", "))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("clubs_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
