// Package export renders directory listings as XLSX workbooks.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/IbrahimAli333/LaunchCircle-New/internal/domain/model"
)

// ContentType is the MIME type of the rendered workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type column struct {
	header string
	width  float64
}

var profileColumns = []column{
	{"ID", 38}, {"Name", 22}, {"Email", 28}, {"Role", 20}, {"Skills", 36},
	{"Location", 20}, {"Availability", 16}, {"Experience", 16}, {"Work Style", 14},
	{"Headline", 36}, {"Looking For Cofounder", 12}, {"Created At", 22},
}

var jobColumns = []column{
	{"ID", 38}, {"Title", 32}, {"Role", 20}, {"Owner ID", 38}, {"Skills", 36},
	{"Location", 20}, {"Work Style", 14}, {"Availability", 16}, {"Compensation", 18},
	{"Timeline", 16}, {"Created At", 22},
}

// Profiles renders one header row and one row per profile.
func Profiles(profiles []model.Profile) ([]byte, error) {
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []any{
			p.ID, p.Name, deref(p.Email), string(p.Role), strings.Join(p.Skills, ", "),
			deref(p.Location), deref(p.Availability), deref(p.Experience), p.Preferences["work_style"],
			deref(p.Headline), p.LookingForCofounder, p.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return render("Profiles", profileColumns, rows)
}

// Jobs renders one header row and one row per job post.
func Jobs(jobs []model.JobPost) ([]byte, error) {
	rows := make([][]any, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []any{
			j.ID, j.Title, string(j.Role), j.OwnerID, strings.Join(j.Skills, ", "),
			deref(j.Location), deref(j.WorkStyle), deref(j.Availability), deref(j.Compensation),
			deref(j.Timeline), j.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return render("Jobs", jobColumns, rows)
}

func render(sheet string, cols []column, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// Rename the default sheet rather than leaving an empty "Sheet1" behind.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, c.header); err != nil {
			return nil, fmt.Errorf("xlsx header: %w", err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetColWidth(sheet, name, name, c.width)
	}

	for r, values := range rows {
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
