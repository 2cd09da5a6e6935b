package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Report is the relational shape of one submitted maintenance report.
// support_staff is stored exactly as persisted to the sheet row: one
// comma-joined string.
type Report struct {
	ID               uuid.UUID
	Week             int32
	ReportDate       time.Time
	Shift            string
	Technician       string
	SupportStaff     string
	Cell             string
	Robot            string
	FaultCode        string
	FaultDescription string
	WorkDescription  string
	Actions          string
	Solution         string
	OrderNumber      string
	OrderType        string
	Status           string
	DowntimeMinutes  int32
	Comment          string
	CreatedAt        time.Time
}

const reportColumns = `id, week, report_date, shift, technician, support_staff,
	cell, robot, fault_code, fault_description, work_description, actions,
	solution, order_number, order_type, status, downtime_minutes, comment, created_at`

func scanReport(row interface{ Scan(...any) error }) (Report, error) {
	var r Report
	err := row.Scan(
		&r.ID, &r.Week, &r.ReportDate, &r.Shift, &r.Technician, &r.SupportStaff,
		&r.Cell, &r.Robot, &r.FaultCode, &r.FaultDescription, &r.WorkDescription,
		&r.Actions, &r.Solution, &r.OrderNumber, &r.OrderType, &r.Status,
		&r.DowntimeMinutes, &r.Comment, &r.CreatedAt,
	)
	return r, err
}

// CreateReportParams mirrors the reports table insert.
type CreateReportParams struct {
	ID               uuid.UUID
	Week             int32
	ReportDate       time.Time
	Shift            string
	Technician       string
	SupportStaff     string
	Cell             string
	Robot            string
	FaultCode        string
	FaultDescription string
	WorkDescription  string
	Actions          string
	Solution         string
	OrderNumber      string
	OrderType        string
	Status           string
	DowntimeMinutes  int32
	Comment          string
}

// CreateReport appends one report row.
func (q *Queries) CreateReport(ctx context.Context, p CreateReportParams) (Report, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO reports (
			id, week, report_date, shift, technician, support_staff,
			cell, robot, fault_code, fault_description, work_description,
			actions, solution, order_number, order_type, status,
			downtime_minutes, comment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18
		)
		RETURNING `+reportColumns,
		p.ID, p.Week, p.ReportDate, p.Shift, p.Technician, p.SupportStaff,
		p.Cell, p.Robot, p.FaultCode, p.FaultDescription, p.WorkDescription,
		p.Actions, p.Solution, p.OrderNumber, p.OrderType, p.Status,
		p.DowntimeMinutes, p.Comment,
	)
	return scanReport(row)
}

// GetReport fetches a single report by ID.
func (q *Queries) GetReport(ctx context.Context, id uuid.UUID) (Report, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)
	return scanReport(row)
}

// ListRecentReports returns the newest reports first.
func (q *Queries) ListRecentReports(ctx context.Context, limit, offset int32) ([]Report, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+reportColumns+`
		FROM reports
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

// CountReports returns the total number of reports.
func (q *Queries) CountReports(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM reports`).Scan(&n)
	return n, err
}

// SumDowntime returns the total recorded downtime in minutes.
func (q *Queries) SumDowntime(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT coalesce(sum(downtime_minutes), 0) FROM reports`).Scan(&n)
	return n, err
}

// RobotDowntimeRow is one bar of the downtime-by-robot chart.
type RobotDowntimeRow struct {
	Robot        string
	Cell         string
	TotalMinutes int64
	Reports      int64
}

// DowntimeByRobot aggregates downtime per robot within its cell, worst
// first.
func (q *Queries) DowntimeByRobot(ctx context.Context) ([]RobotDowntimeRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT robot, cell, sum(downtime_minutes) AS total, count(*) AS reports
		FROM reports
		GROUP BY robot, cell
		ORDER BY total DESC, robot`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RobotDowntimeRow
	for rows.Next() {
		var r RobotDowntimeRow
		if err := rows.Scan(&r.Robot, &r.Cell, &r.TotalMinutes, &r.Reports); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FaultCodeCountRow is one slice of the fault-code frequency chart.
type FaultCodeCountRow struct {
	FaultCode string
	Count     int64
}

// FaultCodeCounts returns how often each fault code was reported, most
// frequent first.
func (q *Queries) FaultCodeCounts(ctx context.Context) ([]FaultCodeCountRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT fault_code, count(*) AS n
		FROM reports
		GROUP BY fault_code
		ORDER BY n DESC, fault_code`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FaultCodeCountRow
	for rows.Next() {
		var r FaultCodeCountRow
		if err := rows.Scan(&r.FaultCode, &r.Count); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
