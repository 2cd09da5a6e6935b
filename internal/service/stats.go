package service

import (
	"context"
	"log/slog"

	"robolog/internal/domain"
	"robolog/internal/repository"
)

// StatsSummary is the headline numbers of the stats dashboard.
type StatsSummary struct {
	TotalReports         int64
	TotalDowntimeMinutes int64
}

// RobotDowntime is one row of the per-robot downtime ranking.
type RobotDowntime struct {
	Robot        string
	Cell         string
	TotalMinutes int64
	Reports      int64
}

// FaultFrequency is one slice of the fault-code frequency chart.
type FaultFrequency struct {
	FaultCode string
	Count     int64
}

// StatsService aggregates submitted reports for the dashboard.
type StatsService interface {
	Summary(ctx context.Context) (StatsSummary, error)
	DowntimeByRobot(ctx context.Context) ([]RobotDowntime, error)
	FaultFrequency(ctx context.Context) ([]FaultFrequency, error)
}

type statsService struct {
	queries *repository.Queries
	logger  *slog.Logger
}

// NewStatsService creates a StatsService.
func NewStatsService(queries *repository.Queries, logger *slog.Logger) StatsService {
	return &statsService{
		queries: queries,
		logger:  logger,
	}
}

func (s *statsService) Summary(ctx context.Context) (StatsSummary, error) {
	const op = "StatsService.Summary"

	total, err := s.queries.CountReports(ctx)
	if err != nil {
		s.logger.Error("failed to count reports", "error", err, "op", op)
		return StatsSummary{}, domain.Internal(err, op, "Failed to compute summary")
	}

	minutes, err := s.queries.SumDowntime(ctx)
	if err != nil {
		s.logger.Error("failed to sum downtime", "error", err, "op", op)
		return StatsSummary{}, domain.Internal(err, op, "Failed to compute summary")
	}

	return StatsSummary{
		TotalReports:         total,
		TotalDowntimeMinutes: minutes,
	}, nil
}

func (s *statsService) DowntimeByRobot(ctx context.Context) ([]RobotDowntime, error) {
	const op = "StatsService.DowntimeByRobot"

	rows, err := s.queries.DowntimeByRobot(ctx)
	if err != nil {
		s.logger.Error("failed to aggregate downtime", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to aggregate downtime")
	}

	out := make([]RobotDowntime, len(rows))
	for i, r := range rows {
		out[i] = RobotDowntime{
			Robot:        r.Robot,
			Cell:         r.Cell,
			TotalMinutes: r.TotalMinutes,
			Reports:      r.Reports,
		}
	}
	return out, nil
}

func (s *statsService) FaultFrequency(ctx context.Context) ([]FaultFrequency, error) {
	const op = "StatsService.FaultFrequency"

	rows, err := s.queries.FaultCodeCounts(ctx)
	if err != nil {
		s.logger.Error("failed to count fault codes", "error", err, "op", op)
		return nil, domain.Internal(err, op, "Failed to count fault codes")
	}

	out := make([]FaultFrequency, len(rows))
	for i, r := range rows {
		out[i] = FaultFrequency{
			FaultCode: r.FaultCode,
			Count:     r.Count,
		}
	}
	return out, nil
}
