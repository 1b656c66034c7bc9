package services

import (
	"context"
	"fmt"
	"time"

	"backoffice/internal/cache"
	"backoffice/internal/core"
	"backoffice/internal/log"

	"golang.org/x/sync/errgroup"
)

// ReportSource is the read side of the ledger that reports fold over.
type ReportSource interface {
	Contributions(ctx context.Context, source string, p core.Period, statuses ...core.ProjectStatus) ([]core.Contribution, []core.RowError, error)
	CountRows(ctx context.Context, source string, p core.Period, statuses ...core.ProjectStatus) (int, error)
}

// ReportService computes the dashboard views. It only reads.
type ReportService struct {
	source ReportSource
	now    func() time.Time
	logger *log.Logger
	rows   *log.StructuredLogger

	monthly cache.Cache[core.MonthlyReport]
}

func NewReportService(source ReportSource, now func() time.Time, logger *log.Logger) *ReportService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentReports)
	return &ReportService{source: source, now: now, logger: logger, rows: log.NewStructuredLogger(logger)}
}

// WithMonthlyCache keeps computed monthly reports in c until a ledger
// change for their year is reported through LedgerChanged.
func (s *ReportService) WithMonthlyCache(c cache.Cache[core.MonthlyReport]) *ReportService {
	s.monthly = c
	return s
}

// monthlyKey includes the current month since it selects the summary bucket.
func monthlyKey(year, currentMonth int) string {
	return fmt.Sprintf("%d:%d", year, currentMonth)
}

// LedgerChanged drops cached reports for year.
func (s *ReportService) LedgerChanged(ctx context.Context, entity, entityID, operation string, year int) {
	if s.monthly == nil || year == 0 {
		return
	}
	for m := 1; m <= 12; m++ {
		s.monthly.Delete(monthlyKey(year, m))
	}
	s.logger.DebugContext(ctx, "Report cache invalidated", log.FieldYear, year, log.FieldEntity, entity)
}

// contributions fetches one source and logs every row it had to skip.
func (s *ReportService) contributions(ctx context.Context, source string, p core.Period, statuses ...core.ProjectStatus) ([]core.Contribution, error) {
	cs, rowErrs, err := s.source.Contributions(ctx, source, p, statuses...)
	if err != nil {
		return nil, err
	}
	for _, re := range rowErrs {
		s.rows.LogRowSkipped(ctx, re.Source, re.RowID, re.Err)
	}
	return cs, nil
}

// profitSources loads product profit and the projects of both families for
// p concurrently. Projects are restricted to statuses when any are given.
func (s *ReportService) profitSources(ctx context.Context, p core.Period, statuses ...core.ProjectStatus) (products, projects []core.Contribution, err error) {
	var zarorrat, solar []core.Contribution
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		products, err = s.contributions(gctx, core.SourceProductProfit, p)
		return err
	})
	g.Go(func() (err error) {
		zarorrat, err = s.contributions(gctx, core.SourceZarorrat, p, statuses...)
		return err
	})
	g.Go(func() (err error) {
		solar, err = s.contributions(gctx, core.SourceSolar, p, statuses...)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return products, append(zarorrat, solar...), nil
}

// Monthly builds the twelve-bucket profit report for year.
func (s *ReportService) Monthly(ctx context.Context, year int) (core.MonthlyReport, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.MonthlyReport{}, err
	}
	current := int(s.now().Month())
	if s.monthly != nil {
		if r, ok := s.monthly.Get(monthlyKey(year, current)); ok {
			return r, nil
		}
	}
	products, projects, err := s.profitSources(ctx, core.YearPeriod(year), core.EarningStatuses...)
	if err != nil {
		s.logger.ErrorContext(ctx, "Monthly report failed", log.FieldYear, year, log.FieldError, err)
		return core.MonthlyReport{}, fmt.Errorf("monthly report %d: %w", year, err)
	}

	report := core.NewMonthlyReport(year)
	report.AddProductProfit(products)
	report.AddProjectProfit(projects)
	report.Finalize(current)
	if s.monthly != nil {
		s.monthly.Set(monthlyKey(year, current), report)
	}
	return report, nil
}

// Daily builds the 31-bucket profit report for one month from the same
// sources as Monthly. Projects count whatever their status.
func (s *ReportService) Daily(ctx context.Context, year, month int) (core.DailyReport, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.DailyReport{}, err
	}
	if err := core.ValidateMonth(month); err != nil {
		return core.DailyReport{}, err
	}
	products, projects, err := s.profitSources(ctx, core.MonthPeriod(year, month))
	if err != nil {
		s.logger.ErrorContext(ctx, "Daily report failed", log.FieldYear, year, log.FieldMonth, month, log.FieldError, err)
		return core.DailyReport{}, fmt.Errorf("daily report %d-%02d: %w", year, month, err)
	}

	report := core.NewDailyReport(year, month)
	report.Add(products)
	report.Add(projects)
	return report, nil
}

// Summary counts projects and products and sums expenses and salaries
// dated in year.
func (s *ReportService) Summary(ctx context.Context, year int) (core.Summary, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.Summary{}, err
	}
	p := core.YearPeriod(year)
	sum := core.Summary{Year: year}

	var zr, us, zrPending, usPending int
	var expenses, salaries []core.Contribution
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { zr, err = s.source.CountRows(gctx, core.SourceZarorrat, p); return err })
	g.Go(func() (err error) { us, err = s.source.CountRows(gctx, core.SourceSolar, p); return err })
	g.Go(func() (err error) {
		zrPending, err = s.source.CountRows(gctx, core.SourceZarorrat, p, core.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		usPending, err = s.source.CountRows(gctx, core.SourceSolar, p, core.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		sum.TotalProducts, err = s.source.CountRows(gctx, core.SourceProductProfit, p)
		return err
	})
	g.Go(func() (err error) { expenses, err = s.contributions(gctx, core.SourceExpense, p); return err })
	g.Go(func() (err error) { salaries, err = s.contributions(gctx, core.SourceSalary, p); return err })
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "Summary failed", log.FieldYear, year, log.FieldError, err)
		return core.Summary{}, fmt.Errorf("summary %d: %w", year, err)
	}

	sum.TotalProjects = zr + us
	sum.PendingProjects = zrPending + usPending
	sum.TotalExpenses = core.SumContributions(expenses)
	sum.TotalSalaries = core.SumContributions(salaries)
	return sum, nil
}

// Financial is the profit and loss view of one month. Projects count
// regardless of status. A source that fails is logged and counts as zero
// so the rest of the view stays available.
func (s *ReportService) Financial(ctx context.Context, year, month int) (core.FinancialSummary, error) {
	if err := core.ValidateYear(year); err != nil {
		return core.FinancialSummary{}, err
	}
	if err := core.ValidateMonth(month); err != nil {
		return core.FinancialSummary{}, err
	}
	p := core.MonthPeriod(year, month)
	f := core.FinancialSummary{Year: year, Month: month}

	sum := func(source string) core.Money {
		cs, err := s.contributions(ctx, source, p)
		if err != nil {
			s.logger.ErrorContext(ctx, "Financial source failed, counting as zero",
				log.FieldSource, source,
				log.FieldYear, year,
				log.FieldMonth, month,
				log.FieldError, err)
			return core.Money{}
		}
		return core.SumContributions(cs)
	}

	f.TotalSales = sum(core.SourceProductSales)
	f.ProductProfit = sum(core.SourceProductProfit)
	f.ProjectAmount = sum(core.SourceZarorrat).Add(sum(core.SourceSolar))
	f.TotalExpenses = sum(core.SourceExpense)
	f.Finalize()
	return f, nil
}
