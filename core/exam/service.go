package exam

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hazekiller/gyan/core"
)

type (
	// Source provides the collections a broadsheet is built from.
	Source interface {
		GetExam(ctx context.Context, examID int) (Exam, error)
		QuerySchedules(ctx context.Context, examID int) ([]SubjectSchedule, error)
		QueryStudents(ctx context.Context, filter StudentFilter) ([]Student, error)
		QueryResults(ctx context.Context, examID int) ([]ResultRecord, error)
	}

	// Importer stores result records of an exam, replacing existing (student, subject) pairs.
	Importer interface {
		ImportResults(ctx context.Context, examID int, records []ResultRecord) (int, error)
	}

	Service struct {
		src     Source
		opts    Options
		surface bool
		timeout time.Duration
		logger  core.Logger
	}
)

func NewService(src Source, conf core.ReportConfig, logger core.Logger) *Service {
	return &Service{
		src:     src,
		opts:    Options{StrictMissing: conf.StrictMissing},
		surface: conf.SurfaceIssues,
		timeout: conf.FetchTimeout,
		logger:  logger,
	}
}

// Fetch loads the exam with its schedules, active class roster and results.
// The collections are fetched concurrently; the first failure cancels the others,
// and no partial Dataset is ever returned.
func (svc *Service) Fetch(ctx context.Context, examID int) (Dataset, error) {
	if svc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.timeout)
		defer cancel()
	}

	var ds Dataset
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ex, err := svc.src.GetExam(ctx, examID)
		if err != nil {
			return errors.Wrap(err, "svc.src.GetExam")
		}
		students, err := svc.src.QueryStudents(ctx, StudentFilter{ClassID: ex.ClassID, Status: StatusActive})
		if err != nil {
			return errors.Wrap(err, "svc.src.QueryStudents")
		}
		ds.Exam, ds.Students = ex, students
		return nil
	})
	g.Go(func() error {
		schedules, err := svc.src.QuerySchedules(ctx, examID)
		if err != nil {
			return errors.Wrap(err, "svc.src.QuerySchedules")
		}
		ds.Schedules = schedules
		return nil
	})
	g.Go(func() error {
		results, err := svc.src.QueryResults(ctx, examID)
		if err != nil {
			return errors.Wrap(err, "svc.src.QueryResults")
		}
		ds.Results = results
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}
	return ds, nil
}

// Report fetches the exam data and builds its broadsheet, rows narrowed to search.
// When issues are surfaced, any issue fails the report with an *IssuesError;
// otherwise they are logged and left out.
func (svc *Service) Report(ctx context.Context, examID int, search string) (Broadsheet, error) {
	ds, err := svc.Fetch(ctx, examID)
	if err != nil {
		return Broadsheet{}, err
	}

	bs := BuildBroadsheet(ds, search, svc.opts)
	if len(bs.Issues) > 0 {
		if svc.surface {
			return Broadsheet{}, &IssuesError{Issues: bs.Issues}
		}
		for _, issue := range bs.Issues {
			svc.logger.Warn("exam report: "+issue.Error(), map[string]interface{}{"exam_id": examID})
		}
		bs.Issues = nil
	}
	return bs, nil
}

// Import validates records and stores them through imp.
func (svc *Service) Import(ctx context.Context, imp Importer, examID int, records []ResultRecord) (int, error) {
	if _, err := svc.src.GetExam(ctx, examID); err != nil {
		return 0, errors.Wrap(err, "svc.src.GetExam")
	}

	var fields []core.FieldError
	for i, rec := range records {
		if rec.MarksObtained.Malformed() || rec.MaxMarks.Malformed() {
			fields = append(fields, core.FieldError{
				Field: fieldName("records", i, "marks"),
				Error: "invalid marks",
			})
			continue
		}
		if rec.StudentID <= 0 || rec.SubjectID <= 0 {
			fields = append(fields, core.FieldError{
				Field: fieldName("records", i, "student_id"),
				Error: "student_id and subject_id are required",
			})
		}
	}
	if len(fields) > 0 {
		return 0, core.NewValidationError(errors.New("invalid result records"), fields...)
	}

	n, err := imp.ImportResults(ctx, examID, records)
	if err != nil {
		return 0, errors.Wrap(err, "imp.ImportResults")
	}
	return n, nil
}

func fieldName(parent string, i int, field string) string {
	return parent + "[" + strconv.Itoa(i) + "]." + field
}
