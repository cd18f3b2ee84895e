package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/wpinrui/tp/internal/models"
	"github.com/wpinrui/tp/internal/persistence"
	appErrors "github.com/wpinrui/tp/pkg/errors"
)

type dataStore interface {
	Load(ctx context.Context) persistence.LoadResult
	Save(ctx context.Context, students []models.Student, lessons []models.Lesson) error
}

// ViewSnapshot is a consistent copy of both filtered views. Order ranks the
// full stores so enrollment sets can be listed in store order.
type ViewSnapshot struct {
	Students []models.Student
	Lessons  []models.Lesson
	Order    models.Ordering
}

// CommandService runs one command at a time against the model and saves both
// stores after every successful mutating command.
type CommandService struct {
	mu        sync.Mutex
	model     *ModelManager
	store     dataStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCommandService constructs the command service.
func NewCommandService(model *ModelManager, store dataStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *CommandService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandService{model: model, store: store, validator: validate, metrics: metrics, logger: logger}
}

// Load replaces the model with the stored data and returns the problems that
// made a collection start empty. Load never fails outright.
func (s *CommandService) Load(ctx context.Context) []error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := s.store.Load(ctx)
	problems := result.Problems
	report, err := s.model.ResetData(result.Students, result.Lessons)
	if err != nil {
		s.logger.Warn("stored data rejected, starting empty", zap.Error(err))
		s.model.Clear()
		problems = append(problems, err)
	}
	if report.Repaired() {
		s.logger.Warn("stored enrollment was inconsistent and has been repaired",
			zap.Strings("dangling_students", report.DanglingStudents),
			zap.Strings("dangling_lessons", report.DanglingLessons),
			zap.Strings("restored_links", report.RestoredLinks),
		)
	}
	s.metrics.SetCollectionSizes(len(s.model.AllStudents()), len(s.model.AllLessons()))
	return problems
}

// Dispatch validates a raw request, converts it and executes the command.
func (s *CommandService) Dispatch(ctx context.Context, req CommandRequest) (CommandResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return CommandResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload")
	}
	cmd, err := req.Command()
	if err != nil {
		return CommandResult{}, err
	}
	return s.Execute(ctx, cmd)
}

// Execute runs cmd and, when it mutated the model, saves both stores. A save
// failure is reported as IOFailure; the in-memory change is kept.
func (s *CommandService) Execute(ctx context.Context, cmd Command) (CommandResult, error) {
	if err := ctx.Err(); err != nil {
		return CommandResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	result, err := cmd.Execute(s.model)
	if err == nil && cmd.Mutates() {
		err = s.store.Save(ctx, s.model.AllStudents(), s.model.AllLessons())
		s.metrics.SetCollectionSizes(len(s.model.AllStudents()), len(s.model.AllLessons()))
	}
	duration := time.Since(start)

	if err != nil {
		appErr := appErrors.FromError(err)
		s.metrics.ObserveCommand(cmd.Name(), appErr.Code, duration)
		s.logger.Debug("command failed",
			zap.String("command", cmd.Name()),
			zap.String("code", appErr.Code),
			zap.Error(err),
		)
		return CommandResult{}, err
	}

	s.metrics.ObserveCommand(cmd.Name(), "ok", duration)
	s.logger.Debug("command executed", zap.String("command", cmd.Name()), zap.Duration("duration", duration))
	return result, nil
}

// Views returns both filtered views as of now.
func (s *CommandService) Views() ViewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewSnapshot{
		Students: s.model.FilteredStudents(),
		Lessons:  s.model.FilteredLessons(),
		Order:    s.model.Ordering(),
	}
}

// Everything returns both full collections as of now.
func (s *CommandService) Everything() ViewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ViewSnapshot{
		Students: s.model.AllStudents(),
		Lessons:  s.model.AllLessons(),
		Order:    s.model.Ordering(),
	}
}

// Subscribe registers fn for view changes; see ModelManager.Subscribe.
func (s *CommandService) Subscribe(fn func(models.ViewChange)) func() {
	return s.model.Subscribe(fn)
}
