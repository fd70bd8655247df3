package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/dto"
	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

const (
	joinCodeLength   = 7
	joinCodeCharset  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	joinCodeAttempts = 10
)

// ErrAlreadyEnrolled indicates the student already joined the class.
var ErrAlreadyEnrolled = errors.New("already enrolled")

// ClassService orchestrates class section workflows.
type ClassService interface {
	ListForActor(ctx context.Context, actor Actor) ([]dto.ClassResponse, error)
	Get(ctx context.Context, id uint, actor Actor) (dto.ClassResponse, error)
	Roster(ctx context.Context, id uint, actor Actor) (dto.ClassRosterResponse, error)
	Create(ctx context.Context, payload dto.ClassCreateRequest, actor Actor) (dto.ClassResponse, error)
	Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest, actor Actor) (dto.ClassResponse, error)
	Delete(ctx context.Context, id uint, actor Actor) error
	JoinByCode(ctx context.Context, code string, actor Actor) (dto.ClassResponse, error)
	AddTeacher(ctx context.Context, classID uint, payload dto.ClassTeacherRequest, actor Actor) error
	RemoveTeacher(ctx context.Context, classID, teacherID uint, actor Actor) error
}

type classService struct {
	classes   repository.ClassRepository
	accounts  repository.AccountRepository
	guard     *AccessGuard
	activity  ActivityRecorder
	validator *validator.Validate
	logger    zerolog.Logger
	newCode   func() (string, error)
}

// NewClassService constructs a ClassService instance.
func NewClassService(classes repository.ClassRepository, accounts repository.AccountRepository, guard *AccessGuard, activity ActivityRecorder, validate *validator.Validate, logger zerolog.Logger) ClassService {
	return &classService{
		classes:   classes,
		accounts:  accounts,
		guard:     guard,
		activity:  activity,
		validator: validate,
		logger:    logger.With().Str("component", "class_service").Logger(),
		newCode:   randomJoinCode,
	}
}

func randomJoinCode() (string, error) {
	buffer := make([]byte, joinCodeLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", err
	}
	for i, b := range buffer {
		buffer[i] = joinCodeCharset[int(b)%len(joinCodeCharset)]
	}
	return string(buffer), nil
}

// generateUniqueCode draws codes until one is free. The 62^7 space makes
// retries vanishingly rare; the unique index on join_code catches the
// remaining insert race.
func (s *classService) generateUniqueCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < joinCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return "", err
		}
		exists, err := s.classes.JoinCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate a unique join code after %d attempts", joinCodeAttempts)
}

func (s *classService) ListForActor(ctx context.Context, actor Actor) ([]dto.ClassResponse, error) {
	if actor.Role == models.RoleStudent {
		classes, err := s.classes.ListEnrolled(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return dto.NewClassResponseSlice(classes, false), nil
	}

	classes, err := s.classes.ListOwnedOrCoTaught(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return dto.NewClassResponseSlice(classes, true), nil
}

func (s *classService) Get(ctx context.Context, id uint, actor Actor) (dto.ClassResponse, error) {
	if err := s.guard.RequireClassMember(ctx, id, actor); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrAccessDenied
		}
		return dto.ClassResponse{}, err
	}

	isTeacher := s.guard.RequireClassTeacher(ctx, id, actor) == nil
	return dto.NewClassResponse(class, isTeacher), nil
}

func (s *classService) Roster(ctx context.Context, id uint, actor Actor) (dto.ClassRosterResponse, error) {
	if err := s.guard.RequireClassTeacher(ctx, id, actor); err != nil {
		return dto.ClassRosterResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}

	teacherLinks, err := s.classes.ListTeachers(ctx, id)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}
	enrollments, err := s.classes.ListStudents(ctx, id)
	if err != nil {
		return dto.ClassRosterResponse{}, err
	}

	teachers := []dto.AccountResponse{dto.NewAccountResponse(class.Owner)}
	for _, link := range teacherLinks {
		teachers = append(teachers, dto.NewAccountResponse(link.Teacher))
	}
	students := make([]dto.AccountResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		students = append(students, dto.NewAccountResponse(enrollment.Student))
	}

	return dto.ClassRosterResponse{
		Class:    dto.NewClassResponse(class, true),
		Teachers: teachers,
		Students: students,
	}, nil
}

func (s *classService) Create(ctx context.Context, payload dto.ClassCreateRequest, actor Actor) (dto.ClassResponse, error) {
	if !actor.IsTeacher() {
		return dto.ClassResponse{}, ErrAccessDenied
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	code, err := s.generateUniqueCode(ctx)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	class := models.ClassSection{
		OwnerID:  actor.ID,
		Subject:  payload.Subject,
		Cohort:   payload.Cohort,
		Room:     payload.Room,
		Color:    payload.Color,
		JoinCode: code,
	}
	if err := s.classes.Create(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("owner_id", actor.ID).Msg("class created")

	return dto.NewClassResponse(class, true), nil
}

func (s *classService) Update(ctx context.Context, id uint, payload dto.ClassUpdateRequest, actor Actor) (dto.ClassResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}
	if err := s.guard.RequireClassTeacher(ctx, id, actor); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		return dto.ClassResponse{}, err
	}

	if payload.Subject != nil {
		class.Subject = *payload.Subject
	}
	if payload.Cohort != nil {
		class.Cohort = *payload.Cohort
	}
	if payload.Room != nil {
		class.Room = *payload.Room
	}
	if payload.Color != nil {
		class.Color = *payload.Color
	}

	if err := s.classes.Update(ctx, &class); err != nil {
		return dto.ClassResponse{}, err
	}

	return dto.NewClassResponse(class, true), nil
}

// Delete removes a class and everything beneath it. Only the owner may
// delete; co-teachers may not.
func (s *classService) Delete(ctx context.Context, id uint, actor Actor) error {
	class, err := s.classes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccessDenied
		}
		return err
	}
	if class.OwnerID != actor.ID && !actor.IsAdmin() {
		return ErrAccessDenied
	}

	if err := s.classes.Delete(ctx, id); err != nil {
		return err
	}

	if s.activity != nil {
		_ = s.activity.Record(ctx, ActivityEntry{
			ActorID:    actor.ID,
			ActorRole:  actor.Role,
			Action:     "class.deleted",
			EntityType: "class",
			EntityID:   &id,
			Metadata:   map[string]interface{}{"subject": class.Subject},
		})
	}

	s.logger.Info().Uint("class_id", id).Msg("class deleted with full cascade")
	return nil
}

func (s *classService) JoinByCode(ctx context.Context, code string, actor Actor) (dto.ClassResponse, error) {
	payload := dto.ClassJoinRequest{Code: code}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ClassResponse{}, err
	}

	class, err := s.classes.GetByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ClassResponse{}, ErrNotFound
		}
		return dto.ClassResponse{}, err
	}

	enrolled, err := s.classes.IsEnrolled(ctx, class.ID, actor.ID)
	if err != nil {
		return dto.ClassResponse{}, err
	}
	if enrolled {
		return dto.ClassResponse{}, ErrAlreadyEnrolled
	}

	if err := s.classes.Enroll(ctx, class.ID, actor.ID); err != nil {
		return dto.ClassResponse{}, err
	}

	s.logger.Info().Uint("class_id", class.ID).Uint("student_id", actor.ID).Msg("student joined class")

	return dto.NewClassResponse(class, false), nil
}

func (s *classService) AddTeacher(ctx context.Context, classID uint, payload dto.ClassTeacherRequest, actor Actor) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}
	if err := s.guard.RequireClassTeacher(ctx, classID, actor); err != nil {
		return err
	}

	account, err := s.accounts.GetByID(ctx, payload.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if !account.IsTeacher() {
		return ErrInvalidOperation
	}

	return s.classes.AddTeacher(ctx, classID, payload.TeacherID)
}

func (s *classService) RemoveTeacher(ctx context.Context, classID, teacherID uint, actor Actor) error {
	if err := s.guard.RequireClassTeacher(ctx, classID, actor); err != nil {
		return err
	}
	err := s.classes.RemoveTeacher(ctx, classID, teacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
