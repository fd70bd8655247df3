package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

// Actor is the authenticated account performing a request.
type Actor struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// IsTeacher reports whether the actor may author content. Admins count.
func (a Actor) IsTeacher() bool {
	return a.Role == models.RoleTeacher || a.Role == models.RoleAdmin
}

// AccessGuard re-derives authorization for class-scoped operations on every
// call. Nothing is cached; the membership joins are the source of truth.
type AccessGuard struct {
	classes     repository.ClassRepository
	assignments repository.AssignmentRepository
}

// NewAccessGuard constructs the guard.
func NewAccessGuard(classes repository.ClassRepository, assignments repository.AssignmentRepository) *AccessGuard {
	return &AccessGuard{classes: classes, assignments: assignments}
}

// RequireClassTeacher allows class owners and co-teachers through and maps
// everything else, including a missing class, to ErrAccessDenied.
func (g *AccessGuard) RequireClassTeacher(ctx context.Context, classID uint, actor Actor) error {
	ok, err := g.classes.IsTeacher(ctx, classID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccessDenied
		}
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// RequireClassMember allows teachers of the class and enrolled students.
func (g *AccessGuard) RequireClassMember(ctx context.Context, classID uint, actor Actor) error {
	if err := g.RequireClassTeacher(ctx, classID, actor); err == nil {
		return nil
	} else if !errors.Is(err, ErrAccessDenied) {
		return err
	}

	enrolled, err := g.classes.IsEnrolled(ctx, classID, actor.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrAccessDenied
	}
	return nil
}

// RequireEnrollment allows only students enrolled in the class.
func (g *AccessGuard) RequireEnrollment(ctx context.Context, classID uint, actor Actor) error {
	enrolled, err := g.classes.IsEnrolled(ctx, classID, actor.ID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrAccessDenied
	}
	return nil
}

// AssignmentClass resolves the class an assignment belongs to. A missing
// assignment is reported as ErrAccessDenied on guarded paths.
func (g *AccessGuard) AssignmentClass(ctx context.Context, assignmentID uint) (models.Assignment, error) {
	assignment, err := g.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAccessDenied
		}
		return models.Assignment{}, err
	}
	return assignment, nil
}

// RequireAssignmentTeacher combines assignment resolution with the teacher
// predicate.
func (g *AccessGuard) RequireAssignmentTeacher(ctx context.Context, assignmentID uint, actor Actor) (models.Assignment, error) {
	assignment, err := g.AssignmentClass(ctx, assignmentID)
	if err != nil {
		return models.Assignment{}, err
	}
	if err := g.RequireClassTeacher(ctx, assignment.ClassID, actor); err != nil {
		return models.Assignment{}, err
	}
	return assignment, nil
}
