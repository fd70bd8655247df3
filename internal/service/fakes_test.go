package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/karierni-denik/denik-api/internal/models"
	"github.com/karierni-denik/denik-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type recordedEvent struct {
	subject string
	payload interface{}
}

type eventsStub struct {
	published []recordedEvent
}

func (e *eventsStub) Publish(subject string, payload interface{}) {
	e.published = append(e.published, recordedEvent{subject: subject, payload: payload})
}

type recorderStub struct {
	entries []ActivityEntry
}

func (r *recorderStub) Record(_ context.Context, entry ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

type memoryAccountRepo struct {
	accounts map[uint]models.Account
	nextID   uint
}

func newMemoryAccountRepo() *memoryAccountRepo {
	return &memoryAccountRepo{accounts: make(map[uint]models.Account), nextID: 1}
}

func (m *memoryAccountRepo) List(_ context.Context, filter repository.AccountFilter) ([]models.Account, int64, error) {
	results := make([]models.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		if filter.Role != "" && account.Role != filter.Role {
			continue
		}
		if filter.Search != "" {
			search := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(account.Name), search) &&
				!strings.Contains(strings.ToLower(account.Email), search) {
				continue
			}
		}
		results = append(results, account)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, int64(len(results)), nil
}

func (m *memoryAccountRepo) GetByID(_ context.Context, id uint) (models.Account, error) {
	account, ok := m.accounts[id]
	if !ok {
		return models.Account{}, gorm.ErrRecordNotFound
	}
	return account, nil
}

func (m *memoryAccountRepo) GetByExternalID(_ context.Context, externalID string) (models.Account, error) {
	for _, account := range m.accounts {
		if account.ExternalID == externalID {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (m *memoryAccountRepo) GetByEmail(_ context.Context, email string) (models.Account, error) {
	for _, account := range m.accounts {
		if strings.EqualFold(account.Email, email) {
			return account, nil
		}
	}
	return models.Account{}, gorm.ErrRecordNotFound
}

func (m *memoryAccountRepo) Create(_ context.Context, account *models.Account) error {
	account.ID = m.nextID
	account.CreatedAt = time.Now()
	m.accounts[m.nextID] = *account
	m.nextID++
	return nil
}

func (m *memoryAccountRepo) Update(_ context.Context, account *models.Account) error {
	if _, ok := m.accounts[account.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.accounts[account.ID] = *account
	return nil
}

func (m *memoryAccountRepo) add(role string) models.Account {
	account := models.Account{
		ExternalID: fmt.Sprintf("ext-%d", m.nextID),
		Email:      fmt.Sprintf("user%d@example.com", m.nextID),
		Name:       fmt.Sprintf("User %d", m.nextID),
		Role:       role,
	}
	_ = m.Create(context.Background(), &account)
	return account
}

type memoryClassRepo struct {
	classes  map[uint]models.ClassSection
	teachers map[uint][]uint
	students map[uint][]uint
	nextID   uint
}

func newMemoryClassRepo() *memoryClassRepo {
	return &memoryClassRepo{
		classes:  make(map[uint]models.ClassSection),
		teachers: make(map[uint][]uint),
		students: make(map[uint][]uint),
		nextID:   1,
	}
}

func (m *memoryClassRepo) ListOwnedOrCoTaught(ctx context.Context, teacherID uint) ([]models.ClassSection, error) {
	var results []models.ClassSection
	for id, class := range m.classes {
		if class.OwnerID == teacherID {
			results = append(results, class)
			continue
		}
		for _, linked := range m.teachers[id] {
			if linked == teacherID {
				results = append(results, class)
				break
			}
		}
	}
	return results, nil
}

func (m *memoryClassRepo) ListEnrolled(ctx context.Context, studentID uint) ([]models.ClassSection, error) {
	var results []models.ClassSection
	for id, class := range m.classes {
		for _, enrolled := range m.students[id] {
			if enrolled == studentID {
				results = append(results, class)
				break
			}
		}
	}
	return results, nil
}

func (m *memoryClassRepo) GetByID(_ context.Context, id uint) (models.ClassSection, error) {
	class, ok := m.classes[id]
	if !ok {
		return models.ClassSection{}, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (m *memoryClassRepo) GetByJoinCode(_ context.Context, code string) (models.ClassSection, error) {
	for _, class := range m.classes {
		if class.JoinCode == code {
			return class, nil
		}
	}
	return models.ClassSection{}, gorm.ErrRecordNotFound
}

func (m *memoryClassRepo) JoinCodeExists(_ context.Context, code string) (bool, error) {
	for _, class := range m.classes {
		if class.JoinCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryClassRepo) Create(_ context.Context, class *models.ClassSection) error {
	class.ID = m.nextID
	class.CreatedAt = time.Now()
	m.classes[m.nextID] = *class
	m.nextID++
	return nil
}

func (m *memoryClassRepo) Update(_ context.Context, class *models.ClassSection) error {
	if _, ok := m.classes[class.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *memoryClassRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.classes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.classes, id)
	delete(m.teachers, id)
	delete(m.students, id)
	return nil
}

func (m *memoryClassRepo) AddTeacher(_ context.Context, classID, teacherID uint) error {
	m.teachers[classID] = append(m.teachers[classID], teacherID)
	return nil
}

func (m *memoryClassRepo) RemoveTeacher(_ context.Context, classID, teacherID uint) error {
	linked := m.teachers[classID]
	for i, id := range linked {
		if id == teacherID {
			m.teachers[classID] = append(linked[:i], linked[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryClassRepo) ListTeachers(_ context.Context, classID uint) ([]models.ClassTeacher, error) {
	var links []models.ClassTeacher
	for _, id := range m.teachers[classID] {
		links = append(links, models.ClassTeacher{ClassID: classID, TeacherID: id})
	}
	return links, nil
}

func (m *memoryClassRepo) IsTeacher(_ context.Context, classID, teacherID uint) (bool, error) {
	class, ok := m.classes[classID]
	if !ok {
		return false, nil
	}
	if class.OwnerID == teacherID {
		return true, nil
	}
	for _, id := range m.teachers[classID] {
		if id == teacherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryClassRepo) Enroll(_ context.Context, classID, studentID uint) error {
	m.students[classID] = append(m.students[classID], studentID)
	return nil
}

func (m *memoryClassRepo) ListStudents(_ context.Context, classID uint) ([]models.ClassEnrollment, error) {
	var enrollments []models.ClassEnrollment
	for _, id := range m.students[classID] {
		enrollments = append(enrollments, models.ClassEnrollment{ClassID: classID, StudentID: id})
	}
	return enrollments, nil
}

func (m *memoryClassRepo) IsEnrolled(_ context.Context, classID, studentID uint) (bool, error) {
	for _, id := range m.students[classID] {
		if id == studentID {
			return true, nil
		}
	}
	return false, nil
}

type memoryAssignmentRepo struct {
	assignments map[uint]models.Assignment
	templates   *memoryTemplateRepo
	nextID      uint
}

func newMemoryAssignmentRepo(templates *memoryTemplateRepo) *memoryAssignmentRepo {
	return &memoryAssignmentRepo{
		assignments: make(map[uint]models.Assignment),
		templates:   templates,
		nextID:      1,
	}
}

func (m *memoryAssignmentRepo) withTemplate(assignment models.Assignment) models.Assignment {
	if assignment.TemplateID != nil && m.templates != nil {
		if template, ok := m.templates.templates[*assignment.TemplateID]; ok {
			copied := template
			assignment.Template = &copied
		}
	}
	return assignment
}

func (m *memoryAssignmentRepo) ListByClass(_ context.Context, classID uint) ([]models.Assignment, error) {
	var results []models.Assignment
	for _, assignment := range m.assignments {
		if assignment.ClassID == classID {
			results = append(results, m.withTemplate(assignment))
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryAssignmentRepo) GetByID(_ context.Context, id uint) (models.Assignment, error) {
	assignment, ok := m.assignments[id]
	if !ok {
		return models.Assignment{}, gorm.ErrRecordNotFound
	}
	return m.withTemplate(assignment), nil
}

func (m *memoryAssignmentRepo) Create(_ context.Context, assignment *models.Assignment) error {
	assignment.ID = m.nextID
	assignment.CreatedAt = time.Now()
	m.assignments[m.nextID] = *assignment
	m.nextID++
	return nil
}

func (m *memoryAssignmentRepo) Update(_ context.Context, assignment *models.Assignment) error {
	if _, ok := m.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *assignment
	stored.Template = nil
	m.assignments[assignment.ID] = stored
	return nil
}

func (m *memoryAssignmentRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.assignments[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.assignments, id)
	return nil
}

func (m *memoryAssignmentRepo) CountByTemplate(_ context.Context, templateID uint) (int64, error) {
	var count int64
	for _, assignment := range m.assignments {
		if assignment.TemplateID != nil && *assignment.TemplateID == templateID {
			count++
		}
	}
	return count, nil
}

type memoryTemplateRepo struct {
	templates map[uint]models.Template
	nextID    uint
}

func newMemoryTemplateRepo() *memoryTemplateRepo {
	return &memoryTemplateRepo{templates: make(map[uint]models.Template), nextID: 1}
}

func (m *memoryTemplateRepo) ListByOwner(_ context.Context, ownerID uint) ([]models.Template, error) {
	var results []models.Template
	for _, template := range m.templates {
		if template.OwnerID == ownerID {
			results = append(results, template)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func (m *memoryTemplateRepo) GetByID(_ context.Context, id uint) (models.Template, error) {
	template, ok := m.templates[id]
	if !ok {
		return models.Template{}, gorm.ErrRecordNotFound
	}
	return template, nil
}

func (m *memoryTemplateRepo) Create(_ context.Context, template *models.Template) error {
	template.ID = m.nextID
	template.CreatedAt = time.Now()
	m.templates[m.nextID] = *template
	m.nextID++
	return nil
}

func (m *memoryTemplateRepo) Update(_ context.Context, template *models.Template) error {
	if _, ok := m.templates[template.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.templates[template.ID] = *template
	return nil
}

func (m *memoryTemplateRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.templates[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.templates, id)
	return nil
}

// memoryContentRepo mimics the ID assignment and category index rewrite the
// real repository performs on Replace.
type memoryContentRepo struct {
	sets   map[string]repository.ContentSet
	nextID uint
}

func newMemoryContentRepo() *memoryContentRepo {
	return &memoryContentRepo{sets: make(map[string]repository.ContentSet), nextID: 1}
}

func contentKey(owner repository.ContentOwner) string {
	if owner.AssignmentID != nil {
		return fmt.Sprintf("assignment:%d", *owner.AssignmentID)
	}
	return fmt.Sprintf("template:%d", *owner.TemplateID)
}

func (m *memoryContentRepo) Load(_ context.Context, owner repository.ContentOwner) (repository.ContentSet, error) {
	return m.sets[contentKey(owner)], nil
}

func (m *memoryContentRepo) Replace(_ context.Context, owner repository.ContentOwner, content repository.ContentSet) error {
	stored := repository.ContentSet{}

	categoryIDs := make([]uint, len(content.Categories))
	for i, category := range content.Categories {
		category.ID = m.nextID
		category.Position = i
		m.nextID++
		categoryIDs[i] = category.ID
		stored.Categories = append(stored.Categories, category)
	}

	for i, question := range content.Questions {
		options := question.Options
		question.ID = m.nextID
		question.Position = i
		question.Options = nil
		m.nextID++
		for _, option := range options {
			points := option.OutcomePoints
			option.ID = m.nextID
			option.QuestionID = question.ID
			option.OutcomePoints = nil
			m.nextID++
			for _, entry := range points {
				if entry.Points == 0 {
					continue
				}
				index := int(entry.CategoryID)
				if index < 0 || index >= len(categoryIDs) {
					return fmt.Errorf("outcome point references unknown category index %d", index)
				}
				option.OutcomePoints = append(option.OutcomePoints, models.OptionOutcomePoint{
					OptionID:   option.ID,
					CategoryID: categoryIDs[index],
					Points:     entry.Points,
				})
			}
			question.Options = append(question.Options, option)
		}
		stored.Questions = append(stored.Questions, question)
	}

	m.sets[contentKey(owner)] = stored
	return nil
}

func (m *memoryContentRepo) DeleteAll(_ context.Context, owner repository.ContentOwner) error {
	delete(m.sets, contentKey(owner))
	return nil
}

type memorySubmissionRepo struct {
	submissions map[uint]models.Submission
	answers     map[uint][]models.SubmissionAnswer
	attachments map[uint][]models.SubmissionAttachment
	assignments *memoryAssignmentRepo
	nextID      uint
}

func newMemorySubmissionRepo(assignments *memoryAssignmentRepo) *memorySubmissionRepo {
	return &memorySubmissionRepo{
		submissions: make(map[uint]models.Submission),
		answers:     make(map[uint][]models.SubmissionAnswer),
		attachments: make(map[uint][]models.SubmissionAttachment),
		assignments: assignments,
		nextID:      1,
	}
}

func (m *memorySubmissionRepo) hydrate(submission models.Submission) models.Submission {
	submission.Answers = m.answers[submission.ID]
	submission.Attachments = m.attachments[submission.ID]
	if m.assignments != nil {
		if assignment, err := m.assignments.GetByID(context.Background(), submission.AssignmentID); err == nil {
			submission.Assignment = assignment
		}
	}
	return submission
}

func (m *memorySubmissionRepo) GetByID(_ context.Context, id uint) (models.Submission, error) {
	submission, ok := m.submissions[id]
	if !ok {
		return models.Submission{}, gorm.ErrRecordNotFound
	}
	return m.hydrate(submission), nil
}

func (m *memorySubmissionRepo) GetByAssignmentAndStudent(_ context.Context, assignmentID, studentID uint) (models.Submission, error) {
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID && submission.StudentID == studentID {
			return m.hydrate(submission), nil
		}
	}
	return models.Submission{}, gorm.ErrRecordNotFound
}

func (m *memorySubmissionRepo) ListByAssignment(_ context.Context, assignmentID uint) ([]models.Submission, error) {
	var results []models.Submission
	for _, submission := range m.submissions {
		if submission.AssignmentID == assignmentID {
			results = append(results, m.hydrate(submission))
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) ListForStudent(_ context.Context, studentID uint, assignmentIDs []uint) ([]models.Submission, error) {
	wanted := make(map[uint]struct{}, len(assignmentIDs))
	for _, id := range assignmentIDs {
		wanted[id] = struct{}{}
	}
	var results []models.Submission
	for _, submission := range m.submissions {
		if submission.StudentID != studentID {
			continue
		}
		if _, ok := wanted[submission.AssignmentID]; ok {
			results = append(results, m.hydrate(submission))
		}
	}
	return results, nil
}

func (m *memorySubmissionRepo) Upsert(_ context.Context, submission *models.Submission, answers []models.SubmissionAnswer, attachments []models.SubmissionAttachment) error {
	for _, existing := range m.submissions {
		if existing.AssignmentID == submission.AssignmentID && existing.StudentID == submission.StudentID {
			submission.ID = existing.ID
			submission.CreatedAt = existing.CreatedAt
			break
		}
	}
	if submission.ID == 0 {
		submission.ID = m.nextID
		submission.CreatedAt = time.Now()
		m.nextID++
	}
	stored := *submission
	stored.Answers = nil
	stored.Attachments = nil
	stored.Assignment = models.Assignment{}
	m.submissions[submission.ID] = stored

	m.answers[submission.ID] = nil
	for i := range answers {
		answers[i].SubmissionID = submission.ID
		m.answers[submission.ID] = append(m.answers[submission.ID], answers[i])
	}
	m.attachments[submission.ID] = nil
	for i := range attachments {
		attachments[i].SubmissionID = submission.ID
		m.attachments[submission.ID] = append(m.attachments[submission.ID], attachments[i])
	}
	return nil
}

func (m *memorySubmissionRepo) Delete(_ context.Context, id uint) error {
	if _, ok := m.submissions[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.submissions, id)
	delete(m.answers, id)
	delete(m.attachments, id)
	return nil
}
