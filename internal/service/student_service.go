package service

import (
	"context"
	"fmt"

	"studentrecords/internal/model"
	"studentrecords/internal/storage"
)

// StudentService is the student table. Each call loads the whole table from
// the store; mutations write the whole table back inside storage.Modify, so
// they are serialized when the store is a storage.LockedStore.
type StudentService struct {
	store storage.Store
}

func NewStudentService(store storage.Store) *StudentService {
	return &StudentService{store: store}
}

// List returns every student in table order.
func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.store.Load(ctx)
}

// Add appends a new student and returns the assigned id.
func (s *StudentService) Add(ctx context.Context, fields model.StudentFields) (int, error) {
	var id int
	err := storage.Modify(ctx, s.store, func(students []model.Student) ([]model.Student, error) {
		id = NextID(students)
		return append(students, fields.WithID(id)), nil
	})
	if err != nil {
		return 0, fmt.Errorf("add student: %w", err)
	}
	return id, nil
}

func (s *StudentService) Get(ctx context.Context, id int) (model.Student, error) {
	students, err := s.store.Load(ctx)
	if err != nil {
		return model.Student{}, err
	}
	return FindByID(students, id)
}

// Search returns students whose name contains query, case-insensitively.
func (s *StudentService) Search(ctx context.Context, query string) ([]model.Student, error) {
	students, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return SearchByName(students, query), nil
}

// Update replaces the supplied fields of student id and returns the result.
func (s *StudentService) Update(ctx context.Context, id int, update model.StudentUpdate) (model.Student, error) {
	var student model.Student
	err := storage.Modify(ctx, s.store, func(students []model.Student) ([]model.Student, error) {
		updated, err := ApplyUpdate(students, id, update)
		if err != nil {
			return nil, err
		}
		student, err = FindByID(updated, id)
		return updated, err
	})
	if err != nil {
		return model.Student{}, fmt.Errorf("update student %d: %w", id, err)
	}
	return student, nil
}

func (s *StudentService) Delete(ctx context.Context, id int) error {
	err := storage.Modify(ctx, s.store, func(students []model.Student) ([]model.Student, error) {
		return RemoveByID(students, id)
	})
	if err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return nil
}

func (s *StudentService) Statistics(ctx context.Context) (model.Statistics, error) {
	students, err := s.store.Load(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	return ComputeStatistics(students)
}

// TopStudents returns the n best students by marks.
func (s *StudentService) TopStudents(ctx context.Context, n int) ([]model.Student, error) {
	students, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return TopN(students, n), nil
}

func (s *StudentService) CourseAverages(ctx context.Context) ([]model.CourseAverage, error) {
	students, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return CourseAverages(students), nil
}
