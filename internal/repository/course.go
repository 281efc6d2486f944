package repository

import (
	"context"
	"course-store/internal/model"

	"gorm.io/gorm"
)

type CourseRepository interface {
	FindByID(ctx context.Context, courseID string) (*model.Course, error)
	FindMany(ctx context.Context, courseIDs []string) ([]*model.Course, error)
	List(ctx context.Context) ([]*model.Course, error)
}

type courseRepoImpl struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepoImpl{db: db}
}

func (r *courseRepoImpl) FindByID(ctx context.Context, courseID string) (*model.Course, error) {
	var course model.Course
	err := r.db.WithContext(ctx).
		Where("id = ?", courseID).
		First(&course).Error
	if err != nil {
		return nil, err
	}

	return &course, nil
}

func (r *courseRepoImpl) FindMany(ctx context.Context, courseIDs []string) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.db.WithContext(ctx).
		Where("id IN ?", courseIDs).
		Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepoImpl) List(ctx context.Context) ([]*model.Course, error) {
	var courses []*model.Course
	err := r.db.WithContext(ctx).Order("title").Find(&courses).Error
	if err != nil {
		return nil, err
	}

	return courses, nil
}
