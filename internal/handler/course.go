package handler

import (
	"course-store/internal/dto"
	"course-store/internal/middleware"
	"course-store/internal/model"
	"course-store/internal/repository"
	"course-store/internal/service"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CourseHandler struct {
	courseRepo         repository.CourseRepository
	entitlementService service.EntitlementService
}

func NewCourseHandler(courseRepo repository.CourseRepository, entitlementService service.EntitlementService) *CourseHandler {
	return &CourseHandler{
		courseRepo:         courseRepo,
		entitlementService: entitlementService,
	}
}

func (h *CourseHandler) ListCourses(c echo.Context) error {
	ctx := c.Request().Context()

	courses, err := h.courseRepo.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCourseResponses(courses))
}

// MyCourses lists the courses the caller holds grants for, joined on the
// account email.
func (h *CourseHandler) MyCourses(c echo.Context) error {
	ctx := c.Request().Context()

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "login required")
	}

	courses, err := h.entitlementService.PurchasedCourses(ctx, identity.Email)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCourseResponses(courses))
}

func toCourseResponses(courses []*model.Course) []dto.CourseResponse {
	resp := make([]dto.CourseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, dto.CourseResponse{
			ID:          course.ID,
			Title:       course.Title,
			Description: course.Description,
			Price:       course.Price,
			Currency:    course.Currency,
		})
	}
	return resp
}
