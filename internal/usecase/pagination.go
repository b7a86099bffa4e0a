package usecase

import (
	"time"

	"medical-appointment-booking/internal/delivery/dto"
	"medical-appointment-booking/internal/domain/entity"
)

// now is replaced in tests that depend on the current date.
var now = time.Now

func toPage(q dto.PageQuery) entity.Page {
	return entity.NewPage(q.Page, q.Limit)
}

func paginated[T any](items []T, page entity.Page, total int64) *dto.Paginated[T] {
	if items == nil {
		items = []T{}
	}
	return &dto.Paginated[T]{
		Items: items,
		Page:  page.Number,
		Limit: page.Size,
		Total: total,
	}
}
