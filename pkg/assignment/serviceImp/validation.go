package serviceImp

import (
	"strings"
	"time"

	"farmwork/entities"
	"farmwork/pkg/apperror"
	"farmwork/pkg/assignment/repository"
	"farmwork/pkg/assignment/service"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// sortColumns maps the public sortBy names to columns.
var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
	"workDate":   "work_date",
	"startTime":  "start_time",
	"endTime":    "end_time",
	"hourlyRate": "hourly_rate",
	"status":     "status",
}

// normTime drops sub-second precision and pins the zone to UTC so stored
// windows compare consistently.
func normTime(t time.Time) time.Time { return t.UTC().Truncate(time.Second) }

func newAssignment(in service.CreateInput, loc *time.Location) (*entities.Assignment, error) {
	if strings.TrimSpace(in.WorkerID) == "" {
		return nil, apperror.Validation("workerId", "is required")
	}
	if strings.TrimSpace(in.LandPlotID) == "" {
		return nil, apperror.Validation("landPlotId", "is required")
	}
	date, err := entities.ParseDate(in.WorkDate, loc)
	if err != nil {
		return nil, apperror.Validation("workDate", err.Error())
	}

	a := &entities.Assignment{
		WorkerID:      in.WorkerID,
		LandPlotID:    in.LandPlotID,
		WorkDate:      date,
		StartTime:     normTime(in.StartTime),
		EndTime:       normTime(in.EndTime),
		HourlyRate:    in.HourlyRate,
		Task:          strings.TrimSpace(in.Task),
		LandArea:      in.LandArea,
		CropType:      in.CropType,
		Status:        entities.StatusAssigned,
		PaymentStatus: entities.PaymentPending,
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.PaymentStatus != nil {
		a.PaymentStatus = *in.PaymentStatus
	}
	if err := validateAssignment(a, loc); err != nil {
		return nil, err
	}
	return a, nil
}

// validatePatch rejects what can be judged from the patch alone, so a bad
// request never reaches the repository.
func validatePatch(p service.AssignmentPatch, loc *time.Location) error {
	if p.WorkDate != nil {
		if _, err := entities.ParseDate(*p.WorkDate, loc); err != nil {
			return apperror.Validation("workDate", err.Error())
		}
	}
	if p.StartTime != nil && p.EndTime != nil && !p.StartTime.Before(*p.EndTime) {
		return apperror.Validation("endTime", "must be after startTime")
	}
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		return apperror.Validation("hourlyRate", "must not be negative")
	}
	if p.LandArea != nil && *p.LandArea <= 0 {
		return apperror.Validation("landArea", "must be positive")
	}
	if p.Task != nil && strings.TrimSpace(*p.Task) == "" {
		return apperror.Validation("task", "is required")
	}
	if p.Status != nil {
		if _, err := entities.ParseWorkStatus(string(*p.Status)); err != nil {
			return apperror.Validation("status", err.Error())
		}
	}
	if p.PaymentStatus != nil {
		if _, err := entities.ParsePaymentStatus(string(*p.PaymentStatus)); err != nil {
			return apperror.Validation("paymentStatus", err.Error())
		}
	}
	return nil
}

func applyPatch(a *entities.Assignment, p service.AssignmentPatch, loc *time.Location) {
	if p.WorkDate != nil {
		a.WorkDate, _ = entities.ParseDate(*p.WorkDate, loc) // checked by validatePatch
	}
	if p.StartTime != nil {
		a.StartTime = normTime(*p.StartTime)
	}
	if p.EndTime != nil {
		a.EndTime = normTime(*p.EndTime)
	}
	if p.HourlyRate != nil {
		a.HourlyRate = *p.HourlyRate
	}
	if p.Task != nil {
		a.Task = strings.TrimSpace(*p.Task)
	}
	if p.LandArea != nil {
		a.LandArea = *p.LandArea
	}
	if p.CropType != nil {
		a.CropType = p.CropType
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.PaymentStatus != nil {
		a.PaymentStatus = *p.PaymentStatus
	}
}

// validateAssignment checks a complete record, new or merged. The workDate
// day runs midnight to midnight in loc.
func validateAssignment(a *entities.Assignment, loc *time.Location) error {
	if !a.StartTime.Before(a.EndTime) {
		return apperror.Validation("endTime", "must be after startTime")
	}
	day, err := time.ParseInLocation(entities.DateLayout, a.WorkDate, loc)
	if err != nil {
		return apperror.Validation("workDate", err.Error())
	}
	if entities.DateKey(a.StartTime, loc) != a.WorkDate {
		return apperror.Validation("startTime", "must fall on workDate "+a.WorkDate)
	}
	if a.EndTime.After(day.AddDate(0, 0, 1)) {
		return apperror.Validation("endTime", "must not run past the end of workDate "+a.WorkDate)
	}
	if a.HourlyRate < 0 {
		return apperror.Validation("hourlyRate", "must not be negative")
	}
	if a.LandArea <= 0 {
		return apperror.Validation("landArea", "must be positive")
	}
	if a.Task == "" {
		return apperror.Validation("task", "is required")
	}
	if _, err := entities.ParseWorkStatus(string(a.Status)); err != nil {
		return apperror.Validation("status", err.Error())
	}
	if _, err := entities.ParsePaymentStatus(string(a.PaymentStatus)); err != nil {
		return apperror.Validation("paymentStatus", err.Error())
	}
	return nil
}

func resolvePage(q service.PageQuery) (repository.Page, error) {
	p := repository.Page{Page: q.Page, Limit: q.Limit, SortBy: "created_at", SortDesc: true}
	if p.Page == 0 {
		p.Page = defaultPage
	}
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Page < 1 {
		return p, apperror.Validation("page", "must be at least 1")
	}
	if p.Limit < 1 || p.Limit > maxLimit {
		return p, apperror.Validation("limit", "must be between 1 and 100")
	}
	if q.SortBy != "" {
		col, ok := sortColumns[q.SortBy]
		if !ok {
			return p, apperror.Validation("sortBy", "unsupported sort field "+q.SortBy)
		}
		p.SortBy = col
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "desc":
		p.SortDesc = true
	case "asc":
		p.SortDesc = false
	default:
		return p, apperror.Validation("sortOrder", "must be asc or desc")
	}
	return p, nil
}
