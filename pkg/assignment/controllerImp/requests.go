package controllerImp

import (
	"time"

	"farmwork/entities"
	"farmwork/pkg/assignment/service"
)

type createReq struct {
	WorkerID      string    `json:"workerId" validate:"required"`
	LandPlotID    string    `json:"landPlotId" validate:"required"`
	WorkDate      string    `json:"workDate" validate:"required"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime" validate:"required"`
	HourlyRate    *float64  `json:"hourlyRate" validate:"required,gte=0"`
	Task          string    `json:"task" validate:"required"`
	LandArea      float64   `json:"landArea" validate:"required,gt=0"`
	CropType      *string   `json:"cropType"`
	Status        *string   `json:"status" validate:"omitempty,oneof=ASSIGNED IN_PROGRESS COMPLETED CANCELLED"`
	PaymentStatus *string   `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID CANCELLED"`
}

func (r createReq) input() service.CreateInput {
	in := service.CreateInput{
		WorkerID:   r.WorkerID,
		LandPlotID: r.LandPlotID,
		WorkDate:   r.WorkDate,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		HourlyRate: *r.HourlyRate,
		Task:       r.Task,
		LandArea:   r.LandArea,
		CropType:   r.CropType,
	}
	if r.Status != nil {
		st := entities.WorkStatus(*r.Status)
		in.Status = &st
	}
	if r.PaymentStatus != nil {
		ps := entities.PaymentStatus(*r.PaymentStatus)
		in.PaymentStatus = &ps
	}
	return in
}

// patchReq mirrors service.AssignmentPatch; absent keys stay nil.
type patchReq struct {
	WorkDate      *string    `json:"workDate"`
	StartTime     *time.Time `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	HourlyRate    *float64   `json:"hourlyRate" validate:"omitempty,gte=0"`
	Task          *string    `json:"task" validate:"omitempty,min=1"`
	LandArea      *float64   `json:"landArea" validate:"omitempty,gt=0"`
	CropType      *string    `json:"cropType"`
	Status        *string    `json:"status" validate:"omitempty,oneof=ASSIGNED IN_PROGRESS COMPLETED CANCELLED"`
	PaymentStatus *string    `json:"paymentStatus" validate:"omitempty,oneof=PENDING PAID CANCELLED"`
}

func (r patchReq) patch() service.AssignmentPatch {
	p := service.AssignmentPatch{
		WorkDate:   r.WorkDate,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		HourlyRate: r.HourlyRate,
		Task:       r.Task,
		LandArea:   r.LandArea,
		CropType:   r.CropType,
	}
	if r.Status != nil {
		st := entities.WorkStatus(*r.Status)
		p.Status = &st
	}
	if r.PaymentStatus != nil {
		ps := entities.PaymentStatus(*r.PaymentStatus)
		p.PaymentStatus = &ps
	}
	return p
}

type statusReq struct {
	Status string `json:"status" validate:"required,oneof=ASSIGNED IN_PROGRESS COMPLETED CANCELLED"`
}
