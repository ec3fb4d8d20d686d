package dto

import "github.com/aarondl/null/v8"

type RepairInfoDTO struct {
	Technician        string  `json:"technician"`
	SentDate          string  `json:"sent_date"`
	EstimatedCost     float64 `json:"estimated_cost"`
	ExternalRMANumber string  `json:"external_rma_number"`
}

type RMADTO struct {
	ID                 uint64          `json:"id"`
	RMANumber          string          `json:"rma_number"`
	ErpCode            string          `json:"erp_code"`
	ProductName        string          `json:"product_name"`
	SerialNumber       string          `json:"serial_number"`
	IssueDescription   string          `json:"issue_description"`
	Status             string          `json:"status"`
	CustomerName       string          `json:"customer_name"`
	CustomerEmail      string          `json:"customer_email"`
	BoundMachine       bool            `json:"bound_machine"`
	BoundMachineErp    string          `json:"bound_machine_erp,omitempty"`
	BoundMachineSerial string          `json:"bound_machine_serial,omitempty"`
	RepairInfo         *RepairInfoDTO  `json:"repair_info,omitempty"`
	Notes              []string        `json:"notes"`
	Attachments        []AttachmentDTO `json:"attachments,omitempty"`
	DateCreated        string          `json:"date_created"`
	UpdatedAt          string          `json:"updated_at,omitempty"`
}

type CreateRMADTO struct {
	RMANumber          string   `json:"rma_number" validate:"omitempty,max=64"`
	ErpCode            string   `json:"erp_code" validate:"required"`
	ProductName        string   `json:"product_name" validate:"required"`
	SerialNumber       string   `json:"serial_number" validate:"required"`
	IssueDescription   string   `json:"issue_description" validate:"required"`
	CustomerName       string   `json:"customer_name" validate:"required"`
	CustomerEmail      string   `json:"customer_email" validate:"required,email"`
	BoundMachine       bool     `json:"bound_machine"`
	BoundMachineErp    string   `json:"bound_machine_erp" validate:"required_if=BoundMachine true"`
	BoundMachineSerial string   `json:"bound_machine_serial" validate:"required_if=BoundMachine true"`
	Notes              []string `json:"notes"`
}

type UpdateRMADTO struct {
	ErpCode            null.String    `json:"erp_code"`
	ProductName        null.String    `json:"product_name"`
	SerialNumber       null.String    `json:"serial_number"`
	IssueDescription   null.String    `json:"issue_description"`
	Status             null.String    `json:"status" validate:"omitempty,oneof=pending in-progress completed cancelled"`
	CustomerName       null.String    `json:"customer_name"`
	CustomerEmail      null.String    `json:"customer_email" validate:"omitempty,email"`
	BoundMachine       null.Bool      `json:"bound_machine"`
	BoundMachineErp    null.String    `json:"bound_machine_erp"`
	BoundMachineSerial null.String    `json:"bound_machine_serial"`
	RepairInfo         *RepairInfoDTO `json:"repair_info"`
	Notes              *[]string      `json:"notes"`
}
