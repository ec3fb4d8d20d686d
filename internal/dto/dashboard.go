package dto

type RecentRMADTO struct {
	ID          uint64 `json:"id"`
	RMANumber   string `json:"rma_number"`
	ProductName string `json:"product_name"`
	Status      string `json:"status"`
	StatusColor string `json:"status_color"`
	StatusIcon  string `json:"status_icon"`
	Summary     string `json:"summary"`
	DateCreated string `json:"date_created"`
}

type DashboardStatsDTO struct {
	Total        uint64         `json:"total"`
	Pending      uint64         `json:"pending"`
	InProgress   uint64         `json:"in_progress"`
	Completed    uint64         `json:"completed"`
	Cancelled    uint64         `json:"cancelled"`
	ManualsTotal uint64         `json:"manuals_total"`
	RecentRMAs   []RecentRMADTO `json:"recent_rmas"`
}
