package dto

import (
	"customer-sync/internal/models"
)

// ListCustomersRequest represents the query parameters for listing stored customers
type ListCustomersRequest struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ListCustomersResponse echoes the requested page alongside the stored total
type ListCustomersResponse struct {
	Data  []models.Customer `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// SyncResponse is returned after a successful synchronization run
type SyncResponse struct {
	Status           string `json:"status"`
	RecordsProcessed int    `json:"records_processed"`
}

// ListSyncRunsRequest represents the query parameters for the sync history
type ListSyncRunsRequest struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// ListSyncRunsResponse lists recent synchronization runs, newest first
type ListSyncRunsResponse struct {
	Data []models.SyncRun `json:"data"`
}

// GetCustomerRequest binds the customer identifier from the path
type GetCustomerRequest struct {
	CustomerID string `param:"customer_id" validate:"required,customer_id"`
}

// GetSyncRunRequest binds the sync run identifier from the path
type GetSyncRunRequest struct {
	ID string `param:"id" validate:"required,uuid"`
}
