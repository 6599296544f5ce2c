package api

import "time"

type ReservationRequest struct {
	ResourceType       string         `json:"resource_type"`
	ResourceInstanceID string         `json:"resource_instance_id"`
	Date               string         `json:"date"`
	Shift              string         `json:"shift"`
	Periods            []string       `json:"periods"`
	Requester          string         `json:"requester"`
	GroupLabel         string         `json:"group_label"`
	Attributes         map[string]any `json:"attributes,omitempty"`
	Notes              string         `json:"notes,omitempty"`
}

type ReservationResponse struct {
	ID                 string         `json:"id"`
	ResourceType       string         `json:"resource_type"`
	ResourceInstanceID string         `json:"resource_instance_id"`
	Date               string         `json:"date"`
	Shift              string         `json:"shift"`
	Periods            []string       `json:"periods"`
	Requester          string         `json:"requester"`
	GroupLabel         string         `json:"group_label"`
	Attributes         map[string]any `json:"attributes,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	CreatedBy          string         `json:"created_by,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
}

type ConflictInfo struct {
	Requester          string   `json:"requester"`
	GroupLabel         string   `json:"group_label"`
	OverlappingPeriods []string `json:"overlapping_periods"`
}

type AttributeField struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type ResourceDescription struct {
	ResourceType string           `json:"resource_type"`
	Instances    []string         `json:"instances"`
	Attributes   []AttributeField `json:"attributes"`
}
