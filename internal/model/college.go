package model

import "time"

// College is an institution owned by exactly one admin.
type College struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo,omitempty"`
	Address   string    `json:"address"`
	AdminID   string    `json:"admin_id"`
	CreatedAt time.Time `json:"created_at"`
}
