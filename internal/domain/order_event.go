package domain

import "time"

type CartsExpiredEvent struct {
	Count         int       `json:"count"`
	RetentionDays int       `json:"retentionDays"`
	Cutoff        time.Time `json:"cutoff"`
	SweptAt       time.Time `json:"sweptAt"`
}
