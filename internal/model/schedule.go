package model

// Schedule is an entry of the fixed attendance-schedule catalog.
type Schedule struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	ContractualEnd string  `json:"contractual_end"` // HH:MM
}
