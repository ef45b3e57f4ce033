package dto

import "time"

// SnapshotResponse estado completo del usuario publicado por el feed de
// eventos: catálogo y historial enteros, nunca deltas.
type SnapshotResponse struct {
	Products []ProductResponse `json:"products"`
	Sales    []SaleResponse    `json:"sales"`
	TakenAt  time.Time         `json:"taken_at"`
}
