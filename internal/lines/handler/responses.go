package handler

import (
	"hotpicks/internal/lines"
	"hotpicks/internal/notify"
)

type LinesResponse struct {
	Lines []lines.Line     `json:"lines"`
	Email *notify.Delivery `json:"email,omitempty"`
}

type CompareResponse struct {
	Draw    lines.Draw          `json:"draw"`
	Reports []lines.MatchReport `json:"reports"`
}
