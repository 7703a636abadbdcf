package service

import (
	"fmt"
	"math"
	"unicode/utf8"
)

const (
	SegmentLength = 160
	// MaxMessageLength caps a body at ten segments.
	MaxMessageLength = 10 * SegmentLength
	DefaultUnitPrice = 0.0075
)

// SegmentsFor returns how many SMS segments a body of length characters uses.
// An empty body still occupies one send slot.
func SegmentsFor(length int) int {
	if length <= 0 {
		return 1
	}
	return (length + SegmentLength - 1) / SegmentLength
}

// MessageLength counts characters, not bytes.
func MessageLength(body string) int {
	return utf8.RuneCountInString(body)
}

type CostEstimate struct {
	Characters int     `json:"characters"`
	Segments   int     `json:"segments"`
	Recipients int     `json:"recipients"`
	UnitPrice  float64 `json:"unitPrice"`
	Total      float64 `json:"total"`
}

// EstimateCost keeps Total unrounded; only Display rounds.
func EstimateCost(length, recipients int, unitPrice float64) CostEstimate {
	if recipients < 0 {
		recipients = 0
	}
	segments := SegmentsFor(length)
	return CostEstimate{
		Characters: length,
		Segments:   segments,
		Recipients: recipients,
		UnitPrice:  unitPrice,
		Total:      float64(recipients*segments) * unitPrice,
	}
}

// Rounded is Total rounded half away from zero to cents.
func (e CostEstimate) Rounded() float64 {
	return math.Round(e.Total*100) / 100
}

func (e CostEstimate) Display() string {
	return fmt.Sprintf("$%.2f", e.Rounded())
}
