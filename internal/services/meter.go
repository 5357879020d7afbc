package services

import "errors"

var ErrInvalidInput = errors.New("character counts must not be negative")

// PointsPerChar is the fixed conversion between generated characters and
// ledger points.
const PointsPerChar int64 = 1

// Meter converts the character counts of one generation into its monetary
// cost and point cost. Pure; performs no I/O.
func Meter(inputChars, outputChars int64, unitPrice float64) (cost float64, pointsCost int64, err error) {
	if inputChars < 0 || outputChars < 0 {
		return 0, 0, ErrInvalidInput
	}

	pointsCost = (inputChars + outputChars) * PointsPerChar
	cost = float64(pointsCost) * unitPrice
	return cost, pointsCost, nil
}
