package usage

import "time"

type ReportInput struct {
	APIName     string                 `json:"api_name" binding:"required"`
	Operation   string                 `json:"operation" binding:"required"`
	InputChars  int64                  `json:"input_chars" binding:"gte=0"`
	OutputChars int64                  `json:"output_chars" binding:"gte=0"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type BillResponse struct {
	ID          uint      `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	APIName     string    `json:"api_name"`
	Operation   string    `json:"operation"`
	InputChars  int64     `json:"input_chars"`
	OutputChars int64     `json:"output_chars"`
	Cost        float64   `json:"cost"`
	PointsCost  int64     `json:"points_cost"`
}
