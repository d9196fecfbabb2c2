package projection

import "github.com/hotelops/housekeeping/internal/domain"

// StatusCounts tallies requests per status.
type StatusCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
	Total      int `json:"total"`
}

// Stats counts requests by status. Requests in an unrecognized status are not counted.
func Stats(requests []domain.Request) StatusCounts {
	var counts StatusCounts
	for _, r := range requests {
		switch r.Status {
		case domain.RequestStatusPending:
			counts.Pending++
		case domain.RequestStatusInProgress:
			counts.InProgress++
		case domain.RequestStatusCompleted:
			counts.Completed++
		case domain.RequestStatusCancelled:
			counts.Cancelled++
		default:
			continue
		}
		counts.Total++
	}
	return counts
}
