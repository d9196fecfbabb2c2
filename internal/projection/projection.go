// Package projection derives read-only views over a request collection.
// Every function is pure: inputs are never modified and results are fresh slices.
package projection

import (
	"sort"
	"strings"
	"time"

	"github.com/hotelops/housekeeping/internal/domain"
)

// Predicate reports whether a request belongs to a view.
type Predicate func(domain.Request) bool

// Filter keeps requests matching pred.
func Filter(requests []domain.Request, pred Predicate) []domain.Request {
	result := make([]domain.Request, 0, len(requests))
	for _, request := range requests {
		if pred(request) {
			result = append(result, request)
		}
	}
	return result
}

// FilterByAssignee keeps requests assigned to userID whose status is not excluded.
func FilterByAssignee(requests []domain.Request, userID string, exclude ...domain.RequestStatus) []domain.Request {
	return Filter(requests, func(r domain.Request) bool {
		if !r.IsAssignedTo(userID) {
			return false
		}
		for _, status := range exclude {
			if r.Status == status {
				return false
			}
		}
		return true
	})
}

// FilterByStatus keeps requests in exactly the given status.
func FilterByStatus(requests []domain.Request, status domain.RequestStatus) []domain.Request {
	return Filter(requests, func(r domain.Request) bool { return r.Status == status })
}

// FilterByCategory keeps requests matching a category predicate.
func FilterByCategory(requests []domain.Request, pred Predicate) []domain.Request {
	return Filter(requests, pred)
}

// CategoryKeyword matches requests whose requestType contains the upper-cased keyword
// or whose description contains it in any case.
func CategoryKeyword(keyword string) Predicate {
	lower := strings.ToLower(keyword)
	upper := strings.ToUpper(keyword)
	return func(r domain.Request) bool {
		if keyword == "" {
			return false
		}
		return strings.Contains(r.RequestType, upper) || strings.Contains(strings.ToLower(r.Description), lower)
	}
}

// StripingTasks matches the stripping work queue.
func StripingTasks() Predicate {
	keyword := CategoryKeyword("strip")
	return func(r domain.Request) bool {
		if r.TaskCategory != nil && *r.TaskCategory == domain.TaskCategoryStriper {
			return true
		}
		return keyword(r)
	}
}

// FilterByDate keeps requests created on the same calendar day as date in loc.
// A nil loc uses time.Local.
func FilterByDate(requests []domain.Request, date time.Time, loc *time.Location) []domain.Request {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := date.In(loc).Date()
	return Filter(requests, func(r domain.Request) bool {
		cy, cm, cd := r.CreatedAt.In(loc).Date()
		return cy == y && cm == m && cd == d
	})
}

// SortForWork orders by priority rank, then newest first.
func SortForWork(requests []domain.Request) []domain.Request {
	result := clone(requests)
	sort.SliceStable(result, func(i, j int) bool {
		ri, rj := result[i].Priority.Rank(), result[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// SortForHistory orders by completion time, falling back to creation time, newest first.
func SortForHistory(requests []domain.Request) []domain.Request {
	result := clone(requests)
	sort.SliceStable(result, func(i, j int) bool {
		return historyTime(result[i]).After(historyTime(result[j]))
	})
	return result
}

// SortNewestFirst orders by creation time, newest first.
func SortNewestFirst(requests []domain.Request) []domain.Request {
	result := clone(requests)
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// Search keeps requests whose room number, guest name or description contains term.
// Matching is case-sensitive and an empty term keeps everything.
func Search(requests []domain.Request, term string) []domain.Request {
	if term == "" {
		return clone(requests)
	}
	return Filter(requests, func(r domain.Request) bool {
		if r.RoomNumber != nil && strings.Contains(*r.RoomNumber, term) {
			return true
		}
		if r.GuestName != nil && strings.Contains(*r.GuestName, term) {
			return true
		}
		return strings.Contains(r.Description, term)
	})
}

func historyTime(r domain.Request) time.Time {
	if r.CompletedAt != nil {
		return *r.CompletedAt
	}
	return r.CreatedAt
}

func clone(requests []domain.Request) []domain.Request {
	result := make([]domain.Request, len(requests))
	copy(result, requests)
	return result
}
