package projection

import (
	"fmt"
	"strings"
	"time"

	"github.com/hotelops/housekeeping/internal/domain"
)

// Tab selects which half of a worker queue to show.
type Tab string

const (
	TabPending   Tab = "pending"
	TabCompleted Tab = "completed"
	TabAll       Tab = "all"
)

// ParseTab maps query values onto a Tab. Empty means pending.
func ParseTab(raw string) (Tab, error) {
	switch Tab(strings.ToLower(strings.TrimSpace(raw))) {
	case "", TabPending:
		return TabPending, nil
	case TabCompleted:
		return TabCompleted, nil
	case TabAll:
		return TabAll, nil
	}
	return "", fmt.Errorf("unknown tab %q", raw)
}

// Viewer is the caller a queue is computed for.
type Viewer struct {
	ID   string
	Role domain.UserRole
}

// QueueOptions narrows a role queue.
type QueueOptions struct {
	Tab      Tab
	Date     *time.Time
	Location *time.Location
	Status   *domain.RequestStatus
	Term     string
}

// Queue returns the role-scoped work list for viewer.
func Queue(requests []domain.Request, viewer Viewer, opts QueueOptions) []domain.Request {
	if opts.Date != nil {
		requests = FilterByDate(requests, *opts.Date, opts.Location)
	}

	switch viewer.Role {
	case domain.UserRoleSupervisor:
		result := requests
		if opts.Status != nil {
			result = FilterByStatus(result, *opts.Status)
		}
		return SortNewestFirst(Search(result, opts.Term))
	case domain.UserRoleStriper:
		return tabView(FilterByCategory(requests, StripingTasks()), opts.Tab)
	default:
		return tabView(FilterByAssignee(requests, viewer.ID), opts.Tab)
	}
}

func tabView(requests []domain.Request, tab Tab) []domain.Request {
	switch tab {
	case TabCompleted:
		return SortForHistory(FilterByStatus(requests, domain.RequestStatusCompleted))
	case TabAll:
		return SortNewestFirst(requests)
	default:
		return SortForWork(Filter(requests, func(r domain.Request) bool { return !r.Status.Terminal() }))
	}
}
