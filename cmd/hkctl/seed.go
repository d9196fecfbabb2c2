package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hotelops/housekeeping/internal/domain"
	"github.com/hotelops/housekeeping/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo staff and requests",
	Long: `Registers demo staff, matched by email so reruns are safe, and creates
sample requests when the store holds none.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.close()

		if err := e.store.Migrate(cmd.Context()); err != nil {
			return err
		}
		requests := service.NewRequestService(service.RequestDependencies{
			RequestRepo: e.store.Requests,
			UserRepo:    e.store.Users,
			Logger:      e.logger,
		})
		return seed(cmd.Context(), e.logger, service.NewUserService(e.store.Users), requests)
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

type seedRequest struct {
	draft    service.RequestDraft
	assignee string
	status   domain.RequestStatus
}

func seed(ctx context.Context, logger *zap.Logger, users *service.UserService, requests *service.RequestService) error {
	staff := map[string]service.UserDraft{
		"supervisor":   {Name: "Chang Supervisor", Role: domain.UserRoleSupervisor, Email: strPtr("supervisor@hotel.com"), Phone: strPtr("0912345678")},
		"houseperson1": {Name: "Lee Houseperson", Role: domain.UserRoleHousePerson, Email: strPtr("houseperson1@hotel.com"), Phone: strPtr("0923456789")},
		"houseperson2": {Name: "Wang Houseperson", Role: domain.UserRoleHousePerson, Email: strPtr("houseperson2@hotel.com"), Phone: strPtr("0934567890")},
		"runner":       {Name: "Chen Runner", Role: domain.UserRoleRunner, Email: strPtr("runner@hotel.com"), Phone: strPtr("0945678901")},
		"striper":      {Name: "Lin Striper", Role: domain.UserRoleStriper, Email: strPtr("striper@hotel.com"), Phone: strPtr("0956789012")},
	}
	ids := make(map[string]string, len(staff))
	for key, draft := range staff {
		user, created, err := users.Ensure(ctx, draft)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", key, err)
		}
		ids[key] = user.ID
		logger.Info("seed user", zap.String("email", *draft.Email), zap.String("id", user.ID), zap.Bool("created", created))
	}

	existing, err := requests.List(ctx, service.RequestListFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info("requests already present; skipping sample requests", zap.Int("count", len(existing)))
		return nil
	}

	supervisor := ids["supervisor"]
	samples := []seedRequest{
		{draft: service.RequestDraft{RoomNumber: strPtr("101"), GuestName: strPtr("Mr. Chen"), RequestType: "HOUSEKEEPING", Priority: domain.RequestPriorityHigh,
			Description: "Extra towels and bathrobes", Notes: strPtr("Guest needs them tomorrow morning"), Location: strPtr("1F")}},
		{draft: service.RequestDraft{RoomNumber: strPtr("205"), GuestName: strPtr("Ms. Lin"), RequestType: "AMENITIES", Priority: domain.RequestPriorityMedium,
			Description: "Refill shampoo and body wash", Location: strPtr("2F")}, assignee: ids["houseperson1"], status: domain.RequestStatusInProgress},
		{draft: service.RequestDraft{RoomNumber: strPtr("312"), GuestName: strPtr("Mr. Huang"), RequestType: "MAINTENANCE", Priority: domain.RequestPriorityUrgent,
			Description: "Air conditioning not cooling", Notes: strPtr("Guest complained the room is too hot"), Location: strPtr("3F")}},
		{draft: service.RequestDraft{RequestType: "CLEANING", Priority: domain.RequestPriorityLow,
			Description: "Lobby sofa needs cleaning", Notes: strPtr("Cleaning done"), Location: strPtr("Lobby")}, assignee: ids["houseperson2"], status: domain.RequestStatusCompleted},
		{draft: service.RequestDraft{RoomNumber: strPtr("408"), GuestName: strPtr("Mrs. Wu"), RequestType: "TURNDOWN", Priority: domain.RequestPriorityMedium,
			Description: "Turndown service", Notes: strPtr("Guest returns at 8pm"), Location: strPtr("4F")}},
		{draft: service.RequestDraft{RoomNumber: strPtr("510"), RequestType: "STRIP_BED", Priority: domain.RequestPriorityHigh,
			Description: "Strip beds after checkout", TaskCategory: taskCategoryPtr(domain.TaskCategoryStriper), Location: strPtr("5F")}},
	}

	for _, sample := range samples {
		sample.draft.CreatedByID = supervisor
		request, err := requests.Create(ctx, sample.draft)
		if err != nil {
			return fmt.Errorf("seed request %q: %w", sample.draft.Description, err)
		}
		if sample.assignee != "" {
			if request, err = requests.Assign(ctx, nil, request.ID, sample.assignee); err != nil {
				return err
			}
		}
		if sample.status != "" && sample.status != request.Status {
			if request, err = requests.UpdateStatus(ctx, nil, request.ID, sample.status); err != nil {
				return err
			}
		}
		logger.Info("seed request", zap.String("id", request.ID), zap.String("status", string(request.Status)))
	}
	return nil
}

func strPtr(s string) *string { return &s }

func taskCategoryPtr(c domain.TaskCategory) *domain.TaskCategory { return &c }
