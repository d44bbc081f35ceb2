package store

import (
	"context"
	"fmt"
	"strings"

	"tradelink/internal/domain/repository"

	"github.com/google/uuid"
)

// WriteStatus classifies the remote half of a dual-write.
type WriteStatus string

const (
	// WriteApplied means the gateway accepted the write.
	WriteApplied WriteStatus = "applied"
	// WriteNoEffect means the action has no remote representation. This is a
	// defined translation, not a missing one: notifications and the sync
	// family live only in local state.
	WriteNoEffect WriteStatus = "no_effect"
	// WriteFailed means the gateway rejected the write or was unreachable.
	WriteFailed WriteStatus = "failed"
)

// WriteResult is the typed outcome of persisting one action remotely. It is
// routed to the log sink and metrics, never back to the dispatching caller.
type WriteResult struct {
	Action string
	Status WriteStatus
	Err    error
}

// ActionName returns a stable label for an action variant, used in logs and
// metrics.
func ActionName(a Action) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", a), "store.")
}

// persistAction translates one action into the equivalent gateway writes.
// The mapping is total: every variant resolves to either concrete writes or
// an explicit no-effect. Moderation actions persist the entity as it looks
// in the post-transition state, which is passed in as after.
//
//nolint:gocyclo // one arm per action variant, exhaustive by design
func persistAction(ctx context.Context, gw repository.RemoteGateway, action Action, after State) WriteResult {
	name := ActionName(action)
	fail := func(err error) WriteResult {
		return WriteResult{Action: name, Status: WriteFailed, Err: err}
	}
	ok := func() WriteResult {
		return WriteResult{Action: name, Status: WriteApplied}
	}
	none := func() WriteResult {
		return WriteResult{Action: name, Status: WriteNoEffect}
	}

	switch a := action.(type) {
	case AddPendingUser:
		if err := gw.CreatePendingUser(ctx, a.Pending); err != nil {
			return fail(err)
		}

		return ok()

	case ApproveUser:
		user, found := after.UserByID(a.NewUserID)
		if !found {
			return none() // the reduce was a no-op (unknown pending id)
		}
		// The approved user row must exist before the pending row vanishes,
		// so a concurrent reader never observes neither.
		if err := gw.CreateUser(ctx, user); err != nil {
			return fail(err)
		}
		if err := gw.DeletePendingUser(ctx, a.PendingID); err != nil {
			return fail(err)
		}

		return ok()

	case RejectUser:
		if err := gw.DeletePendingUser(ctx, a.PendingID); err != nil {
			return fail(err)
		}

		return ok()

	case UpdateUser:
		if err := gw.UpdateUser(ctx, a.User); err != nil {
			return fail(err)
		}

		return ok()

	case SuspendUser:
		user, found := after.UserByID(a.UserID)
		if !found {
			return none()
		}
		if err := gw.UpdateUser(ctx, user); err != nil {
			return fail(err)
		}

		return ok()

	case BulkVerifyUsers:
		for _, id := range a.UserIDs {
			user, found := after.UserByID(id)
			if !found {
				continue
			}
			if err := gw.UpdateUser(ctx, user); err != nil {
				return fail(err)
			}
		}

		return ok()

	case AddProduct:
		if err := gw.CreateProduct(ctx, a.Product); err != nil {
			return fail(err)
		}

		return ok()

	case UpdateProduct:
		if err := gw.UpdateProduct(ctx, a.Product); err != nil {
			return fail(err)
		}

		return ok()

	case DeleteProduct:
		if err := gw.DeleteProduct(ctx, a.ProductID); err != nil {
			return fail(err)
		}

		return ok()

	case AddOrder:
		if err := gw.CreateOrder(ctx, a.Order); err != nil {
			return fail(err)
		}

		return ok()

	case UpdateOrderStatus:
		return persistOrder(ctx, gw, a.OrderID, after, name)

	case UpdateOrderPayment:
		return persistOrder(ctx, gw, a.OrderID, after, name)

	case AddPromotion:
		promotion, found := findPromotion(after.Promotions, a.Promotion.ID)
		if !found {
			return none()
		}
		// Persist the reduced record so an auto-approved promotion lands
		// remotely as approved, not pending.
		if err := gw.CreatePromotion(ctx, promotion); err != nil {
			return fail(err)
		}

		return ok()

	case ApprovePromotion:
		return persistPromotion(ctx, gw, a.PromotionID, after, name)

	case RejectPromotion:
		return persistPromotion(ctx, gw, a.PromotionID, after, name)

	case UpdatePromotion:
		return persistPromotion(ctx, gw, a.Promotion.ID, after, name)

	case DeletePromotion:
		if err := gw.DeletePromotion(ctx, a.PromotionID); err != nil {
			return fail(err)
		}

		return ok()

	case AddSupportTicket:
		if err := gw.CreateSupportTicket(ctx, a.Ticket); err != nil {
			return fail(err)
		}

		return ok()

	case UpdateSupportTicket:
		if err := gw.UpdateSupportTicket(ctx, a.Ticket); err != nil {
			return fail(err)
		}

		return ok()

	case AddReturnRequest:
		if err := gw.CreateReturnRequest(ctx, a.Request); err != nil {
			return fail(err)
		}

		return ok()

	case ApproveReturnRequest:
		return persistReturnRequest(ctx, gw, a.RequestID, after, name)

	case RejectReturnRequest:
		return persistReturnRequest(ctx, gw, a.RequestID, after, name)

	case UpdateReturnRequest:
		return persistReturnRequest(ctx, gw, a.Request.ID, after, name)

	case BroadcastAnnouncement, MarkNotificationRead, MarkAllNotificationsRead, DeleteNotification:
		return none() // notifications are local-only; no remote table tracks them

	case UpdatePlatformSettings:
		if err := gw.SavePlatformSettings(ctx, after.Settings); err != nil {
			return fail(err)
		}

		return ok()

	case ResetPlatformSettings:
		if err := gw.SavePlatformSettings(ctx, after.Settings); err != nil {
			return fail(err)
		}

		return ok()

	case SyncUpsertUser, SyncRemoveUser, SyncUpsertPendingUser, SyncRemovePendingUser,
		SyncUpsertProduct, SyncRemoveProduct, SyncUpsertPromotion, SyncRemovePromotion,
		SyncUpsertSupportTicket, SyncRemoveSupportTicket, SyncReplaceOrders,
		SyncReplaceReturnRequests, SyncSettings, SyncSnapshot, SyncReset:
		return none() // sync actions mirror remote state; writing back would loop

	default:
		return none()
	}
}

func persistOrder(ctx context.Context, gw repository.RemoteGateway, id uuid.UUID, after State, name string) WriteResult {
	order, found := after.OrderByID(id)
	if !found {
		return WriteResult{Action: name, Status: WriteNoEffect}
	}
	if err := gw.UpdateOrder(ctx, order); err != nil {
		return WriteResult{Action: name, Status: WriteFailed, Err: err}
	}

	return WriteResult{Action: name, Status: WriteApplied}
}

func persistPromotion(ctx context.Context, gw repository.RemoteGateway, id uuid.UUID, after State, name string) WriteResult {
	promotion, found := findPromotion(after.Promotions, id)
	if !found {
		return WriteResult{Action: name, Status: WriteNoEffect}
	}
	if err := gw.UpdatePromotion(ctx, promotion); err != nil {
		return WriteResult{Action: name, Status: WriteFailed, Err: err}
	}

	return WriteResult{Action: name, Status: WriteApplied}
}

func persistReturnRequest(ctx context.Context, gw repository.RemoteGateway, id uuid.UUID, after State, name string) WriteResult {
	request, found := findReturnRequest(after.ReturnRequests, id)
	if !found {
		return WriteResult{Action: name, Status: WriteNoEffect}
	}
	if err := gw.UpdateReturnRequest(ctx, request); err != nil {
		return WriteResult{Action: name, Status: WriteFailed, Err: err}
	}

	return WriteResult{Action: name, Status: WriteApplied}
}
