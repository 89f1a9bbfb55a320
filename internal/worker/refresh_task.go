package worker

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"

	"skinvault/internal/domain"
	"skinvault/internal/domain/entity"
	"skinvault/pkg/application/modules"
)

const (
	TaskRefreshPrice = "skin:refresh_price"
	RefreshQueueName = "refresh"

	refreshMaxRetry = 1
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type RefreshPayload struct {
	OwnerID string `json:"owner_id"`
	SkinID  int64  `json:"skin_id"`
}

func NewRefreshTask(ownerID string, skinID int64) (*asynq.Task, error) {
	payload, err := json.Marshal(RefreshPayload{OwnerID: ownerID, SkinID: skinID})
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return asynq.NewTask(TaskRefreshPrice, payload, asynq.MaxRetry(refreshMaxRetry), asynq.Queue(RefreshQueueName)), nil
}

type enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RefreshQueue schedules single-skin refreshes on the asynq queue.
type RefreshQueue struct {
	client enqueuer
}

func NewRefreshQueue(client enqueuer) RefreshQueue {
	return RefreshQueue{
		client: client,
	}
}

func (q RefreshQueue) EnqueueRefresh(ctx context.Context, ownerID string, skinID int64) error {
	task, err := NewRefreshTask(ownerID, skinID)
	if err != nil {
		return domain.Internal(err, "failed to build refresh task")
	}

	if _, err = q.client.EnqueueContext(ctx, task); err != nil {
		return domain.Internal(err, "failed to enqueue refresh")
	}

	return nil
}

type priceRefresher interface {
	RefreshPrice(ctx context.Context, ownerID string, id int64) (entity.Skin, error)
}

// RefreshHandler executes queued refreshes. Client errors are not retried.
func RefreshHandler(skins priceRefresher) modules.AsynqHandler {
	return modules.AsynqHandler{
		Pattern: TaskRefreshPrice,
		Handle: func(ctx context.Context, task *asynq.Task) error {
			var payload RefreshPayload

			if err := json.Unmarshal(task.Payload(), &payload); err != nil {
				return fmt.Errorf("json.Unmarshal: %w: %w", err, asynq.SkipRetry)
			}

			_, err := skins.RefreshPrice(ctx, payload.OwnerID, payload.SkinID)
			if err == nil {
				return nil
			}

			switch domain.KindOf(err) {
			case domain.KindValidation, domain.KindNotFound, domain.KindUnauthenticated:
				return fmt.Errorf("skins.RefreshPrice: %w: %w", err, asynq.SkipRetry)
			default:
				return fmt.Errorf("skins.RefreshPrice: %w", err)
			}
		},
	}
}
