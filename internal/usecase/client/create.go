package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/client-onboarding/internal/audit"
	domain "github.com/BruksfildServices01/client-onboarding/internal/domain/client"
	"github.com/BruksfildServices01/client-onboarding/internal/httperr"
	"github.com/BruksfildServices01/client-onboarding/internal/logger"
)

// ======================================================
// INPUT / RESULT
// ======================================================

type CreateClientInput struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	BusinessName string `json:"businessName"`
}

// Result is empty on success. Error holds a user-facing message; Code says
// which kind of failure produced it.
type Result struct {
	Error string `json:"error,omitempty"`
	Code  string `json:"-"`
}

const CodeStoreError = "store_error"

// WelcomeSendTimeout bounds one welcome email send. The send outlives the
// request context, so shutdown must wait at least this long.
const WelcomeSendTimeout = 20 * time.Second

func (r Result) OK() bool {
	return r.Error == ""
}

// ======================================================
// USE CASE
// ======================================================

type CreateClient struct {
	repo      domain.Repository
	notifier  domain.Notifier
	audit     *audit.Dispatcher
	fromEmail string
	lggr      *zap.Logger

	sendTimeout time.Duration
}

func NewCreateClient(
	repo domain.Repository,
	notifier domain.Notifier,
	audit *audit.Dispatcher,
	fromEmail string,
	lggr *zap.Logger,
) *CreateClient {
	return &CreateClient{
		repo:        repo,
		notifier:    notifier,
		audit:       audit,
		fromEmail:   fromEmail,
		lggr:        lggr.Named("create_client"),
		sendTimeout: WelcomeSendTimeout,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateClient) Execute(
	ctx context.Context,
	in CreateClientInput,
) Result {

	lggr := logger.FromContext(ctx, uc.lggr)

	// --------------------------------------------------
	// 1. Validation
	// --------------------------------------------------
	nc := domain.NewClient{
		Name:         in.Name,
		Email:        in.Email,
		BusinessName: in.BusinessName,
	}
	if err := domain.Validate(nc); err != nil {
		code := ""
		if be, ok := httperr.AsBusiness(err); ok {
			code = be.Code
		}
		return Result{Error: err.Error(), Code: code}
	}
	nc = domain.Normalize(nc)

	// --------------------------------------------------
	// 2. Insert (the only reportable failure)
	// --------------------------------------------------
	created, err := uc.repo.Insert(ctx, nc)
	if err != nil {
		lggr.Error("client insert failed", zap.Error(err))
		return Result{Error: domain.StoreMessage(err), Code: CodeStoreError}
	}

	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionClientCreated,
		Entity:   audit.EntityClient,
		EntityID: created.ID,
	})

	// --------------------------------------------------
	// 3. Welcome email, best effort
	// --------------------------------------------------
	uc.sendWelcome(ctx, lggr, created.ID, nc)

	return Result{}
}

// sendWelcome records the outcome and never reports it to the caller.
func (uc *CreateClient) sendWelcome(
	ctx context.Context,
	lggr *zap.Logger,
	clientID string,
	nc domain.NewClient,
) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.sendTimeout)
	defer cancel()

	messageID, err := uc.notifier.Send(sendCtx, domain.WelcomeEmail(uc.fromEmail, nc))
	if err != nil {
		lggr.Error("welcome email failed", zap.String("client_id", clientID), zap.Error(err))
		uc.audit.Dispatch(audit.Event{
			Action:   audit.ActionWelcomeEmailFailed,
			Entity:   audit.EntityClient,
			EntityID: clientID,
			Metadata: map[string]any{"error": err.Error()},
		})
		return
	}

	lggr.Info("welcome email sent", zap.String("client_id", clientID), zap.String("message_id", messageID))
	uc.audit.Dispatch(audit.Event{
		Action:   audit.ActionWelcomeEmailSent,
		Entity:   audit.EntityClient,
		EntityID: clientID,
		Metadata: map[string]any{"message_id": messageID},
	})
}
