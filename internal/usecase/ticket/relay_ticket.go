package ticket

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/qj0r9j0vc2/ticket-bridge/internal/adapter/dto"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/entity"
	domainerrors "github.com/qj0r9j0vc2/ticket-bridge/internal/domain/errors"
	"github.com/qj0r9j0vc2/ticket-bridge/internal/domain/repository"
)

// RelayTicketUseCase enriches a ticket event with its comment thread and
// forwards the rendered message to the chat backend.
type RelayTicketUseCase struct {
	comments   repository.CommentRepository
	users      repository.UserRepository
	dispatcher Dispatcher
	builder    *MessageBuilder
	logger     Logger
	recorder   Recorder
}

// NewRelayTicketUseCase creates a new RelayTicketUseCase with dependencies.
func NewRelayTicketUseCase(
	comments repository.CommentRepository,
	users repository.UserRepository,
	dispatcher Dispatcher,
	builder *MessageBuilder,
	logger Logger,
	recorder Recorder,
) *RelayTicketUseCase {
	return &RelayTicketUseCase{
		comments:   comments,
		users:      users,
		dispatcher: dispatcher,
		builder:    builder,
		logger:     logger,
		recorder:   recorderOrNop(recorder),
	}
}

// Execute runs one event through the pipeline.
//
// Only two failures are returned: ErrMissingTicketID and dispatch errors.
// Enrichment problems are logged and degrade the message instead. A panic
// anywhere in the run is reported as a malformed-input error.
// The output is returned in all cases and records the final stage.
func (uc *RelayTicketUseCase) Execute(ctx context.Context, input dto.RelayTicketInput) (output *dto.RelayTicketOutput, err error) {
	start := time.Now()
	event := input.Event
	run := &relayRun{stage: entity.StageReceived, ticketID: event.ID, logger: uc.logger}
	output = &dto.RelayTicketOutput{TicketID: event.ID, Stage: entity.StageReceived}

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("panic during ticket relay",
				"ticket_id", event.ID,
				"stage", run.stage,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			err = domainerrors.NewMalformedInput(fmt.Sprint(r), nil)
		}

		if err != nil {
			run.advance(entity.StageFailed)
		} else {
			run.advance(entity.StageSucceeded)
		}
		output.Stage = run.stage
		uc.recorder.RecordTicketRelayed(ctx, output.Stage.String(), string(domainerrors.KindOf(err)), time.Since(start))
	}()

	// 1. Validate
	if !event.HasID() {
		uc.logger.Warn("ticket event rejected", "reason", "missing ticket id")
		return output, domainerrors.ErrMissingTicketID
	}
	run.advance(entity.StageValidated)

	// 2. Enrich: authors are resolved lazily while rendering, once per distinct id
	comments, degraded := uc.fetchComments(ctx, event.ID)
	output.CommentCount = len(comments)
	output.CommentsDegraded = degraded
	run.advance(entity.StageEnriched)

	// 3. Render
	authors := NewAuthorDirectory(uc.users, event.Requester, uc.logger, uc.recorder)
	blocks := uc.builder.Build(ctx, &event, comments, authors)
	output.BlockCount = len(blocks)
	output.AuthorLookups = authors.Lookups()
	run.advance(entity.StageRendered)

	// 4. Dispatch
	if err := uc.dispatch(ctx, event.ID, blocks); err != nil {
		return output, err
	}
	run.advance(entity.StageDispatched)

	uc.logger.Info("ticket relayed",
		"ticket_id", event.ID,
		"dispatcher", uc.dispatcher.Name(),
		"comments", output.CommentCount,
		"blocks", output.BlockCount,
		"author_lookups", output.AuthorLookups,
		"comments_degraded", degraded,
	)

	return output, nil
}

// fetchComments loads the comment thread. Any failure yields an empty thread.
func (uc *RelayTicketUseCase) fetchComments(ctx context.Context, ticketID int64) ([]*entity.Comment, bool) {
	comments, err := uc.comments.ListComments(ctx, ticketID)
	if err != nil {
		uc.logger.Warn("comment fetch failed, relaying summary only",
			"ticket_id", ticketID,
			"error", err,
		)
		uc.recorder.RecordCommentsFetched(ctx, 0, true)
		return nil, true
	}

	uc.recorder.RecordCommentsFetched(ctx, len(comments), false)
	return comments, false
}

// dispatch sends the blocks once and classifies any failure as a dispatch error.
func (uc *RelayTicketUseCase) dispatch(ctx context.Context, ticketID int64, blocks []entity.Block) error {
	start := time.Now()
	err := uc.dispatcher.Send(ctx, blocks)
	uc.recorder.RecordDispatch(ctx, uc.dispatcher.Name(), err == nil, time.Since(start))
	if err == nil {
		return nil
	}

	if !domainerrors.IsDispatchError(err) {
		err = domainerrors.NewDispatchError("sending via "+uc.dispatcher.Name(), 0, "", err)
	}

	uc.logger.Error("dispatch failed",
		"ticket_id", ticketID,
		"dispatcher", uc.dispatcher.Name(),
		"error", err,
	)
	return fmt.Errorf("dispatching ticket %d: %w", ticketID, err)
}

// relayRun tracks the stage of one pipeline execution.
type relayRun struct {
	stage    entity.PipelineStage
	ticketID int64
	logger   Logger
}

func (r *relayRun) advance(target entity.PipelineStage) {
	if !r.stage.CanAdvanceTo(target) {
		r.logger.Warn("ignoring illegal pipeline transition",
			"ticket_id", r.ticketID,
			"from", r.stage,
			"to", target,
		)
		return
	}
	r.logger.Debug("pipeline stage",
		"ticket_id", r.ticketID,
		"from", r.stage,
		"to", target,
	)
	r.stage = target
}
